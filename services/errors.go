package services

import (
	"errors"
	"fmt"
)

// Failure kinds returned by governance operations. Every error a service returns
// wraps exactly one of these, or is an internal storage failure.
var (
	ErrNotFound   = errors.New("not found")
	ErrForbidden  = errors.New("forbidden")
	ErrConflict   = errors.New("conflict")
	ErrValidation = errors.New("validation failed")
)

var (
	ErrInvalidTransition = fmt.Errorf("%w: invalid status transition", ErrConflict)
	ErrAlreadyAssigned   = fmt.Errorf("%w: judge already assigned", ErrConflict)
	ErrNotJudgeable      = fmt.Errorf("%w: submission is not judgeable", ErrConflict)
	ErrScoresLocked      = fmt.Errorf("%w: scores locked", ErrConflict)
	ErrScoreFinalized    = fmt.Errorf("%w: score already finalized", ErrConflict)
	ErrScoresNotLocked   = fmt.Errorf("%w: scores are not locked yet", ErrConflict)
	ErrEventNotActive    = fmt.Errorf("%w: event is not accepting submissions", ErrConflict)
	ErrNotAssignedJudge  = fmt.Errorf("%w: judge is not assigned to this event", ErrForbidden)
)
