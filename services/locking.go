package services

import (
	"errors"
	"fmt"

	"campus-governance-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Row lock strengths used inside governance transactions. Dialects without row
// locking (SQLite) drop the clause; the tests run serialized there.
const (
	lockNone      = ""
	lockForShare  = "SHARE"
	lockForUpdate = "UPDATE"
)

func withRowLock(tx *gorm.DB, strength string) *gorm.DB {
	if strength == lockNone {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: strength})
}

// findEvent loads an event, optionally taking a row lock on it. The event row is
// the serialization point between score writes and the score lock.
func findEvent(tx *gorm.DB, eventID int, strength string) (*models.Event, error) {
	var event models.Event
	err := withRowLock(tx, strength).Where("event_id = ?", eventID).First(&event).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: event %d", ErrNotFound, eventID)
		}
		return nil, fmt.Errorf("failed to load event %d: %w", eventID, err)
	}
	return &event, nil
}

func findSubmission(tx *gorm.DB, submissionID int) (*models.Submission, error) {
	var submission models.Submission
	err := tx.Where("submission_id = ?", submissionID).First(&submission).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: submission %d", ErrNotFound, submissionID)
		}
		return nil, fmt.Errorf("failed to load submission %d: %w", submissionID, err)
	}
	return &submission, nil
}

// findScoreLock returns nil when the event has never been locked.
func findScoreLock(tx *gorm.DB, eventID int, strength string) (*models.ScoreLock, error) {
	var lock models.ScoreLock
	err := withRowLock(tx, strength).Where("event_id = ?", eventID).Take(&lock).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load score lock for event %d: %w", eventID, err)
	}
	return &lock, nil
}
