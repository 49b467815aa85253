package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"strings"
	"time"

	"campus-governance-api/config"
	"campus-governance-api/models"

	"github.com/go-playground/validator/v10"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// maxScoreUpsertAttempts bounds the retry after losing an insert race on
// idx_judge_scores_judge_submission.
const maxScoreUpsertAttempts = 3

var scoreValidator = validator.New()

// ScoreInput is a judge's score for one submission.
type ScoreInput struct {
	SubmissionID int
	Criteria     models.CriteriaScores
	TotalScore   float64
	Feedback     string
	IsDraft      bool
}

// ScoringService accepts draft and final judge scores.
type ScoringService struct {
	db       *gorm.DB
	logs     *GovernanceLogService
	minScore float64
	maxScore float64
}

func NewScoringService(db *gorm.DB) *ScoringService {
	if db == nil {
		db = config.DB
	}
	return &ScoringService{
		db:       db,
		logs:     NewGovernanceLogService(db),
		minScore: config.App.ScoreMin,
		maxScore: config.App.ScoreMax,
	}
}

// WithScoreBounds overrides the rubric bounds for the total score.
func (s *ScoringService) WithScoreBounds(min, max float64) *ScoringService {
	s.minScore = min
	s.maxScore = max
	return s
}

// ValidateScoreInput checks a score payload against the rubric bounds.
func ValidateScoreInput(input ScoreInput, min, max float64) error {
	if input.SubmissionID <= 0 {
		return fmt.Errorf("%w: submission id is required", ErrValidation)
	}
	if math.IsNaN(input.TotalScore) || math.IsInf(input.TotalScore, 0) {
		return fmt.Errorf("%w: total score must be a number", ErrValidation)
	}
	if input.TotalScore < min || input.TotalScore > max {
		return fmt.Errorf("%w: total score %v outside [%v, %v]", ErrValidation, input.TotalScore, min, max)
	}

	seen := make(map[string]struct{}, len(input.Criteria))
	for i, criterion := range input.Criteria {
		if err := scoreValidator.Struct(criterion); err != nil {
			return fmt.Errorf("%w: criterion %d: %v", ErrValidation, i+1, err)
		}
		name := strings.ToLower(strings.TrimSpace(criterion.Name))
		if name == "" {
			return fmt.Errorf("%w: criterion %d has no name", ErrValidation, i+1)
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("%w: criterion %q listed twice", ErrValidation, criterion.Name)
		}
		seen[name] = struct{}{}
		if criterion.MaxScore > 0 && criterion.Score > criterion.MaxScore {
			return fmt.Errorf("%w: criterion %q scored %v above its max %v",
				ErrValidation, criterion.Name, criterion.Score, criterion.MaxScore)
		}
	}
	return nil
}

func normalizeCriteria(criteria models.CriteriaScores) models.CriteriaScores {
	out := make(models.CriteriaScores, 0, len(criteria))
	for _, c := range criteria {
		c.Name = strings.TrimSpace(c.Name)
		out = append(out, c)
	}
	return out
}

// SubmitScore creates or updates the judge's score for a submission. Drafts may be
// overwritten until the score is submitted or the event's scores are locked.
func (s *ScoringService) SubmitScore(ctx context.Context, judge Actor, input ScoreInput) (*models.JudgeScore, error) {
	if judge.UserID <= 0 {
		return nil, fmt.Errorf("%w: no authenticated judge", ErrForbidden)
	}
	if err := ValidateScoreInput(input, s.minScore, s.maxScore); err != nil {
		return nil, err
	}
	input.Criteria = normalizeCriteria(input.Criteria)
	input.Feedback = strings.TrimSpace(input.Feedback)

	for attempt := 1; ; attempt++ {
		score, err := s.submitScoreOnce(ctx, judge, input)
		if errors.Is(err, gorm.ErrDuplicatedKey) && attempt < maxScoreUpsertAttempts {
			// Another request inserted the row first; the next pass takes the update path.
			log.Printf("judge score insert race for judge=%d submission=%d, retrying", judge.UserID, input.SubmissionID)
			continue
		}
		if err != nil {
			return nil, err
		}
		return score, nil
	}
}

func (s *ScoringService) submitScoreOnce(ctx context.Context, judge Actor, input ScoreInput) (*models.JudgeScore, error) {
	var score models.JudgeScore
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		submission, err := findSubmission(tx, input.SubmissionID)
		if err != nil {
			return err
		}
		if submission.EventID == nil {
			return fmt.Errorf("%w: submission %d has no event", ErrNotJudgeable, submission.SubmissionID)
		}
		eventID := *submission.EventID

		// The event row lock orders this write against other score writes and against
		// ScoreLockService.Lock on the same event. Later reads are locking reads so they
		// see rows committed while this transaction waited.
		if _, err := findEvent(tx, eventID, lockForUpdate); err != nil {
			if errors.Is(err, ErrNotFound) {
				return fmt.Errorf("%w: event %d of submission %d does not exist", ErrNotJudgeable, eventID, submission.SubmissionID)
			}
			return err
		}

		assignment, err := findActiveAssignment(tx, eventID, judge.UserID, lockForShare)
		if err != nil {
			return err
		}
		if assignment == nil {
			return fmt.Errorf("%w: judge %d, event %d", ErrNotAssignedJudge, judge.UserID, eventID)
		}

		lock, err := findScoreLock(tx, eventID, lockForShare)
		if err != nil {
			return err
		}
		if lock != nil && lock.Locked {
			return fmt.Errorf("%w: event %d", ErrScoresLocked, eventID)
		}

		now := time.Now()
		status := models.ScoreStatusSubmitted
		if input.IsDraft {
			status = models.ScoreStatusDraft
		}

		var existing models.JudgeScore
		err = withRowLock(tx, lockForUpdate).
			Where("judge_id = ? AND submission_id = ?", judge.UserID, submission.SubmissionID).
			Take(&existing).Error
		fromStatus := ""
		switch {
		case err == nil:
			if existing.IsFinal() {
				return fmt.Errorf("%w: judge %d, submission %d", ErrScoreFinalized, judge.UserID, submission.SubmissionID)
			}
			fromStatus = existing.Status
			score = existing
			score.CriteriaScores = datatypes.NewJSONType(input.Criteria)
			score.TotalScore = input.TotalScore
			score.Feedback = input.Feedback
			score.Status = status
			score.EventID = eventID
			score.UpdatedAt = now
			if !input.IsDraft {
				score.SubmittedAt = &now
			}
			res := tx.Model(&models.JudgeScore{}).
				Where("score_id = ? AND status = ?", existing.ScoreID, models.ScoreStatusDraft).
				Updates(map[string]interface{}{
					"criteria_scores": score.CriteriaScores,
					"total_score":     score.TotalScore,
					"feedback":        score.Feedback,
					"status":          score.Status,
					"event_id":        score.EventID,
					"submitted_at":    score.SubmittedAt,
					"updated_at":      now,
				})
			if res.Error != nil {
				return fmt.Errorf("failed to update judge score: %w", res.Error)
			}
			if res.RowsAffected == 0 {
				return fmt.Errorf("%w: judge %d, submission %d", ErrScoreFinalized, judge.UserID, submission.SubmissionID)
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			score = models.JudgeScore{
				SubmissionID:   submission.SubmissionID,
				JudgeID:        judge.UserID,
				EventID:        eventID,
				CriteriaScores: datatypes.NewJSONType(input.Criteria),
				TotalScore:     input.TotalScore,
				Feedback:       input.Feedback,
				Status:         status,
				CreatedAt:      now,
				UpdatedAt:      now,
			}
			if !input.IsDraft {
				score.SubmittedAt = &now
			}
			if err := tx.Create(&score).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return err
				}
				return fmt.Errorf("failed to create judge score: %w", err)
			}
		default:
			return fmt.Errorf("failed to load judge score: %w", err)
		}

		action := models.GovernanceActionSubmitScore
		if input.IsDraft {
			action = models.GovernanceActionSaveDraftScore
		}
		return s.logs.Record(tx, GovernanceEntry{
			EventID:    eventID,
			TargetID:   score.ScoreID,
			TargetType: models.GovernanceTargetScore,
			Action:     action,
			Actor:      judge,
			FromStatus: fromStatus,
			ToStatus:   score.Status,
			Comment:    fmt.Sprintf("submission_id=%d total=%v", submission.SubmissionID, score.TotalScore),
		})
	})
	if err != nil {
		return nil, err
	}
	return &score, nil
}

// GetScore returns the judge's own score for a submission, or nil when there is none yet.
func (s *ScoringService) GetScore(ctx context.Context, judgeID, submissionID int) (*models.JudgeScore, error) {
	db := s.db.WithContext(ctx)
	if _, err := findSubmission(db, submissionID); err != nil {
		return nil, err
	}

	var score models.JudgeScore
	err := db.Where("judge_id = ? AND submission_id = ?", judgeID, submissionID).Take(&score).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load judge score: %w", err)
	}
	return &score, nil
}
