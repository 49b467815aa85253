package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"campus-governance-api/config"
	"campus-governance-api/models"

	"gorm.io/gorm"
)

// JudgeService keeps the registry of judges assigned to events.
type JudgeService struct {
	db   *gorm.DB
	logs *GovernanceLogService
}

func NewJudgeService(db *gorm.DB) *JudgeService {
	if db == nil {
		db = config.DB
	}
	return &JudgeService{db: db, logs: NewGovernanceLogService(db)}
}

// AssignJudge gives judgeID scoring rights on eventID. A second active assignment
// for the same pair is rejected with ErrAlreadyAssigned.
func (s *JudgeService) AssignJudge(ctx context.Context, eventID, judgeID int, actor Actor) (*models.JudgeAssignment, error) {
	if err := RequireCapability(actor, CapAssignJudges); err != nil {
		return nil, err
	}

	var assignment models.JudgeAssignment
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// The event row lock serializes concurrent assignments for the same event.
		if _, err := findEvent(tx, eventID, lockForUpdate); err != nil {
			return err
		}

		var judge models.User
		if err := tx.Where("user_id = ? AND delete_at IS NULL", judgeID).First(&judge).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: judge %d", ErrNotFound, judgeID)
			}
			return fmt.Errorf("failed to load judge %d: %w", judgeID, err)
		}

		existing, err := findActiveAssignment(tx, eventID, judgeID, lockNone)
		if err != nil {
			return err
		}
		if existing != nil {
			return fmt.Errorf("%w: judge %d on event %d", ErrAlreadyAssigned, judgeID, eventID)
		}

		now := time.Now()
		assignment = models.JudgeAssignment{
			EventID:    eventID,
			JudgeID:    judgeID,
			Status:     models.AssignmentStatusAssigned,
			AssignedBy: actor.UserID,
			AssignedAt: now,
			UpdatedAt:  now,
		}
		if err := tx.Create(&assignment).Error; err != nil {
			return fmt.Errorf("failed to create judge assignment: %w", err)
		}
		assignment.Judge = &judge

		return s.logs.Record(tx, GovernanceEntry{
			EventID:    eventID,
			TargetID:   assignment.AssignmentID,
			TargetType: models.GovernanceTargetAssignment,
			Action:     models.GovernanceActionAssignJudge,
			Actor:      actor,
			ToStatus:   assignment.Status,
			Comment:    fmt.Sprintf("judge_id=%d", judgeID),
		})
	})
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

// UnassignJudge cancels the active assignment of judgeID on eventID.
func (s *JudgeService) UnassignJudge(ctx context.Context, eventID, judgeID int, actor Actor) (*models.JudgeAssignment, error) {
	if err := RequireCapability(actor, CapAssignJudges); err != nil {
		return nil, err
	}

	var assignment *models.JudgeAssignment
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := findEvent(tx, eventID, lockForUpdate); err != nil {
			return err
		}

		var err error
		assignment, err = findActiveAssignment(tx, eventID, judgeID, lockForUpdate)
		if err != nil {
			return err
		}
		if assignment == nil {
			return fmt.Errorf("%w: no active assignment for judge %d on event %d", ErrNotFound, judgeID, eventID)
		}

		now := time.Now()
		if err := tx.Model(&models.JudgeAssignment{}).
			Where("assignment_id = ?", assignment.AssignmentID).
			Updates(map[string]interface{}{
				"status":     models.AssignmentStatusCancelled,
				"updated_at": now,
			}).Error; err != nil {
			return fmt.Errorf("failed to cancel judge assignment: %w", err)
		}
		assignment.Status = models.AssignmentStatusCancelled
		assignment.UpdatedAt = now

		return s.logs.Record(tx, GovernanceEntry{
			EventID:    eventID,
			TargetID:   assignment.AssignmentID,
			TargetType: models.GovernanceTargetAssignment,
			Action:     models.GovernanceActionUnassignJudge,
			Actor:      actor,
			FromStatus: models.AssignmentStatusAssigned,
			ToStatus:   models.AssignmentStatusCancelled,
			Comment:    fmt.Sprintf("judge_id=%d", judgeID),
		})
	})
	if err != nil {
		return nil, err
	}
	return assignment, nil
}

// IsAssigned answers whether judgeID may score eventID.
func (s *JudgeService) IsAssigned(ctx context.Context, judgeID, eventID int) (bool, error) {
	assignment, err := findActiveAssignment(s.db.WithContext(ctx), eventID, judgeID, lockNone)
	if err != nil {
		return false, err
	}
	return assignment != nil, nil
}

// ListAssignments returns all assignments of an event, newest first.
func (s *JudgeService) ListAssignments(ctx context.Context, eventID int) ([]models.JudgeAssignment, error) {
	db := s.db.WithContext(ctx)
	if _, err := findEvent(db, eventID, lockNone); err != nil {
		return nil, err
	}

	var rows []models.JudgeAssignment
	if err := db.Preload("Judge").
		Where("event_id = ?", eventID).
		Order("assigned_at DESC, assignment_id DESC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load judge assignments: %w", err)
	}
	return rows, nil
}

// findActiveAssignment is a point lookup on idx_judge_assignments_lookup.
func findActiveAssignment(tx *gorm.DB, eventID, judgeID int, strength string) (*models.JudgeAssignment, error) {
	var assignment models.JudgeAssignment
	err := withRowLock(tx, strength).Where("event_id = ? AND judge_id = ? AND status = ?", eventID, judgeID, models.AssignmentStatusAssigned).
		Take(&assignment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to check judge assignment: %w", err)
	}
	return &assignment, nil
}
