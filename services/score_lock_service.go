package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"campus-governance-api/config"
	"campus-governance-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ScoreLockService owns the per-event gate that freezes scoring.
type ScoreLockService struct {
	db           *gorm.DB
	logs         *GovernanceLogService
	certificates CertificateRequester
}

// NewScoreLockService builds the service; a nil requester uses DefaultCertificateRequester.
func NewScoreLockService(db *gorm.DB, certificates CertificateRequester) *ScoreLockService {
	if db == nil {
		db = config.DB
	}
	if certificates == nil {
		certificates = DefaultCertificateRequester()
	}
	return &ScoreLockService{db: db, logs: NewGovernanceLogService(db), certificates: certificates}
}

// Lock freezes scoring for an event. Locking an already locked event succeeds and
// records the latest actor and time. Certificates are requested after commit.
func (s *ScoreLockService) Lock(ctx context.Context, eventID int, actor Actor, comment string) (*models.ScoreLock, error) {
	if err := RequireCapability(actor, CapLockScores); err != nil {
		return nil, err
	}
	comment = strings.TrimSpace(comment)

	var lock models.ScoreLock
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := findEvent(tx, eventID, lockForUpdate); err != nil {
			return err
		}

		previous, err := findScoreLock(tx, eventID, lockForUpdate)
		if err != nil {
			return err
		}
		fromStatus := "unlocked"
		if previous != nil && previous.Locked {
			fromStatus = "locked"
		}

		now := time.Now()
		row := models.ScoreLock{
			EventID:   eventID,
			Locked:    true,
			LockedBy:  actor.UserID,
			LockedAt:  now,
			Comment:   comment,
			UpdatedAt: now,
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "event_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"locked", "locked_by", "locked_at", "comment", "updated_at"}),
		}).Create(&row).Error; err != nil {
			return fmt.Errorf("failed to lock scores for event %d: %w", eventID, err)
		}

		current, err := findScoreLock(tx, eventID, lockNone)
		if err != nil {
			return err
		}
		if current == nil {
			return fmt.Errorf("score lock for event %d vanished after write", eventID)
		}
		lock = *current

		return s.logs.Record(tx, GovernanceEntry{
			EventID:    eventID,
			TargetID:   lock.LockID,
			TargetType: models.GovernanceTargetScoreLock,
			Action:     models.GovernanceActionLockScores,
			Actor:      actor,
			FromStatus: fromStatus,
			ToStatus:   "locked",
			Comment:    comment,
		})
	})
	if err != nil {
		return nil, err
	}

	dispatchCertificateRequest(ctx, s.certificates, newCertificateRequest(eventID, actor.UserID, lock.LockedAt, comment))
	return &lock, nil
}

// IsLocked reports whether scoring is frozen for an event; false when never locked.
func (s *ScoreLockService) IsLocked(ctx context.Context, eventID int) (bool, error) {
	lock, err := findScoreLock(s.db.WithContext(ctx), eventID, lockNone)
	if err != nil {
		return false, err
	}
	return lock != nil && lock.Locked, nil
}

// GetLock returns the lock row of an existing event, or nil when it was never locked.
func (s *ScoreLockService) GetLock(ctx context.Context, eventID int) (*models.ScoreLock, error) {
	db := s.db.WithContext(ctx)
	if _, err := findEvent(db, eventID, lockNone); err != nil {
		return nil, err
	}
	return findScoreLock(db, eventID, lockNone)
}
