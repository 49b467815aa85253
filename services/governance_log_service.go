package services

import (
	"context"
	"fmt"
	"time"

	"campus-governance-api/config"
	"campus-governance-api/models"

	"gorm.io/gorm"
)

// GovernanceLogService appends to and reads the governance audit trail.
type GovernanceLogService struct {
	db *gorm.DB
}

func NewGovernanceLogService(db *gorm.DB) *GovernanceLogService {
	if db == nil {
		db = config.DB
	}
	return &GovernanceLogService{db: db}
}

// GovernanceEntry describes one transition to record.
type GovernanceEntry struct {
	EventID    int
	TargetID   int
	TargetType string
	Action     string
	Actor      Actor
	FromStatus string
	ToStatus   string
	Comment    string
}

// Record appends an entry. Pass the surrounding transaction so the entry commits
// or rolls back with the transition it describes.
func (s *GovernanceLogService) Record(tx *gorm.DB, entry GovernanceEntry) error {
	if tx == nil {
		tx = s.db
	}

	row := models.GovernanceLog{
		TargetID:   entry.TargetID,
		TargetType: entry.TargetType,
		Action:     entry.Action,
		ActorID:    entry.Actor.UserID,
		FromStatus: entry.FromStatus,
		ToStatus:   entry.ToStatus,
		Comment:    entry.Comment,
		CreatedAt:  time.Now(),
	}
	if entry.EventID > 0 {
		eventID := entry.EventID
		row.EventID = &eventID
	}

	if err := tx.Create(&row).Error; err != nil {
		return fmt.Errorf("failed to write governance log: %w", err)
	}
	return nil
}

// AuditTrail is ListForEvent for callers holding governance:read. An event's
// organizer may always read the trail of that event.
func (s *GovernanceLogService) AuditTrail(ctx context.Context, eventID int, actor Actor) ([]models.GovernanceLog, error) {
	if actor.UserID <= 0 {
		return nil, fmt.Errorf("%w: no authenticated actor", ErrForbidden)
	}
	if !actor.Capabilities.Has(CapReadAudit) {
		event, err := findEvent(s.db.WithContext(ctx), eventID, lockNone)
		if err != nil {
			return nil, err
		}
		if event.OrganizerID != actor.UserID {
			return nil, RequireCapability(actor, CapReadAudit)
		}
	}
	return s.ListForEvent(ctx, eventID)
}

// ListForEvent returns every entry touching an event, oldest first.
func (s *GovernanceLogService) ListForEvent(ctx context.Context, eventID int) ([]models.GovernanceLog, error) {
	db := s.db.WithContext(ctx)
	if _, err := findEvent(db, eventID, ""); err != nil {
		return nil, err
	}

	var rows []models.GovernanceLog
	if err := db.Where("event_id = ?", eventID).
		Order("created_at ASC, log_id ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load governance log: %w", err)
	}
	return rows, nil
}
