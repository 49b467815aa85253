package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"campus-governance-api/config"
	"campus-governance-api/models"

	"gorm.io/gorm"
)

// WorkflowService moves events through CREATED -> PENDING_APPROVAL -> ACTIVE -> COMPLETED.
type WorkflowService struct {
	db   *gorm.DB
	logs *GovernanceLogService
}

func NewWorkflowService(db *gorm.DB) *WorkflowService {
	if db == nil {
		db = config.DB
	}
	return &WorkflowService{db: db, logs: NewGovernanceLogService(db)}
}

// CreateEventInput carries the fields an organizer supplies for a new event.
type CreateEventInput struct {
	Title     string
	Kind      string
	CollegeID *int
}

type transition struct {
	action         string
	capability     Capability
	from           string
	to             string
	requireComment bool
	// guard runs inside the transaction after the state check.
	guard func(tx *gorm.DB, event *models.Event) error
}

var (
	submitForApprovalTransition = transition{
		action:     models.GovernanceActionSubmitForApproval,
		capability: CapSubmitEvent,
		from:       models.EventStatusCreated,
		to:         models.EventStatusPendingApproval,
	}
	approveTransition = transition{
		action:     models.GovernanceActionApprove,
		capability: CapApproveEvent,
		from:       models.EventStatusPendingApproval,
		to:         models.EventStatusActive,
	}
	returnToDraftTransition = transition{
		action:         models.GovernanceActionReturnToDraft,
		capability:     CapApproveEvent,
		from:           models.EventStatusPendingApproval,
		to:             models.EventStatusCreated,
		requireComment: true,
	}
	completeTransition = transition{
		action:     models.GovernanceActionComplete,
		capability: CapApproveEvent,
		from:       models.EventStatusActive,
		to:         models.EventStatusCompleted,
		guard: func(tx *gorm.DB, event *models.Event) error {
			lock, err := findScoreLock(tx, event.EventID, lockForShare)
			if err != nil {
				return err
			}
			if lock == nil || !lock.Locked {
				return fmt.Errorf("%w: event %d", ErrScoresNotLocked, event.EventID)
			}
			return nil
		},
	}
)

// CreateEvent stores a new event in CREATED state owned by the actor.
func (s *WorkflowService) CreateEvent(ctx context.Context, actor Actor, input CreateEventInput) (*models.Event, error) {
	if err := RequireCapability(actor, CapCreateEvent); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrValidation)
	}
	kind := strings.ToLower(strings.TrimSpace(input.Kind))
	switch kind {
	case "":
		kind = models.EventKindEvent
	case models.EventKindEvent, models.EventKindHackathon:
	default:
		return nil, fmt.Errorf("%w: unknown event kind %q", ErrValidation, input.Kind)
	}

	event := models.Event{
		Title:         title,
		Kind:          kind,
		Status:        models.EventStatusCreated,
		DisplayStatus: models.DisplayStatusDraft,
		OrganizerID:   actor.UserID,
		CollegeID:     input.CollegeID,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&event).Error; err != nil {
			return fmt.Errorf("failed to create event: %w", err)
		}
		return s.logs.Record(tx, GovernanceEntry{
			EventID:    event.EventID,
			TargetID:   event.EventID,
			TargetType: models.GovernanceTargetEvent,
			Action:     models.GovernanceActionCreate,
			Actor:      actor,
			ToStatus:   event.Status,
		})
	})
	if err != nil {
		return nil, err
	}
	return &event, nil
}

// GetEvent loads an event by id.
func (s *WorkflowService) GetEvent(ctx context.Context, eventID int) (*models.Event, error) {
	return findEvent(s.db.WithContext(ctx), eventID, lockNone)
}

// SubmitForApproval moves a CREATED event to PENDING_APPROVAL.
func (s *WorkflowService) SubmitForApproval(ctx context.Context, eventID int, actor Actor) (*models.Event, error) {
	return s.apply(ctx, eventID, actor, "", submitForApprovalTransition)
}

// Approve moves a PENDING_APPROVAL event to ACTIVE.
func (s *WorkflowService) Approve(ctx context.Context, eventID int, actor Actor, comment string) (*models.Event, error) {
	return s.apply(ctx, eventID, actor, comment, approveTransition)
}

// ReturnToDraft sends a PENDING_APPROVAL event back to its organizer.
func (s *WorkflowService) ReturnToDraft(ctx context.Context, eventID int, actor Actor, comment string) (*models.Event, error) {
	return s.apply(ctx, eventID, actor, comment, returnToDraftTransition)
}

// Complete closes an ACTIVE event whose scores are locked.
func (s *WorkflowService) Complete(ctx context.Context, eventID int, actor Actor, comment string) (*models.Event, error) {
	return s.apply(ctx, eventID, actor, comment, completeTransition)
}

func (s *WorkflowService) apply(ctx context.Context, eventID int, actor Actor, comment string, t transition) (*models.Event, error) {
	if err := RequireCapability(actor, t.capability); err != nil {
		return nil, err
	}
	comment = strings.TrimSpace(comment)
	if t.requireComment && comment == "" {
		return nil, fmt.Errorf("%w: a comment is required to %s", ErrValidation, strings.ReplaceAll(t.action, "_", " "))
	}

	var event *models.Event
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		event, err = findEvent(tx, eventID, lockForUpdate)
		if err != nil {
			return err
		}

		if event.Status != t.from {
			return fmt.Errorf("%w: event %d is %s, %s requires %s",
				ErrInvalidTransition, eventID, event.Status, t.action, t.from)
		}
		if t.guard != nil {
			if err := t.guard(tx, event); err != nil {
				return err
			}
		}

		now := time.Now()
		res := tx.Model(&models.Event{}).
			Where("event_id = ? AND status = ?", eventID, t.from).
			Updates(map[string]interface{}{
				"status":     t.to,
				"updated_at": now,
			})
		if res.Error != nil {
			return fmt.Errorf("failed to update event %d: %w", eventID, res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: event %d changed status concurrently", ErrInvalidTransition, eventID)
		}

		from := event.Status
		event.Status = t.to
		event.UpdatedAt = now

		return s.logs.Record(tx, GovernanceEntry{
			EventID:    eventID,
			TargetID:   eventID,
			TargetType: models.GovernanceTargetEvent,
			Action:     t.action,
			Actor:      actor,
			FromStatus: from,
			ToStatus:   t.to,
			Comment:    comment,
		})
	})
	if err != nil {
		return nil, err
	}
	return event, nil
}
