package services

import (
	"context"
	"fmt"
	"strings"

	"campus-governance-api/config"
	"campus-governance-api/models"

	"gorm.io/gorm"
)

// SubmissionService registers entries to active events.
type SubmissionService struct {
	db *gorm.DB
}

func NewSubmissionService(db *gorm.DB) *SubmissionService {
	if db == nil {
		db = config.DB
	}
	return &SubmissionService{db: db}
}

// CreateSubmissionInput is a team or individual entry.
type CreateSubmissionInput struct {
	Title      string
	TeamName   string
	ProjectURL string
}

// CreateSubmission records an entry owned by actor on an ACTIVE event.
func (s *SubmissionService) CreateSubmission(ctx context.Context, actor Actor, eventID int, input CreateSubmissionInput) (*models.Submission, error) {
	if actor.UserID <= 0 {
		return nil, fmt.Errorf("%w: no authenticated actor", ErrForbidden)
	}
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrValidation)
	}

	var submission models.Submission
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		event, err := findEvent(tx, eventID, lockForShare)
		if err != nil {
			return err
		}
		if event.Status != models.EventStatusActive {
			return fmt.Errorf("%w: event %d is %s", ErrEventNotActive, eventID, event.Status)
		}

		userID := actor.UserID
		submission = models.Submission{
			EventID:    &eventID,
			UserID:     &userID,
			TeamName:   strings.TrimSpace(input.TeamName),
			Title:      title,
			ProjectURL: strings.TrimSpace(input.ProjectURL),
		}
		if err := tx.Create(&submission).Error; err != nil {
			return fmt.Errorf("failed to create submission: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &submission, nil
}

// GetSubmission loads a submission by id.
func (s *SubmissionService) GetSubmission(ctx context.Context, submissionID int) (*models.Submission, error) {
	return findSubmission(s.db.WithContext(ctx), submissionID)
}
