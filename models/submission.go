package models

import (
	"fmt"
	"strings"
	"time"
)

// Submission is a team or individual entry to an event.
type Submission struct {
	SubmissionID int       `gorm:"primaryKey;column:submission_id" json:"submission_id"`
	EventID      *int      `gorm:"column:event_id;index" json:"event_id"`
	UserID       *int      `gorm:"column:user_id" json:"user_id,omitempty"`
	TeamName     string    `gorm:"column:team_name" json:"team_name,omitempty"`
	Title        string    `gorm:"column:title" json:"title"`
	ProjectURL   string    `gorm:"column:project_url" json:"project_url,omitempty"`
	CreatedAt    time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at" json:"updated_at"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (Submission) TableName() string {
	return "submissions"
}

// DisplayName is the label shown on the leaderboard.
func (s Submission) DisplayName() string {
	if name := strings.TrimSpace(s.TeamName); name != "" {
		return name
	}
	if s.User != nil {
		if name := s.User.FullName(); name != "" {
			return name
		}
	}
	if title := strings.TrimSpace(s.Title); title != "" {
		return title
	}
	return fmt.Sprintf("Submission #%d", s.SubmissionID)
}
