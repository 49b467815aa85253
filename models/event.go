package models

import "time"

// Governance states of an event or hackathon. Only forward transitions exist,
// plus the return-to-draft extension from PENDING_APPROVAL.
const (
	EventStatusCreated         = "CREATED"
	EventStatusPendingApproval = "PENDING_APPROVAL"
	EventStatusActive          = "ACTIVE"
	EventStatusCompleted       = "COMPLETED"
)

// Display statuses evolve independently from the governance state machine.
const (
	DisplayStatusDraft              = "draft"
	DisplayStatusRegistrationOpen   = "registration_open"
	DisplayStatusRegistrationClosed = "registration_closed"
	DisplayStatusLive               = "live"
	DisplayStatusArchived           = "archived"
)

const (
	EventKindEvent     = "event"
	EventKindHackathon = "hackathon"
)

// Event is an event or hackathon moving through the approval pipeline.
type Event struct {
	EventID       int       `gorm:"primaryKey;column:event_id" json:"event_id"`
	Title         string    `gorm:"column:title" json:"title"`
	Kind          string    `gorm:"column:kind;size:32" json:"kind"`
	Status        string    `gorm:"column:status;size:32;index" json:"status"`
	DisplayStatus string    `gorm:"column:display_status;size:32" json:"display_status"`
	OrganizerID   int       `gorm:"column:organizer_id" json:"organizer_id"`
	CollegeID     *int      `gorm:"column:college_id" json:"college_id,omitempty"`
	CreatedAt     time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at" json:"updated_at"`

	Organizer *User `gorm:"foreignKey:OrganizerID" json:"organizer,omitempty"`
}

func (Event) TableName() string {
	return "events"
}
