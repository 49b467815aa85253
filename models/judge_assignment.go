package models

import "time"

const (
	AssignmentStatusAssigned  = "ASSIGNED"
	AssignmentStatusCompleted = "COMPLETED"
	AssignmentStatusCancelled = "CANCELLED"
)

// JudgeAssignment authorizes a judge to score an event's submissions.
type JudgeAssignment struct {
	AssignmentID int       `gorm:"primaryKey;column:assignment_id" json:"assignment_id"`
	EventID      int       `gorm:"column:event_id;index:idx_judge_assignments_lookup,priority:1" json:"event_id"`
	JudgeID      int       `gorm:"column:judge_id;index:idx_judge_assignments_lookup,priority:2" json:"judge_id"`
	Status       string    `gorm:"column:status;size:16;index:idx_judge_assignments_lookup,priority:3" json:"status"`
	AssignedBy   int       `gorm:"column:assigned_by" json:"assigned_by"`
	AssignedAt   time.Time `gorm:"column:assigned_at" json:"assigned_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at" json:"updated_at"`

	Judge *User `gorm:"foreignKey:JudgeID" json:"judge,omitempty"`
}

func (JudgeAssignment) TableName() string {
	return "judge_assignments"
}

// IsActive reports whether the assignment still grants scoring rights.
func (a JudgeAssignment) IsActive() bool {
	return a.Status == AssignmentStatusAssigned
}
