package models

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

const (
	GovernanceTargetEvent      = "event"
	GovernanceTargetAssignment = "judge_assignment"
	GovernanceTargetScore      = "judge_score"
	GovernanceTargetScoreLock  = "score_lock"
)

const (
	GovernanceActionCreate            = "create"
	GovernanceActionSubmitForApproval = "submit_for_approval"
	GovernanceActionApprove           = "approve"
	GovernanceActionReturnToDraft     = "return_to_draft"
	GovernanceActionComplete          = "complete"
	GovernanceActionAssignJudge       = "assign_judge"
	GovernanceActionUnassignJudge     = "unassign_judge"
	GovernanceActionSaveDraftScore    = "save_draft_score"
	GovernanceActionSubmitScore       = "submit_score"
	GovernanceActionLockScores        = "lock_scores"
)

// ErrGovernanceLogImmutable is returned when something tries to rewrite the audit trail.
var ErrGovernanceLogImmutable = errors.New("governance log entries are append-only")

// GovernanceLog is one append-only audit record of a workflow transition.
type GovernanceLog struct {
	LogID      int       `gorm:"primaryKey;column:log_id" json:"log_id"`
	EventID    *int      `gorm:"column:event_id;index" json:"event_id,omitempty"`
	TargetID   int       `gorm:"column:target_id" json:"target_id"`
	TargetType string    `gorm:"column:target_type;size:32" json:"target_type"`
	Action     string    `gorm:"column:action;size:32" json:"action"`
	ActorID    int       `gorm:"column:actor_id" json:"actor_id"`
	FromStatus string    `gorm:"column:from_status;size:32" json:"from_status"`
	ToStatus   string    `gorm:"column:to_status;size:32" json:"to_status"`
	Comment    string    `gorm:"column:comment" json:"comment"`
	CreatedAt  time.Time `gorm:"column:created_at" json:"created_at"`
}

func (GovernanceLog) TableName() string {
	return "governance_logs"
}

func (GovernanceLog) BeforeUpdate(*gorm.DB) error {
	return ErrGovernanceLogImmutable
}

func (GovernanceLog) BeforeDelete(*gorm.DB) error {
	return ErrGovernanceLogImmutable
}
