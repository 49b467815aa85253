package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	ScoreStatusDraft     = "DRAFT"
	ScoreStatusSubmitted = "SUBMITTED"
)

// CriterionScore is one rubric line of a judge's score.
type CriterionScore struct {
	Name     string  `json:"name" validate:"required,max=100"`
	Score    float64 `json:"score" validate:"gte=0"`
	MaxScore float64 `json:"max_score,omitempty" validate:"gte=0"`
}

// CriteriaScores keeps rubric lines in the order the judge entered them.
type CriteriaScores []CriterionScore

// JudgeScore is the single score a judge gives a submission.
// (judge_id, submission_id) is unique.
type JudgeScore struct {
	ScoreID        int                                `gorm:"primaryKey;column:score_id" json:"score_id"`
	SubmissionID   int                                `gorm:"column:submission_id;uniqueIndex:idx_judge_scores_judge_submission,priority:2" json:"submission_id"`
	JudgeID        int                                `gorm:"column:judge_id;uniqueIndex:idx_judge_scores_judge_submission,priority:1" json:"judge_id"`
	EventID        int                                `gorm:"column:event_id;index" json:"event_id"`
	CriteriaScores datatypes.JSONType[CriteriaScores] `gorm:"column:criteria_scores" json:"criteria_scores"`
	TotalScore     float64                            `gorm:"column:total_score" json:"total_score"`
	Feedback       string                             `gorm:"column:feedback" json:"feedback"`
	Status         string                             `gorm:"column:status;size:16" json:"status"`
	SubmittedAt    *time.Time                         `gorm:"column:submitted_at" json:"submitted_at,omitempty"`
	CreatedAt      time.Time                          `gorm:"column:created_at" json:"created_at"`
	UpdatedAt      time.Time                          `gorm:"column:updated_at" json:"updated_at"`
}

func (JudgeScore) TableName() string {
	return "judge_scores"
}

// IsFinal reports whether the score is submitted and therefore immutable.
func (s JudgeScore) IsFinal() bool {
	return s.Status == ScoreStatusSubmitted
}
