package models

import "time"

// ScoreLock freezes scoring for one event once Locked is set.
type ScoreLock struct {
	LockID    int       `gorm:"primaryKey;column:lock_id" json:"lock_id"`
	EventID   int       `gorm:"column:event_id;uniqueIndex" json:"event_id"`
	Locked    bool      `gorm:"column:locked" json:"locked"`
	LockedBy  int       `gorm:"column:locked_by" json:"locked_by"`
	LockedAt  time.Time `gorm:"column:locked_at" json:"locked_at"`
	Comment   string    `gorm:"column:comment" json:"comment"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (ScoreLock) TableName() string {
	return "score_locks"
}
