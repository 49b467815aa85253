package models

import (
	"strings"
	"time"
)

type User struct {
	UserID    int        `gorm:"primaryKey;column:user_id" json:"user_id"`
	UserFname string     `gorm:"column:user_fname" json:"user_fname"`
	UserLname string     `gorm:"column:user_lname" json:"user_lname"`
	Email     string     `gorm:"column:email;size:191;unique" json:"email"`
	RoleID    int        `gorm:"column:role_id" json:"role_id"`
	CollegeID *int       `gorm:"column:college_id" json:"college_id,omitempty"`
	CreateAt  *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt  *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt  *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	// Relations
	Role Role `gorm:"foreignKey:RoleID" json:"role,omitempty"`
}

// Role names a set of capabilities. Capabilities is a comma separated list;
// an empty value falls back to the built-in defaults for the role name.
type Role struct {
	RoleID       int        `gorm:"primaryKey;column:role_id" json:"role_id"`
	Role         string     `gorm:"column:role" json:"role"`
	Capabilities string     `gorm:"column:capabilities" json:"capabilities"`
	CreateAt     *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt     *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt     *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`
}

// TableName overrides
func (User) TableName() string {
	return "users"
}

func (Role) TableName() string {
	return "roles"
}

// FullName joins first and last name.
func (u User) FullName() string {
	return strings.TrimSpace(u.UserFname + " " + u.UserLname)
}
