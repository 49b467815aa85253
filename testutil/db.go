// Package testutil builds throwaway SQLite databases with the governance schema.
package testutil

import (
	"fmt"
	"testing"
	"time"

	"campus-governance-api/config"
	"campus-governance-api/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Role ids seeded by SeedRoles.
const (
	RoleStudent   = 1
	RoleOrganizer = 2
	RoleHOD       = 3
	RoleDirector  = 4
	RoleJudge     = 5
	RoleAdmin     = 6
	RoleAuditor   = 7
)

// NewDB opens a private in-memory database and migrates it. A single connection
// keeps the in-memory database alive and serializes transactions.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, config.AutoMigrate(db))
	SeedRoles(t, db)
	return db
}

// SeedRoles inserts the standard campus roles. The auditor role carries an
// explicit capability list instead of the built-in defaults.
func SeedRoles(t testing.TB, db *gorm.DB) {
	t.Helper()
	roles := []models.Role{
		{RoleID: RoleStudent, Role: "student"},
		{RoleID: RoleOrganizer, Role: "organizer"},
		{RoleID: RoleHOD, Role: "hod"},
		{RoleID: RoleDirector, Role: "director"},
		{RoleID: RoleJudge, Role: "judge"},
		{RoleID: RoleAdmin, Role: "admin"},
		{RoleID: RoleAuditor, Role: "auditor", Capabilities: "scores:lock"},
	}
	require.NoError(t, db.Create(&roles).Error)
}

// CreateUser inserts an active user with the given role.
func CreateUser(t testing.TB, db *gorm.DB, roleID int, name string) models.User {
	t.Helper()
	now := time.Now()
	user := models.User{
		UserFname: name,
		UserLname: "Tester",
		Email:     fmt.Sprintf("%s.%d@campus.test", name, now.UnixNano()),
		RoleID:    roleID,
		CreateAt:  &now,
		UpdateAt:  &now,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

// CreateEvent inserts an event directly in the given governance status.
func CreateEvent(t testing.TB, db *gorm.DB, organizerID int, status string) models.Event {
	t.Helper()
	event := models.Event{
		Title:         "Campus Hack Night",
		Kind:          models.EventKindHackathon,
		Status:        status,
		DisplayStatus: models.DisplayStatusDraft,
		OrganizerID:   organizerID,
	}
	require.NoError(t, db.Create(&event).Error)
	return event
}

// CreateSubmission inserts a team submission for an event.
func CreateSubmission(t testing.TB, db *gorm.DB, eventID int, teamName string) models.Submission {
	t.Helper()
	submission := models.Submission{
		EventID:  &eventID,
		TeamName: teamName,
		Title:    teamName + " project",
	}
	require.NoError(t, db.Create(&submission).Error)
	return submission
}
