package services

import (
	"context"
	"testing"

	"campus-governance-api/models"
	"campus-governance-api/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCapabilitiesForRole(t *testing.T) {
	cases := []struct {
		role    models.Role
		granted []Capability
		denied  []Capability
	}{
		{
			role:    models.Role{Role: "Organizer"},
			granted: []Capability{CapCreateEvent, CapSubmitEvent},
			denied:  []Capability{CapApproveEvent, CapLockScores, CapAssignJudges},
		},
		{
			role:    models.Role{Role: "hod"},
			granted: []Capability{CapApproveEvent, CapLockScores, CapAssignJudges, CapReadAudit},
			denied:  []Capability{CapCreateEvent},
		},
		{
			role:   models.Role{Role: "student"},
			denied: []Capability{CapCreateEvent, CapApproveEvent, CapLockScores, CapReadAudit},
		},
		{
			role:    models.Role{Role: "student", Capabilities: " Scores:Lock , judges:assign"},
			granted: []Capability{CapLockScores, CapAssignJudges},
			denied:  []Capability{CapCreateEvent},
		},
		{
			role:    models.Role{Role: "admin"},
			granted: []Capability{CapCreateEvent, CapSubmitEvent, CapApproveEvent, CapAssignJudges, CapLockScores},
		},
		{
			role:   models.Role{Role: "visitor"},
			denied: []Capability{CapCreateEvent},
		},
	}

	for _, tc := range cases {
		t.Run(tc.role.Role+"/"+tc.role.Capabilities, func(t *testing.T) {
			set := CapabilitiesForRole(tc.role)
			for _, c := range tc.granted {
				assert.True(t, set.Has(c), "expected %s", c)
			}
			for _, c := range tc.denied {
				assert.False(t, set.Has(c), "did not expect %s", c)
			}
		})
	}
}

func TestRequireCapability(t *testing.T) {
	assert.ErrorIs(t, RequireCapability(Actor{}, CapCreateEvent), ErrForbidden)

	actor := Actor{UserID: 9, RoleName: "director", Capabilities: NewCapabilitySet(CapAssignJudges)}
	assert.NoError(t, RequireCapability(actor, CapAssignJudges))
	err := RequireCapability(actor, CapLockScores)
	require.ErrorIs(t, err, ErrForbidden)
	assert.Contains(t, err.Error(), "scores:lock")
}

func TestActorResolver(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	resolver := NewActorResolver(db)

	hod := testutil.CreateUser(t, db, testutil.RoleHOD, "harper")
	actor, err := resolver.ResolveActor(ctx, hod.UserID)
	require.NoError(t, err)
	assert.Equal(t, hod.UserID, actor.UserID)
	assert.Equal(t, "hod", actor.RoleName)
	assert.True(t, actor.Capabilities.Has(CapLockScores))

	_, err = resolver.ResolveActor(ctx, 123456)
	assert.ErrorIs(t, err, ErrNotFound)

	// A role created after the cache was filled is picked up by the forced refresh.
	require.NoError(t, db.Create(&models.Role{RoleID: 42, Role: "jury-chair", Capabilities: "judges:assign"}).Error)
	chair := testutil.CreateUser(t, db, 42, "casey")
	actor, err = resolver.ResolveActor(ctx, chair.UserID)
	require.NoError(t, err)
	assert.Equal(t, "jury-chair", actor.RoleName)
	assert.True(t, actor.Capabilities.Has(CapAssignJudges))
	assert.False(t, actor.Capabilities.Has(CapLockScores))

	// Unknown roles resolve to an actor without capabilities.
	stray := testutil.CreateUser(t, db, 777, "sky")
	actor, err = resolver.ResolveActor(ctx, stray.UserID)
	require.NoError(t, err)
	assert.Empty(t, actor.RoleName)
	assert.False(t, actor.Capabilities.Has(CapCreateEvent))

	// Capability edits become visible after Invalidate.
	require.NoError(t, db.Model(&models.Role{}).Where("role_id = ?", testutil.RoleHOD).
		Update("capabilities", "event:approve").Error)
	actor, err = resolver.ResolveActor(ctx, hod.UserID)
	require.NoError(t, err)
	assert.True(t, actor.Capabilities.Has(CapLockScores))

	resolver.Invalidate()
	actor, err = resolver.ResolveActor(ctx, hod.UserID)
	require.NoError(t, err)
	assert.False(t, actor.Capabilities.Has(CapLockScores))
	assert.True(t, actor.Capabilities.Has(CapApproveEvent))
}
