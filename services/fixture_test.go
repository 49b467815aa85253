package services

import (
	"context"
	"testing"
	"time"

	"campus-governance-api/models"
	"campus-governance-api/testutil"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type governanceFixture struct {
	db *gorm.DB

	organizer Actor
	hod       Actor
	director  Actor
	judge1    Actor
	judge2    Actor
	student   Actor

	certificates *recordingRequester
}

func newGovernanceFixture(t *testing.T) *governanceFixture {
	t.Helper()
	db := testutil.NewDB(t)
	resolver := NewActorResolver(db)

	resolve := func(roleID int, name string) Actor {
		user := testutil.CreateUser(t, db, roleID, name)
		actor, err := resolver.ResolveActor(context.Background(), user.UserID)
		require.NoError(t, err)
		return actor
	}

	return &governanceFixture{
		db:           db,
		organizer:    resolve(testutil.RoleOrganizer, "olivia"),
		hod:          resolve(testutil.RoleHOD, "hassan"),
		director:     resolve(testutil.RoleDirector, "dana"),
		judge1:       resolve(testutil.RoleJudge, "jin"),
		judge2:       resolve(testutil.RoleJudge, "jules"),
		student:      resolve(testutil.RoleStudent, "sam"),
		certificates: newRecordingRequester(),
	}
}

func (f *governanceFixture) workflow() *WorkflowService { return NewWorkflowService(f.db) }
func (f *governanceFixture) judges() *JudgeService      { return NewJudgeService(f.db) }
func (f *governanceFixture) scoring() *ScoringService {
	return NewScoringService(f.db).WithScoreBounds(0, 100)
}
func (f *governanceFixture) locks() *ScoreLockService {
	return NewScoreLockService(f.db, f.certificates)
}
func (f *governanceFixture) leaderboard() *LeaderboardService { return NewLeaderboardService(f.db) }

// activeEvent returns an ACTIVE event with judge1 assigned.
func (f *governanceFixture) activeEvent(t *testing.T) models.Event {
	t.Helper()
	event := testutil.CreateEvent(t, f.db, f.organizer.UserID, models.EventStatusActive)
	_, err := f.judges().AssignJudge(context.Background(), event.EventID, f.judge1.UserID, f.director)
	require.NoError(t, err)
	return event
}

func (f *governanceFixture) governanceActions(t *testing.T, eventID int) []string {
	t.Helper()
	entries, err := NewGovernanceLogService(f.db).ListForEvent(context.Background(), eventID)
	require.NoError(t, err)
	actions := make([]string, 0, len(entries))
	for _, e := range entries {
		actions = append(actions, e.Action)
	}
	return actions
}

type recordingRequester struct {
	requests chan CertificateRequest
}

func newRecordingRequester() *recordingRequester {
	return &recordingRequester{requests: make(chan CertificateRequest, 16)}
}

func (r *recordingRequester) RequestCertificates(_ context.Context, req CertificateRequest) error {
	r.requests <- req
	return nil
}

func (r *recordingRequester) next(t *testing.T) CertificateRequest {
	t.Helper()
	select {
	case req := <-r.requests:
		return req
	case <-time.After(2 * time.Second):
		t.Fatal("certificate request was not dispatched")
		return CertificateRequest{}
	}
}
