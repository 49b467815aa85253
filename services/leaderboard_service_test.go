package services

import (
	"context"
	"testing"

	"campus-governance-api/models"
	"campus-governance-api/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLeaderboardRanksByMeanOfFinalScores(t *testing.T) {
	f := newGovernanceFixture(t)
	ctx := context.Background()
	event := f.activeEvent(t)
	_, err := f.judges().AssignJudge(ctx, event.EventID, f.judge2.UserID, f.director)
	require.NoError(t, err)

	teamA := testutil.CreateSubmission(t, f.db, event.EventID, "Team A")
	teamB := testutil.CreateSubmission(t, f.db, event.EventID, "Team B")
	unscored := testutil.CreateSubmission(t, f.db, event.EventID, "Team C")

	scoring := f.scoring()
	submit := func(judge Actor, submissionID int, total float64, draft bool) {
		t.Helper()
		_, err := scoring.SubmitScore(ctx, judge, ScoreInput{SubmissionID: submissionID, TotalScore: total, IsDraft: draft})
		require.NoError(t, err)
	}
	submit(f.judge1, teamA.SubmissionID, 80, false)
	submit(f.judge2, teamA.SubmissionID, 90, false)
	submit(f.judge1, teamB.SubmissionID, 95, false)
	submit(f.judge2, teamB.SubmissionID, 60, true)
	submit(f.judge1, unscored.SubmissionID, 100, true)

	board, err := f.leaderboard().GetLeaderboard(ctx, event.EventID)
	require.NoError(t, err)
	require.NotNil(t, board)
	assert.Empty(t, board)

	_, err = f.locks().Lock(ctx, event.EventID, f.hod, "")
	require.NoError(t, err)
	f.certificates.next(t)

	board, err = f.leaderboard().GetLeaderboard(ctx, event.EventID)
	require.NoError(t, err)
	require.Len(t, board, 2)

	assert.Equal(t, teamB.SubmissionID, board[0].SubmissionID)
	assert.Equal(t, "Team B", board[0].DisplayName)
	assert.InDelta(t, 95.0, board[0].MeanScore, 1e-9)
	assert.Equal(t, 1, board[0].JudgeCount)
	assert.Equal(t, 1, board[0].Rank)

	assert.Equal(t, teamA.SubmissionID, board[1].SubmissionID)
	assert.InDelta(t, 85.0, board[1].MeanScore, 1e-9)
	assert.Equal(t, 2, board[1].JudgeCount)
	assert.Equal(t, 2, board[1].Rank)
}

func TestLeaderboardMissingEvent(t *testing.T) {
	f := newGovernanceFixture(t)
	_, err := f.leaderboard().GetLeaderboard(context.Background(), 5150)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLeaderboardLockedWithoutSubmissions(t *testing.T) {
	f := newGovernanceFixture(t)
	ctx := context.Background()
	event := f.activeEvent(t)

	_, err := f.locks().Lock(ctx, event.EventID, f.hod, "")
	require.NoError(t, err)
	f.certificates.next(t)

	board, err := f.leaderboard().GetLeaderboard(ctx, event.EventID)
	require.NoError(t, err)
	require.NotNil(t, board)
	assert.Empty(t, board)
}

func TestRankSubmissionsBreaksTiesBySubmissionID(t *testing.T) {
	owner := models.User{UserFname: "Mina", UserLname: "Park"}
	submissions := []models.Submission{
		{SubmissionID: 30, Title: "Gamma"},
		{SubmissionID: 10, User: &owner},
		{SubmissionID: 20, TeamName: "Beta"},
		{SubmissionID: 40, TeamName: "Nobody scored"},
	}
	finals := []models.JudgeScore{
		{SubmissionID: 30, TotalScore: 70},
		{SubmissionID: 10, TotalScore: 60},
		{SubmissionID: 10, TotalScore: 80},
		{SubmissionID: 20, TotalScore: 70},
	}

	entries := rankSubmissions(submissions, finals)
	require.Len(t, entries, 3)

	got := make([]int, 0, len(entries))
	for _, e := range entries {
		got = append(got, e.SubmissionID)
	}
	assert.Equal(t, []int{10, 20, 30}, got)
	assert.Equal(t, "Mina Park", entries[0].DisplayName)
	assert.Equal(t, "Beta", entries[1].DisplayName)
	assert.Equal(t, "Gamma", entries[2].DisplayName)
	for i, e := range entries {
		assert.Equal(t, i+1, e.Rank)
	}
}

func TestLeaderboardEqualMeansGetDistinctRanks(t *testing.T) {
	f := newGovernanceFixture(t)
	ctx := context.Background()
	event := f.activeEvent(t)
	_, err := f.judges().AssignJudge(ctx, event.EventID, f.judge2.UserID, f.director)
	require.NoError(t, err)

	s1 := testutil.CreateSubmission(t, f.db, event.EventID, "Solo Judge")
	s2 := testutil.CreateSubmission(t, f.db, event.EventID, "Split Panel")

	scoring := f.scoring()
	for _, in := range []struct {
		judge Actor
		sub   int
		total float64
	}{
		{f.judge1, s1.SubmissionID, 90},
		{f.judge1, s2.SubmissionID, 85},
		{f.judge2, s2.SubmissionID, 95},
	} {
		_, err := scoring.SubmitScore(ctx, in.judge, ScoreInput{SubmissionID: in.sub, TotalScore: in.total})
		require.NoError(t, err)
	}

	_, err = f.locks().Lock(ctx, event.EventID, f.hod, "")
	require.NoError(t, err)
	f.certificates.next(t)

	board, err := f.leaderboard().GetLeaderboard(ctx, event.EventID)
	require.NoError(t, err)
	require.Len(t, board, 2)
	assert.InDelta(t, 90.0, board[0].MeanScore, 1e-9)
	assert.InDelta(t, 90.0, board[1].MeanScore, 1e-9)
	assert.Equal(t, 1, board[0].Rank)
	assert.Equal(t, 2, board[1].Rank)
	assert.Equal(t, s1.SubmissionID, board[0].SubmissionID)
	assert.Equal(t, s2.SubmissionID, board[1].SubmissionID)
}
