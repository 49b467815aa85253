package services

import (
	"context"
	"fmt"
	"sort"

	"campus-governance-api/config"
	"campus-governance-api/models"

	"gorm.io/gorm"
)

// LeaderboardService ranks an event's submissions by mean final score.
type LeaderboardService struct {
	db *gorm.DB
}

func NewLeaderboardService(db *gorm.DB) *LeaderboardService {
	if db == nil {
		db = config.DB
	}
	return &LeaderboardService{db: db}
}

// GetLeaderboard returns the ranked list for a locked event and an empty list for
// an unlocked one. Draft scores never count and unscored submissions are left out.
// Equal means keep distinct consecutive ranks, ordered by submission id.
func (s *LeaderboardService) GetLeaderboard(ctx context.Context, eventID int) ([]models.LeaderboardEntry, error) {
	entries := []models.LeaderboardEntry{}

	// One transaction gives the reads a single snapshot.
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := findEvent(tx, eventID, lockNone); err != nil {
			return err
		}

		lock, err := findScoreLock(tx, eventID, lockNone)
		if err != nil {
			return err
		}
		if lock == nil || !lock.Locked {
			return nil
		}

		var submissions []models.Submission
		if err := tx.Preload("User").
			Where("event_id = ?", eventID).
			Order("submission_id ASC").
			Find(&submissions).Error; err != nil {
			return fmt.Errorf("failed to load submissions: %w", err)
		}
		if len(submissions) == 0 {
			return nil
		}

		ids := make([]int, 0, len(submissions))
		for _, sub := range submissions {
			ids = append(ids, sub.SubmissionID)
		}

		var scores []models.JudgeScore
		if err := tx.Select("submission_id", "total_score").
			Where("submission_id IN ? AND status = ?", ids, models.ScoreStatusSubmitted).
			Find(&scores).Error; err != nil {
			return fmt.Errorf("failed to load judge scores: %w", err)
		}

		entries = rankSubmissions(submissions, scores)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// rankSubmissions averages final scores per submission and assigns 1-based ranks.
func rankSubmissions(submissions []models.Submission, finals []models.JudgeScore) []models.LeaderboardEntry {
	type tally struct {
		sum   float64
		count int
	}
	totals := make(map[int]*tally, len(submissions))
	for _, score := range finals {
		t, ok := totals[score.SubmissionID]
		if !ok {
			t = &tally{}
			totals[score.SubmissionID] = t
		}
		t.sum += score.TotalScore
		t.count++
	}

	entries := make([]models.LeaderboardEntry, 0, len(totals))
	for _, sub := range submissions {
		t, ok := totals[sub.SubmissionID]
		if !ok || t.count == 0 {
			continue
		}
		entries = append(entries, models.LeaderboardEntry{
			SubmissionID: sub.SubmissionID,
			DisplayName:  sub.DisplayName(),
			MeanScore:    t.sum / float64(t.count),
			JudgeCount:   t.count,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].MeanScore != entries[j].MeanScore {
			return entries[i].MeanScore > entries[j].MeanScore
		}
		return entries[i].SubmissionID < entries[j].SubmissionID
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}
