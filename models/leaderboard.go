package models

// LeaderboardEntry is a computed row; it is never persisted.
type LeaderboardEntry struct {
	SubmissionID int     `json:"submission_id"`
	DisplayName  string  `json:"display_name"`
	MeanScore    float64 `json:"mean_score"`
	JudgeCount   int     `json:"judge_count"`
	Rank         int     `json:"rank"`
}
