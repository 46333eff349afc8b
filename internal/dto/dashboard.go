package dto

import "time"

// LeaderboardEntryResponse is one user's row on the leaderboard.
type LeaderboardEntryResponse struct {
	Rank       int    `json:"rank"`
	UserID     string `json:"user_id"`
	UserName   string `json:"user_name"`
	TotalScore int    `json:"total_score"`
	Perfects   int    `json:"perfects"`
}

// LeaderboardResponse splits the ranking into the podium and the rest.
// @Description Leaderboard with top three podium
type LeaderboardResponse struct {
	Podium      []LeaderboardEntryResponse `json:"podium"`
	Others      []LeaderboardEntryResponse `json:"others"`
	GeneratedAt time.Time                  `json:"generated_at"`
}

// ModuleProgressResponse is one aggregated (user, module) progress row.
type ModuleProgressResponse struct {
	UserID        string    `json:"user_id"`
	UserName      string    `json:"user_name"`
	ModuleID      string    `json:"module_id"`
	ModuleTitle   string    `json:"module_title"`
	BestScore     int       `json:"best_score"`
	MaxScore      int       `json:"max_score"`
	AttemptCount  int       `json:"attempt_count"`
	LastAttemptAt time.Time `json:"last_attempt_at"`
}

// MyProgressResponse is the requesting user's own dashboard.
type MyProgressResponse struct {
	TotalScore int                      `json:"total_score"`
	Rank       int                      `json:"rank"`
	Modules    []ModuleProgressResponse `json:"modules"`
}

// AdminProgressResponse is the all-users progress table for administrators.
type AdminProgressResponse struct {
	Rows []ModuleProgressResponse `json:"rows"`
}
