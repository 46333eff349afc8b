package domain

import (
	"sort"
	"time"
)

// Labels substituted when an attempt references a user or module that no
// longer resolves to a row.
const (
	UnknownUserLabel   = "Unknown User"
	UnknownModuleLabel = "Unknown Module"
)

// ModuleProgress is the aggregated view of one user's attempts at one
// module: best score, attempt count and the time of the latest attempt.
type ModuleProgress struct {
	UserID        string
	UserName      string
	ModuleID      string
	ModuleTitle   string
	BestScore     int
	MaxScore      int
	AttemptCount  int
	LastAttemptAt time.Time
}

// progressKey identifies one (user, module) pair.
type progressKey struct {
	userID   string
	moduleID string
}

// AggregateAttempts folds raw attempts into per-(user, module) progress
// rows. Attempts are processed in completed-at order so the latest attempt
// time is the one actually recorded; within a pair the best score is the
// maximum ever achieved. Equal timestamps fall back to the attempt ID so
// the row order does not depend on how the input happened to arrive. Names
// and titles are resolved through the given lookup maps, falling back to
// the unknown labels when a key is missing.
func AggregateAttempts(attempts []QuizAttempt, userNames map[string]string, moduleTitles map[string]string) []ModuleProgress {
	ordered := make([]QuizAttempt, len(attempts))
	copy(ordered, attempts)
	sort.SliceStable(ordered, func(i, j int) bool {
		if !ordered[i].CompletedAt.Equal(ordered[j].CompletedAt) {
			return ordered[i].CompletedAt.Before(ordered[j].CompletedAt)
		}
		return ordered[i].ID < ordered[j].ID
	})

	byPair := make(map[progressKey]*ModuleProgress)
	var keys []progressKey
	for _, a := range ordered {
		k := progressKey{userID: a.UserID, moduleID: a.ModuleID}
		p, ok := byPair[k]
		if !ok {
			p = &ModuleProgress{
				UserID:        a.UserID,
				UserName:      resolveLabel(userNames, a.UserID, UnknownUserLabel),
				ModuleID:      a.ModuleID,
				ModuleTitle:   resolveLabel(moduleTitles, a.ModuleID, UnknownModuleLabel),
				BestScore:     a.Score,
				MaxScore:      a.MaxScore,
				AttemptCount:  1,
				LastAttemptAt: a.CompletedAt,
			}
			byPair[k] = p
			keys = append(keys, k)
			continue
		}
		p.AttemptCount++
		if a.Score > p.BestScore {
			p.BestScore = a.Score
		}
		if a.MaxScore > p.MaxScore {
			p.MaxScore = a.MaxScore
		}
		p.LastAttemptAt = a.CompletedAt
	}

	rows := make([]ModuleProgress, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, *byPair[k])
	}
	return rows
}

func resolveLabel(lookup map[string]string, key, fallback string) string {
	if name, ok := lookup[key]; ok && name != "" {
		return name
	}
	return fallback
}

// LeaderboardEntry is one user's row on the leaderboard. TotalScore is the
// sum of that user's best score per module.
type LeaderboardEntry struct {
	Rank       int
	UserID     string
	UserName   string
	TotalScore int
	Perfects   int
}

// BuildLeaderboard ranks users by the sum of their per-module best scores.
// A user's weaker retries never lower their total. Ties are broken by user
// ID so the ordering is stable across rebuilds.
func BuildLeaderboard(attempts []QuizAttempt, userNames map[string]string) []LeaderboardEntry {
	bestPerPair := make(map[progressKey]int)
	perfects := make(map[string]map[string]bool)
	for _, a := range attempts {
		k := progressKey{userID: a.UserID, moduleID: a.ModuleID}
		if best, ok := bestPerPair[k]; !ok || a.Score > best {
			bestPerPair[k] = a.Score
		}
		if a.IsPerfect {
			if perfects[a.UserID] == nil {
				perfects[a.UserID] = make(map[string]bool)
			}
			perfects[a.UserID][a.ModuleID] = true
		}
	}

	totals := make(map[string]int)
	for k, best := range bestPerPair {
		totals[k.userID] += best
	}

	entries := make([]LeaderboardEntry, 0, len(totals))
	for userID, total := range totals {
		entries = append(entries, LeaderboardEntry{
			UserID:     userID,
			UserName:   resolveLabel(userNames, userID, UnknownUserLabel),
			TotalScore: total,
			Perfects:   len(perfects[userID]),
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].TotalScore != entries[j].TotalScore {
			return entries[i].TotalScore > entries[j].TotalScore
		}
		return entries[i].UserID < entries[j].UserID
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}

// PodiumSize is how many top entries are shown on the podium.
const PodiumSize = 3

// SplitPodium splits a ranked leaderboard into the podium and the rest.
// Entries keep the ranks assigned by BuildLeaderboard.
func SplitPodium(entries []LeaderboardEntry) (podium, others []LeaderboardEntry) {
	if len(entries) <= PodiumSize {
		return entries, nil
	}
	return entries[:PodiumSize], entries[PodiumSize:]
}
