package cache

import "strings"

const (
	GlobalKeyPrefix = "learninghour"
)

// GenerateCacheKey generates a cache key for a given service, object type, and identifier.
// If paramsKey are provided, they are joined by "_" and appended to the cache key.
func GenerateCacheKey(serviceName, objectType, identifier string, paramsKey ...string) string {
	baseKey := strings.Join([]string{GlobalKeyPrefix, serviceName, objectType, identifier}, ":")
	if len(paramsKey) > 0 {
		return strings.Join([]string{baseKey, strings.Join(paramsKey, "_")}, ":")
	}
	return baseKey
}

// Key builders for the quiz and dashboard services. Keeping them here makes
// collisions between services visible in one place.

// QuizSessionKey is where an in-flight quiz session lives.
func QuizSessionKey(sessionID string) string {
	return GenerateCacheKey("quiz", "session", sessionID)
}

// VideoFinishedKey flags that a user watched a module's video to the end.
func VideoFinishedKey(userID, moduleID string) string {
	return GenerateCacheKey("quiz", "video_finished", userID, moduleID)
}

// LeaderboardKey holds the rendered leaderboard snapshot.
func LeaderboardKey() string {
	return GenerateCacheKey("dashboard", "leaderboard", "global")
}
