package domain

import (
	"context"
	"time"
)

// QuizAttempt is one graded, completed quiz run. Attempts are append-only;
// abandoned sessions never produce one.
type QuizAttempt struct {
	ID          string
	UserID      string
	ModuleID    string
	Score       int
	MaxScore    int
	IsPerfect   bool
	CompletedAt time.Time
}

// AttemptRepository defines the interface for quiz attempt persistence
type AttemptRepository interface {
	// CreateAttempt persists a completed attempt. Callers run it inside a
	// transaction together with CountByUserAndModule so the attempt limit
	// holds under concurrent submits.
	CreateAttempt(ctx context.Context, attempt *QuizAttempt) error

	// CountByUserAndModule returns how many attempts the user has recorded
	// for the module.
	CountByUserAndModule(ctx context.Context, userID, moduleID string) (int, error)

	// GetAttemptsByUserAndModule returns the user's attempts for one module,
	// oldest first.
	GetAttemptsByUserAndModule(ctx context.Context, userID, moduleID string) ([]QuizAttempt, error)

	// GetAttemptsByUser returns all of the user's attempts, oldest first.
	GetAttemptsByUser(ctx context.Context, userID string) ([]QuizAttempt, error)

	// GetAllAttempts returns every attempt ordered by completion time,
	// oldest first. Feeds the admin progress aggregation.
	GetAllAttempts(ctx context.Context) ([]QuizAttempt, error)

	// DeleteByModule removes all attempts recorded against a module. Used
	// when the module itself is deleted.
	DeleteByModule(ctx context.Context, moduleID string) error
}
