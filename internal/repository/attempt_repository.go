package repository

import (
	"context"
	"fmt"
	"time"

	"learning-hour/internal/domain"
	"learning-hour/internal/repository/models"
	"learning-hour/internal/util"

	"github.com/jmoiron/sqlx"
)

// AttemptDatabaseAdapter implements domain.AttemptRepository using sqlx.DB
type AttemptDatabaseAdapter struct {
	db *sqlx.DB
}

// NewAttemptDatabaseAdapter creates a new instance of AttemptDatabaseAdapter
func NewAttemptDatabaseAdapter(db *sqlx.DB) domain.AttemptRepository {
	return &AttemptDatabaseAdapter{db: db}
}

const selectAttemptColumns = `
	id "id",
	user_id "user_id",
	module_id "module_id",
	score "score",
	max_score "max_score",
	is_perfect "is_perfect",
	completed_at "completed_at",
	created_at "created_at"`

// CreateAttempt implements domain.AttemptRepository
func (a *AttemptDatabaseAdapter) CreateAttempt(ctx context.Context, attempt *domain.QuizAttempt) error {
	if attempt.ID == "" {
		attempt.ID = util.NewULID()
	}
	if attempt.CompletedAt.IsZero() {
		attempt.CompletedAt = time.Now()
	}

	query := `INSERT INTO quiz_attempts (
		id, user_id, module_id, score, max_score, is_perfect, completed_at, created_at
	) VALUES (
		:1, :2, :3, :4, :5, :6, :7, :8
	)`

	isPerfect := 0
	if attempt.IsPerfect {
		isPerfect = 1
	}

	executor := GetExecutor(ctx, a.db)
	_, err := executor.ExecContext(ctx, query,
		attempt.ID,
		attempt.UserID,
		attempt.ModuleID,
		attempt.Score,
		attempt.MaxScore,
		isPerfect,
		attempt.CompletedAt,
		time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to create attempt: %w", err)
	}
	return nil
}

// CountByUserAndModule implements domain.AttemptRepository
func (a *AttemptDatabaseAdapter) CountByUserAndModule(ctx context.Context, userID, moduleID string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM quiz_attempts WHERE user_id = :1 AND module_id = :2`

	executor := GetExecutor(ctx, a.db)
	if err := executor.GetContext(ctx, &count, query, userID, moduleID); err != nil {
		return 0, fmt.Errorf("failed to count attempts for user %s module %s: %w", userID, moduleID, err)
	}
	return count, nil
}

// GetAttemptsByUserAndModule implements domain.AttemptRepository
func (a *AttemptDatabaseAdapter) GetAttemptsByUserAndModule(ctx context.Context, userID, moduleID string) ([]domain.QuizAttempt, error) {
	var modelAttempts []models.QuizAttempt
	query := `SELECT ` + selectAttemptColumns + `
	FROM quiz_attempts
	WHERE user_id = :1 AND module_id = :2
	ORDER BY completed_at ASC, id ASC`

	executor := GetExecutor(ctx, a.db)
	if err := executor.SelectContext(ctx, &modelAttempts, query, userID, moduleID); err != nil {
		return nil, fmt.Errorf("failed to get attempts for user %s module %s: %w", userID, moduleID, err)
	}
	return toDomainAttempts(modelAttempts), nil
}

// GetAttemptsByUser implements domain.AttemptRepository
func (a *AttemptDatabaseAdapter) GetAttemptsByUser(ctx context.Context, userID string) ([]domain.QuizAttempt, error) {
	var modelAttempts []models.QuizAttempt
	query := `SELECT ` + selectAttemptColumns + `
	FROM quiz_attempts
	WHERE user_id = :1
	ORDER BY completed_at ASC, id ASC`

	executor := GetExecutor(ctx, a.db)
	if err := executor.SelectContext(ctx, &modelAttempts, query, userID); err != nil {
		return nil, fmt.Errorf("failed to get attempts for user %s: %w", userID, err)
	}
	return toDomainAttempts(modelAttempts), nil
}

// GetAllAttempts implements domain.AttemptRepository
func (a *AttemptDatabaseAdapter) GetAllAttempts(ctx context.Context) ([]domain.QuizAttempt, error) {
	var modelAttempts []models.QuizAttempt
	query := `SELECT ` + selectAttemptColumns + `
	FROM quiz_attempts
	ORDER BY completed_at ASC, id ASC`

	executor := GetExecutor(ctx, a.db)
	if err := executor.SelectContext(ctx, &modelAttempts, query); err != nil {
		return nil, fmt.Errorf("failed to get all attempts: %w", err)
	}
	return toDomainAttempts(modelAttempts), nil
}

// DeleteByModule implements domain.AttemptRepository
func (a *AttemptDatabaseAdapter) DeleteByModule(ctx context.Context, moduleID string) error {
	executor := GetExecutor(ctx, a.db)
	if _, err := executor.ExecContext(ctx, `DELETE FROM quiz_attempts WHERE module_id = :1`, moduleID); err != nil {
		return fmt.Errorf("failed to delete attempts for module %s: %w", moduleID, err)
	}
	return nil
}

func toDomainAttempts(modelAttempts []models.QuizAttempt) []domain.QuizAttempt {
	attempts := make([]domain.QuizAttempt, 0, len(modelAttempts))
	for i := range modelAttempts {
		m := &modelAttempts[i]
		attempts = append(attempts, domain.QuizAttempt{
			ID:          m.ID,
			UserID:      m.UserID,
			ModuleID:    m.ModuleID,
			Score:       m.Score,
			MaxScore:    m.MaxScore,
			IsPerfect:   m.IsPerfect == 1,
			CompletedAt: m.CompletedAt,
		})
	}
	return attempts
}
