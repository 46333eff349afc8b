package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"learning-hour/internal/domain"
	"learning-hour/internal/repository/models"
	"learning-hour/internal/util"

	"github.com/jmoiron/sqlx"
)

// ModuleDatabaseAdapter implements domain.ModuleRepository using sqlx.DB
type ModuleDatabaseAdapter struct {
	db *sqlx.DB
}

// NewModuleDatabaseAdapter creates a new instance of ModuleDatabaseAdapter
func NewModuleDatabaseAdapter(db *sqlx.DB) domain.ModuleRepository {
	return &ModuleDatabaseAdapter{db: db}
}

const selectModuleColumns = `
	id "id",
	title "title",
	description "description",
	video_url "video_url",
	created_at "created_at",
	updated_at "updated_at",
	deleted_at "deleted_at"`

// CreateModule implements domain.ModuleRepository
func (a *ModuleDatabaseAdapter) CreateModule(ctx context.Context, module *domain.Module) error {
	if module.ID == "" {
		module.ID = util.NewULID()
	}
	now := time.Now()
	module.CreatedAt = now
	module.UpdatedAt = now

	query := `INSERT INTO modules (
		id, title, description, video_url, created_at, updated_at
	) VALUES (
		:1, :2, :3, :4, :5, :6
	)`

	executor := GetExecutor(ctx, a.db)
	_, err := executor.ExecContext(ctx, query,
		module.ID,
		module.Title,
		util.StringToNullString(module.Description),
		module.VideoURL,
		module.CreatedAt,
		module.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create module: %w", err)
	}
	return nil
}

// UpdateModule implements domain.ModuleRepository
func (a *ModuleDatabaseAdapter) UpdateModule(ctx context.Context, module *domain.Module) error {
	module.UpdatedAt = time.Now()

	query := `UPDATE modules SET
		title = :1,
		description = :2,
		video_url = :3,
		updated_at = :4
	WHERE id = :5 AND deleted_at IS NULL`

	executor := GetExecutor(ctx, a.db)
	result, err := executor.ExecContext(ctx, query,
		module.Title,
		util.StringToNullString(module.Description),
		module.VideoURL,
		module.UpdatedAt,
		module.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update module %s: %w", module.ID, err)
	}
	rows, err := result.RowsAffected()
	if err == nil && rows == 0 {
		return domain.NewModuleNotFoundError(module.ID)
	}
	return nil
}

// DeleteModule implements domain.ModuleRepository. The module row is soft
// deleted; its questions are removed outright.
func (a *ModuleDatabaseAdapter) DeleteModule(ctx context.Context, moduleID string) error {
	executor := GetExecutor(ctx, a.db)

	query := `UPDATE modules SET deleted_at = :1 WHERE id = :2 AND deleted_at IS NULL`
	result, err := executor.ExecContext(ctx, query, time.Now(), moduleID)
	if err != nil {
		return fmt.Errorf("failed to delete module %s: %w", moduleID, err)
	}
	rows, err := result.RowsAffected()
	if err == nil && rows == 0 {
		return domain.NewModuleNotFoundError(moduleID)
	}

	if _, err := executor.ExecContext(ctx, `DELETE FROM questions WHERE module_id = :1`, moduleID); err != nil {
		return fmt.Errorf("failed to delete questions of module %s: %w", moduleID, err)
	}
	return nil
}

// GetModuleByID implements domain.ModuleRepository
func (a *ModuleDatabaseAdapter) GetModuleByID(ctx context.Context, moduleID string) (*domain.Module, error) {
	var modelModule models.Module
	query := `SELECT ` + selectModuleColumns + `
	FROM modules
	WHERE id = :1 AND deleted_at IS NULL`

	executor := GetExecutor(ctx, a.db)
	err := executor.GetContext(ctx, &modelModule, query, moduleID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get module by ID %s: %w", moduleID, err)
	}
	return toDomainModule(&modelModule), nil
}

// GetAllModules implements domain.ModuleRepository
func (a *ModuleDatabaseAdapter) GetAllModules(ctx context.Context) ([]domain.Module, error) {
	var modelModules []models.Module
	query := `SELECT ` + selectModuleColumns + `
	FROM modules
	WHERE deleted_at IS NULL
	ORDER BY created_at DESC`

	executor := GetExecutor(ctx, a.db)
	if err := executor.SelectContext(ctx, &modelModules, query); err != nil {
		return nil, fmt.Errorf("failed to get all modules: %w", err)
	}

	modules := make([]domain.Module, 0, len(modelModules))
	for i := range modelModules {
		modules = append(modules, *toDomainModule(&modelModules[i]))
	}
	return modules, nil
}

// ModuleExists implements domain.ModuleRepository
func (a *ModuleDatabaseAdapter) ModuleExists(ctx context.Context, moduleID string) (bool, error) {
	var count int
	query := `SELECT COUNT(*) FROM modules WHERE id = :1 AND deleted_at IS NULL`

	executor := GetExecutor(ctx, a.db)
	if err := executor.GetContext(ctx, &count, query, moduleID); err != nil {
		return false, fmt.Errorf("failed to check module existence %s: %w", moduleID, err)
	}
	return count > 0, nil
}

// GetQuestionsByModuleID implements domain.ModuleRepository
func (a *ModuleDatabaseAdapter) GetQuestionsByModuleID(ctx context.Context, moduleID string) ([]domain.Question, error) {
	var modelQuestions []models.Question
	query := `SELECT
		id "id",
		module_id "module_id",
		text "text",
		options "options",
		correct_option_index "correct_option_index",
		points "points",
		position "position",
		created_at "created_at",
		updated_at "updated_at"
	FROM questions
	WHERE module_id = :1
	ORDER BY position ASC`

	executor := GetExecutor(ctx, a.db)
	if err := executor.SelectContext(ctx, &modelQuestions, query, moduleID); err != nil {
		return nil, fmt.Errorf("failed to get questions for module %s: %w", moduleID, err)
	}

	questions := make([]domain.Question, 0, len(modelQuestions))
	for i := range modelQuestions {
		questions = append(questions, *toDomainQuestion(&modelQuestions[i]))
	}
	return questions, nil
}

// ReplaceQuestions implements domain.ModuleRepository
func (a *ModuleDatabaseAdapter) ReplaceQuestions(ctx context.Context, moduleID string, questions []domain.Question) error {
	executor := GetExecutor(ctx, a.db)

	if _, err := executor.ExecContext(ctx, `DELETE FROM questions WHERE module_id = :1`, moduleID); err != nil {
		return fmt.Errorf("failed to clear questions for module %s: %w", moduleID, err)
	}

	insert := `INSERT INTO questions (
		id, module_id, text, options, correct_option_index, points, position, created_at, updated_at
	) VALUES (
		:1, :2, :3, :4, :5, :6, :7, :8, :9
	)`

	now := time.Now()
	for i := range questions {
		q := &questions[i]
		if q.ID == "" {
			q.ID = util.NewULID()
		}
		q.ModuleID = moduleID
		_, err := executor.ExecContext(ctx, insert,
			q.ID,
			moduleID,
			q.Text,
			models.StringSlice(q.Options),
			q.CorrectOptionIndex,
			q.Points,
			i,
			now,
			now,
		)
		if err != nil {
			return fmt.Errorf("failed to insert question %d for module %s: %w", i, moduleID, err)
		}
	}
	return nil
}

func toDomainModule(m *models.Module) *domain.Module {
	return &domain.Module{
		ID:          m.ID,
		Title:       m.Title,
		Description: util.NullStringToString(m.Description),
		VideoURL:    m.VideoURL,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func toDomainQuestion(m *models.Question) *domain.Question {
	return &domain.Question{
		ID:                 m.ID,
		ModuleID:           m.ModuleID,
		Text:               m.Text,
		Options:            []string(m.Options),
		CorrectOptionIndex: m.CorrectOptionIndex,
		Points:             m.Points,
	}
}
