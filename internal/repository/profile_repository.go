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

// ProfileDatabaseAdapter implements domain.ProfileRepository using sqlx.DB
type ProfileDatabaseAdapter struct {
	db *sqlx.DB
}

// NewProfileDatabaseAdapter creates a new instance of ProfileDatabaseAdapter
func NewProfileDatabaseAdapter(db *sqlx.DB) domain.ProfileRepository {
	return &ProfileDatabaseAdapter{db: db}
}

const selectProfileColumns = `
	id "id",
	email "email",
	name "name",
	role "role",
	created_at "created_at",
	updated_at "updated_at",
	deleted_at "deleted_at"`

// CreateProfile implements domain.ProfileRepository
func (a *ProfileDatabaseAdapter) CreateProfile(ctx context.Context, profile *domain.Profile) error {
	if profile.ID == "" {
		profile.ID = util.NewULID()
	}
	now := time.Now()
	profile.CreatedAt = now
	profile.UpdatedAt = now

	query := `INSERT INTO profiles (
		id, email, name, role, created_at, updated_at
	) VALUES (
		:1, :2, :3, :4, :5, :6
	)`

	executor := GetExecutor(ctx, a.db)
	_, err := executor.ExecContext(ctx, query,
		profile.ID,
		profile.Email,
		util.StringToNullString(profile.Name),
		string(profile.Role),
		profile.CreatedAt,
		profile.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create profile: %w", err)
	}
	return nil
}

// GetProfileByID implements domain.ProfileRepository
func (a *ProfileDatabaseAdapter) GetProfileByID(ctx context.Context, id string) (*domain.Profile, error) {
	var modelProfile models.Profile
	query := `SELECT ` + selectProfileColumns + `
	FROM profiles
	WHERE id = :1 AND deleted_at IS NULL`

	executor := GetExecutor(ctx, a.db)
	err := executor.GetContext(ctx, &modelProfile, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get profile by id %s: %w", id, err)
	}
	return toDomainProfile(&modelProfile), nil
}

// GetProfileByEmail implements domain.ProfileRepository
func (a *ProfileDatabaseAdapter) GetProfileByEmail(ctx context.Context, email string) (*domain.Profile, error) {
	var modelProfile models.Profile
	query := `SELECT ` + selectProfileColumns + `
	FROM profiles
	WHERE email = :1 AND deleted_at IS NULL`

	executor := GetExecutor(ctx, a.db)
	err := executor.GetContext(ctx, &modelProfile, query, email)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get profile by email: %w", err)
	}
	return toDomainProfile(&modelProfile), nil
}

// GetAllProfiles implements domain.ProfileRepository
func (a *ProfileDatabaseAdapter) GetAllProfiles(ctx context.Context) ([]domain.Profile, error) {
	var modelProfiles []models.Profile
	query := `SELECT ` + selectProfileColumns + `
	FROM profiles
	WHERE deleted_at IS NULL
	ORDER BY name ASC`

	executor := GetExecutor(ctx, a.db)
	if err := executor.SelectContext(ctx, &modelProfiles, query); err != nil {
		return nil, fmt.Errorf("failed to get all profiles: %w", err)
	}

	profiles := make([]domain.Profile, 0, len(modelProfiles))
	for i := range modelProfiles {
		profiles = append(profiles, *toDomainProfile(&modelProfiles[i]))
	}
	return profiles, nil
}

func toDomainProfile(m *models.Profile) *domain.Profile {
	return &domain.Profile{
		ID:        m.ID,
		Email:     m.Email,
		Name:      util.NullStringToString(m.Name),
		Role:      domain.Role(m.Role),
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
