package domain

import (
	"context"
	"time"
)

// Role distinguishes regular learners from administrators.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Profile represents a user of the learning platform
type Profile struct {
	ID        string
	Email     string
	Name      string
	Role      Role
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewProfile creates a new Profile instance
func NewProfile(email, name string, role Role) *Profile {
	now := time.Now()
	return &Profile{
		Email:     email,
		Name:      name,
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsAdmin reports whether the profile carries the admin role.
func (p *Profile) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// ProfileRepository defines the interface for profile persistence
type ProfileRepository interface {
	// CreateProfile persists a new profile, assigning an ID when none is set.
	CreateProfile(ctx context.Context, profile *Profile) error

	// GetProfileByID returns (nil, nil) when no profile with that ID exists.
	GetProfileByID(ctx context.Context, id string) (*Profile, error)

	// GetProfileByEmail returns (nil, nil) when no profile with that email exists.
	GetProfileByEmail(ctx context.Context, email string) (*Profile, error)

	// GetAllProfiles returns every profile ordered by name.
	GetAllProfiles(ctx context.Context) ([]Profile, error)
}
