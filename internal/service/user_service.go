package service

import (
	"context"

	"learning-hour/internal/domain"
	"learning-hour/internal/dto"
)

// UserService exposes profile lookups for authenticated users.
type UserService interface {
	GetMyProfile(ctx context.Context, userID string) (*dto.UserProfileResponse, error)
}

type userServiceImpl struct {
	profileRepo domain.ProfileRepository
}

// NewUserService creates a new instance of UserService.
func NewUserService(profileRepo domain.ProfileRepository) UserService {
	return &userServiceImpl{profileRepo: profileRepo}
}

func (s *userServiceImpl) GetMyProfile(ctx context.Context, userID string) (*dto.UserProfileResponse, error) {
	profile, err := s.profileRepo.GetProfileByID(ctx, userID)
	if err != nil {
		return nil, domain.NewInternalError("failed to load profile", err)
	}
	if profile == nil {
		return nil, domain.NewNotFoundError("profile not found")
	}
	return &dto.UserProfileResponse{
		ID:    profile.ID,
		Email: profile.Email,
		Name:  profile.Name,
		Role:  string(profile.Role),
	}, nil
}
