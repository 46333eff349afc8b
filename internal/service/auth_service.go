package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"learning-hour/internal/config"
	"learning-hour/internal/domain"
	"learning-hour/internal/dto"
	"learning-hour/internal/logger"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

var ErrInvalidJWTToken = errors.New("invalid jwt token")

// AuthService defines the interface for token operations.
type AuthService interface {
	CreateJWT(ctx context.Context, profile *domain.Profile, ttl time.Duration, tokenType string) (string, error)
	ValidateJWT(ctx context.Context, tokenString string) (*dto.AuthClaims, error)
	RefreshToken(ctx context.Context, refreshTokenString string) (newAccessToken string, newRefreshToken string, err error)
}

type authServiceImpl struct {
	profileRepo domain.ProfileRepository
	appConfig   *config.Config
}

// NewAuthService creates a new instance of AuthService.
func NewAuthService(profileRepo domain.ProfileRepository, appConfig *config.Config) (AuthService, error) {
	if len(appConfig.Auth.JWTSecret) == 0 {
		return nil, errors.New("jwt secret for auth service is not configured")
	}
	return &authServiceImpl{
		profileRepo: profileRepo,
		appConfig:   appConfig,
	}, nil
}

func (s *authServiceImpl) CreateJWT(ctx context.Context, profile *domain.Profile, ttl time.Duration, tokenType string) (string, error) {
	claims := dto.AuthClaims{
		UserID:    profile.ID,
		Role:      string(profile.Role),
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
			Subject:   profile.ID,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.appConfig.Auth.JWTSecret))
}

func (s *authServiceImpl) ValidateJWT(ctx context.Context, tokenString string) (*dto.AuthClaims, error) {
	appLogger := logger.Get()
	token, err := jwt.ParseWithClaims(tokenString, &dto.AuthClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.appConfig.Auth.JWTSecret), nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			appLogger.Warn("JWT token expired",
				zap.Error(err),
				zap.String("token_snippet", tokenString[:min(len(tokenString), 20)]+"..."))
		} else {
			appLogger.Warn("JWT validation failed",
				zap.Error(err),
				zap.String("token_snippet", tokenString[:min(len(tokenString), 20)]+"..."))
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidJWTToken, err)
	}

	if claims, ok := token.Claims.(*dto.AuthClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, ErrInvalidJWTToken
}

func (s *authServiceImpl) RefreshToken(ctx context.Context, refreshTokenString string) (string, string, error) {
	appLogger := logger.Get()
	claims, err := s.ValidateJWT(ctx, refreshTokenString)
	if err != nil {
		return "", "", fmt.Errorf("invalid refresh token: %w", err)
	}
	if claims.TokenType != tokenTypeRefresh {
		return "", "", errors.New("not a refresh token")
	}

	profile, err := s.profileRepo.GetProfileByID(ctx, claims.UserID)
	if err != nil || profile == nil {
		appLogger.Error("Profile not found for refresh token", zap.String("userID", claims.UserID), zap.Error(err))
		return "", "", domain.NewNotFoundError(fmt.Sprintf("Profile %s not found for refresh token", claims.UserID))
	}

	newAccessToken, err := s.CreateJWT(ctx, profile, s.appConfig.Auth.AccessTokenTTL, tokenTypeAccess)
	if err != nil {
		return "", "", fmt.Errorf("failed to create new access token: %w", err)
	}
	newRefreshToken, err := s.CreateJWT(ctx, profile, s.appConfig.Auth.AccessTokenTTL*24, tokenTypeRefresh)
	if err != nil {
		return "", "", fmt.Errorf("failed to create new refresh token: %w", err)
	}
	return newAccessToken, newRefreshToken, nil
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
