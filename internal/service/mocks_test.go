package service

import (
	"context"
	"time"

	"learning-hour/internal/domain"

	"github.com/stretchr/testify/mock"
)

// MockModuleRepository is a mock implementation of domain.ModuleRepository
type MockModuleRepository struct {
	mock.Mock
}

func (m *MockModuleRepository) CreateModule(ctx context.Context, module *domain.Module) error {
	args := m.Called(ctx, module)
	return args.Error(0)
}

func (m *MockModuleRepository) UpdateModule(ctx context.Context, module *domain.Module) error {
	args := m.Called(ctx, module)
	return args.Error(0)
}

func (m *MockModuleRepository) DeleteModule(ctx context.Context, moduleID string) error {
	args := m.Called(ctx, moduleID)
	return args.Error(0)
}

func (m *MockModuleRepository) GetModuleByID(ctx context.Context, moduleID string) (*domain.Module, error) {
	args := m.Called(ctx, moduleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Module), args.Error(1)
}

func (m *MockModuleRepository) GetAllModules(ctx context.Context) ([]domain.Module, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Module), args.Error(1)
}

func (m *MockModuleRepository) ModuleExists(ctx context.Context, moduleID string) (bool, error) {
	args := m.Called(ctx, moduleID)
	return args.Bool(0), args.Error(1)
}

func (m *MockModuleRepository) GetQuestionsByModuleID(ctx context.Context, moduleID string) ([]domain.Question, error) {
	args := m.Called(ctx, moduleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Question), args.Error(1)
}

func (m *MockModuleRepository) ReplaceQuestions(ctx context.Context, moduleID string, questions []domain.Question) error {
	args := m.Called(ctx, moduleID, questions)
	return args.Error(0)
}

// MockAttemptRepository is a mock implementation of domain.AttemptRepository
type MockAttemptRepository struct {
	mock.Mock
}

func (m *MockAttemptRepository) CreateAttempt(ctx context.Context, attempt *domain.QuizAttempt) error {
	args := m.Called(ctx, attempt)
	return args.Error(0)
}

func (m *MockAttemptRepository) CountByUserAndModule(ctx context.Context, userID, moduleID string) (int, error) {
	args := m.Called(ctx, userID, moduleID)
	return args.Int(0), args.Error(1)
}

func (m *MockAttemptRepository) GetAttemptsByUserAndModule(ctx context.Context, userID, moduleID string) ([]domain.QuizAttempt, error) {
	args := m.Called(ctx, userID, moduleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.QuizAttempt), args.Error(1)
}

func (m *MockAttemptRepository) GetAttemptsByUser(ctx context.Context, userID string) ([]domain.QuizAttempt, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.QuizAttempt), args.Error(1)
}

func (m *MockAttemptRepository) GetAllAttempts(ctx context.Context) ([]domain.QuizAttempt, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.QuizAttempt), args.Error(1)
}

func (m *MockAttemptRepository) DeleteByModule(ctx context.Context, moduleID string) error {
	args := m.Called(ctx, moduleID)
	return args.Error(0)
}

// MockProfileRepository is a mock implementation of domain.ProfileRepository
type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) CreateProfile(ctx context.Context, profile *domain.Profile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *MockProfileRepository) GetProfileByID(ctx context.Context, id string) (*domain.Profile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

func (m *MockProfileRepository) GetProfileByEmail(ctx context.Context, email string) (*domain.Profile, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

func (m *MockProfileRepository) GetAllProfiles(ctx context.Context) ([]domain.Profile, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Profile), args.Error(1)
}

// MockCache is a mock implementation of domain.Cache
type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockCache) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockCache) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockTransactionManager runs the given function without a real transaction.
type MockTransactionManager struct {
	mock.Mock
}

func (m *MockTransactionManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.Called(ctx)
	return fn(ctx)
}
