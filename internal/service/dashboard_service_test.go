package service

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"learning-hour/internal/cache"
	"learning-hour/internal/domain"
	"learning-hour/internal/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newDashboardServiceForTest() (DashboardService, *MockAttemptRepository, *MockProfileRepository, *MockModuleRepository, *MockCache) {
	attemptRepo := new(MockAttemptRepository)
	profileRepo := new(MockProfileRepository)
	moduleRepo := new(MockModuleRepository)
	cacheMock := new(MockCache)
	svc := NewDashboardService(attemptRepo, profileRepo, moduleRepo, cacheMock, testCacheConfig())
	return svc, attemptRepo, profileRepo, moduleRepo, cacheMock
}

func dashboardFixtures() ([]domain.QuizAttempt, []domain.Profile, []domain.Module) {
	base := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	attempts := []domain.QuizAttempt{
		{ID: "a1", UserID: "u1", ModuleID: "m1", Score: 80, MaxScore: 100, CompletedAt: base},
		{ID: "a2", UserID: "u1", ModuleID: "m1", Score: 60, MaxScore: 100, CompletedAt: base.Add(time.Hour)},
		{ID: "a3", UserID: "u2", ModuleID: "m1", Score: 100, MaxScore: 100, IsPerfect: true, CompletedAt: base},
	}
	profiles := []domain.Profile{
		{ID: "u1", Email: "alice@test", Name: "Alice"},
		{ID: "u2", Email: "bob@test", Name: "Bob"},
	}
	modules := []domain.Module{
		{ID: "m1", Title: "Intro"},
	}
	return attempts, profiles, modules
}

func TestGetLeaderboard_BuildsAndCaches(t *testing.T) {
	svc, attemptRepo, profileRepo, moduleRepo, cacheMock := newDashboardServiceForTest()
	ctx := context.Background()

	attempts, profiles, modules := dashboardFixtures()
	cacheMock.On("Get", ctx, cache.LeaderboardKey()).Return("", domain.ErrCacheMiss)
	attemptRepo.On("GetAllAttempts", mock.Anything).Return(attempts, nil)
	profileRepo.On("GetAllProfiles", mock.Anything).Return(profiles, nil)
	moduleRepo.On("GetAllModules", mock.Anything).Return(modules, nil)
	cacheMock.On("Set", ctx, cache.LeaderboardKey(), mock.Anything, 30*time.Second).Return(nil)

	resp, err := svc.GetLeaderboard(ctx)
	assert.NoError(t, err)
	assert.Len(t, resp.Podium, 2)
	assert.Empty(t, resp.Others)

	// Bob leads with a perfect 100, Alice's best of 80 follows.
	assert.Equal(t, "Bob", resp.Podium[0].UserName)
	assert.Equal(t, 100, resp.Podium[0].TotalScore)
	assert.Equal(t, 1, resp.Podium[0].Perfects)
	assert.Equal(t, "Alice", resp.Podium[1].UserName)
	assert.Equal(t, 80, resp.Podium[1].TotalScore)

	cacheMock.AssertExpectations(t)
}

func TestGetLeaderboard_ServesCachedSnapshot(t *testing.T) {
	svc, attemptRepo, _, _, cacheMock := newDashboardServiceForTest()
	ctx := context.Background()

	cached := dto.LeaderboardResponse{
		Podium:      []dto.LeaderboardEntryResponse{{Rank: 1, UserID: "u9", UserName: "Cached", TotalScore: 42}},
		GeneratedAt: time.Now(),
	}
	data, _ := json.Marshal(cached)
	cacheMock.On("Get", ctx, cache.LeaderboardKey()).Return(string(data), nil)

	resp, err := svc.GetLeaderboard(ctx)
	assert.NoError(t, err)
	assert.Equal(t, "Cached", resp.Podium[0].UserName)
	attemptRepo.AssertNotCalled(t, "GetAllAttempts", mock.Anything)
}

func TestGetMyProgress(t *testing.T) {
	svc, attemptRepo, profileRepo, moduleRepo, _ := newDashboardServiceForTest()
	ctx := context.Background()

	attempts, profiles, modules := dashboardFixtures()
	attemptRepo.On("GetAllAttempts", mock.Anything).Return(attempts, nil)
	profileRepo.On("GetAllProfiles", mock.Anything).Return(profiles, nil)
	moduleRepo.On("GetAllModules", mock.Anything).Return(modules, nil)

	resp, err := svc.GetMyProgress(ctx, "u1")
	assert.NoError(t, err)
	assert.Equal(t, 2, resp.Rank)
	assert.Equal(t, 80, resp.TotalScore)
	assert.Len(t, resp.Modules, 1)
	assert.Equal(t, 80, resp.Modules[0].BestScore)
	assert.Equal(t, 2, resp.Modules[0].AttemptCount)
}

func TestGetAdminProgress_SubstitutesUnknownLabels(t *testing.T) {
	svc, attemptRepo, profileRepo, moduleRepo, _ := newDashboardServiceForTest()
	ctx := context.Background()

	attempts := []domain.QuizAttempt{
		{ID: "a1", UserID: "ghost", ModuleID: "gone", Score: 10, MaxScore: 20, CompletedAt: time.Now()},
	}
	attemptRepo.On("GetAllAttempts", mock.Anything).Return(attempts, nil)
	profileRepo.On("GetAllProfiles", mock.Anything).Return([]domain.Profile{}, nil)
	moduleRepo.On("GetAllModules", mock.Anything).Return([]domain.Module{}, nil)

	resp, err := svc.GetAdminProgress(ctx)
	assert.NoError(t, err)
	assert.Len(t, resp.Rows, 1)
	assert.Equal(t, domain.UnknownUserLabel, resp.Rows[0].UserName)
	assert.Equal(t, domain.UnknownModuleLabel, resp.Rows[0].ModuleTitle)
}

func TestExportProgressCSV(t *testing.T) {
	svc, attemptRepo, profileRepo, moduleRepo, _ := newDashboardServiceForTest()
	ctx := context.Background()

	attempts, profiles, modules := dashboardFixtures()
	attemptRepo.On("GetAllAttempts", mock.Anything).Return(attempts, nil)
	profileRepo.On("GetAllProfiles", mock.Anything).Return(profiles, nil)
	moduleRepo.On("GetAllModules", mock.Anything).Return(modules, nil)

	data, err := svc.ExportProgressCSV(ctx)
	assert.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Equal(t, "User,Module,Best Score,Attempts,Last Attempt Date", lines[0])
	assert.Len(t, lines, 3)
	assert.Contains(t, string(data), "Alice,Intro,80,2,")
	assert.Contains(t, string(data), "Bob,Intro,100,1,")
}
