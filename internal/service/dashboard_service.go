package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"learning-hour/internal/cache"
	"learning-hour/internal/config"
	"learning-hour/internal/domain"
	"learning-hour/internal/dto"
	"learning-hour/internal/logger"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const exportTimeLayout = "2006-01-02 15:04"

// DashboardService serves leaderboard and progress views built from raw
// attempts.
type DashboardService interface {
	GetLeaderboard(ctx context.Context) (*dto.LeaderboardResponse, error)
	GetMyProgress(ctx context.Context, userID string) (*dto.MyProgressResponse, error)
	GetAdminProgress(ctx context.Context) (*dto.AdminProgressResponse, error)
	ExportProgressCSV(ctx context.Context) ([]byte, error)
}

type dashboardServiceImpl struct {
	attemptRepo domain.AttemptRepository
	profileRepo domain.ProfileRepository
	moduleRepo  domain.ModuleRepository
	cache       domain.Cache
	cacheCfg    config.CacheConfig
}

// NewDashboardService creates a new instance of DashboardService.
func NewDashboardService(
	attemptRepo domain.AttemptRepository,
	profileRepo domain.ProfileRepository,
	moduleRepo domain.ModuleRepository,
	cacheClient domain.Cache,
	cacheCfg config.CacheConfig,
) DashboardService {
	return &dashboardServiceImpl{
		attemptRepo: attemptRepo,
		profileRepo: profileRepo,
		moduleRepo:  moduleRepo,
		cache:       cacheClient,
		cacheCfg:    cacheCfg,
	}
}

// GetLeaderboard returns the ranked leaderboard, serving a cached snapshot
// when one is fresh. The snapshot is invalidated on every submit and module
// delete, so a short TTL only bounds staleness across instances.
func (s *dashboardServiceImpl) GetLeaderboard(ctx context.Context) (*dto.LeaderboardResponse, error) {
	key := cache.LeaderboardKey()
	if cached, err := s.cache.Get(ctx, key); err == nil {
		var resp dto.LeaderboardResponse
		if jsonErr := json.Unmarshal([]byte(cached), &resp); jsonErr == nil {
			return &resp, nil
		}
		logger.Get().Warn("Failed to decode cached leaderboard, rebuilding")
	} else if !errors.Is(err, domain.ErrCacheMiss) {
		logger.Get().Warn("Leaderboard cache read failed", zap.Error(err))
	}

	attempts, userNames, _, err := s.loadDashboardData(ctx)
	if err != nil {
		return nil, err
	}

	entries := domain.BuildLeaderboard(attempts, userNames)
	podium, others := domain.SplitPodium(entries)

	resp := &dto.LeaderboardResponse{
		Podium:      toLeaderboardEntries(podium),
		Others:      toLeaderboardEntries(others),
		GeneratedAt: time.Now(),
	}

	if data, jsonErr := json.Marshal(resp); jsonErr == nil {
		if cacheErr := s.cache.Set(ctx, key, string(data), s.cacheCfg.LeaderboardTTL); cacheErr != nil {
			logger.Get().Warn("Failed to cache leaderboard", zap.Error(cacheErr))
		}
	}

	return resp, nil
}

func (s *dashboardServiceImpl) GetMyProgress(ctx context.Context, userID string) (*dto.MyProgressResponse, error) {
	attempts, userNames, moduleTitles, err := s.loadDashboardData(ctx)
	if err != nil {
		return nil, err
	}

	entries := domain.BuildLeaderboard(attempts, userNames)
	rank := 0
	totalScore := 0
	for _, e := range entries {
		if e.UserID == userID {
			rank = e.Rank
			totalScore = e.TotalScore
			break
		}
	}

	var own []domain.QuizAttempt
	for _, a := range attempts {
		if a.UserID == userID {
			own = append(own, a)
		}
	}
	rows := domain.AggregateAttempts(own, userNames, moduleTitles)

	return &dto.MyProgressResponse{
		TotalScore: totalScore,
		Rank:       rank,
		Modules:    toProgressResponses(rows),
	}, nil
}

func (s *dashboardServiceImpl) GetAdminProgress(ctx context.Context) (*dto.AdminProgressResponse, error) {
	rows, err := s.aggregateAll(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.AdminProgressResponse{Rows: toProgressResponses(rows)}, nil
}

// ExportProgressCSV renders the admin progress table as CSV.
func (s *dashboardServiceImpl) ExportProgressCSV(ctx context.Context) ([]byte, error) {
	rows, err := s.aggregateAll(ctx)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"User", "Module", "Best Score", "Attempts", "Last Attempt Date"}); err != nil {
		return nil, domain.NewInternalError("failed to write csv header", err)
	}
	for _, r := range rows {
		record := []string{
			r.UserName,
			r.ModuleTitle,
			strconv.Itoa(r.BestScore),
			strconv.Itoa(r.AttemptCount),
			r.LastAttemptAt.Format(exportTimeLayout),
		}
		if err := w.Write(record); err != nil {
			return nil, domain.NewInternalError("failed to write csv row", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, domain.NewInternalError("failed to flush csv", err)
	}
	return buf.Bytes(), nil
}

func (s *dashboardServiceImpl) aggregateAll(ctx context.Context) ([]domain.ModuleProgress, error) {
	attempts, userNames, moduleTitles, err := s.loadDashboardData(ctx)
	if err != nil {
		return nil, err
	}
	return domain.AggregateAttempts(attempts, userNames, moduleTitles), nil
}

// loadDashboardData fetches attempts, profile names and module titles in
// parallel.
func (s *dashboardServiceImpl) loadDashboardData(ctx context.Context) ([]domain.QuizAttempt, map[string]string, map[string]string, error) {
	var (
		attempts     []domain.QuizAttempt
		userNames    map[string]string
		moduleTitles map[string]string
	)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		attempts, err = s.attemptRepo.GetAllAttempts(gCtx)
		return err
	})
	g.Go(func() error {
		profiles, err := s.profileRepo.GetAllProfiles(gCtx)
		if err != nil {
			return err
		}
		userNames = make(map[string]string, len(profiles))
		for _, p := range profiles {
			if p.Name != "" {
				userNames[p.ID] = p.Name
			} else {
				userNames[p.ID] = p.Email
			}
		}
		return nil
	})
	g.Go(func() error {
		modules, err := s.moduleRepo.GetAllModules(gCtx)
		if err != nil {
			return err
		}
		moduleTitles = make(map[string]string, len(modules))
		for _, m := range modules {
			moduleTitles[m.ID] = m.Title
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, nil, nil, domain.NewInternalError("failed to load dashboard data", err)
	}
	return attempts, userNames, moduleTitles, nil
}

func toLeaderboardEntries(entries []domain.LeaderboardEntry) []dto.LeaderboardEntryResponse {
	out := make([]dto.LeaderboardEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, dto.LeaderboardEntryResponse{
			Rank:       e.Rank,
			UserID:     e.UserID,
			UserName:   e.UserName,
			TotalScore: e.TotalScore,
			Perfects:   e.Perfects,
		})
	}
	return out
}

func toProgressResponses(rows []domain.ModuleProgress) []dto.ModuleProgressResponse {
	out := make([]dto.ModuleProgressResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.ModuleProgressResponse{
			UserID:        r.UserID,
			UserName:      r.UserName,
			ModuleID:      r.ModuleID,
			ModuleTitle:   r.ModuleTitle,
			BestScore:     r.BestScore,
			MaxScore:      r.MaxScore,
			AttemptCount:  r.AttemptCount,
			LastAttemptAt: r.LastAttemptAt,
		})
	}
	return out
}
