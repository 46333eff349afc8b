package service

import (
	"context"

	"learning-hour/internal/cache"
	"learning-hour/internal/domain"
	"learning-hour/internal/dto"
	"learning-hour/internal/logger"

	"go.uber.org/zap"
)

// ModuleService manages lessons and their question sets.
type ModuleService interface {
	GetAllModules(ctx context.Context) ([]dto.ModuleResponse, error)
	GetModule(ctx context.Context, moduleID string) (*dto.ModuleDetailResponse, error)
	CreateModule(ctx context.Context, req *dto.SaveModuleRequest) (*dto.ModuleResponse, error)
	UpdateModule(ctx context.Context, moduleID string, req *dto.SaveModuleRequest) (*dto.ModuleResponse, error)
	DeleteModule(ctx context.Context, moduleID string) error
}

type moduleServiceImpl struct {
	moduleRepo  domain.ModuleRepository
	attemptRepo domain.AttemptRepository
	txManager   domain.TransactionManager
	cache       domain.Cache
}

// NewModuleService creates a new instance of ModuleService.
func NewModuleService(
	moduleRepo domain.ModuleRepository,
	attemptRepo domain.AttemptRepository,
	txManager domain.TransactionManager,
	cacheClient domain.Cache,
) ModuleService {
	return &moduleServiceImpl{
		moduleRepo:  moduleRepo,
		attemptRepo: attemptRepo,
		txManager:   txManager,
		cache:       cacheClient,
	}
}

func (s *moduleServiceImpl) GetAllModules(ctx context.Context) ([]dto.ModuleResponse, error) {
	modules, err := s.moduleRepo.GetAllModules(ctx)
	if err != nil {
		return nil, domain.NewInternalError("failed to load modules", err)
	}

	responses := make([]dto.ModuleResponse, 0, len(modules))
	for i := range modules {
		questions, err := s.moduleRepo.GetQuestionsByModuleID(ctx, modules[i].ID)
		if err != nil {
			return nil, domain.NewInternalError("failed to load questions", err)
		}
		responses = append(responses, toModuleResponse(&modules[i], len(questions)))
	}
	return responses, nil
}

func (s *moduleServiceImpl) GetModule(ctx context.Context, moduleID string) (*dto.ModuleDetailResponse, error) {
	module, err := s.moduleRepo.GetModuleByID(ctx, moduleID)
	if err != nil {
		return nil, domain.NewInternalError("failed to load module", err)
	}
	if module == nil {
		return nil, domain.NewModuleNotFoundError(moduleID)
	}

	questions, err := s.moduleRepo.GetQuestionsByModuleID(ctx, moduleID)
	if err != nil {
		return nil, domain.NewInternalError("failed to load questions", err)
	}

	return &dto.ModuleDetailResponse{
		ModuleResponse: toModuleResponse(module, len(questions)),
		Questions:      toQuizQuestions(questions),
	}, nil
}

func (s *moduleServiceImpl) CreateModule(ctx context.Context, req *dto.SaveModuleRequest) (*dto.ModuleResponse, error) {
	module := domain.NewModule(req.Title, req.Description, req.VideoURL)
	questions := toQuestions(req.Questions)

	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.moduleRepo.CreateModule(txCtx, module); err != nil {
			return err
		}
		return s.moduleRepo.ReplaceQuestions(txCtx, module.ID, questions)
	})
	if err != nil {
		return nil, domain.NewInternalError("failed to create module", err)
	}

	logger.Get().Info("Module created",
		zap.String("moduleID", module.ID),
		zap.Int("questions", len(questions)))

	resp := toModuleResponse(module, len(questions))
	return &resp, nil
}

func (s *moduleServiceImpl) UpdateModule(ctx context.Context, moduleID string, req *dto.SaveModuleRequest) (*dto.ModuleResponse, error) {
	existing, err := s.moduleRepo.GetModuleByID(ctx, moduleID)
	if err != nil {
		return nil, domain.NewInternalError("failed to load module", err)
	}
	if existing == nil {
		return nil, domain.NewModuleNotFoundError(moduleID)
	}

	existing.Title = req.Title
	existing.Description = req.Description
	existing.VideoURL = req.VideoURL
	questions := toQuestions(req.Questions)

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.moduleRepo.UpdateModule(txCtx, existing); err != nil {
			return err
		}
		return s.moduleRepo.ReplaceQuestions(txCtx, moduleID, questions)
	})
	if err != nil {
		return nil, err
	}

	resp := toModuleResponse(existing, len(questions))
	return &resp, nil
}

// DeleteModule removes the module, its questions and all attempts recorded
// against it. Sessions referencing the module become stale and are rejected
// at submit time.
func (s *moduleServiceImpl) DeleteModule(ctx context.Context, moduleID string) error {
	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.moduleRepo.DeleteModule(txCtx, moduleID); err != nil {
			return err
		}
		return s.attemptRepo.DeleteByModule(txCtx, moduleID)
	})
	if err != nil {
		return err
	}

	if cacheErr := s.cache.Delete(ctx, cache.LeaderboardKey()); cacheErr != nil {
		logger.Get().Warn("Failed to invalidate leaderboard cache after module delete",
			zap.String("moduleID", moduleID),
			zap.Error(cacheErr))
	}

	logger.Get().Info("Module deleted", zap.String("moduleID", moduleID))
	return nil
}

func toModuleResponse(m *domain.Module, questionCount int) dto.ModuleResponse {
	return dto.ModuleResponse{
		ID:            m.ID,
		Title:         m.Title,
		Description:   m.Description,
		VideoURL:      m.VideoURL,
		QuestionCount: questionCount,
		CreatedAt:     m.CreatedAt,
	}
}

func toQuestions(reqs []dto.SaveQuestionRequest) []domain.Question {
	questions := make([]domain.Question, 0, len(reqs))
	for _, r := range reqs {
		questions = append(questions, domain.Question{
			Text:               r.Text,
			Options:            r.Options,
			CorrectOptionIndex: r.CorrectOptionIndex,
			Points:             r.Points,
		})
	}
	return questions
}
