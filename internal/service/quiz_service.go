package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"learning-hour/internal/cache"
	"learning-hour/internal/config"
	"learning-hour/internal/domain"
	"learning-hour/internal/dto"
	"learning-hour/internal/logger"
	"learning-hour/internal/util"

	"go.uber.org/zap"
)

const videoFinishedFlag = "1"

// QuizService drives the quiz lifecycle: gate evaluation, session handling
// and grading.
type QuizService interface {
	GetQuizState(ctx context.Context, userID, moduleID string) (*dto.QuizStateResponse, error)
	MarkVideoFinished(ctx context.Context, userID, moduleID string) error
	StartQuiz(ctx context.Context, userID, moduleID string) (*dto.StartQuizResponse, error)
	Answer(ctx context.Context, userID, sessionID string, req *dto.AnswerRequest) (*dto.SessionStateResponse, error)
	Submit(ctx context.Context, userID, sessionID string) (*dto.SubmitQuizResponse, error)
}

type quizServiceImpl struct {
	moduleRepo  domain.ModuleRepository
	attemptRepo domain.AttemptRepository
	txManager   domain.TransactionManager
	cache       domain.Cache
	cacheCfg    config.CacheConfig
}

// NewQuizService creates a new instance of QuizService.
func NewQuizService(
	moduleRepo domain.ModuleRepository,
	attemptRepo domain.AttemptRepository,
	txManager domain.TransactionManager,
	cacheClient domain.Cache,
	cacheCfg config.CacheConfig,
) QuizService {
	return &quizServiceImpl{
		moduleRepo:  moduleRepo,
		attemptRepo: attemptRepo,
		txManager:   txManager,
		cache:       cacheClient,
		cacheCfg:    cacheCfg,
	}
}

func (s *quizServiceImpl) GetQuizState(ctx context.Context, userID, moduleID string) (*dto.QuizStateResponse, error) {
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

	attempts, err := s.attemptRepo.GetAttemptsByUserAndModule(ctx, userID, moduleID)
	if err != nil {
		return nil, domain.NewInternalError("failed to load attempts", err)
	}

	decision := domain.EvaluateGate(len(attempts), s.isVideoFinished(ctx, userID, moduleID), len(questions))

	bestScore := 0
	maxScore := 0
	for _, q := range questions {
		maxScore += q.Points
	}
	for _, a := range attempts {
		if a.Score > bestScore {
			bestScore = a.Score
		}
	}

	return &dto.QuizStateResponse{
		State:             string(decision.State),
		AttemptsUsed:      decision.AttemptsUsed,
		AttemptsRemaining: decision.AttemptsRemaining,
		BestScore:         bestScore,
		MaxScore:          maxScore,
	}, nil
}

func (s *quizServiceImpl) MarkVideoFinished(ctx context.Context, userID, moduleID string) error {
	exists, err := s.moduleRepo.ModuleExists(ctx, moduleID)
	if err != nil {
		return domain.NewInternalError("failed to check module", err)
	}
	if !exists {
		return domain.NewModuleNotFoundError(moduleID)
	}

	key := cache.VideoFinishedKey(userID, moduleID)
	if err := s.cache.Set(ctx, key, videoFinishedFlag, s.cacheCfg.VideoFlagTTL); err != nil {
		return domain.NewInternalError("failed to record video completion", err)
	}
	return nil
}

func (s *quizServiceImpl) StartQuiz(ctx context.Context, userID, moduleID string) (*dto.StartQuizResponse, error) {
	exists, err := s.moduleRepo.ModuleExists(ctx, moduleID)
	if err != nil {
		return nil, domain.NewInternalError("failed to check module", err)
	}
	if !exists {
		return nil, domain.NewModuleNotFoundError(moduleID)
	}

	questions, err := s.moduleRepo.GetQuestionsByModuleID(ctx, moduleID)
	if err != nil {
		return nil, domain.NewInternalError("failed to load questions", err)
	}

	attemptCount, err := s.attemptRepo.CountByUserAndModule(ctx, userID, moduleID)
	if err != nil {
		return nil, domain.NewInternalError("failed to count attempts", err)
	}

	decision := domain.EvaluateGate(attemptCount, s.isVideoFinished(ctx, userID, moduleID), len(questions))
	switch decision.State {
	case domain.GateNoQuiz:
		return nil, domain.NewQuizLockedError("this module has no quiz")
	case domain.GateExhausted:
		return nil, domain.NewAttemptLimitError(moduleID)
	case domain.GateLocked:
		return nil, domain.NewQuizLockedError("finish the video before starting the quiz")
	}

	session := domain.NewQuizSession(util.NewULID(), userID, moduleID, questions)

	if err := s.saveSession(ctx, session); err != nil {
		return nil, err
	}

	logger.Get().Info("Quiz session started",
		zap.String("sessionID", session.ID),
		zap.String("userID", userID),
		zap.String("moduleID", moduleID))

	return &dto.StartQuizResponse{
		SessionID: session.ID,
		ModuleID:  moduleID,
		Questions: toQuizQuestions(questions),
		StartedAt: session.StartedAt,
	}, nil
}

func (s *quizServiceImpl) Answer(ctx context.Context, userID, sessionID string, req *dto.AnswerRequest) (*dto.SessionStateResponse, error) {
	session, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.UserID != userID {
		return nil, domain.NewForbiddenError("session belongs to another user")
	}

	if err := session.Answer(req.QuestionIndex, req.SelectedOption); err != nil {
		return nil, err
	}

	switch req.Navigate {
	case "next":
		if err := session.MoveForward(); err != nil {
			return nil, err
		}
	case "back":
		if err := session.MoveBack(); err != nil {
			return nil, err
		}
	}

	if err := s.saveSession(ctx, session); err != nil {
		return nil, err
	}

	return &dto.SessionStateResponse{
		SessionID:     session.ID,
		CurrentIndex:  session.CurrentIndex,
		AnsweredCount: len(session.Answers),
		QuestionCount: session.QuestionCount(),
		CanSubmit:     session.AllAnswered(),
	}, nil
}

// Submit grades the session and records the attempt. The module is checked
// again right before writing: a module deleted mid-session makes the session
// stale, and the run is abandoned without an attempt row. The attempt limit
// is re-checked inside the transaction so concurrent submits cannot push a
// user past it.
func (s *quizServiceImpl) Submit(ctx context.Context, userID, sessionID string) (*dto.SubmitQuizResponse, error) {
	session, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.UserID != userID {
		return nil, domain.NewForbiddenError("session belongs to another user")
	}
	if !session.AllAnswered() {
		return nil, domain.NewInvalidInputError("answer every question before submitting")
	}

	exists, err := s.moduleRepo.ModuleExists(ctx, session.ModuleID)
	if err != nil {
		return nil, domain.NewInternalError("failed to check module", err)
	}
	if !exists {
		s.deleteSession(ctx, sessionID)
		return nil, domain.NewStaleReferenceError(session.ModuleID)
	}

	questions, err := s.moduleRepo.GetQuestionsByModuleID(ctx, session.ModuleID)
	if err != nil {
		return nil, domain.NewInternalError("failed to load questions", err)
	}
	if len(questions) != session.QuestionCount() {
		// Question set changed under the session; treat it as stale.
		s.deleteSession(ctx, sessionID)
		return nil, domain.NewStaleReferenceError(session.ModuleID)
	}

	result := domain.GradeQuiz(questions, session.Answers)

	var attemptsUsed int
	attempt := &domain.QuizAttempt{
		UserID:      userID,
		ModuleID:    session.ModuleID,
		Score:       result.Score,
		MaxScore:    result.MaxScore,
		IsPerfect:   result.IsPerfect,
		CompletedAt: time.Now(),
	}

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		count, err := s.attemptRepo.CountByUserAndModule(txCtx, userID, session.ModuleID)
		if err != nil {
			return fmt.Errorf("failed to count attempts: %w", err)
		}
		if count >= domain.MaxQuizAttempts {
			return domain.NewAttemptLimitError(session.ModuleID)
		}
		if err := s.attemptRepo.CreateAttempt(txCtx, attempt); err != nil {
			return err
		}
		attemptsUsed = count + 1
		return nil
	})
	if err != nil {
		var domainErr *domain.DomainError
		if errors.As(err, &domainErr) {
			return nil, domainErr
		}
		return nil, domain.NewInternalError("failed to record attempt", err)
	}

	s.deleteSession(ctx, sessionID)
	if cacheErr := s.cache.Delete(ctx, cache.LeaderboardKey()); cacheErr != nil {
		logger.Get().Warn("Failed to invalidate leaderboard cache after submit", zap.Error(cacheErr))
	}

	logger.Get().Info("Quiz attempt recorded",
		zap.String("userID", userID),
		zap.String("moduleID", session.ModuleID),
		zap.Int("score", result.Score),
		zap.Int("maxScore", result.MaxScore),
		zap.Bool("isPerfect", result.IsPerfect))

	return toSubmitResponse(&result, questions, attemptsUsed), nil
}

func (s *quizServiceImpl) isVideoFinished(ctx context.Context, userID, moduleID string) bool {
	val, err := s.cache.Get(ctx, cache.VideoFinishedKey(userID, moduleID))
	if err != nil {
		if !errors.Is(err, domain.ErrCacheMiss) {
			logger.Get().Warn("Failed to read video completion flag", zap.Error(err))
		}
		return false
	}
	return val == videoFinishedFlag
}

func (s *quizServiceImpl) loadSession(ctx context.Context, sessionID string) (*domain.QuizSession, error) {
	val, err := s.cache.Get(ctx, cache.QuizSessionKey(sessionID))
	if err != nil {
		if errors.Is(err, domain.ErrCacheMiss) {
			return nil, domain.NewSessionNotFoundError(sessionID)
		}
		return nil, domain.NewInternalError("failed to load session", err)
	}

	var session domain.QuizSession
	if err := json.Unmarshal([]byte(val), &session); err != nil {
		return nil, domain.NewInternalError("failed to decode session", err)
	}
	return &session, nil
}

func (s *quizServiceImpl) saveSession(ctx context.Context, session *domain.QuizSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return domain.NewInternalError("failed to encode session", err)
	}
	if err := s.cache.Set(ctx, cache.QuizSessionKey(session.ID), string(data), s.cacheCfg.SessionTTL); err != nil {
		return domain.NewInternalError("failed to save session", err)
	}
	return nil
}

func (s *quizServiceImpl) deleteSession(ctx context.Context, sessionID string) {
	if err := s.cache.Delete(ctx, cache.QuizSessionKey(sessionID)); err != nil {
		logger.Get().Warn("Failed to delete quiz session", zap.String("sessionID", sessionID), zap.Error(err))
	}
}

func toQuizQuestions(questions []domain.Question) []dto.QuizQuestionResponse {
	out := make([]dto.QuizQuestionResponse, 0, len(questions))
	for i, q := range questions {
		out = append(out, dto.QuizQuestionResponse{
			Index:   i,
			Text:    q.Text,
			Options: q.Options,
			Points:  q.Points,
		})
	}
	return out
}

func toSubmitResponse(result *domain.QuizResult, questions []domain.Question, attemptsUsed int) *dto.SubmitQuizResponse {
	outcomes := make([]dto.QuestionOutcomeResponse, 0, len(result.Outcomes))
	for i, o := range result.Outcomes {
		outcomes = append(outcomes, dto.QuestionOutcomeResponse{
			Index:          i,
			SelectedOption: o.SelectedOption,
			CorrectOption:  questions[i].CorrectOptionIndex,
			Correct:        o.Correct,
			PointsAwarded:  o.PointsAwarded,
			PointsPossible: o.PointsPossible,
		})
	}

	remaining := domain.MaxQuizAttempts - attemptsUsed
	if remaining < 0 {
		remaining = 0
	}

	return &dto.SubmitQuizResponse{
		Score:             result.Score,
		MaxScore:          result.MaxScore,
		IsPerfect:         result.IsPerfect,
		AttemptsUsed:      attemptsUsed,
		AttemptsRemaining: remaining,
		Outcomes:          outcomes,
	}
}
