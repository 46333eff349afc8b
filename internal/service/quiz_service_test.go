package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"learning-hour/internal/cache"
	"learning-hour/internal/config"
	"learning-hour/internal/domain"
	"learning-hour/internal/dto"
	"learning-hour/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func init() {
	logger.Initialize(config.LoggerConfig{Level: "debug", Env: "test"})
}

func testCacheConfig() config.CacheConfig {
	return config.CacheConfig{
		SessionTTL:     time.Hour,
		VideoFlagTTL:   24 * time.Hour,
		LeaderboardTTL: 30 * time.Second,
	}
}

func newQuizServiceForTest() (QuizService, *MockModuleRepository, *MockAttemptRepository, *MockCache, *MockTransactionManager) {
	moduleRepo := new(MockModuleRepository)
	attemptRepo := new(MockAttemptRepository)
	cacheMock := new(MockCache)
	txManager := new(MockTransactionManager)
	svc := NewQuizService(moduleRepo, attemptRepo, txManager, cacheMock, testCacheConfig())
	return svc, moduleRepo, attemptRepo, cacheMock, txManager
}

func testQuestions() []domain.Question {
	return []domain.Question{
		{ID: "q1", ModuleID: "m1", Text: "one", Options: []string{"a", "b"}, CorrectOptionIndex: 0, Points: 10},
		{ID: "q2", ModuleID: "m1", Text: "two", Options: []string{"a", "b"}, CorrectOptionIndex: 1, Points: 20},
	}
}

func storedSession(t *testing.T, answers map[int]int) (*domain.QuizSession, string) {
	t.Helper()
	session := domain.NewQuizSession("01HSESSION00000000000000AB", "u1", "m1", testQuestions())
	for idx, opt := range answers {
		if err := session.Answer(idx, opt); err != nil {
			t.Fatalf("failed to prepare session: %v", err)
		}
	}
	data, err := json.Marshal(session)
	if err != nil {
		t.Fatalf("failed to marshal session: %v", err)
	}
	return session, string(data)
}

func TestStartQuiz_Ready(t *testing.T) {
	svc, moduleRepo, attemptRepo, cacheMock, _ := newQuizServiceForTest()
	ctx := context.Background()

	moduleRepo.On("ModuleExists", ctx, "m1").Return(true, nil)
	moduleRepo.On("GetQuestionsByModuleID", ctx, "m1").Return(testQuestions(), nil)
	attemptRepo.On("CountByUserAndModule", ctx, "u1", "m1").Return(1, nil)
	cacheMock.On("Get", ctx, cache.VideoFinishedKey("u1", "m1")).Return("1", nil)
	cacheMock.On("Set", ctx, mock.Anything, mock.Anything, time.Hour).Return(nil)

	resp, err := svc.StartQuiz(ctx, "u1", "m1")
	assert.NoError(t, err)
	assert.NotEmpty(t, resp.SessionID)
	assert.Equal(t, "m1", resp.ModuleID)
	assert.Len(t, resp.Questions, 2)
	moduleRepo.AssertExpectations(t)
	cacheMock.AssertExpectations(t)
}

func TestStartQuiz_LockedWithoutVideo(t *testing.T) {
	svc, moduleRepo, attemptRepo, cacheMock, _ := newQuizServiceForTest()
	ctx := context.Background()

	moduleRepo.On("ModuleExists", ctx, "m1").Return(true, nil)
	moduleRepo.On("GetQuestionsByModuleID", ctx, "m1").Return(testQuestions(), nil)
	attemptRepo.On("CountByUserAndModule", ctx, "u1", "m1").Return(0, nil)
	cacheMock.On("Get", ctx, cache.VideoFinishedKey("u1", "m1")).Return("", domain.ErrCacheMiss)

	_, err := svc.StartQuiz(ctx, "u1", "m1")
	var domainErr *domain.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.CodeQuizLocked, domainErr.Code)
}

func TestStartQuiz_Exhausted(t *testing.T) {
	svc, moduleRepo, attemptRepo, cacheMock, _ := newQuizServiceForTest()
	ctx := context.Background()

	moduleRepo.On("ModuleExists", ctx, "m1").Return(true, nil)
	moduleRepo.On("GetQuestionsByModuleID", ctx, "m1").Return(testQuestions(), nil)
	attemptRepo.On("CountByUserAndModule", ctx, "u1", "m1").Return(domain.MaxQuizAttempts, nil)
	cacheMock.On("Get", ctx, cache.VideoFinishedKey("u1", "m1")).Return("1", nil)

	_, err := svc.StartQuiz(ctx, "u1", "m1")
	var domainErr *domain.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.CodeAttemptLimit, domainErr.Code)
}

func TestStartQuiz_NoQuestions(t *testing.T) {
	svc, moduleRepo, attemptRepo, cacheMock, _ := newQuizServiceForTest()
	ctx := context.Background()

	moduleRepo.On("ModuleExists", ctx, "m1").Return(true, nil)
	moduleRepo.On("GetQuestionsByModuleID", ctx, "m1").Return([]domain.Question{}, nil)
	attemptRepo.On("CountByUserAndModule", ctx, "u1", "m1").Return(0, nil)
	cacheMock.On("Get", ctx, cache.VideoFinishedKey("u1", "m1")).Return("1", nil)

	_, err := svc.StartQuiz(ctx, "u1", "m1")
	var domainErr *domain.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.CodeQuizLocked, domainErr.Code)
}

func TestSubmit_RecordsAttempt(t *testing.T) {
	svc, moduleRepo, attemptRepo, cacheMock, txManager := newQuizServiceForTest()
	ctx := context.Background()

	session, payload := storedSession(t, map[int]int{0: 0, 1: 0})
	sessionKey := cache.QuizSessionKey(session.ID)

	cacheMock.On("Get", ctx, sessionKey).Return(payload, nil)
	moduleRepo.On("ModuleExists", ctx, "m1").Return(true, nil)
	moduleRepo.On("GetQuestionsByModuleID", ctx, "m1").Return(testQuestions(), nil)
	txManager.On("WithTransaction", ctx).Return(nil)
	attemptRepo.On("CountByUserAndModule", ctx, "u1", "m1").Return(0, nil)
	attemptRepo.On("CreateAttempt", ctx, mock.MatchedBy(func(a *domain.QuizAttempt) bool {
		return a.UserID == "u1" && a.ModuleID == "m1" && a.Score == 10 && a.MaxScore == 30 && !a.IsPerfect
	})).Return(nil)
	cacheMock.On("Delete", ctx, sessionKey).Return(nil)
	cacheMock.On("Delete", ctx, cache.LeaderboardKey()).Return(nil)

	resp, err := svc.Submit(ctx, "u1", session.ID)
	assert.NoError(t, err)
	assert.Equal(t, 10, resp.Score)
	assert.Equal(t, 30, resp.MaxScore)
	assert.False(t, resp.IsPerfect)
	assert.Equal(t, 1, resp.AttemptsUsed)
	assert.Equal(t, 2, resp.AttemptsRemaining)
	attemptRepo.AssertExpectations(t)
	cacheMock.AssertExpectations(t)
}

func TestSubmit_PerfectScore(t *testing.T) {
	svc, moduleRepo, attemptRepo, cacheMock, txManager := newQuizServiceForTest()
	ctx := context.Background()

	session, payload := storedSession(t, map[int]int{0: 0, 1: 1})
	sessionKey := cache.QuizSessionKey(session.ID)

	cacheMock.On("Get", ctx, sessionKey).Return(payload, nil)
	moduleRepo.On("ModuleExists", ctx, "m1").Return(true, nil)
	moduleRepo.On("GetQuestionsByModuleID", ctx, "m1").Return(testQuestions(), nil)
	txManager.On("WithTransaction", ctx).Return(nil)
	attemptRepo.On("CountByUserAndModule", ctx, "u1", "m1").Return(2, nil)
	attemptRepo.On("CreateAttempt", ctx, mock.MatchedBy(func(a *domain.QuizAttempt) bool {
		return a.IsPerfect && a.Score == 30
	})).Return(nil)
	cacheMock.On("Delete", ctx, mock.Anything).Return(nil)

	resp, err := svc.Submit(ctx, "u1", session.ID)
	assert.NoError(t, err)
	assert.True(t, resp.IsPerfect)
	assert.Equal(t, 3, resp.AttemptsUsed)
	assert.Equal(t, 0, resp.AttemptsRemaining)
}

func TestSubmit_AttemptLimitEnforcedInTransaction(t *testing.T) {
	svc, moduleRepo, attemptRepo, cacheMock, txManager := newQuizServiceForTest()
	ctx := context.Background()

	session, payload := storedSession(t, map[int]int{0: 0, 1: 1})
	sessionKey := cache.QuizSessionKey(session.ID)

	cacheMock.On("Get", ctx, sessionKey).Return(payload, nil)
	moduleRepo.On("ModuleExists", ctx, "m1").Return(true, nil)
	moduleRepo.On("GetQuestionsByModuleID", ctx, "m1").Return(testQuestions(), nil)
	txManager.On("WithTransaction", ctx).Return(nil)
	attemptRepo.On("CountByUserAndModule", ctx, "u1", "m1").Return(domain.MaxQuizAttempts, nil)

	_, err := svc.Submit(ctx, "u1", session.ID)
	var domainErr *domain.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.CodeAttemptLimit, domainErr.Code)
	attemptRepo.AssertNotCalled(t, "CreateAttempt", mock.Anything, mock.Anything)
}

func TestSubmit_StaleModuleAbandonsSession(t *testing.T) {
	svc, moduleRepo, attemptRepo, cacheMock, _ := newQuizServiceForTest()
	ctx := context.Background()

	session, payload := storedSession(t, map[int]int{0: 0, 1: 1})
	sessionKey := cache.QuizSessionKey(session.ID)

	cacheMock.On("Get", ctx, sessionKey).Return(payload, nil)
	moduleRepo.On("ModuleExists", ctx, "m1").Return(false, nil)
	cacheMock.On("Delete", ctx, sessionKey).Return(nil)

	_, err := svc.Submit(ctx, "u1", session.ID)
	var domainErr *domain.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.CodeStaleReference, domainErr.Code)
	// No attempt row is written for an abandoned run.
	attemptRepo.AssertNotCalled(t, "CreateAttempt", mock.Anything, mock.Anything)
	cacheMock.AssertCalled(t, "Delete", ctx, sessionKey)
}

func TestSubmit_RequiresAllAnswered(t *testing.T) {
	svc, _, attemptRepo, cacheMock, _ := newQuizServiceForTest()
	ctx := context.Background()

	session, payload := storedSession(t, map[int]int{0: 0})
	cacheMock.On("Get", ctx, cache.QuizSessionKey(session.ID)).Return(payload, nil)

	_, err := svc.Submit(ctx, "u1", session.ID)
	var domainErr *domain.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.CodeInvalidInput, domainErr.Code)
	attemptRepo.AssertNotCalled(t, "CreateAttempt", mock.Anything, mock.Anything)
}

func TestSubmit_SessionNotFound(t *testing.T) {
	svc, _, _, cacheMock, _ := newQuizServiceForTest()
	ctx := context.Background()

	cacheMock.On("Get", ctx, mock.Anything).Return("", domain.ErrCacheMiss)

	_, err := svc.Submit(ctx, "u1", "01HSESSION00000000000000AB")
	var domainErr *domain.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.CodeSessionNotFound, domainErr.Code)
}

func TestSubmit_ForeignSessionRejected(t *testing.T) {
	svc, _, _, cacheMock, _ := newQuizServiceForTest()
	ctx := context.Background()

	session, payload := storedSession(t, map[int]int{0: 0, 1: 1})
	cacheMock.On("Get", ctx, cache.QuizSessionKey(session.ID)).Return(payload, nil)

	_, err := svc.Submit(ctx, "intruder", session.ID)
	var domainErr *domain.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.CodeForbidden, domainErr.Code)
}

func TestAnswer_RecordsAndNavigates(t *testing.T) {
	svc, _, _, cacheMock, _ := newQuizServiceForTest()
	ctx := context.Background()

	session, payload := storedSession(t, nil)
	sessionKey := cache.QuizSessionKey(session.ID)

	cacheMock.On("Get", ctx, sessionKey).Return(payload, nil)
	cacheMock.On("Set", ctx, sessionKey, mock.Anything, time.Hour).Return(nil)

	state, err := svc.Answer(ctx, "u1", session.ID, &dto.AnswerRequest{
		QuestionIndex:  0,
		SelectedOption: 1,
		Navigate:       "next",
	})
	assert.NoError(t, err)
	assert.Equal(t, 1, state.CurrentIndex)
	assert.Equal(t, 1, state.AnsweredCount)
	assert.False(t, state.CanSubmit)
}

func TestGetQuizState_ReportsBestScore(t *testing.T) {
	svc, moduleRepo, attemptRepo, cacheMock, _ := newQuizServiceForTest()
	ctx := context.Background()

	now := time.Now()
	moduleRepo.On("GetModuleByID", ctx, "m1").Return(&domain.Module{ID: "m1", Title: "T"}, nil)
	moduleRepo.On("GetQuestionsByModuleID", ctx, "m1").Return(testQuestions(), nil)
	attemptRepo.On("GetAttemptsByUserAndModule", ctx, "u1", "m1").Return([]domain.QuizAttempt{
		{Score: 10, MaxScore: 30, CompletedAt: now},
		{Score: 25, MaxScore: 30, CompletedAt: now},
		{Score: 20, MaxScore: 30, CompletedAt: now},
	}, nil)
	cacheMock.On("Get", ctx, cache.VideoFinishedKey("u1", "m1")).Return("", domain.ErrCacheMiss)

	state, err := svc.GetQuizState(ctx, "u1", "m1")
	assert.NoError(t, err)
	assert.Equal(t, string(domain.GateExhausted), state.State)
	assert.Equal(t, 25, state.BestScore)
	assert.Equal(t, 30, state.MaxScore)
	assert.Equal(t, 0, state.AttemptsRemaining)
}

func TestMarkVideoFinished(t *testing.T) {
	svc, moduleRepo, _, cacheMock, _ := newQuizServiceForTest()
	ctx := context.Background()

	t.Run("sets flag", func(t *testing.T) {
		moduleRepo.On("ModuleExists", ctx, "m1").Return(true, nil).Once()
		cacheMock.On("Set", ctx, cache.VideoFinishedKey("u1", "m1"), "1", 24*time.Hour).Return(nil).Once()

		assert.NoError(t, svc.MarkVideoFinished(ctx, "u1", "m1"))
		cacheMock.AssertExpectations(t)
	})

	t.Run("unknown module", func(t *testing.T) {
		moduleRepo.On("ModuleExists", ctx, "gone").Return(false, nil).Once()

		err := svc.MarkVideoFinished(ctx, "u1", "gone")
		var domainErr *domain.DomainError
		assert.ErrorAs(t, err, &domainErr)
		assert.Equal(t, domain.CodeModuleNotFound, domainErr.Code)
	})

	t.Run("cache failure surfaces", func(t *testing.T) {
		moduleRepo.On("ModuleExists", ctx, "m1").Return(true, nil).Once()
		cacheMock.On("Set", ctx, cache.VideoFinishedKey("u1", "m1"), "1", 24*time.Hour).Return(errors.New("redis down")).Once()

		err := svc.MarkVideoFinished(ctx, "u1", "m1")
		assert.Error(t, err)
	})
}
