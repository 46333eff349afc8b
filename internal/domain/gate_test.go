package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvaluateGate(t *testing.T) {
	tests := []struct {
		name          string
		attemptCount  int
		videoFinished bool
		questionCount int
		wantState     GateState
		wantRemaining int
	}{
		{
			name:          "no questions means no quiz",
			attemptCount:  0,
			videoFinished: true,
			questionCount: 0,
			wantState:     GateNoQuiz,
			wantRemaining: 3,
		},
		{
			name:          "exhausted wins over finished video",
			attemptCount:  3,
			videoFinished: true,
			questionCount: 5,
			wantState:     GateExhausted,
			wantRemaining: 0,
		},
		{
			name:          "exhausted wins over unfinished video",
			attemptCount:  3,
			videoFinished: false,
			questionCount: 5,
			wantState:     GateExhausted,
			wantRemaining: 0,
		},
		{
			name:          "video finished unlocks",
			attemptCount:  1,
			videoFinished: true,
			questionCount: 5,
			wantState:     GateReady,
			wantRemaining: 2,
		},
		{
			name:          "video not finished stays locked",
			attemptCount:  0,
			videoFinished: false,
			questionCount: 5,
			wantState:     GateLocked,
			wantRemaining: 3,
		},
		{
			name:          "no questions beats exhausted",
			attemptCount:  3,
			videoFinished: true,
			questionCount: 0,
			wantState:     GateNoQuiz,
			wantRemaining: 0,
		},
		{
			name:          "count above limit clamps remaining",
			attemptCount:  5,
			videoFinished: true,
			questionCount: 2,
			wantState:     GateExhausted,
			wantRemaining: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision := EvaluateGate(tt.attemptCount, tt.videoFinished, tt.questionCount)
			assert.Equal(t, tt.wantState, decision.State)
			assert.Equal(t, tt.wantRemaining, decision.AttemptsRemaining)
			assert.Equal(t, tt.attemptCount, decision.AttemptsUsed)
		})
	}
}
