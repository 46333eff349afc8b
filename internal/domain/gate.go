package domain

// MaxQuizAttempts is the maximum number of graded attempts a user may make
// per module. Enforced transactionally on submit, not only at gate time.
const MaxQuizAttempts = 3

// GateState describes what a user may currently do with a module's quiz.
type GateState string

const (
	// GateNoQuiz means the module carries no questions, so there is nothing
	// to take.
	GateNoQuiz GateState = "NO_QUIZ"

	// GateExhausted means the user has used up all allowed attempts.
	GateExhausted GateState = "EXHAUSTED"

	// GateReady means the user finished the video and may start the quiz.
	GateReady GateState = "READY"

	// GateLocked means the user has not finished the video yet.
	GateLocked GateState = "LOCKED"
)

// GateDecision is the result of evaluating the quiz gate for one user and
// one module.
type GateDecision struct {
	State             GateState `json:"state"`
	AttemptsUsed      int       `json:"attempts_used"`
	AttemptsRemaining int       `json:"attempts_remaining"`
}

// EvaluateGate decides whether a quiz can be started. The checks are ordered:
// a module without questions is never startable, an exhausted attempt budget
// wins over video state, and only then does video completion unlock the quiz.
func EvaluateGate(attemptCount int, videoFinished bool, questionCount int) GateDecision {
	remaining := MaxQuizAttempts - attemptCount
	if remaining < 0 {
		remaining = 0
	}
	decision := GateDecision{
		AttemptsUsed:      attemptCount,
		AttemptsRemaining: remaining,
	}

	switch {
	case questionCount == 0:
		decision.State = GateNoQuiz
	case attemptCount >= MaxQuizAttempts:
		decision.State = GateExhausted
		decision.AttemptsRemaining = 0
	case videoFinished:
		decision.State = GateReady
	default:
		decision.State = GateLocked
	}
	return decision
}
