package dto

import "time"

// QuizStateResponse tells the client what it may do with a module's quiz.
// @Description Quiz gate state for the requesting user
type QuizStateResponse struct {
	State             string `json:"state"`
	AttemptsUsed      int    `json:"attempts_used"`
	AttemptsRemaining int    `json:"attempts_remaining"`
	BestScore         int    `json:"best_score"`
	MaxScore          int    `json:"max_score"`
}

// QuizQuestionResponse is a question as shown to a quiz taker. The correct
// option index is deliberately absent.
type QuizQuestionResponse struct {
	Index   int      `json:"index"`
	Text    string   `json:"text"`
	Options []string `json:"options"`
	Points  int      `json:"points"`
}

// StartQuizResponse is returned when a quiz session is opened.
type StartQuizResponse struct {
	SessionID string                 `json:"session_id"`
	ModuleID  string                 `json:"module_id"`
	Questions []QuizQuestionResponse `json:"questions"`
	StartedAt time.Time              `json:"started_at"`
}

// AnswerRequest records an answer and optionally moves the cursor.
// Navigate is "next", "back" or empty.
// @Description Request body for answering a question in a session
type AnswerRequest struct {
	QuestionIndex  int    `json:"question_index"`
	SelectedOption int    `json:"selected_option"`
	Navigate       string `json:"navigate,omitempty"`
}

// SessionStateResponse is the session as the client sees it after an
// answer or navigation.
type SessionStateResponse struct {
	SessionID     string `json:"session_id"`
	CurrentIndex  int    `json:"current_index"`
	AnsweredCount int    `json:"answered_count"`
	QuestionCount int    `json:"question_count"`
	CanSubmit     bool   `json:"can_submit"`
}

// QuestionOutcomeResponse is the graded result of one question.
type QuestionOutcomeResponse struct {
	Index          int  `json:"index"`
	SelectedOption int  `json:"selected_option"`
	CorrectOption  int  `json:"correct_option"`
	Correct        bool `json:"correct"`
	PointsAwarded  int  `json:"points_awarded"`
	PointsPossible int  `json:"points_possible"`
}

// SubmitQuizResponse is the graded result of a submitted session.
// @Description Graded quiz result
type SubmitQuizResponse struct {
	Score             int                       `json:"score"`
	MaxScore          int                       `json:"max_score"`
	IsPerfect         bool                      `json:"is_perfect"`
	AttemptsUsed      int                       `json:"attempts_used"`
	AttemptsRemaining int                       `json:"attempts_remaining"`
	Outcomes          []QuestionOutcomeResponse `json:"outcomes"`
}
