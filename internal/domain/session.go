package domain

import "time"

// QuizSession is one in-flight quiz run. Sessions live in the cache only;
// a session becomes an attempt when it is submitted, and simply expires
// when it is abandoned.
type QuizSession struct {
	ID           string      `json:"id"`
	UserID       string      `json:"user_id"`
	ModuleID     string      `json:"module_id"`
	CurrentIndex int         `json:"current_index"`
	Answers      map[int]int `json:"answers"`
	QuestionIDs  []string    `json:"question_ids"`
	OptionCounts []int       `json:"option_counts"`
	StartedAt    time.Time   `json:"started_at"`
}

// NewQuizSession starts a session at the first question with no answers.
// The option count of each question is captured so answers can be bounds
// checked without reloading the module.
func NewQuizSession(id, userID, moduleID string, questions []Question) *QuizSession {
	questionIDs := make([]string, 0, len(questions))
	optionCounts := make([]int, 0, len(questions))
	for _, q := range questions {
		questionIDs = append(questionIDs, q.ID)
		optionCounts = append(optionCounts, len(q.Options))
	}
	return &QuizSession{
		ID:           id,
		UserID:       userID,
		ModuleID:     moduleID,
		Answers:      make(map[int]int),
		QuestionIDs:  questionIDs,
		OptionCounts: optionCounts,
		StartedAt:    time.Now(),
	}
}

// QuestionCount returns how many questions the session covers.
func (s *QuizSession) QuestionCount() int {
	return len(s.QuestionIDs)
}

// Answer records the selected option for a question.
func (s *QuizSession) Answer(questionIndex, selectedOption int) error {
	if questionIndex < 0 || questionIndex >= len(s.QuestionIDs) {
		return NewOutOfRangeError("question_index", questionIndex, 0, len(s.QuestionIDs)-1)
	}
	if selectedOption < 0 {
		return NewInvalidFormatError("selected_option", selectedOption)
	}
	if questionIndex < len(s.OptionCounts) && selectedOption >= s.OptionCounts[questionIndex] {
		return NewOutOfRangeError("selected_option", selectedOption, 0, s.OptionCounts[questionIndex]-1)
	}
	if s.Answers == nil {
		s.Answers = make(map[int]int)
	}
	s.Answers[questionIndex] = selectedOption
	return nil
}

// IsAnswered reports whether the question at the given index has an answer.
func (s *QuizSession) IsAnswered(questionIndex int) bool {
	_, ok := s.Answers[questionIndex]
	return ok
}

// AllAnswered reports whether every question has an answer. Submitting
// requires this.
func (s *QuizSession) AllAnswered() bool {
	for i := range s.QuestionIDs {
		if !s.IsAnswered(i) {
			return false
		}
	}
	return true
}

// MoveForward advances to the next question. The current question must be
// answered before moving on.
func (s *QuizSession) MoveForward() error {
	if s.CurrentIndex >= len(s.QuestionIDs)-1 {
		return NewInvalidInputError("already at the last question")
	}
	if !s.IsAnswered(s.CurrentIndex) {
		return NewInvalidInputError("answer the current question before moving forward")
	}
	s.CurrentIndex++
	return nil
}

// MoveBack steps back to the previous question. Going back is always
// allowed.
func (s *QuizSession) MoveBack() error {
	if s.CurrentIndex <= 0 {
		return NewInvalidInputError("already at the first question")
	}
	s.CurrentIndex--
	return nil
}
