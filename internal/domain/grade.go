package domain

// UnansweredIndex marks a question the user never answered. An unanswered
// question is graded as wrong.
const UnansweredIndex = -1

// QuestionOutcome is the graded result of a single question.
type QuestionOutcome struct {
	QuestionID     string
	SelectedOption int
	Correct        bool
	PointsAwarded  int
	PointsPossible int
}

// QuizResult is the graded result of a whole attempt.
type QuizResult struct {
	Score     int
	MaxScore  int
	IsPerfect bool
	Outcomes  []QuestionOutcome
}

// GradeQuiz scores a set of answers against the module's questions. Answers
// maps question index to the selected option index; missing entries count as
// unanswered. Grading is pure: no partial credit, no negative scores, and a
// perfect result requires a non-empty quiz.
func GradeQuiz(questions []Question, answers map[int]int) QuizResult {
	result := QuizResult{
		Outcomes: make([]QuestionOutcome, 0, len(questions)),
	}
	for i, q := range questions {
		selected, ok := answers[i]
		if !ok {
			selected = UnansweredIndex
		}
		outcome := QuestionOutcome{
			QuestionID:     q.ID,
			SelectedOption: selected,
			PointsPossible: q.Points,
		}
		result.MaxScore += q.Points
		if q.IsCorrect(selected) {
			outcome.Correct = true
			outcome.PointsAwarded = q.Points
			result.Score += q.Points
		}
		result.Outcomes = append(result.Outcomes, outcome)
	}
	result.IsPerfect = result.MaxScore > 0 && result.Score == result.MaxScore
	return result
}
