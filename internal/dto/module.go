package dto

import "time"

// ModuleResponse represents a module in the API response
// @Description Module information
type ModuleResponse struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description,omitempty"`
	VideoURL      string    `json:"video_url"`
	QuestionCount int       `json:"question_count"`
	CreatedAt     time.Time `json:"created_at"`
}

// ModuleDetailResponse represents a module together with its questions as
// shown to a quiz taker. Correct option indexes are not included.
type ModuleDetailResponse struct {
	ModuleResponse
	Questions []QuizQuestionResponse `json:"questions"`
}

// SaveQuestionRequest is one question in a module save request.
type SaveQuestionRequest struct {
	Text               string   `json:"text" validate:"required"`
	Options            []string `json:"options" validate:"required"`
	CorrectOptionIndex int      `json:"correct_option_index"`
	Points             int      `json:"points"`
}

// SaveModuleRequest is the request body for creating or updating a module.
// @Description Request body for saving a module and its question set
type SaveModuleRequest struct {
	Title       string                `json:"title" validate:"required"`
	Description string                `json:"description"`
	VideoURL    string                `json:"video_url" validate:"required"`
	Questions   []SaveQuestionRequest `json:"questions"`
}

// MessageResponse represents a generic message response.
// @Description Generic message response
type MessageResponse struct {
	Message string `json:"message"`
}
