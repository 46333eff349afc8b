package domain

import (
	"context"
	"time"
)

// Module represents a video lesson with an attached quiz
type Module struct {
	ID          string
	Title       string
	Description string
	VideoURL    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Questions   []Question
}

// NewModule creates a new Module instance
func NewModule(title, description, videoURL string) *Module {
	now := time.Now()
	return &Module{
		Title:       title,
		Description: description,
		VideoURL:    videoURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Validate validates the module
func (m *Module) Validate() error {
	if m.Title == "" {
		return NewValidationError("title is required")
	}
	if m.VideoURL == "" {
		return NewValidationError("video URL is required")
	}
	return nil
}

// Question represents a single multiple-choice question of a module's quiz
type Question struct {
	ID                 string
	ModuleID           string
	Text               string
	Options            []string
	CorrectOptionIndex int
	Points             int
}

// Validate validates the question
func (q *Question) Validate() error {
	if q.Text == "" {
		return NewValidationError("question text is required")
	}
	if len(q.Options) < 2 {
		return NewValidationError("a question needs at least two options")
	}
	if q.CorrectOptionIndex < 0 || q.CorrectOptionIndex >= len(q.Options) {
		return NewValidationError("correct option index must point at one of the options")
	}
	if q.Points < 0 {
		return NewValidationError("points must not be negative")
	}
	return nil
}

// IsCorrect reports whether the selected option is the correct one.
func (q *Question) IsCorrect(selectedOption int) bool {
	return selectedOption == q.CorrectOptionIndex
}

// NewValidationError wraps a message as a single-field validation failure.
func NewValidationError(message string) error {
	return ValidationErrors{{Field: "_", Message: message}}
}

// ModuleRepository defines the interface for module persistence
type ModuleRepository interface {
	// CreateModule persists a new module and returns nothing; the module's ID
	// must already be set by the caller.
	CreateModule(ctx context.Context, module *Module) error

	// UpdateModule updates title, description and video URL of an existing module.
	UpdateModule(ctx context.Context, module *Module) error

	// DeleteModule removes a module and all of its questions.
	DeleteModule(ctx context.Context, moduleID string) error

	// GetModuleByID returns the module without its questions, or (nil, nil)
	// when no module with that ID exists.
	GetModuleByID(ctx context.Context, moduleID string) (*Module, error)

	// GetAllModules returns all modules ordered by creation time, newest first.
	GetAllModules(ctx context.Context) ([]Module, error)

	// ModuleExists reports whether a module with the given ID still exists.
	// Used as the freshness check before an attempt is saved.
	ModuleExists(ctx context.Context, moduleID string) (bool, error)

	// GetQuestionsByModuleID returns the module's questions in insertion order.
	GetQuestionsByModuleID(ctx context.Context, moduleID string) ([]Question, error)

	// ReplaceQuestions deletes the module's current question set and inserts
	// the given one. Runs inside the ambient transaction when one is present.
	ReplaceQuestions(ctx context.Context, moduleID string, questions []Question) error
}
