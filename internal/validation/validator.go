package validation

import (
	"regexp"
	"strconv"
	"strings"

	"learning-hour/internal/domain"
	"learning-hour/internal/dto"
)

// Validator provides request validation functionality
type Validator struct{}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateSaveModuleRequest validates a module create or update request.
func (v *Validator) ValidateSaveModuleRequest(req *dto.SaveModuleRequest) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if strings.TrimSpace(req.Title) == "" {
		errors = append(errors, domain.NewMissingFieldError("title"))
	} else if len(req.Title) > 200 {
		errors = append(errors, domain.NewOutOfRangeError("title", len(req.Title), 1, 200))
	}

	if strings.TrimSpace(req.VideoURL) == "" {
		errors = append(errors, domain.NewMissingFieldError("video_url"))
	} else if !isValidURL(req.VideoURL) {
		errors = append(errors, domain.NewInvalidFormatError("video_url", req.VideoURL))
	}

	for i := range req.Questions {
		errors = append(errors, v.validateQuestion(&req.Questions[i], i)...)
	}

	return errors
}

func (v *Validator) validateQuestion(q *dto.SaveQuestionRequest, index int) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if strings.TrimSpace(q.Text) == "" {
		errors = append(errors, domain.NewMissingFieldError(fieldAt("text", index)))
	}
	if len(q.Options) < 2 {
		errors = append(errors, domain.NewOutOfRangeError(fieldAt("options", index), len(q.Options), 2, 10))
	}
	if q.CorrectOptionIndex < 0 || (len(q.Options) > 0 && q.CorrectOptionIndex >= len(q.Options)) {
		errors = append(errors, domain.NewOutOfRangeError(fieldAt("correct_option_index", index), q.CorrectOptionIndex, 0, len(q.Options)-1))
	}
	if q.Points < 0 || q.Points > 1000 {
		errors = append(errors, domain.NewOutOfRangeError(fieldAt("points", index), q.Points, 0, 1000))
	}

	return errors
}

// ValidateAnswerRequest validates an in-session answer request.
func (v *Validator) ValidateAnswerRequest(req *dto.AnswerRequest) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if req.QuestionIndex < 0 {
		errors = append(errors, domain.NewInvalidFormatError("question_index", req.QuestionIndex))
	}
	if req.SelectedOption < 0 {
		errors = append(errors, domain.NewInvalidFormatError("selected_option", req.SelectedOption))
	}
	switch req.Navigate {
	case "", "next", "back":
	default:
		errors = append(errors, domain.NewInvalidFormatError("navigate", req.Navigate))
	}

	return errors
}

// ValidateULID checks a path parameter that must carry a ULID.
func (v *Validator) ValidateULID(field, value string) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if strings.TrimSpace(value) == "" {
		errors = append(errors, domain.NewMissingFieldError(field))
	} else if !isValidULID(value) {
		errors = append(errors, domain.NewInvalidFormatError(field, value))
	}

	return errors
}

func fieldAt(field string, index int) string {
	return "questions[" + strconv.Itoa(index) + "]." + field
}

// isValidULID checks if the string is a valid ULID format
func isValidULID(s string) bool {
	// ULID is 26 characters long, base32 encoded
	if len(s) != 26 {
		return false
	}
	validULID := regexp.MustCompile(`^[0-9A-HJKMNP-TV-Z]{26}$`)
	return validULID.MatchString(s)
}

// isValidURL accepts http and https URLs only.
func isValidURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
