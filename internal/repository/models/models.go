package models

import (
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// StringSlice stores a []string as a JSON array in a CLOB column.
type StringSlice []string

// Value implements the driver.Valuer interface
func (s StringSlice) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	jsonData, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(jsonData), nil
}

// Scan implements the sql.Scanner interface
func (s *StringSlice) Scan(value interface{}) error {
	if value == nil {
		*s = StringSlice{}
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		return errors.New("StringSlice Scan: unsupported type " + fmt.Sprintf("%T", value))
	}

	if len(data) == 0 {
		*s = StringSlice{}
		return nil
	}

	var parsed []string
	if err := json.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("StringSlice Scan: %w", err)
	}
	if parsed == nil {
		parsed = []string{}
	}
	*s = parsed
	return nil
}

// Profile represents a user row in the profiles table.
type Profile struct {
	ID        string         `db:"id"`
	Email     string         `db:"email"`
	Name      sql.NullString `db:"name"`
	Role      string         `db:"role"`
	CreatedAt time.Time      `db:"created_at"`
	UpdatedAt time.Time      `db:"updated_at"`
	DeletedAt sql.NullTime   `db:"deleted_at"`
}

// Module represents a lesson row in the modules table.
type Module struct {
	ID          string         `db:"id"`
	Title       string         `db:"title"`
	Description sql.NullString `db:"description"`
	VideoURL    string         `db:"video_url"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`
	DeletedAt   sql.NullTime   `db:"deleted_at"`
}

// Question represents a quiz question row. Options is a JSON array in a
// CLOB column.
type Question struct {
	ID                 string      `db:"id"`
	ModuleID           string      `db:"module_id"`
	Text               string      `db:"text"`
	Options            StringSlice `db:"options"`
	CorrectOptionIndex int         `db:"correct_option_index"`
	Points             int         `db:"points"`
	Position           int         `db:"position"`
	CreatedAt          time.Time   `db:"created_at"`
	UpdatedAt          time.Time   `db:"updated_at"`
}

// QuizAttempt represents one graded quiz run in the quiz_attempts table.
type QuizAttempt struct {
	ID          string    `db:"id"`
	UserID      string    `db:"user_id"`
	ModuleID    string    `db:"module_id"`
	Score       int       `db:"score"`
	MaxScore    int       `db:"max_score"`
	IsPerfect   int       `db:"is_perfect"` // Oracle NUMBER(1)
	CompletedAt time.Time `db:"completed_at"`
	CreatedAt   time.Time `db:"created_at"`
}
