package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Role discriminates players from designers. It is serialized as an integer.
type Role int

const (
	RoleUnknown  Role = 0
	RolePlayer   Role = 1
	RoleDesigner Role = 2
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RolePlayer || r == RoleDesigner
}

func (r Role) String() string {
	switch r {
	case RolePlayer:
		return "player"
	case RoleDesigner:
		return "designer"
	default:
		return "unknown"
	}
}

// UnmarshalJSON accepts 1/2, "1"/"2" and "player"/"designer".
func (r *Role) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*r = RoleUnknown
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		*r = Role(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("role: %w", err)
	}
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "":
		*r = RoleUnknown
	case "player":
		*r = RolePlayer
	case "designer":
		*r = RoleDesigner
	default:
		n, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("role: unknown value %q", s)
		}
		*r = Role(n)
	}
	return nil
}

// User is a player or designer account.
type User struct {
	ID           int64
	FirstName    string
	LastName     string
	Email        string
	PasswordHash string
	Role         Role
	Score        int
	CreatedAt    time.Time
}

// FullName joins first and last name the way scoreboards display it.
func (u User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// Category groups questions.
type Category struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	QuestionCount int    `json:"question_count"`
}

// OptionCount is the fixed number of options per question.
const OptionCount = 4

// Question is a multiple choice question authored by a designer.
// CorrectOption is the 1-based position of the right option.
type Question struct {
	ID            int64
	Text          string
	Level         int
	CategoryID    int64
	DesignerID    int64
	CorrectOption int
	CreatedAt     time.Time
}

// Option is one answer choice; Position is 1..4 in insertion order.
type Option struct {
	ID         int64
	QuestionID int64
	Position   int
	Text       string
}

// NewQuestion carries everything needed to create a question with its options.
type NewQuestion struct {
	Text          string
	Options       [OptionCount]string
	CorrectOption int
	Level         int
	CategoryID    int64
	DesignerID    int64
}

// AnsweredQuestion is a player's answer history entry joined with question
// text and designer identity.
type AnsweredQuestion struct {
	QuestionID   int64
	QuestionText string
	Correct      bool
	DesignerID   int64
	DesignerName string
}

// QuestionStats counts how a question has been answered.
type QuestionStats struct {
	QuestionID   int64
	QuestionText string
	Correct      int
	NotCorrect   int
}

// AnswerCounts aggregates a player's answers.
type AnswerCounts struct {
	Correct    int
	NotCorrect int
}

// UniqueField names a column that must hold unique values.
type UniqueField int

const (
	FieldUserEmail UniqueField = iota + 1
	FieldCategoryName
)
