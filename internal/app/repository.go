package app

import (
	"context"
	"time"

	"quizhub-service/internal/domain"
)

// UserRepository stores accounts.
type UserRepository interface {
	CreateUser(ctx context.Context, user domain.User) (int64, error)
	UserByID(ctx context.Context, id int64) (domain.User, error)
	UserByEmail(ctx context.Context, email string) (domain.User, error)
	ListPlayersByScore(ctx context.Context) ([]domain.User, error)
	Exists(ctx context.Context, field domain.UniqueField, value string) (bool, error)
}

// QuestionRepository stores questions, their options and similarity links.
type QuestionRepository interface {
	// CreateQuestion inserts the question, its options and the correct option atomically.
	CreateQuestion(ctx context.Context, q domain.NewQuestion) (int64, error)
	QuestionByID(ctx context.Context, id int64) (domain.Question, error)
	ListQuestions(ctx context.Context) ([]domain.Question, error)
	ListDesignedQuestionStats(ctx context.Context, designerID int64) ([]domain.QuestionStats, error)
	// RandomUnansweredQuestion picks uniformly among the questions the user has
	// not answered, optionally restricted to a category.
	RandomUnansweredQuestion(ctx context.Context, userID int64, categoryID *int64) (domain.Question, error)
	OptionsFor(ctx context.Context, questionID int64) ([]domain.Option, error)
	CountExistingQuestions(ctx context.Context, ids []int64) (int, error)
	SimilarQuestionIDs(ctx context.Context, questionID int64) ([]int64, error)
	// LinkSimilarQuestions adds the missing links and returns how many were added.
	LinkSimilarQuestions(ctx context.Context, questionID int64, similarIDs []int64) (int, error)
}

// AnswerRepository stores answered questions and applies score changes.
type AnswerRepository interface {
	HasAnswered(ctx context.Context, userID, questionID int64) (bool, error)
	// RecordAnswer stores the answer and adds delta to the user's score atomically.
	// It returns domain.ErrDuplicate when the pair was already answered.
	RecordAnswer(ctx context.Context, userID, questionID int64, correct bool, delta int) error
	AnsweredHistory(ctx context.Context, userID int64) ([]domain.AnsweredQuestion, error)
	PlayerAnswerCounts(ctx context.Context, userID int64) (domain.AnswerCounts, error)
}

// FollowRepository stores directed follow edges.
type FollowRepository interface {
	IsFollowing(ctx context.Context, followerID, followedID int64) (bool, error)
	Follow(ctx context.Context, followerID, followedID int64) error
	Unfollow(ctx context.Context, followerID, followedID int64) error
}

// CategoryRepository stores question categories.
type CategoryRepository interface {
	CreateCategory(ctx context.Context, name string) (int64, error)
	CategoryByID(ctx context.Context, id int64) (domain.Category, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
}

// Store is the full persistence surface; memory and postgres backends implement it.
type Store interface {
	UserRepository
	QuestionRepository
	AnswerRepository
	FollowRepository
	CategoryRepository
}

// SessionRepository abstracts where active bearer sessions live (in-memory, Redis, etc).
// Each user has at most one active token id.
type SessionRepository interface {
	Put(ctx context.Context, userID int64, tokenID string, ttl time.Duration) error
	Current(ctx context.Context, userID int64) (string, bool, error)
}
