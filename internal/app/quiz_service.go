package app

import (
	"context"
	"errors"
	"strings"

	"quizhub-service/internal/domain"
)

// Selection modes for NextQuestion.
const (
	SelectRandom   = "random"
	SelectCategory = "category"
)

// PlayableQuestion is a question as served to a player, without the answer.
type PlayableQuestion struct {
	ID      int64
	Text    string
	Options []string
}

// QuestionSummary is a question id with its text.
type QuestionSummary struct {
	ID   int64
	Text string
}

// NewQuestionInput is the designer supplied payload for a new question.
type NewQuestionInput struct {
	Text       string
	Options    [domain.OptionCount]string
	Correct    int
	Level      int
	CategoryID int64
}

// QuizService contains the question, answer and similarity use cases.
type QuizService struct {
	questions  QuestionRepository
	answers    AnswerRepository
	categories CategoryRepository
}

func NewQuizService(store Store) *QuizService {
	return &QuizService{questions: store, answers: store, categories: store}
}

// AnsweredQuestions returns the caller's answer history, newest first.
func (s *QuizService) AnsweredQuestions(ctx context.Context, caller domain.User) ([]domain.AnsweredQuestion, error) {
	if err := RequireRole(caller, domain.RolePlayer); err != nil {
		return nil, err
	}
	history, err := s.answers.AnsweredHistory(ctx, caller.ID)
	if err != nil {
		return nil, domain.Internal(err)
	}
	return history, nil
}

// NextQuestion picks a random question the caller has not answered yet.
// mode is SelectRandom or SelectCategory; the latter requires categoryID.
func (s *QuizService) NextQuestion(ctx context.Context, caller domain.User, mode string, categoryID int64) (PlayableQuestion, error) {
	if err := RequireRole(caller, domain.RolePlayer); err != nil {
		return PlayableQuestion{}, err
	}
	if err := NotEmpty(mode, domain.LabelQuestionKind); err != nil {
		return PlayableQuestion{}, err
	}

	var filter *int64
	switch mode {
	case SelectRandom:
	case SelectCategory:
		if err := NotEmpty(categoryID, domain.LabelCategoryID); err != nil {
			return PlayableQuestion{}, err
		}
		filter = &categoryID
	default:
		return PlayableQuestion{}, domain.Validation(domain.MsgInvalidQuestionKey)
	}

	q, err := s.questions.RandomUnansweredQuestion(ctx, caller.ID, filter)
	if errors.Is(err, domain.ErrNotFound) {
		return PlayableQuestion{}, domain.NotFound(domain.MsgNoQuestion)
	}
	if err != nil {
		return PlayableQuestion{}, domain.Internal(err)
	}

	options, err := s.questions.OptionsFor(ctx, q.ID)
	if err != nil {
		return PlayableQuestion{}, domain.Internal(err)
	}
	texts := make([]string, 0, len(options))
	for _, o := range options {
		texts = append(texts, o.Text)
	}
	return PlayableQuestion{ID: q.ID, Text: q.Text, Options: texts}, nil
}

// CheckAnswer records the caller's answer once and moves their score by +1 or -1.
func (s *QuizService) CheckAnswer(ctx context.Context, caller domain.User, questionID int64, option int) (bool, error) {
	if err := RequireRole(caller, domain.RolePlayer); err != nil {
		return false, err
	}
	err := firstError(
		func() error { return NotEmpty(questionID, domain.LabelQuestionID) },
		func() error { return InRange(option, 1, domain.OptionCount, domain.LabelAnswer) },
	)
	if err != nil {
		return false, err
	}

	q, err := s.questions.QuestionByID(ctx, questionID)
	if errors.Is(err, domain.ErrNotFound) {
		return false, domain.NotFound(domain.MsgQuestionMissing)
	}
	if err != nil {
		return false, domain.Internal(err)
	}

	answered, err := s.answers.HasAnswered(ctx, caller.ID, questionID)
	if err != nil {
		return false, domain.Internal(err)
	}
	if answered {
		return false, domain.Conflict(domain.MsgAlreadyAnswered)
	}

	correct := q.CorrectOption == option
	delta := -1
	if correct {
		delta = 1
	}
	err = s.answers.RecordAnswer(ctx, caller.ID, questionID, correct, delta)
	if errors.Is(err, domain.ErrDuplicate) {
		return false, domain.Conflict(domain.MsgAlreadyAnswered)
	}
	if err != nil {
		return false, domain.Internal(err)
	}
	return correct, nil
}

// DesignedQuestions lists the caller's questions with answer counts.
func (s *QuizService) DesignedQuestions(ctx context.Context, caller domain.User) ([]domain.QuestionStats, error) {
	if err := RequireRole(caller, domain.RoleDesigner); err != nil {
		return nil, err
	}
	stats, err := s.questions.ListDesignedQuestionStats(ctx, caller.ID)
	if err != nil {
		return nil, domain.Internal(err)
	}
	return stats, nil
}

// AllQuestions lists every question.
func (s *QuizService) AllQuestions(ctx context.Context, caller domain.User) ([]QuestionSummary, error) {
	if err := RequireRole(caller, domain.RoleDesigner); err != nil {
		return nil, err
	}
	questions, err := s.questions.ListQuestions(ctx)
	if err != nil {
		return nil, domain.Internal(err)
	}
	out := make([]QuestionSummary, 0, len(questions))
	for _, q := range questions {
		out = append(out, QuestionSummary{ID: q.ID, Text: q.Text})
	}
	return out, nil
}

// SetSimilar links questionID to each of similarIDs, skipping existing links.
func (s *QuizService) SetSimilar(ctx context.Context, caller domain.User, questionID int64, similarIDs []int64) error {
	if err := RequireRole(caller, domain.RoleDesigner); err != nil {
		return err
	}
	if err := NotEmpty(questionID, domain.LabelQuestionID); err != nil {
		return err
	}
	if len(similarIDs) == 0 {
		return domain.Validation(domain.MsgSimilarEmpty)
	}

	if _, err := s.questions.QuestionByID(ctx, questionID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.NotFound(domain.MsgMainQuestionAbsent)
		}
		return domain.Internal(err)
	}

	ids := dedupe(similarIDs)
	for _, id := range ids {
		if id == questionID {
			return domain.Validation(domain.MsgSimilarSelf)
		}
	}

	found, err := s.questions.CountExistingQuestions(ctx, ids)
	if err != nil {
		return domain.Internal(err)
	}
	if found != len(ids) {
		return domain.NotFound(domain.MsgSimilarAbsent)
	}

	if _, err := s.questions.LinkSimilarQuestions(ctx, questionID, ids); err != nil {
		return domain.Internal(err)
	}
	return nil
}

// GetSimilar returns the ids linked as similar to questionID.
func (s *QuizService) GetSimilar(ctx context.Context, caller domain.User, questionID int64) ([]int64, error) {
	if err := RequireRole(caller, domain.RoleDesigner); err != nil {
		return nil, err
	}
	if err := NotEmpty(questionID, domain.LabelQuestionID); err != nil {
		return nil, err
	}
	if _, err := s.questions.QuestionByID(ctx, questionID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NotFound(domain.MsgQuestionNotFound)
		}
		return nil, domain.Internal(err)
	}
	ids, err := s.questions.SimilarQuestionIDs(ctx, questionID)
	if err != nil {
		return nil, domain.Internal(err)
	}
	return ids, nil
}

// CreateQuestion validates and stores a designer's question with its four options.
func (s *QuizService) CreateQuestion(ctx context.Context, caller domain.User, in NewQuestionInput) (int64, error) {
	if err := RequireRole(caller, domain.RoleDesigner); err != nil {
		return 0, err
	}

	checks := []func() error{
		func() error { return NotEmpty(in.Text, domain.LabelQuestion) },
	}
	for i := range in.Options {
		n := i + 1
		text := in.Options[i]
		checks = append(checks, func() error { return NotEmpty(text, domain.OptionLabel(n)) })
	}
	checks = append(checks,
		func() error { return InRange(in.Correct, 1, domain.OptionCount, domain.LabelAnswer) },
		func() error { return NotEmpty(in.Level, domain.LabelLevel) },
		func() error { return NotEmpty(in.CategoryID, domain.LabelCategory) },
		func() error { return InRange(in.Level, 1, 5, domain.LabelLevel) },
	)
	if err := firstError(checks...); err != nil {
		return 0, err
	}

	if _, err := s.categories.CategoryByID(ctx, in.CategoryID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return 0, domain.NotFound(domain.MsgCategoryNotFound)
		}
		return 0, domain.Internal(err)
	}

	nq := domain.NewQuestion{
		Text:          strings.TrimSpace(in.Text),
		CorrectOption: in.Correct,
		Level:         in.Level,
		CategoryID:    in.CategoryID,
		DesignerID:    caller.ID,
	}
	for i, o := range in.Options {
		nq.Options[i] = strings.TrimSpace(o)
	}

	id, err := s.questions.CreateQuestion(ctx, nq)
	if err != nil {
		return 0, domain.Internal(err)
	}
	return id, nil
}

func dedupe(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
