package memory

import (
	"context"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"quizhub-service/internal/domain"
)

type pair struct{ a, b int64 }

type answerRow struct {
	id         int64
	userID     int64
	questionID int64
	correct    bool
}

// Store is an in-memory implementation of app.Store. A single lock makes every
// multi-step write atomic.
type Store struct {
	clock func() time.Time
	rnd   *rand.Rand

	mu         sync.RWMutex
	seq        int64
	users      map[int64]domain.User
	emails     map[string]int64
	categories []domain.Category
	catNames   map[string]int64
	questions  []domain.Question
	options    map[int64][]domain.Option
	answers    []answerRow
	answered   map[pair]struct{}
	follows    map[pair]struct{}
	similar    map[int64][]int64
	similarSet map[pair]struct{}
}

func NewStore() *Store {
	return &Store{
		clock:      time.Now,
		rnd:        rand.New(rand.NewSource(time.Now().UnixNano())),
		users:      make(map[int64]domain.User),
		emails:     make(map[string]int64),
		catNames:   make(map[string]int64),
		options:    make(map[int64][]domain.Option),
		answered:   make(map[pair]struct{}),
		follows:    make(map[pair]struct{}),
		similar:    make(map[int64][]int64),
		similarSet: make(map[pair]struct{}),
	}
}

func (s *Store) nextID() int64 {
	s.seq++
	return s.seq
}

func emailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Users

func (s *Store) CreateUser(_ context.Context, user domain.User) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := emailKey(user.Email)
	if _, ok := s.emails[key]; ok {
		return 0, domain.ErrDuplicate
	}
	user.ID = s.nextID()
	user.Score = 0
	user.CreatedAt = s.clock()
	s.users[user.ID] = user
	s.emails[key] = user.ID
	return user.ID, nil
}

func (s *Store) UserByID(_ context.Context, id int64) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[id]
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	return user, nil
}

func (s *Store) UserByEmail(_ context.Context, email string) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.emails[emailKey(email)]
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	return s.users[id], nil
}

func (s *Store) ListPlayersByScore(_ context.Context) ([]domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	players := make([]domain.User, 0, len(s.users))
	for _, u := range s.users {
		if u.Role == domain.RolePlayer {
			players = append(players, u)
		}
	}
	sort.Slice(players, func(i, j int) bool {
		if players[i].Score != players[j].Score {
			return players[i].Score > players[j].Score
		}
		return players[i].ID < players[j].ID
	})
	return players, nil
}

func (s *Store) Exists(_ context.Context, field domain.UniqueField, value string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	switch field {
	case domain.FieldUserEmail:
		_, ok := s.emails[emailKey(value)]
		return ok, nil
	case domain.FieldCategoryName:
		_, ok := s.catNames[strings.TrimSpace(value)]
		return ok, nil
	}
	return false, nil
}

// Categories

func (s *Store) CreateCategory(_ context.Context, name string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	name = strings.TrimSpace(name)
	if _, ok := s.catNames[name]; ok {
		return 0, domain.ErrDuplicate
	}
	c := domain.Category{ID: s.nextID(), Name: name}
	s.categories = append(s.categories, c)
	s.catNames[name] = c.ID
	return c.ID, nil
}

func (s *Store) CategoryByID(_ context.Context, id int64) (domain.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.categories {
		if c.ID == id {
			return c, nil
		}
	}
	return domain.Category{}, domain.ErrNotFound
}

func (s *Store) ListCategories(_ context.Context) ([]domain.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	counts := make(map[int64]int, len(s.categories))
	for _, q := range s.questions {
		counts[q.CategoryID]++
	}
	out := make([]domain.Category, len(s.categories))
	for i, c := range s.categories {
		c.QuestionCount = counts[c.ID]
		out[i] = c
	}
	return out, nil
}

// Questions

func (s *Store) CreateQuestion(_ context.Context, nq domain.NewQuestion) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	q := domain.Question{
		ID:            s.nextID(),
		Text:          nq.Text,
		Level:         nq.Level,
		CategoryID:    nq.CategoryID,
		DesignerID:    nq.DesignerID,
		CorrectOption: nq.CorrectOption,
		CreatedAt:     s.clock(),
	}
	opts := make([]domain.Option, 0, domain.OptionCount)
	for i, text := range nq.Options {
		opts = append(opts, domain.Option{
			ID:         s.nextID(),
			QuestionID: q.ID,
			Position:   i + 1,
			Text:       text,
		})
	}
	s.questions = append(s.questions, q)
	s.options[q.ID] = opts
	return q.ID, nil
}

func (s *Store) questionLocked(id int64) (domain.Question, bool) {
	for _, q := range s.questions {
		if q.ID == id {
			return q, true
		}
	}
	return domain.Question{}, false
}

func (s *Store) QuestionByID(_ context.Context, id int64) (domain.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	q, ok := s.questionLocked(id)
	if !ok {
		return domain.Question{}, domain.ErrNotFound
	}
	return q, nil
}

func (s *Store) ListQuestions(_ context.Context) ([]domain.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Question, len(s.questions))
	copy(out, s.questions)
	return out, nil
}

func (s *Store) ListDesignedQuestionStats(_ context.Context, designerID int64) ([]domain.QuestionStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var stats []domain.QuestionStats
	index := make(map[int64]int)
	for _, q := range s.questions {
		if q.DesignerID != designerID {
			continue
		}
		index[q.ID] = len(stats)
		stats = append(stats, domain.QuestionStats{QuestionID: q.ID, QuestionText: q.Text})
	}
	for _, a := range s.answers {
		i, ok := index[a.questionID]
		if !ok {
			continue
		}
		if a.correct {
			stats[i].Correct++
		} else {
			stats[i].NotCorrect++
		}
	}
	return stats, nil
}

func (s *Store) RandomUnansweredQuestion(_ context.Context, userID int64, categoryID *int64) (domain.Question, error) {
	// write lock: rnd is not safe for concurrent use
	s.mu.Lock()
	defer s.mu.Unlock()

	var candidates []domain.Question
	for _, q := range s.questions {
		if categoryID != nil && q.CategoryID != *categoryID {
			continue
		}
		if _, done := s.answered[pair{userID, q.ID}]; done {
			continue
		}
		candidates = append(candidates, q)
	}
	if len(candidates) == 0 {
		return domain.Question{}, domain.ErrNotFound
	}
	return candidates[s.rnd.Intn(len(candidates))], nil
}

func (s *Store) OptionsFor(_ context.Context, questionID int64) ([]domain.Option, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	opts := s.options[questionID]
	out := make([]domain.Option, len(opts))
	copy(out, opts)
	return out, nil
}

func (s *Store) CountExistingQuestions(_ context.Context, ids []int64) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, id := range ids {
		if _, ok := s.questionLocked(id); ok {
			n++
		}
	}
	return n, nil
}

func (s *Store) SimilarQuestionIDs(_ context.Context, questionID int64) ([]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := s.similar[questionID]
	out := make([]int64, len(ids))
	copy(out, ids)
	return out, nil
}

func (s *Store) LinkSimilarQuestions(_ context.Context, questionID int64, similarIDs []int64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	added := 0
	for _, id := range similarIDs {
		key := pair{questionID, id}
		if _, ok := s.similarSet[key]; ok {
			continue
		}
		s.similarSet[key] = struct{}{}
		s.similar[questionID] = append(s.similar[questionID], id)
		added++
	}
	return added, nil
}

// Answers

func (s *Store) HasAnswered(_ context.Context, userID, questionID int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.answered[pair{userID, questionID}]
	return ok, nil
}

func (s *Store) RecordAnswer(_ context.Context, userID, questionID int64, correct bool, delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := pair{userID, questionID}
	if _, ok := s.answered[key]; ok {
		return domain.ErrDuplicate
	}
	user, ok := s.users[userID]
	if !ok {
		return domain.ErrNotFound
	}
	s.answered[key] = struct{}{}
	s.answers = append(s.answers, answerRow{
		id:         s.nextID(),
		userID:     userID,
		questionID: questionID,
		correct:    correct,
	})
	user.Score += delta
	s.users[userID] = user
	return nil
}

func (s *Store) AnsweredHistory(_ context.Context, userID int64) ([]domain.AnsweredQuestion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var history []domain.AnsweredQuestion
	for i := len(s.answers) - 1; i >= 0; i-- {
		a := s.answers[i]
		if a.userID != userID {
			continue
		}
		q, ok := s.questionLocked(a.questionID)
		if !ok {
			continue
		}
		designer, ok := s.users[q.DesignerID]
		if !ok {
			continue
		}
		history = append(history, domain.AnsweredQuestion{
			QuestionID:   q.ID,
			QuestionText: q.Text,
			Correct:      a.correct,
			DesignerID:   designer.ID,
			DesignerName: designer.FullName(),
		})
	}
	return history, nil
}

func (s *Store) PlayerAnswerCounts(_ context.Context, userID int64) (domain.AnswerCounts, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var counts domain.AnswerCounts
	for _, a := range s.answers {
		if a.userID != userID {
			continue
		}
		if a.correct {
			counts.Correct++
		} else {
			counts.NotCorrect++
		}
	}
	return counts, nil
}

// Follows

func (s *Store) IsFollowing(_ context.Context, followerID, followedID int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.follows[pair{followerID, followedID}]
	return ok, nil
}

func (s *Store) Follow(_ context.Context, followerID, followedID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := pair{followerID, followedID}
	if _, ok := s.follows[key]; ok {
		return domain.ErrDuplicate
	}
	s.follows[key] = struct{}{}
	return nil
}

func (s *Store) Unfollow(_ context.Context, followerID, followedID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := pair{followerID, followedID}
	if _, ok := s.follows[key]; !ok {
		return domain.ErrNotFound
	}
	delete(s.follows, key)
	return nil
}
