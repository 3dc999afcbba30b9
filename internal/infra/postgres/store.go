package postgres

import (
	"context"
	"errors"
	"fmt"

	"quizhub-service/internal/domain"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

// Store implements app.Store on Postgres. Multi-statement writes run in a
// single transaction.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	return err
}

// Users

const userColumns = `id, firstname, lastname, email, password_hash, type, score, created_at`

func scanUser(row pgx.Row) (domain.User, error) {
	var u domain.User
	var role int16
	err := row.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.PasswordHash, &role, &u.Score, &u.CreatedAt)
	u.Role = domain.Role(role)
	return u, err
}

func (s *Store) CreateUser(ctx context.Context, user domain.User) (int64, error) {
	var id int64
	err := s.pool.QueryRow(ctx,
		`INSERT INTO users (firstname, lastname, email, password_hash, type, score)
		 VALUES ($1, $2, $3, $4, $5, 0) RETURNING id`,
		user.FirstName, user.LastName, user.Email, user.PasswordHash, int16(user.Role),
	).Scan(&id)
	if pgCode(err) == uniqueViolation {
		return 0, domain.ErrDuplicate
	}
	if err != nil {
		return 0, fmt.Errorf("create user: %w", err)
	}
	return id, nil
}

func (s *Store) UserByID(ctx context.Context, id int64) (domain.User, error) {
	u, err := scanUser(s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	return u, notFound(err)
}

func (s *Store) UserByEmail(ctx context.Context, email string) (domain.User, error) {
	u, err := scanUser(s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`, email))
	return u, notFound(err)
}

func (s *Store) ListPlayersByScore(ctx context.Context) ([]domain.User, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+userColumns+` FROM users WHERE type = $1 ORDER BY score DESC, id`, int16(domain.RolePlayer))
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}
	defer rows.Close()

	var players []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		players = append(players, u)
	}
	return players, rows.Err()
}

var existsQueries = map[domain.UniqueField]string{
	domain.FieldUserEmail:    `SELECT EXISTS (SELECT 1 FROM users WHERE lower(email) = lower($1))`,
	domain.FieldCategoryName: `SELECT EXISTS (SELECT 1 FROM categories WHERE name = $1)`,
}

func (s *Store) Exists(ctx context.Context, field domain.UniqueField, value string) (bool, error) {
	query, ok := existsQueries[field]
	if !ok {
		return false, fmt.Errorf("exists: unknown field %d", field)
	}
	var exists bool
	if err := s.pool.QueryRow(ctx, query, value).Scan(&exists); err != nil {
		return false, fmt.Errorf("exists: %w", err)
	}
	return exists, nil
}

// Categories

func (s *Store) CreateCategory(ctx context.Context, name string) (int64, error) {
	var id int64
	err := s.pool.QueryRow(ctx, `INSERT INTO categories (name) VALUES ($1) RETURNING id`, name).Scan(&id)
	if pgCode(err) == uniqueViolation {
		return 0, domain.ErrDuplicate
	}
	if err != nil {
		return 0, fmt.Errorf("create category: %w", err)
	}
	return id, nil
}

func (s *Store) CategoryByID(ctx context.Context, id int64) (domain.Category, error) {
	var c domain.Category
	err := s.pool.QueryRow(ctx, `SELECT id, name FROM categories WHERE id = $1`, id).Scan(&c.ID, &c.Name)
	return c, notFound(err)
}

func (s *Store) ListCategories(ctx context.Context) ([]domain.Category, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT c.id, c.name, COUNT(q.id)
		FROM categories c
		LEFT JOIN questions q ON q.category = c.id
		GROUP BY c.id
		ORDER BY c.id`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var out []domain.Category
	for rows.Next() {
		var c domain.Category
		var count int64
		if err := rows.Scan(&c.ID, &c.Name, &count); err != nil {
			return nil, err
		}
		c.QuestionCount = int(count)
		out = append(out, c)
	}
	return out, rows.Err()
}

// Questions

const questionColumns = `id, question, level, category, designer_id, correct_option, created_at`

func scanQuestion(row pgx.Row) (domain.Question, error) {
	var q domain.Question
	var level, correct int16
	err := row.Scan(&q.ID, &q.Text, &level, &q.CategoryID, &q.DesignerID, &correct, &q.CreatedAt)
	q.Level = int(level)
	q.CorrectOption = int(correct)
	return q, err
}

func (s *Store) CreateQuestion(ctx context.Context, nq domain.NewQuestion) (int64, error) {
	var id int64
	err := s.pool.BeginFunc(ctx, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx,
			`INSERT INTO questions (question, level, category, designer_id, correct_option)
			 VALUES ($1, $2, $3, $4, 0) RETURNING id`,
			nq.Text, nq.Level, nq.CategoryID, nq.DesignerID,
		).Scan(&id)
		if err != nil {
			return fmt.Errorf("insert question: %w", err)
		}

		batch := &pgx.Batch{}
		for i, text := range nq.Options {
			batch.Queue(`INSERT INTO options (question_id, position, "option") VALUES ($1, $2, $3)`, id, i+1, text)
		}
		br := tx.SendBatch(ctx, batch)
		for range nq.Options {
			if _, err := br.Exec(); err != nil {
				br.Close()
				return fmt.Errorf("insert option: %w", err)
			}
		}
		if err := br.Close(); err != nil {
			return err
		}

		_, err = tx.Exec(ctx, `UPDATE questions SET correct_option = $1 WHERE id = $2`, nq.CorrectOption, id)
		if err != nil {
			return fmt.Errorf("set correct option: %w", err)
		}
		return nil
	})
	if pgCode(err) == foreignKeyViolation {
		return 0, domain.ErrNotFound
	}
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (s *Store) QuestionByID(ctx context.Context, id int64) (domain.Question, error) {
	q, err := scanQuestion(s.pool.QueryRow(ctx, `SELECT `+questionColumns+` FROM questions WHERE id = $1`, id))
	return q, notFound(err)
}

func (s *Store) ListQuestions(ctx context.Context) ([]domain.Question, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+questionColumns+` FROM questions ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	defer rows.Close()

	var out []domain.Question
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

func (s *Store) ListDesignedQuestionStats(ctx context.Context, designerID int64) ([]domain.QuestionStats, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT q.id, q.question,
		       COUNT(aq.id) FILTER (WHERE aq.correct),
		       COUNT(aq.id) FILTER (WHERE NOT aq.correct)
		FROM questions q
		LEFT JOIN answered_questions aq ON aq.question_id = q.id
		WHERE q.designer_id = $1
		GROUP BY q.id
		ORDER BY q.id`, designerID)
	if err != nil {
		return nil, fmt.Errorf("designed question stats: %w", err)
	}
	defer rows.Close()

	var out []domain.QuestionStats
	for rows.Next() {
		var st domain.QuestionStats
		var correct, notCorrect int64
		if err := rows.Scan(&st.QuestionID, &st.QuestionText, &correct, &notCorrect); err != nil {
			return nil, err
		}
		st.Correct, st.NotCorrect = int(correct), int(notCorrect)
		out = append(out, st)
	}
	return out, rows.Err()
}

func (s *Store) RandomUnansweredQuestion(ctx context.Context, userID int64, categoryID *int64) (domain.Question, error) {
	q, err := scanQuestion(s.pool.QueryRow(ctx, `
		SELECT q.id, q.question, q.level, q.category, q.designer_id, q.correct_option, q.created_at
		FROM questions q
		LEFT JOIN answered_questions aq ON q.id = aq.question_id AND aq.user_id = $1
		WHERE aq.question_id IS NULL
		  AND ($2::bigint IS NULL OR q.category = $2)
		ORDER BY random()
		LIMIT 1`, userID, categoryID))
	return q, notFound(err)
}

func (s *Store) OptionsFor(ctx context.Context, questionID int64) ([]domain.Option, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, question_id, position, "option" FROM options WHERE question_id = $1 ORDER BY position`, questionID)
	if err != nil {
		return nil, fmt.Errorf("list options: %w", err)
	}
	defer rows.Close()

	var out []domain.Option
	for rows.Next() {
		var o domain.Option
		var pos int16
		if err := rows.Scan(&o.ID, &o.QuestionID, &pos, &o.Text); err != nil {
			return nil, err
		}
		o.Position = int(pos)
		out = append(out, o)
	}
	return out, rows.Err()
}

func (s *Store) CountExistingQuestions(ctx context.Context, ids []int64) (int, error) {
	var n int64
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM questions WHERE id = ANY($1)`, ids).Scan(&n); err != nil {
		return 0, fmt.Errorf("count questions: %w", err)
	}
	return int(n), nil
}

func (s *Store) SimilarQuestionIDs(ctx context.Context, questionID int64) ([]int64, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT q.id FROM questions q
		JOIN similar_questions sq ON q.id = sq.similar_question_id
		WHERE sq.question_id = $1
		ORDER BY sq.created_at, q.id`, questionID)
	if err != nil {
		return nil, fmt.Errorf("similar questions: %w", err)
	}
	defer rows.Close()

	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *Store) LinkSimilarQuestions(ctx context.Context, questionID int64, similarIDs []int64) (int, error) {
	tag, err := s.pool.Exec(ctx, `
		INSERT INTO similar_questions (question_id, similar_question_id)
		SELECT $1, unnest($2::bigint[])
		ON CONFLICT DO NOTHING`, questionID, similarIDs)
	if err != nil {
		return 0, fmt.Errorf("link similar questions: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

// Answers

func (s *Store) HasAnswered(ctx context.Context, userID, questionID int64) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM answered_questions WHERE user_id = $1 AND question_id = $2)`,
		userID, questionID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("has answered: %w", err)
	}
	return exists, nil
}

func (s *Store) RecordAnswer(ctx context.Context, userID, questionID int64, correct bool, delta int) error {
	return s.pool.BeginFunc(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx,
			`INSERT INTO answered_questions (user_id, question_id, correct) VALUES ($1, $2, $3)`,
			userID, questionID, correct)
		switch pgCode(err) {
		case uniqueViolation:
			return domain.ErrDuplicate
		case foreignKeyViolation:
			return domain.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("insert answer: %w", err)
		}

		tag, err := tx.Exec(ctx, `UPDATE users SET score = score + $1 WHERE id = $2`, delta, userID)
		if err != nil {
			return fmt.Errorf("update score: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
}

func (s *Store) AnsweredHistory(ctx context.Context, userID int64) ([]domain.AnsweredQuestion, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT aq.question_id, q.question, aq.correct, u.id, u.firstname, u.lastname
		FROM answered_questions aq
		JOIN questions q ON aq.question_id = q.id
		JOIN users u ON q.designer_id = u.id
		WHERE aq.user_id = $1
		ORDER BY aq.id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("answered history: %w", err)
	}
	defer rows.Close()

	var out []domain.AnsweredQuestion
	for rows.Next() {
		var a domain.AnsweredQuestion
		var first, last string
		if err := rows.Scan(&a.QuestionID, &a.QuestionText, &a.Correct, &a.DesignerID, &first, &last); err != nil {
			return nil, err
		}
		a.DesignerName = first + " " + last
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *Store) PlayerAnswerCounts(ctx context.Context, userID int64) (domain.AnswerCounts, error) {
	var correct, notCorrect int64
	err := s.pool.QueryRow(ctx, `
		SELECT COUNT(*) FILTER (WHERE correct), COUNT(*) FILTER (WHERE NOT correct)
		FROM answered_questions WHERE user_id = $1`, userID).Scan(&correct, &notCorrect)
	if err != nil {
		return domain.AnswerCounts{}, fmt.Errorf("answer counts: %w", err)
	}
	return domain.AnswerCounts{Correct: int(correct), NotCorrect: int(notCorrect)}, nil
}

// Follows

func (s *Store) IsFollowing(ctx context.Context, followerID, followedID int64) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM followers WHERE follower_id = $1 AND followed_id = $2)`,
		followerID, followedID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("is following: %w", err)
	}
	return exists, nil
}

func (s *Store) Follow(ctx context.Context, followerID, followedID int64) error {
	tag, err := s.pool.Exec(ctx,
		`INSERT INTO followers (follower_id, followed_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		followerID, followedID)
	if pgCode(err) == foreignKeyViolation {
		return domain.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("follow: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrDuplicate
	}
	return nil
}

func (s *Store) Unfollow(ctx context.Context, followerID, followedID int64) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM followers WHERE follower_id = $1 AND followed_id = $2`, followerID, followedID)
	if err != nil {
		return fmt.Errorf("unfollow: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
