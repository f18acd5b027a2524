package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"quizbank/models"
	"quizbank/quiz"

	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

// Store runs the quiz queries against Postgres or SQLite. Both drivers accept the
// $n placeholders used here as long as they appear in ascending order.
type Store struct {
	db     *sql.DB
	driver string
}

func NewStore(db *sql.DB, driver string) *Store {
	return &Store{db: db, driver: driver}
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) FetchCategories(ctx context.Context) ([]models.Category, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name FROM categories ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := make([]models.Category, 0)
	for rows.Next() {
		var category models.Category
		if err := rows.Scan(&category.ID, &category.Name); err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}

func (s *Store) FetchCategory(ctx context.Context, id int) (models.Category, error) {
	var category models.Category
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name FROM categories WHERE id = $1`, id,
	).Scan(&category.ID, &category.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Category{}, quiz.ErrCategoryNotFound
		}
		return models.Category{}, err
	}
	return category, nil
}

func (s *Store) CategoryExistsByName(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM categories WHERE name = $1)`, name,
	).Scan(&exists)
	return exists, err
}

func (s *Store) FetchQuestions(ctx context.Context, categoryID int) ([]models.Question, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, category_id, question
		FROM questions
		WHERE category_id = $1
		ORDER BY id
	`, categoryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	questions := make([]models.Question, 0)
	for rows.Next() {
		var question models.Question
		if err := rows.Scan(&question.ID, &question.CategoryID, &question.Question); err != nil {
			return nil, err
		}
		questions = append(questions, question)
	}
	return questions, rows.Err()
}

func (s *Store) FetchAnswers(ctx context.Context, questionID int) ([]models.Answer, error) {
	byQuestion, err := s.FetchAnswersForQuestions(ctx, []int{questionID})
	if err != nil {
		return nil, err
	}
	return byQuestion[questionID], nil
}

// FetchAnswersForQuestions loads the answers of several questions in one query.
// Each question's answers are ordered by id.
func (s *Store) FetchAnswersForQuestions(ctx context.Context, questionIDs []int) (map[int][]models.Answer, error) {
	byQuestion := make(map[int][]models.Answer, len(questionIDs))
	if len(questionIDs) == 0 {
		return byQuestion, nil
	}

	placeholders := make([]string, len(questionIDs))
	args := make([]any, len(questionIDs))
	for idx, id := range questionIDs {
		placeholders[idx] = fmt.Sprintf("$%d", idx+1)
		args[idx] = id
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, question_id, answer, is_correct
		FROM answers
		WHERE question_id IN (`+strings.Join(placeholders, ", ")+`)
		ORDER BY id
	`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var answer models.Answer
		if err := rows.Scan(&answer.ID, &answer.QuestionID, &answer.Answer, &answer.IsCorrect); err != nil {
			return nil, err
		}
		byQuestion[answer.QuestionID] = append(byQuestion[answer.QuestionID], answer)
	}
	return byQuestion, rows.Err()
}

func (s *Store) InsertCategory(ctx context.Context, name string) (int, error) {
	var id int
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO categories (name) VALUES ($1) RETURNING id`, name,
	).Scan(&id)
	if err != nil {
		return 0, s.translate(err)
	}
	return id, nil
}

func (s *Store) InsertQuestion(ctx context.Context, text string, categoryID int) (int, error) {
	return insertQuestion(ctx, s.db, text, categoryID, s.translate)
}

func (s *Store) InsertAnswer(ctx context.Context, text string, isCorrect bool, questionID int) (int, error) {
	return insertAnswer(ctx, s.db, text, isCorrect, questionID, s.translate)
}

// CreateQuestion writes a question and its answers in one transaction. The
// transaction is rolled back when no answer gets written.
func (s *Store) CreateQuestion(ctx context.Context, question models.NewQuestion) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback()

	questionID, err := insertQuestion(ctx, tx, question.Question, question.CategoryID, s.translate)
	if err != nil {
		return 0, err
	}

	inserted := 0
	for _, answer := range question.Answers {
		if _, err := insertAnswer(ctx, tx, answer.Answer, answer.IsCorrect, questionID, s.translate); err != nil {
			return 0, err
		}
		inserted++
	}
	if inserted == 0 {
		return 0, quiz.ErrNoAnswersInserted
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("error committing transaction: %w", err)
	}
	return questionID, nil
}

func insertQuestion(ctx context.Context, q queryer, text string, categoryID int, translate func(error) error) (int, error) {
	var id int
	err := q.QueryRowContext(ctx,
		`INSERT INTO questions (category_id, question) VALUES ($1, $2) RETURNING id`,
		categoryID, text,
	).Scan(&id)
	if err != nil {
		return 0, translate(err)
	}
	return id, nil
}

func insertAnswer(ctx context.Context, q queryer, text string, isCorrect bool, questionID int, translate func(error) error) (int, error) {
	var id int
	err := q.QueryRowContext(ctx,
		`INSERT INTO answers (question_id, answer, is_correct) VALUES ($1, $2, $3) RETURNING id`,
		questionID, text, isCorrect,
	).Scan(&id)
	if err != nil {
		return 0, translate(err)
	}
	return id, nil
}

// translate maps constraint violations onto the quiz package errors.
func (s *Store) translate(err error) error {
	if s.driver == DriverPostgres {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			switch pqErr.Code.Name() {
			case "foreign_key_violation":
				return fmt.Errorf("%w: %s", quiz.ErrCategoryNotFound, pqErr.Detail)
			case "unique_violation":
				return fmt.Errorf("%w: %s", quiz.ErrDuplicateCategory, pqErr.Detail)
			}
		}
		return err
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.ExtendedCode {
		case sqlite3.ErrConstraintForeignKey:
			return fmt.Errorf("%w: %v", quiz.ErrCategoryNotFound, err)
		case sqlite3.ErrConstraintUnique:
			return fmt.Errorf("%w: %v", quiz.ErrDuplicateCategory, err)
		}
	}
	return err
}
