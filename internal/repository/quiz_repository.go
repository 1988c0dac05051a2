package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/quizapp/quizapp-backend/internal/model"
)

// QuizRepository handles created-quiz data access. Question sets are stored
// as JSONB documents; scoring-class edits and deletes cascade onto the
// attended_quizzes table inside a single transaction so that a half-applied
// edit is never observable to concurrent submissions.
type QuizRepository struct {
	pool *pgxpool.Pool
}

// NewQuizRepository creates a new QuizRepository.
func NewQuizRepository(pool *pgxpool.Pool) *QuizRepository {
	return &QuizRepository{pool: pool}
}

const quizColumns = `quiz_id, quiz_name, quiz_description, created_by_email_id,
	created_by_user_name, active, protected, show_answer, time_limit_sec,
	max_attempts, negative_marking, shuffle_questions, shuffle_options,
	questions, max_score, created_at, updated_at`

func scanQuiz(row interface{ Scan(...any) error }) (*model.Quiz, error) {
	q := &model.Quiz{}
	var questionsJSON []byte
	err := row.Scan(&q.QuizID, &q.QuizName, &q.QuizDescription, &q.CreatedByEmailID,
		&q.CreatedByUserName, &q.Active, &q.Protected, &q.ShowAnswer, &q.TimeLimitSec,
		&q.MaxAttempts, &q.NegativeMarking, &q.ShuffleQuestions, &q.ShuffleOptions,
		&questionsJSON, &q.MaxScore, &q.CreatedAt, &q.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(questionsJSON, &q.Questions); err != nil {
		return nil, fmt.Errorf("unmarshal questions: %w", err)
	}
	return q, nil
}

// Create inserts a new quiz.
func (r *QuizRepository) Create(ctx context.Context, q *model.Quiz) error {
	questionsJSON, err := json.Marshal(q.Questions)
	if err != nil {
		return fmt.Errorf("marshal questions: %w", err)
	}
	return r.pool.QueryRow(ctx,
		`INSERT INTO created_quizzes (quiz_id, quiz_name, quiz_description,
		   created_by_email_id, created_by_user_name, active, protected,
		   show_answer, time_limit_sec, max_attempts, negative_marking,
		   shuffle_questions, shuffle_options, questions, max_score)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		 RETURNING created_at, updated_at`,
		q.QuizID, q.QuizName, q.QuizDescription, q.CreatedByEmailID,
		q.CreatedByUserName, q.Active, q.Protected, q.ShowAnswer, q.TimeLimitSec,
		q.MaxAttempts, q.NegativeMarking, q.ShuffleQuestions, q.ShuffleOptions,
		questionsJSON, q.MaxScore,
	).Scan(&q.CreatedAt, &q.UpdatedAt)
}

// GetByID retrieves a quiz by its ID. Returns pgx.ErrNoRows when absent.
func (r *QuizRepository) GetByID(ctx context.Context, quizID string) (*model.Quiz, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+quizColumns+` FROM created_quizzes WHERE quiz_id = $1`, quizID)
	return scanQuiz(row)
}

// ListByCreator retrieves all quizzes created by a user, most recently
// updated first.
func (r *QuizRepository) ListByCreator(ctx context.Context, emailID string) ([]model.Quiz, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+quizColumns+` FROM created_quizzes
		 WHERE created_by_email_id = $1
		 ORDER BY updated_at DESC`, emailID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var quizzes []model.Quiz
	for rows.Next() {
		q, err := scanQuiz(rows)
		if err != nil {
			return nil, err
		}
		quizzes = append(quizzes, *q)
	}
	return quizzes, rows.Err()
}

// QuizIDExists reports whether a quiz ID is already taken.
func (r *QuizRepository) QuizIDExists(ctx context.Context, quizID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM created_quizzes WHERE quiz_id = $1)`, quizID,
	).Scan(&exists)
	return exists, err
}

// UpdateOptions writes the option-class fields (nothing that affects
// scoring) plus the regenerated description.
func (r *QuizRepository) UpdateOptions(ctx context.Context, q *model.Quiz) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE created_quizzes
		 SET quiz_name = $1, quiz_description = $2, active = $3, protected = $4,
		     show_answer = $5, time_limit_sec = $6, shuffle_questions = $7,
		     shuffle_options = $8, updated_at = NOW()
		 WHERE quiz_id = $9`,
		q.QuizName, q.QuizDescription, q.Active, q.Protected, q.ShowAnswer,
		q.TimeLimitSec, q.ShuffleQuestions, q.ShuffleOptions, q.QuizID)
	return err
}

// ReplaceQuestions writes the scoring-class fields (question set, negative
// marking, max attempts, recomputed max score) and deletes every attended
// record for the quiz in the same transaction: prior attempts are not
// meaningful against the new question set.
func (r *QuizRepository) ReplaceQuestions(ctx context.Context, q *model.Quiz) error {
	questionsJSON, err := json.Marshal(q.Questions)
	if err != nil {
		return fmt.Errorf("marshal questions: %w", err)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`UPDATE created_quizzes
		 SET questions = $1, negative_marking = $2, max_attempts = $3,
		     max_score = $4, quiz_description = $5, updated_at = NOW()
		 WHERE quiz_id = $6`,
		questionsJSON, q.NegativeMarking, q.MaxAttempts, q.MaxScore,
		q.QuizDescription, q.QuizID)
	if err != nil {
		return fmt.Errorf("update quiz: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	if _, err := tx.Exec(ctx,
		`DELETE FROM attended_quizzes WHERE quiz_id = $1`, q.QuizID); err != nil {
		return fmt.Errorf("purge attended quizzes: %w", err)
	}

	return tx.Commit(ctx)
}

// DeleteCascade removes a quiz and every attended record referencing it in
// one transaction.
func (r *QuizRepository) DeleteCascade(ctx context.Context, quizID string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`DELETE FROM attended_quizzes WHERE quiz_id = $1`, quizID); err != nil {
		return fmt.Errorf("purge attended quizzes: %w", err)
	}

	tag, err := tx.Exec(ctx,
		`DELETE FROM created_quizzes WHERE quiz_id = $1`, quizID)
	if err != nil {
		return fmt.Errorf("delete quiz: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	return tx.Commit(ctx)
}
