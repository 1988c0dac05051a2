package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/quizapp/quizapp-backend/internal/model"
)

// AttendedQuizRepository handles attended-quiz data access. The attempt
// history is stored as a JSONB array; appending an attempt and decrementing
// the remaining quota is a single conditional UPDATE so concurrent
// submissions cannot spend the same attempt twice.
type AttendedQuizRepository struct {
	pool *pgxpool.Pool
}

// NewAttendedQuizRepository creates a new AttendedQuizRepository.
func NewAttendedQuizRepository(pool *pgxpool.Pool) *AttendedQuizRepository {
	return &AttendedQuizRepository{pool: pool}
}

const attendedColumns = `id, quiz_id, quiz_name, quiz_description,
	created_by_email_id, created_by_user_name, show_answer, time_limit_sec,
	attended_by_email_id, attended_by_user_name, attempts_left, attempts,
	max_score, created_at, updated_at`

func scanAttended(row interface{ Scan(...any) error }) (*model.AttendedQuiz, error) {
	a := &model.AttendedQuiz{}
	var attemptsJSON []byte
	err := row.Scan(&a.ID, &a.QuizID, &a.QuizName, &a.QuizDescription,
		&a.CreatedByEmailID, &a.CreatedByUserName, &a.ShowAnswer, &a.TimeLimitSec,
		&a.AttendedByEmailID, &a.AttendedByUserName, &a.AttemptsLeft, &attemptsJSON,
		&a.MaxScore, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(attemptsJSON, &a.Attempts); err != nil {
		return nil, fmt.Errorf("unmarshal attempts: %w", err)
	}
	return a, nil
}

// GetByQuizAndUser retrieves the record for a (quiz, attendee) pair.
// Returns pgx.ErrNoRows when the user has never submitted this quiz.
func (r *AttendedQuizRepository) GetByQuizAndUser(ctx context.Context, quizID, emailID string) (*model.AttendedQuiz, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+attendedColumns+` FROM attended_quizzes
		 WHERE quiz_id = $1 AND attended_by_email_id = $2`, quizID, emailID)
	return scanAttended(row)
}

// ListByUser retrieves all quizzes a user has attended, most recently
// updated first.
func (r *AttendedQuizRepository) ListByUser(ctx context.Context, emailID string) ([]model.AttendedQuiz, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+attendedColumns+` FROM attended_quizzes
		 WHERE attended_by_email_id = $1
		 ORDER BY updated_at DESC`, emailID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []model.AttendedQuiz
	for rows.Next() {
		a, err := scanAttended(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *a)
	}
	return records, rows.Err()
}

// Create inserts a first-submission record. The (quiz_id, attended_by)
// unique constraint resolves concurrent first submissions: the loser gets
// pgx.ErrNoRows back and must re-read and retry as a resubmission.
func (r *AttendedQuizRepository) Create(ctx context.Context, a *model.AttendedQuiz) error {
	attemptsJSON, err := json.Marshal(a.Attempts)
	if err != nil {
		return fmt.Errorf("marshal attempts: %w", err)
	}
	return r.pool.QueryRow(ctx,
		`INSERT INTO attended_quizzes (quiz_id, quiz_name, quiz_description,
		   created_by_email_id, created_by_user_name, show_answer, time_limit_sec,
		   attended_by_email_id, attended_by_user_name, attempts_left, attempts,
		   max_score)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		 ON CONFLICT (quiz_id, attended_by_email_id) DO NOTHING
		 RETURNING id, created_at, updated_at`,
		a.QuizID, a.QuizName, a.QuizDescription, a.CreatedByEmailID,
		a.CreatedByUserName, a.ShowAnswer, a.TimeLimitSec, a.AttendedByEmailID,
		a.AttendedByUserName, a.AttemptsLeft, attemptsJSON, a.MaxScore,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
}

// AppendAttemptAtomic appends an attempt and decrements attempts_left in one
// conditional UPDATE. The expectedLeft guard is a compare-and-swap: when a
// concurrent submission got there first, no row matches and pgx.ErrNoRows is
// returned so the caller can treat the race as a spent attempt.
func (r *AttendedQuizRepository) AppendAttemptAtomic(ctx context.Context, quizID, emailID string, expectedLeft int, attempt model.Attempt) (*model.AttendedQuiz, error) {
	attemptJSON, err := json.Marshal(attempt)
	if err != nil {
		return nil, fmt.Errorf("marshal attempt: %w", err)
	}
	row := r.pool.QueryRow(ctx,
		`UPDATE attended_quizzes
		 SET attempts = attempts || $1::jsonb,
		     attempts_left = attempts_left - 1,
		     updated_at = NOW()
		 WHERE quiz_id = $2 AND attended_by_email_id = $3
		   AND attempts_left = $4 AND attempts_left > 0
		 RETURNING `+attendedColumns,
		attemptJSON, quizID, emailID, expectedLeft)
	return scanAttended(row)
}

// UpdateQuizMetadata propagates option-class quiz edits into the
// denormalized copies held by every attended record of the quiz. Attempt
// history and remaining quota are untouched.
func (r *AttendedQuizRepository) UpdateQuizMetadata(ctx context.Context, q *model.Quiz) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE attended_quizzes
		 SET quiz_name = $1, quiz_description = $2, show_answer = $3,
		     time_limit_sec = $4, updated_at = NOW()
		 WHERE quiz_id = $5`,
		q.QuizName, q.QuizDescription, q.ShowAnswer, q.TimeLimitSec, q.QuizID)
	return err
}

// DeleteByQuiz removes every attended record for a quiz and reports how many
// were purged.
func (r *AttendedQuizRepository) DeleteByQuiz(ctx context.Context, quizID string) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM attended_quizzes WHERE quiz_id = $1`, quizID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
