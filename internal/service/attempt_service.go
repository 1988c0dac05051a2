package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/quizapp/quizapp-backend/internal/config"
	"github.com/quizapp/quizapp-backend/internal/model"
	"github.com/quizapp/quizapp-backend/internal/scoring"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Attempt lifecycle errors.
var (
	ErrAttemptsExhausted      = errors.New("no attempts left for this quiz")
	ErrAttendedQuizNotFound   = errors.New("attended quiz not found")
	ErrConcurrentModification = errors.New("attempt record changed concurrently")
)

// QuizResult is the live-results event published for each successful
// submission, consumed by the owner's websocket stream.
type QuizResult struct {
	QuizID             string  `json:"quiz_id"`
	AttendedByEmailID  string  `json:"attended_by_email_id"`
	AttendedByUserName string  `json:"attended_by_user_name"`
	Score              float64 `json:"score"`
	MaxScore           float64 `json:"max_score"`
	AttemptsLeft       int     `json:"attempts_left"`
}

// AttemptService drives the submit lifecycle: scoring a submission and
// recording it against the (quiz, attendee) attempt quota.
type AttemptService struct {
	quizzes  QuizStore
	attended AttendedQuizStore
	users    UserStore
	rdb      *redis.Client
}

// NewAttemptService creates a new AttemptService.
func NewAttemptService(quizzes QuizStore, attended AttendedQuizStore, users UserStore, rdb *redis.Client) *AttemptService {
	return &AttemptService{quizzes: quizzes, attended: attended, users: users, rdb: rdb}
}

// Submit scores a full submission and records it. A first submission creates
// the attended-quiz record with maxAttempts-1 attempts left; a resubmission
// appends a new attempt and decrements the quota through a conditional
// update, so two racing submissions can never spend the same attempt.
func (s *AttemptService) Submit(ctx context.Context, quizID, emailID, userName string, answers []model.SubmittedAnswerRequest) (*model.AttendedQuiz, error) {
	quiz, err := s.quizzes.GetByID(ctx, quizID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrQuizNotFound
		}
		return nil, fmt.Errorf("get quiz: %w", err)
	}
	if !quiz.Active {
		return nil, ErrQuizNotActive
	}

	user, err := s.users.GetByEmail(ctx, emailID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user.UserName != userName {
		return nil, ErrUserMismatch
	}

	submitted := make([]model.SubmittedAnswer, len(answers))
	for i, a := range answers {
		submitted[i] = model.SubmittedAnswer{QuestionID: a.QuestionID, ChosenAnswer: a.ChosenAnswer}
	}
	attempt, err := scoring.Score(quiz, submitted)
	if err != nil {
		return nil, err
	}

	record, err := s.attended.GetByQuizAndUser(ctx, quizID, emailID)
	switch {
	case err == nil:
		record, err = s.appendAttempt(ctx, record, *attempt)
	case errors.Is(err, pgx.ErrNoRows):
		record, err = s.createRecord(ctx, quiz, emailID, userName, *attempt)
	default:
		return nil, fmt.Errorf("get attended quiz: %w", err)
	}
	if err != nil {
		return nil, err
	}

	s.publishResult(ctx, record, attempt.Score)

	log.Info().Str("quiz_id", quizID).Str("attended_by", emailID).
		Float64("score", attempt.Score).Int("attempts_left", record.AttemptsLeft).
		Msg("Quiz submission recorded")
	return record, nil
}

// ListAttended lists the quizzes a user has attended, most recently
// updated first.
func (s *AttemptService) ListAttended(ctx context.Context, emailID string) ([]model.AttendedQuiz, error) {
	records, err := s.attended.ListByUser(ctx, emailID)
	if err != nil {
		return nil, fmt.Errorf("list attended quizzes: %w", err)
	}
	return records, nil
}

// GetAttended returns one attended-quiz record for the calling user.
func (s *AttemptService) GetAttended(ctx context.Context, quizID, emailID string) (*model.AttendedQuiz, error) {
	record, err := s.attended.GetByQuizAndUser(ctx, quizID, emailID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAttendedQuizNotFound
		}
		return nil, fmt.Errorf("get attended quiz: %w", err)
	}
	return record, nil
}

func (s *AttemptService) createRecord(ctx context.Context, quiz *model.Quiz, emailID, userName string, attempt model.Attempt) (*model.AttendedQuiz, error) {
	if quiz.MaxAttempts < 1 {
		return nil, ErrAttemptsExhausted
	}
	record := &model.AttendedQuiz{
		QuizID:             quiz.QuizID,
		QuizName:           quiz.QuizName,
		QuizDescription:    quiz.QuizDescription,
		CreatedByEmailID:   quiz.CreatedByEmailID,
		CreatedByUserName:  quiz.CreatedByUserName,
		ShowAnswer:         quiz.ShowAnswer,
		TimeLimitSec:       quiz.TimeLimitSec,
		AttendedByEmailID:  emailID,
		AttendedByUserName: userName,
		AttemptsLeft:       quiz.MaxAttempts - 1,
		Attempts:           []model.Attempt{attempt},
		MaxScore:           quiz.MaxScore,
	}
	if err := s.attended.Create(ctx, record); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Another submission created the record first.
			log.Warn().Str("quiz_id", quiz.QuizID).Str("attended_by", emailID).
				Msg("Lost first-submission race")
			return nil, ErrConcurrentModification
		}
		return nil, fmt.Errorf("create attended quiz: %w", err)
	}
	return record, nil
}

func (s *AttemptService) appendAttempt(ctx context.Context, record *model.AttendedQuiz, attempt model.Attempt) (*model.AttendedQuiz, error) {
	if record.AttemptsLeft <= 0 {
		return nil, ErrAttemptsExhausted
	}
	updated, err := s.attended.AppendAttemptAtomic(ctx, record.QuizID, record.AttendedByEmailID, record.AttemptsLeft, attempt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Warn().Str("quiz_id", record.QuizID).Str("attended_by", record.AttendedByEmailID).
				Int("expected_left", record.AttemptsLeft).
				Msg("Lost attempt-decrement race")
			return nil, ErrConcurrentModification
		}
		return nil, fmt.Errorf("append attempt: %w", err)
	}
	return updated, nil
}

// publishResult pushes the submission onto the quiz's live-results channel.
// Best effort: a publish failure never fails the submission.
func (s *AttemptService) publishResult(ctx context.Context, record *model.AttendedQuiz, score float64) {
	if s.rdb == nil {
		return
	}
	result := QuizResult{
		QuizID:             record.QuizID,
		AttendedByEmailID:  record.AttendedByEmailID,
		AttendedByUserName: record.AttendedByUserName,
		Score:              score,
		MaxScore:           record.MaxScore,
		AttemptsLeft:       record.AttemptsLeft,
	}
	data, err := json.Marshal(result)
	if err != nil {
		return
	}
	if err := s.rdb.Publish(ctx, config.CacheKey.QuizResultsChannel(record.QuizID), data).Err(); err != nil {
		log.Warn().Err(err).Str("quiz_id", record.QuizID).Msg("Live result publish failed")
	}
}
