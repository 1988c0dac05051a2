package service

import (
	"context"

	"github.com/quizapp/quizapp-backend/internal/model"
)

// The services depend on narrow store interfaces rather than the concrete
// pgx repositories so the lifecycle rules can be tested against in-memory
// fakes. All implementations return pgx.ErrNoRows when a record is absent.

// UserStore is the persistence contract for user records.
type UserStore interface {
	Create(ctx context.Context, u *model.User) error
	GetByEmail(ctx context.Context, emailID string) (*model.User, error)
	GetByUserName(ctx context.Context, userName string) (*model.User, error)
	UpdateUserName(ctx context.Context, emailID, userName string) (*model.User, error)
}

// QuizStore is the persistence contract for created quizzes. ReplaceQuestions
// and DeleteCascade must apply their attended-quiz cascade atomically with
// the quiz mutation.
type QuizStore interface {
	Create(ctx context.Context, q *model.Quiz) error
	GetByID(ctx context.Context, quizID string) (*model.Quiz, error)
	ListByCreator(ctx context.Context, emailID string) ([]model.Quiz, error)
	QuizIDExists(ctx context.Context, quizID string) (bool, error)
	UpdateOptions(ctx context.Context, q *model.Quiz) error
	ReplaceQuestions(ctx context.Context, q *model.Quiz) error
	DeleteCascade(ctx context.Context, quizID string) error
}

// AttendedQuizStore is the persistence contract for attended-quiz records.
// AppendAttemptAtomic must be a single conditional update on attempts_left
// (compare-and-swap); Create must reject a duplicate (quiz, attendee) pair.
type AttendedQuizStore interface {
	GetByQuizAndUser(ctx context.Context, quizID, emailID string) (*model.AttendedQuiz, error)
	ListByUser(ctx context.Context, emailID string) ([]model.AttendedQuiz, error)
	Create(ctx context.Context, a *model.AttendedQuiz) error
	AppendAttemptAtomic(ctx context.Context, quizID, emailID string, expectedLeft int, attempt model.Attempt) (*model.AttendedQuiz, error)
	UpdateQuizMetadata(ctx context.Context, q *model.Quiz) error
	DeleteByQuiz(ctx context.Context, quizID string) (int64, error)
}
