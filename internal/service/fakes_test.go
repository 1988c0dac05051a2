package service

import (
	"context"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/quizapp/quizapp-backend/internal/model"
)

// In-memory store fakes. They mirror the repository contracts: pgx.ErrNoRows
// for absent records, conditional update semantics for AppendAttemptAtomic,
// and cascades applied together with the quiz mutation.

type memUserStore struct {
	mu    sync.Mutex
	users map[string]*model.User
}

func newMemUserStore() *memUserStore {
	return &memUserStore{users: make(map[string]*model.User)}
}

func (m *memUserStore) Create(_ context.Context, u *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *u
	copied.CreatedAt = time.Now()
	m.users[u.EmailID] = &copied
	u.CreatedAt = copied.CreatedAt
	return nil
}

func (m *memUserStore) GetByEmail(_ context.Context, emailID string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[emailID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *u
	return &copied, nil
}

func (m *memUserStore) GetByUserName(_ context.Context, userName string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.UserName == userName {
			copied := *u
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *memUserStore) UpdateUserName(_ context.Context, emailID, userName string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[emailID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	u.UserName = userName
	copied := *u
	return &copied, nil
}

type memQuizStore struct {
	mu       sync.Mutex
	quizzes  map[string]*model.Quiz
	attended *memAttendedStore
}

func newMemQuizStore(attended *memAttendedStore) *memQuizStore {
	return &memQuizStore{quizzes: make(map[string]*model.Quiz), attended: attended}
}

func (m *memQuizStore) Create(_ context.Context, q *model.Quiz) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *q
	copied.CreatedAt = time.Now()
	copied.UpdatedAt = copied.CreatedAt
	m.quizzes[q.QuizID] = &copied
	return nil
}

func (m *memQuizStore) GetByID(_ context.Context, quizID string) (*model.Quiz, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	q, ok := m.quizzes[quizID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *q
	return &copied, nil
}

func (m *memQuizStore) ListByCreator(_ context.Context, emailID string) ([]model.Quiz, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Quiz
	for _, q := range m.quizzes {
		if q.CreatedByEmailID == emailID {
			out = append(out, *q)
		}
	}
	return out, nil
}

func (m *memQuizStore) QuizIDExists(_ context.Context, quizID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.quizzes[quizID]
	return ok, nil
}

func (m *memQuizStore) UpdateOptions(_ context.Context, q *model.Quiz) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.quizzes[q.QuizID]
	if !ok {
		return pgx.ErrNoRows
	}
	copied := *q
	copied.CreatedAt = stored.CreatedAt
	copied.UpdatedAt = time.Now()
	m.quizzes[q.QuizID] = &copied
	return nil
}

func (m *memQuizStore) ReplaceQuestions(ctx context.Context, q *model.Quiz) error {
	if err := m.UpdateOptions(ctx, q); err != nil {
		return err
	}
	_, err := m.attended.DeleteByQuiz(ctx, q.QuizID)
	return err
}

func (m *memQuizStore) DeleteCascade(ctx context.Context, quizID string) error {
	m.mu.Lock()
	if _, ok := m.quizzes[quizID]; !ok {
		m.mu.Unlock()
		return pgx.ErrNoRows
	}
	delete(m.quizzes, quizID)
	m.mu.Unlock()
	_, err := m.attended.DeleteByQuiz(ctx, quizID)
	return err
}

type memAttendedStore struct {
	mu      sync.Mutex
	records map[string]*model.AttendedQuiz
}

func newMemAttendedStore() *memAttendedStore {
	return &memAttendedStore{records: make(map[string]*model.AttendedQuiz)}
}

func attendedKey(quizID, emailID string) string {
	return quizID + "|" + emailID
}

func (m *memAttendedStore) GetByQuizAndUser(_ context.Context, quizID, emailID string) (*model.AttendedQuiz, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.records[attendedKey(quizID, emailID)]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *r
	return &copied, nil
}

func (m *memAttendedStore) ListByUser(_ context.Context, emailID string) ([]model.AttendedQuiz, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.AttendedQuiz
	for _, r := range m.records {
		if r.AttendedByEmailID == emailID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (m *memAttendedStore) Create(_ context.Context, a *model.AttendedQuiz) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := attendedKey(a.QuizID, a.AttendedByEmailID)
	if _, exists := m.records[key]; exists {
		return pgx.ErrNoRows
	}
	copied := *a
	copied.CreatedAt = time.Now()
	copied.UpdatedAt = copied.CreatedAt
	m.records[key] = &copied
	return nil
}

func (m *memAttendedStore) AppendAttemptAtomic(_ context.Context, quizID, emailID string, expectedLeft int, attempt model.Attempt) (*model.AttendedQuiz, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.records[attendedKey(quizID, emailID)]
	if !ok || r.AttemptsLeft != expectedLeft || r.AttemptsLeft <= 0 {
		return nil, pgx.ErrNoRows
	}
	r.Attempts = append(r.Attempts, attempt)
	r.AttemptsLeft--
	r.UpdatedAt = time.Now()
	copied := *r
	return &copied, nil
}

func (m *memAttendedStore) UpdateQuizMetadata(_ context.Context, q *model.Quiz) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.records {
		if r.QuizID == q.QuizID {
			r.QuizName = q.QuizName
			r.QuizDescription = q.QuizDescription
			r.ShowAnswer = q.ShowAnswer
			r.TimeLimitSec = q.TimeLimitSec
			r.UpdatedAt = time.Now()
		}
	}
	return nil
}

func (m *memAttendedStore) DeleteByQuiz(_ context.Context, quizID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for key, r := range m.records {
		if r.QuizID == quizID {
			delete(m.records, key)
			n++
		}
	}
	return n, nil
}

// seqReader yields a deterministic, non-repeating byte stream so generated
// IDs are unique and stable across a test run.
type seqReader struct {
	next byte
}

func (r *seqReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = r.next
		r.next++
	}
	return len(p), nil
}
