package service

import (
	"context"
	"errors"
	"testing"

	"github.com/quizapp/quizapp-backend/internal/model"
	"github.com/quizapp/quizapp-backend/internal/scoring"
)

func testQuiz(maxAttempts int) *model.Quiz {
	return &model.Quiz{
		QuizID:            "alice-abc1234",
		QuizName:          "Capitals",
		CreatedByEmailID:  "alice@example.com",
		CreatedByUserName: "alice",
		Active:            true,
		MaxAttempts:       maxAttempts,
		Questions: []model.Question{
			{
				QuestionID: "alice-abc1234-q000001",
				Question:   "Capital of France?",
				Options:    []string{"Paris", "Lyon"},
				Answer:     []string{"Paris"},
				Mark:       4,
			},
			{
				QuestionID:   "alice-abc1234-q000002",
				Question:     "Capital of Spain?",
				Options:      []string{"Madrid", "Seville"},
				Answer:       []string{"Madrid"},
				Mark:         4,
				NegativeMark: 1,
			},
		},
		MaxScore: 8,
	}
}

func fullAnswers() []model.SubmittedAnswerRequest {
	return []model.SubmittedAnswerRequest{
		{QuestionID: "alice-abc1234-q000001", ChosenAnswer: []string{"Paris"}},
		{QuestionID: "alice-abc1234-q000002", ChosenAnswer: []string{"Seville"}},
	}
}

func newAttemptFixture(t *testing.T, quiz *model.Quiz) (*AttemptService, *memQuizStore, *memAttendedStore) {
	t.Helper()
	attended := newMemAttendedStore()
	quizzes := newMemQuizStore(attended)
	users := newMemUserStore()
	users.users["bob@example.com"] = &model.User{EmailID: "bob@example.com", UserName: "bob"}
	if quiz != nil {
		if err := quizzes.Create(context.Background(), quiz); err != nil {
			t.Fatalf("seed quiz: %v", err)
		}
	}
	return NewAttemptService(quizzes, attended, users, nil), quizzes, attended
}

func TestSubmitFirstSubmission(t *testing.T) {
	svc, _, _ := newAttemptFixture(t, testQuiz(3))

	record, err := svc.Submit(context.Background(), "alice-abc1234", "bob@example.com", "bob", fullAnswers())
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if record.AttemptsLeft != 2 {
		t.Errorf("AttemptsLeft = %d, want 2", record.AttemptsLeft)
	}
	if len(record.Attempts) != 1 {
		t.Fatalf("len(Attempts) = %d, want 1", len(record.Attempts))
	}
	// Q1 correct (+4), Q2 attempted wrong (-1).
	if got := record.Attempts[0].Score; got != 3 {
		t.Errorf("Score = %v, want 3", got)
	}
	if record.QuizName != "Capitals" || record.AttendedByUserName != "bob" {
		t.Errorf("denormalized fields not copied: %+v", record)
	}
}

func TestSubmitAppendsUntilExhausted(t *testing.T) {
	svc, _, _ := newAttemptFixture(t, testQuiz(3))
	ctx := context.Background()

	for want := 2; want >= 0; want-- {
		record, err := svc.Submit(ctx, "alice-abc1234", "bob@example.com", "bob", fullAnswers())
		if err != nil {
			t.Fatalf("Submit() error = %v at attempts_left %d", err, want)
		}
		if record.AttemptsLeft != want {
			t.Fatalf("AttemptsLeft = %d, want %d", record.AttemptsLeft, want)
		}
		if got := len(record.Attempts); got != 3-want {
			t.Fatalf("len(Attempts) = %d, want %d", got, 3-want)
		}
	}

	_, err := svc.Submit(ctx, "alice-abc1234", "bob@example.com", "bob", fullAnswers())
	if !errors.Is(err, ErrAttemptsExhausted) {
		t.Errorf("Submit() after quota error = %v, want ErrAttemptsExhausted", err)
	}
}

func TestSubmitSingleAttemptQuiz(t *testing.T) {
	svc, _, _ := newAttemptFixture(t, testQuiz(1))
	ctx := context.Background()

	record, err := svc.Submit(ctx, "alice-abc1234", "bob@example.com", "bob", fullAnswers())
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if record.AttemptsLeft != 0 {
		t.Errorf("AttemptsLeft = %d, want 0", record.AttemptsLeft)
	}

	if _, err := svc.Submit(ctx, "alice-abc1234", "bob@example.com", "bob", fullAnswers()); !errors.Is(err, ErrAttemptsExhausted) {
		t.Errorf("second Submit() error = %v, want ErrAttemptsExhausted", err)
	}
}

func TestSubmitQuizNotFound(t *testing.T) {
	svc, _, _ := newAttemptFixture(t, nil)

	_, err := svc.Submit(context.Background(), "nope-0000000", "bob@example.com", "bob", fullAnswers())
	if !errors.Is(err, ErrQuizNotFound) {
		t.Errorf("Submit() error = %v, want ErrQuizNotFound", err)
	}
}

func TestSubmitInactiveQuiz(t *testing.T) {
	quiz := testQuiz(3)
	quiz.Active = false
	svc, _, _ := newAttemptFixture(t, quiz)

	_, err := svc.Submit(context.Background(), "alice-abc1234", "bob@example.com", "bob", fullAnswers())
	if !errors.Is(err, ErrQuizNotActive) {
		t.Errorf("Submit() error = %v, want ErrQuizNotActive", err)
	}
}

func TestSubmitUserNameMismatch(t *testing.T) {
	svc, _, _ := newAttemptFixture(t, testQuiz(3))

	_, err := svc.Submit(context.Background(), "alice-abc1234", "bob@example.com", "mallory", fullAnswers())
	if !errors.Is(err, ErrUserMismatch) {
		t.Errorf("Submit() error = %v, want ErrUserMismatch", err)
	}
}

func TestSubmitAnswerSetMismatch(t *testing.T) {
	svc, _, _ := newAttemptFixture(t, testQuiz(3))

	answers := fullAnswers()[:1]
	_, err := svc.Submit(context.Background(), "alice-abc1234", "bob@example.com", "bob", answers)
	if !errors.Is(err, scoring.ErrAnswerSetMismatch) {
		t.Errorf("Submit() error = %v, want ErrAnswerSetMismatch", err)
	}
}

func TestSubmitUnknownQuestionID(t *testing.T) {
	svc, _, _ := newAttemptFixture(t, testQuiz(3))

	answers := fullAnswers()
	answers[1].QuestionID = "alice-abc1234-edited1"
	_, err := svc.Submit(context.Background(), "alice-abc1234", "bob@example.com", "bob", answers)
	var unknownErr *scoring.UnknownQuestionIDError
	if !errors.As(err, &unknownErr) {
		t.Fatalf("Submit() error = %v, want UnknownQuestionIDError", err)
	}
	if unknownErr.QuestionID != "alice-abc1234-edited1" {
		t.Errorf("QuestionID = %q, want the offending id", unknownErr.QuestionID)
	}
}

func TestSubmitLostDecrementRace(t *testing.T) {
	svc, _, attended := newAttemptFixture(t, testQuiz(3))
	ctx := context.Background()

	if _, err := svc.Submit(ctx, "alice-abc1234", "bob@example.com", "bob", fullAnswers()); err != nil {
		t.Fatalf("seed submission: %v", err)
	}

	// A concurrent submission spends the attempt after this one read the
	// record: the conditional update must reject the stale decrement.
	record, err := attended.GetByQuizAndUser(ctx, "alice-abc1234", "bob@example.com")
	if err != nil {
		t.Fatalf("get record: %v", err)
	}
	if _, err := attended.AppendAttemptAtomic(ctx, "alice-abc1234", "bob@example.com", record.AttemptsLeft, model.Attempt{}); err != nil {
		t.Fatalf("simulate racing submission: %v", err)
	}

	if _, err := attended.AppendAttemptAtomic(ctx, "alice-abc1234", "bob@example.com", record.AttemptsLeft, model.Attempt{}); err == nil {
		t.Fatal("stale conditional update succeeded, want rejection")
	}

	final, err := attended.GetByQuizAndUser(ctx, "alice-abc1234", "bob@example.com")
	if err != nil {
		t.Fatalf("get record: %v", err)
	}
	if final.AttemptsLeft != 1 {
		t.Errorf("AttemptsLeft = %d, want 1 (exactly one decrement)", final.AttemptsLeft)
	}
}

func TestSubmitLostFirstSubmissionRace(t *testing.T) {
	quiz := testQuiz(1)
	svc, _, attended := newAttemptFixture(t, quiz)
	ctx := context.Background()

	// The record appears between the lookup and the insert.
	if err := attended.Create(ctx, &model.AttendedQuiz{
		QuizID:            quiz.QuizID,
		AttendedByEmailID: "bob@example.com",
		AttemptsLeft:      0,
		Attempts:          []model.Attempt{{}},
	}); err != nil {
		t.Fatalf("seed racing record: %v", err)
	}

	_, err := svc.createRecord(ctx, quiz, "bob@example.com", "bob", model.Attempt{})
	if !errors.Is(err, ErrConcurrentModification) {
		t.Errorf("createRecord() error = %v, want ErrConcurrentModification", err)
	}

	// The losing submission must not have grown the attempt history.
	record, err := attended.GetByQuizAndUser(ctx, quiz.QuizID, "bob@example.com")
	if err != nil {
		t.Fatalf("get record: %v", err)
	}
	if len(record.Attempts) != 1 {
		t.Errorf("len(Attempts) = %d, want 1", len(record.Attempts))
	}

	if _, err := svc.Submit(ctx, quiz.QuizID, "bob@example.com", "bob", fullAnswers()); !errors.Is(err, ErrAttemptsExhausted) {
		t.Errorf("Submit() error = %v, want ErrAttemptsExhausted", err)
	}
}

func TestListAttended(t *testing.T) {
	svc, _, _ := newAttemptFixture(t, testQuiz(3))
	ctx := context.Background()

	if _, err := svc.Submit(ctx, "alice-abc1234", "bob@example.com", "bob", fullAnswers()); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	records, err := svc.ListAttended(ctx, "bob@example.com")
	if err != nil {
		t.Fatalf("ListAttended() error = %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("len(records) = %d, want 1", len(records))
	}

	none, err := svc.ListAttended(ctx, "carol@example.com")
	if err != nil {
		t.Fatalf("ListAttended() error = %v", err)
	}
	if len(none) != 0 {
		t.Errorf("len(records) for other user = %d, want 0", len(none))
	}
}

func TestGetAttendedNotFound(t *testing.T) {
	svc, _, _ := newAttemptFixture(t, testQuiz(3))

	_, err := svc.GetAttended(context.Background(), "alice-abc1234", "bob@example.com")
	if !errors.Is(err, ErrAttendedQuizNotFound) {
		t.Errorf("GetAttended() error = %v, want ErrAttendedQuizNotFound", err)
	}
}
