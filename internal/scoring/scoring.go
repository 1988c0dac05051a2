// Package scoring implements the pure quiz-scoring engine: per-question
// answer comparison and whole-submission attempt scoring. It performs no I/O
// and holds no state; persistence and quota enforcement live in the services
// that call it.
package scoring

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/quizapp/quizapp-backend/internal/model"
)

// ErrAnswerSetMismatch is returned when the number of submitted answers does
// not match the number of questions in the quiz.
var ErrAnswerSetMismatch = errors.New("submitted answer count does not match quiz question count")

// UnknownQuestionIDError reports a submitted answer whose question ID has no
// counterpart in the quiz. This usually means the quiz was edited after the
// client fetched it.
type UnknownQuestionIDError struct {
	QuestionID string
}

func (e *UnknownQuestionIDError) Error() string {
	return fmt.Sprintf("no question found with question ID %q, or the quiz has been edited since it was fetched", e.QuestionID)
}

// Compare judges a single submitted answer against the question's answer key
// and returns the fully echoed AnsweredQuestion.
//
// The correct-answer key and the chosen answers are treated as sets: order is
// irrelevant and duplicates collapse. An empty chosen set means the question
// was not attempted and scores zero; an attempted wrong answer is penalised
// by the question's negative mark.
func Compare(q model.Question, chosenAnswer []string) model.AnsweredQuestion {
	return model.AnsweredQuestion{
		QuestionID:     q.QuestionID,
		Question:       q.Question,
		Options:        q.Options,
		Answer:         q.Answer,
		ChosenAnswer:   chosenAnswer,
		Mark:           q.Mark,
		NegativeMark:   q.NegativeMark,
		MultipleAnswer: q.MultipleAnswer,
		Attempted:      len(chosenAnswer) > 0,
		Correct:        setsEqual(q.Answer, chosenAnswer),
	}
}

// Delta returns the score contribution of an answered question:
// +mark when correct, -negativeMark when attempted but wrong, 0 when skipped.
func Delta(a model.AnsweredQuestion) float64 {
	switch {
	case a.Correct:
		return a.Mark
	case a.Attempted:
		return -a.NegativeMark
	default:
		return 0
	}
}

// Score runs Compare across a full submission and aggregates the result into
// an Attempt.
//
// Questions and answers are paired by question ID via an explicit map join,
// never by position, so the caller may submit answers in any order. Answered
// questions are emitted sorted by question ID, which keeps attempt records
// reproducible regardless of input ordering. The inputs are not mutated.
func Score(quiz *model.Quiz, answers []model.SubmittedAnswer) (*model.Attempt, error) {
	if len(answers) != len(quiz.Questions) {
		return nil, fmt.Errorf("%w: got %d answers for %d questions",
			ErrAnswerSetMismatch, len(answers), len(quiz.Questions))
	}

	questionsByID := make(map[string]model.Question, len(quiz.Questions))
	for _, q := range quiz.Questions {
		questionsByID[q.QuestionID] = q
	}

	// Join answers onto questions. A duplicate answer ID necessarily leaves
	// some question unanswered, so it is reported the same way as an ID the
	// quiz never had.
	chosenByID := make(map[string][]string, len(answers))
	for _, a := range answers {
		if _, ok := questionsByID[a.QuestionID]; !ok {
			return nil, &UnknownQuestionIDError{QuestionID: a.QuestionID}
		}
		if _, dup := chosenByID[a.QuestionID]; dup {
			return nil, &UnknownQuestionIDError{QuestionID: a.QuestionID}
		}
		chosenByID[a.QuestionID] = a.ChosenAnswer
	}

	ids := make([]string, 0, len(questionsByID))
	for id := range questionsByID {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	attempt := &model.Attempt{
		Answers: make([]model.AnsweredQuestion, 0, len(ids)),
	}
	for _, id := range ids {
		answered := Compare(questionsByID[id], chosenByID[id])
		attempt.Score += Delta(answered)
		attempt.Answers = append(attempt.Answers, answered)
	}
	attempt.AttemptedAt = time.Now().UTC()

	return attempt, nil
}

// setsEqual reports whether two string slices contain the same set of
// elements, ignoring order and duplicates.
func setsEqual(a, b []string) bool {
	as := make(map[string]struct{}, len(a))
	for _, v := range a {
		as[v] = struct{}{}
	}
	bs := make(map[string]struct{}, len(b))
	for _, v := range b {
		bs[v] = struct{}{}
	}
	if len(as) != len(bs) {
		return false
	}
	for v := range as {
		if _, ok := bs[v]; !ok {
			return false
		}
	}
	return true
}
