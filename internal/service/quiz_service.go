package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/quizapp/quizapp-backend/internal/config"
	"github.com/quizapp/quizapp-backend/internal/model"
	"github.com/quizapp/quizapp-backend/internal/quizid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Quiz domain errors.
var (
	ErrQuizNotFound  = errors.New("quiz not found")
	ErrQuizNotActive = errors.New("quiz is not active")
	ErrUserMismatch  = errors.New("user does not own this quiz")
)

// AnswerNotInOptionsError reports a question whose answer key contains a
// value missing from its options.
type AnswerNotInOptionsError struct {
	Question string
	Answer   string
}

func (e *AnswerNotInOptionsError) Error() string {
	return fmt.Sprintf("answer %q is not among the options of question %q", e.Answer, e.Question)
}

// attendPayloadTTL bounds how long a cached attend payload can outlive the
// stored quiz. Mutations invalidate the key eagerly; the TTL is the backstop.
const attendPayloadTTL = 30 * time.Minute

// QuizService handles quiz creation, retrieval, edits, and deletion.
type QuizService struct {
	quizzes  QuizStore
	attended AttendedQuizStore
	rdb      *redis.Client
	random   io.Reader
}

// NewQuizService creates a new QuizService. random feeds ID generation and
// is crypto/rand in production.
func NewQuizService(quizzes QuizStore, attended AttendedQuizStore, rdb *redis.Client, random io.Reader) *QuizService {
	return &QuizService{quizzes: quizzes, attended: attended, rdb: rdb, random: random}
}

// Create builds a quiz from the request, generates its IDs, and persists it.
// The quiz ID is prefixed by the creator's username; question IDs are
// prefixed by the quiz ID.
func (s *QuizService) Create(ctx context.Context, emailID, userName string, req *model.CreateQuizRequest) (*model.Quiz, error) {
	quizID, err := quizid.New(s.random, userName, func(id string) (bool, error) {
		return s.quizzes.QuizIDExists(ctx, id)
	})
	if err != nil {
		return nil, fmt.Errorf("generate quiz ID: %w", err)
	}

	questions, err := buildQuestions(s.random, quizID, req.Questions, req.NegativeMarking)
	if err != nil {
		return nil, err
	}

	quiz := &model.Quiz{
		QuizID:            quizID,
		QuizName:          req.QuizName,
		CreatedByEmailID:  emailID,
		CreatedByUserName: userName,
		Active:            req.Active,
		Protected:         req.Protected,
		ShowAnswer:        req.ShowAnswer,
		TimeLimitSec:      req.TimeLimitSec,
		MaxAttempts:       req.MaxAttempts,
		NegativeMarking:   req.NegativeMarking,
		ShuffleQuestions:  req.ShuffleQuestions,
		ShuffleOptions:    req.ShuffleOptions,
		Questions:         questions,
		MaxScore:          model.ComputeMaxScore(questions),
	}
	quiz.QuizDescription = buildQuizDescription(quiz)

	if err := s.quizzes.Create(ctx, quiz); err != nil {
		return nil, fmt.Errorf("create quiz: %w", err)
	}

	log.Info().Str("quiz_id", quiz.QuizID).Str("created_by", emailID).
		Int("questions", len(quiz.Questions)).Msg("Quiz created")
	return quiz, nil
}

// Get returns a quiz with its answer keys. Only the owner may call it.
func (s *QuizService) Get(ctx context.Context, quizID, emailID string) (*model.Quiz, error) {
	quiz, err := s.getOwned(ctx, quizID, emailID)
	if err != nil {
		return nil, err
	}
	return quiz, nil
}

// GetAllCreated lists the quizzes a user has created, most recently
// updated first.
func (s *QuizService) GetAllCreated(ctx context.Context, emailID string) ([]model.Quiz, error) {
	quizzes, err := s.quizzes.ListByCreator(ctx, emailID)
	if err != nil {
		return nil, fmt.Errorf("list quizzes: %w", err)
	}
	return quizzes, nil
}

// FetchForAttending returns the attend-time payload for a quiz: metadata and
// questions with the answer keys stripped. The unshuffled payload is cached
// in Redis; shuffling is applied per request so every candidate gets a
// different ordering.
func (s *QuizService) FetchForAttending(ctx context.Context, quizID string) (*model.QuizForAttending, error) {
	payload, err := s.cachedAttendPayload(ctx, quizID)
	if err != nil {
		return nil, err
	}

	if payload.ShuffleQuestions {
		rand.Shuffle(len(payload.Questions), func(i, j int) {
			payload.Questions[i], payload.Questions[j] = payload.Questions[j], payload.Questions[i]
		})
	}
	if payload.ShuffleOptions {
		for i := range payload.Questions {
			opts := payload.Questions[i].Options
			rand.Shuffle(len(opts), func(a, b int) {
				opts[a], opts[b] = opts[b], opts[a]
			})
		}
	}
	return payload, nil
}

func (s *QuizService) cachedAttendPayload(ctx context.Context, quizID string) (*model.QuizForAttending, error) {
	if s.rdb != nil {
		cached, err := s.rdb.Get(ctx, config.CacheKey.QuizAttendPayloadKey(quizID)).Result()
		if err == nil {
			payload := &model.QuizForAttending{}
			if err := json.Unmarshal([]byte(cached), payload); err == nil {
				return payload, nil
			}
			log.Warn().Str("quiz_id", quizID).Msg("Discarding undecodable cached attend payload")
		} else if !errors.Is(err, redis.Nil) {
			log.Warn().Err(err).Str("quiz_id", quizID).Msg("Attend payload cache read failed")
		}
	}

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

	payload := stripForAttending(quiz)
	if s.rdb != nil {
		if data, err := json.Marshal(payload); err == nil {
			if err := s.rdb.Set(ctx, config.CacheKey.QuizAttendPayloadKey(quizID), data, attendPayloadTTL).Err(); err != nil {
				log.Warn().Err(err).Str("quiz_id", quizID).Msg("Attend payload cache write failed")
			}
		}
	}
	return payload, nil
}

// EditOptions applies a non-scoring edit: name, active flag, protection,
// answer visibility, time limit, and shuffle flags. Attempt history is left
// intact and the changed metadata is propagated to attended-quiz records.
func (s *QuizService) EditOptions(ctx context.Context, quizID, emailID string, req *model.EditQuizOptionsRequest) (*model.Quiz, error) {
	quiz, err := s.getOwned(ctx, quizID, emailID)
	if err != nil {
		return nil, err
	}

	if req.QuizName != nil {
		quiz.QuizName = *req.QuizName
	}
	if req.Active != nil {
		quiz.Active = *req.Active
	}
	if req.Protected != nil {
		quiz.Protected = *req.Protected
	}
	if req.ShowAnswer != nil {
		quiz.ShowAnswer = *req.ShowAnswer
	}
	if req.TimeLimitSec != nil {
		quiz.TimeLimitSec = *req.TimeLimitSec
	}
	if req.ShuffleQuestions != nil {
		quiz.ShuffleQuestions = *req.ShuffleQuestions
	}
	if req.ShuffleOptions != nil {
		quiz.ShuffleOptions = *req.ShuffleOptions
	}
	quiz.QuizDescription = buildQuizDescription(quiz)

	if err := s.quizzes.UpdateOptions(ctx, quiz); err != nil {
		return nil, fmt.Errorf("update quiz options: %w", err)
	}
	if err := s.attended.UpdateQuizMetadata(ctx, quiz); err != nil {
		return nil, fmt.Errorf("propagate quiz metadata: %w", err)
	}
	s.invalidateAttendPayload(ctx, quizID)

	log.Info().Str("quiz_id", quizID).Msg("Quiz options updated")
	return quiz, nil
}

// EditQuestions replaces the question set and the scoring configuration.
// Every question gets a fresh ID and every attended-quiz record for the quiz
// is invalidated, since old attempts were scored against a different paper.
func (s *QuizService) EditQuestions(ctx context.Context, quizID, emailID string, req *model.EditQuizQuestionsRequest) (*model.Quiz, error) {
	quiz, err := s.getOwned(ctx, quizID, emailID)
	if err != nil {
		return nil, err
	}

	if req.NegativeMarking != nil {
		quiz.NegativeMarking = *req.NegativeMarking
	}
	if req.MaxAttempts != nil {
		quiz.MaxAttempts = *req.MaxAttempts
	}

	questions, err := buildQuestions(s.random, quizID, req.Questions, quiz.NegativeMarking)
	if err != nil {
		return nil, err
	}
	quiz.Questions = questions
	quiz.MaxScore = model.ComputeMaxScore(questions)
	quiz.QuizDescription = buildQuizDescription(quiz)

	if err := s.quizzes.ReplaceQuestions(ctx, quiz); err != nil {
		return nil, fmt.Errorf("replace quiz questions: %w", err)
	}
	s.invalidateAttendPayload(ctx, quizID)

	log.Info().Str("quiz_id", quizID).Int("questions", len(questions)).
		Msg("Quiz questions replaced, attended records invalidated")
	return quiz, nil
}

// Delete removes a quiz together with every attended-quiz record for it.
func (s *QuizService) Delete(ctx context.Context, quizID, emailID string) error {
	if _, err := s.getOwned(ctx, quizID, emailID); err != nil {
		return err
	}
	if err := s.quizzes.DeleteCascade(ctx, quizID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrQuizNotFound
		}
		return fmt.Errorf("delete quiz: %w", err)
	}
	s.invalidateAttendPayload(ctx, quizID)

	log.Info().Str("quiz_id", quizID).Msg("Quiz deleted")
	return nil
}

// getOwned loads a quiz and verifies the caller owns it.
func (s *QuizService) getOwned(ctx context.Context, quizID, emailID string) (*model.Quiz, error) {
	quiz, err := s.quizzes.GetByID(ctx, quizID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrQuizNotFound
		}
		return nil, fmt.Errorf("get quiz: %w", err)
	}
	if quiz.CreatedByEmailID != emailID {
		return nil, ErrUserMismatch
	}
	return quiz, nil
}

func (s *QuizService) invalidateAttendPayload(ctx context.Context, quizID string) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, config.CacheKey.QuizAttendPayloadKey(quizID)).Err(); err != nil {
		log.Warn().Err(err).Str("quiz_id", quizID).Msg("Attend payload cache invalidation failed")
	}
}

// buildQuestions validates and materializes a question list, generating an
// ID for every question. Answer keys must be drawn from the options, and
// negative marks are zeroed when the quiz does not use negative marking.
func buildQuestions(random io.Reader, quizID string, reqs []model.CreateQuestionRequest, negativeMarking bool) ([]model.Question, error) {
	seen := make(map[string]bool, len(reqs))
	questions := make([]model.Question, 0, len(reqs))
	for _, req := range reqs {
		options := make(map[string]bool, len(req.Options))
		for _, opt := range req.Options {
			options[opt] = true
		}
		for _, ans := range req.Answer {
			if !options[ans] {
				return nil, &AnswerNotInOptionsError{Question: req.Question, Answer: ans}
			}
		}

		id, err := quizid.New(random, quizID, func(candidate string) (bool, error) {
			return seen[candidate], nil
		})
		if err != nil {
			return nil, fmt.Errorf("generate question ID: %w", err)
		}
		seen[id] = true

		negativeMark := req.NegativeMark
		if !negativeMarking {
			negativeMark = 0
		}
		questions = append(questions, model.Question{
			QuestionID:     id,
			Question:       req.Question,
			Options:        req.Options,
			Answer:         req.Answer,
			Mark:           req.Mark,
			NegativeMark:   negativeMark,
			MultipleAnswer: req.MultipleAnswer,
		})
	}
	return questions, nil
}

func stripForAttending(quiz *model.Quiz) *model.QuizForAttending {
	questions := make([]model.QuestionForAttending, len(quiz.Questions))
	for i, q := range quiz.Questions {
		questions[i] = model.QuestionForAttending{
			QuestionID:     q.QuestionID,
			Question:       q.Question,
			Options:        append([]string(nil), q.Options...),
			Mark:           q.Mark,
			NegativeMark:   q.NegativeMark,
			MultipleAnswer: q.MultipleAnswer,
		}
	}
	return &model.QuizForAttending{
		QuizID:            quiz.QuizID,
		QuizName:          quiz.QuizName,
		QuizDescription:   quiz.QuizDescription,
		CreatedByUserName: quiz.CreatedByUserName,
		Protected:         quiz.Protected,
		TimeLimitSec:      quiz.TimeLimitSec,
		MaxAttempts:       quiz.MaxAttempts,
		NegativeMarking:   quiz.NegativeMarking,
		ShuffleQuestions:  quiz.ShuffleQuestions,
		ShuffleOptions:    quiz.ShuffleOptions,
		Questions:         questions,
		MaxScore:          quiz.MaxScore,
	}
}
