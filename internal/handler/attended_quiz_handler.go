package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/quizapp/quizapp-backend/internal/middleware"
	"github.com/quizapp/quizapp-backend/internal/model"
	"github.com/quizapp/quizapp-backend/internal/response"
	"github.com/quizapp/quizapp-backend/internal/scoring"
	"github.com/quizapp/quizapp-backend/internal/service"
	"github.com/quizapp/quizapp-backend/internal/validator"
)

// AttendedQuizHandler handles quiz submission and attended-quiz retrieval.
type AttendedQuizHandler struct {
	attemptService *service.AttemptService
}

// NewAttendedQuizHandler creates a new AttendedQuizHandler.
func NewAttendedQuizHandler(attemptService *service.AttemptService) *AttendedQuizHandler {
	return &AttendedQuizHandler{attemptService: attemptService}
}

// Submit godoc
// POST /api/v1/quizzes/:quiz_id/submit
// Scores a full submission and records the attempt.
func (h *AttendedQuizHandler) Submit(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var req model.SubmitQuizRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	record, err := h.attemptService.Submit(c.Request.Context(), c.Param("quiz_id"), claims.EmailID, req.UserName, req.Answers)
	if err != nil {
		h.failSubmitError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"attended_quiz": attendedView(record)})
}

// List godoc
// GET /api/v1/attended-quizzes
// Lists the quizzes the authenticated user has attended.
func (h *AttendedQuizHandler) List(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	records, err := h.attemptService.ListAttended(c.Request.Context(), claims.EmailID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	views := make([]gin.H, len(records))
	for i := range records {
		views[i] = attendedView(&records[i])
	}
	response.Success(c, http.StatusOK, gin.H{"attended_quizzes": views})
}

// Get godoc
// GET /api/v1/attended-quizzes/:quiz_id
// Returns the authenticated user's attended-quiz record for one quiz.
func (h *AttendedQuizHandler) Get(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	record, err := h.attemptService.GetAttended(c.Request.Context(), c.Param("quiz_id"), claims.EmailID)
	if err != nil {
		if errors.Is(err, service.ErrAttendedQuizNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrAttendedQuizNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"attended_quiz": attendedView(record)})
}

func (h *AttendedQuizHandler) failSubmitError(c *gin.Context, err error) {
	var unknownErr *scoring.UnknownQuestionIDError
	switch {
	case errors.Is(err, service.ErrQuizNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrQuizNotFound)
	case errors.Is(err, service.ErrUserNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrUserNotFound)
	case errors.Is(err, service.ErrQuizNotActive):
		response.Fail(c, http.StatusForbidden, response.ErrQuizNotActive)
	case errors.Is(err, service.ErrUserMismatch):
		response.Fail(c, http.StatusForbidden, response.ErrUserMismatch)
	case errors.Is(err, scoring.ErrAnswerSetMismatch):
		response.Fail(c, http.StatusBadRequest, response.ErrAnswerSetMismatch)
	case errors.As(err, &unknownErr):
		response.FailWithFields(c, http.StatusConflict, response.ErrUnknownQuestionID, map[string]string{
			"question_id": unknownErr.QuestionID,
		})
	case errors.Is(err, service.ErrAttemptsExhausted), errors.Is(err, service.ErrConcurrentModification):
		// A lost race means another submission spent the attempt first;
		// from the caller's view the quota is gone either way.
		response.Fail(c, http.StatusForbidden, response.ErrAttemptsExhausted)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}

// attendedView hides the answer keys and correctness flags when the quiz
// owner disabled answer visibility.
func attendedView(record *model.AttendedQuiz) gin.H {
	attempts := record.Attempts
	if !record.ShowAnswer {
		attempts = make([]model.Attempt, len(record.Attempts))
		for i, a := range record.Attempts {
			answers := make([]model.AnsweredQuestion, len(a.Answers))
			for j, ans := range a.Answers {
				ans.Answer = nil
				ans.Correct = false
				answers[j] = ans
			}
			attempts[i] = model.Attempt{Answers: answers, Score: a.Score, AttemptedAt: a.AttemptedAt}
		}
	}
	return gin.H{
		"quiz_id":               record.QuizID,
		"quiz_name":             record.QuizName,
		"quiz_description":      record.QuizDescription,
		"created_by_user_name":  record.CreatedByUserName,
		"show_answer":           record.ShowAnswer,
		"time_limit_sec":        record.TimeLimitSec,
		"attended_by_email_id":  record.AttendedByEmailID,
		"attended_by_user_name": record.AttendedByUserName,
		"attempts_left":         record.AttemptsLeft,
		"attempts":              attempts,
		"max_score":             record.MaxScore,
		"updated_at":            record.UpdatedAt,
	}
}
