package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/quizapp/quizapp-backend/internal/middleware"
	"github.com/quizapp/quizapp-backend/internal/model"
	"github.com/quizapp/quizapp-backend/internal/response"
	"github.com/quizapp/quizapp-backend/internal/service"
	"github.com/quizapp/quizapp-backend/internal/validator"
)

// QuizHandler handles created-quiz endpoints.
type QuizHandler struct {
	quizService *service.QuizService
}

// NewQuizHandler creates a new QuizHandler.
func NewQuizHandler(quizService *service.QuizService) *QuizHandler {
	return &QuizHandler{quizService: quizService}
}

// Create godoc
// POST /api/v1/quizzes
// Creates a quiz owned by the authenticated user.
func (h *QuizHandler) Create(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var req model.CreateQuizRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	quiz, err := h.quizService.Create(c.Request.Context(), claims.EmailID, claims.UserName, &req)
	if err != nil {
		h.failQuizError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"quiz": quiz})
}

// ListCreated godoc
// GET /api/v1/quizzes
// Lists the quizzes created by the authenticated user.
func (h *QuizHandler) ListCreated(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	quizzes, err := h.quizService.GetAllCreated(c.Request.Context(), claims.EmailID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"quizzes": quizzes})
}

// GetCreated godoc
// GET /api/v1/quizzes/:quiz_id
// Returns one owned quiz with its answer keys.
func (h *QuizHandler) GetCreated(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	quiz, err := h.quizService.Get(c.Request.Context(), c.Param("quiz_id"), claims.EmailID)
	if err != nil {
		h.failQuizError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"quiz": quiz})
}

// Attend godoc
// GET /api/v1/quizzes/:quiz_id/attend
// Returns the quiz for taking: answer keys stripped, questions and options
// shuffled per the quiz flags.
func (h *QuizHandler) Attend(c *gin.Context) {
	payload, err := h.quizService.FetchForAttending(c.Request.Context(), c.Param("quiz_id"))
	if err != nil {
		h.failQuizError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"quiz": payload})
}

// EditOptions godoc
// PATCH /api/v1/quizzes/:quiz_id/options
// Edits display and availability fields. Attempt history is untouched.
func (h *QuizHandler) EditOptions(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var req model.EditQuizOptionsRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	quiz, err := h.quizService.EditOptions(c.Request.Context(), c.Param("quiz_id"), claims.EmailID, &req)
	if err != nil {
		h.failQuizError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"quiz": quiz})
}

// EditQuestions godoc
// PUT /api/v1/quizzes/:quiz_id/questions
// Replaces the question set and scoring configuration. Every attended-quiz
// record for the quiz is removed.
func (h *QuizHandler) EditQuestions(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var req model.EditQuizQuestionsRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	quiz, err := h.quizService.EditQuestions(c.Request.Context(), c.Param("quiz_id"), claims.EmailID, &req)
	if err != nil {
		h.failQuizError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"quiz": quiz})
}

// Delete godoc
// DELETE /api/v1/quizzes/:quiz_id
// Deletes an owned quiz and every attended-quiz record for it.
func (h *QuizHandler) Delete(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	if err := h.quizService.Delete(c.Request.Context(), c.Param("quiz_id"), claims.EmailID); err != nil {
		h.failQuizError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}

func (h *QuizHandler) failQuizError(c *gin.Context, err error) {
	var optErr *service.AnswerNotInOptionsError
	switch {
	case errors.Is(err, service.ErrQuizNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrQuizNotFound)
	case errors.Is(err, service.ErrQuizNotActive):
		response.Fail(c, http.StatusForbidden, response.ErrQuizNotActive)
	case errors.Is(err, service.ErrUserMismatch):
		response.Fail(c, http.StatusForbidden, response.ErrUserMismatch)
	case errors.As(err, &optErr):
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, map[string]string{
			"answer": optErr.Error(),
		})
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
