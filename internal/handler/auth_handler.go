package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/quizapp/quizapp-backend/internal/config"
	"github.com/quizapp/quizapp-backend/internal/middleware"
	"github.com/quizapp/quizapp-backend/internal/model"
	"github.com/quizapp/quizapp-backend/internal/response"
	"github.com/quizapp/quizapp-backend/internal/service"
	"github.com/quizapp/quizapp-backend/internal/validator"
)

// AuthHandler handles signup, login, logout, and profile endpoints. The JWT
// is delivered in an HTTP-only cookie rather than a response body.
type AuthHandler struct {
	cfg         *config.Config
	authService *service.AuthService
	userService *service.UserService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(cfg *config.Config, authService *service.AuthService, userService *service.UserService) *AuthHandler {
	return &AuthHandler{
		cfg:         cfg,
		authService: authService,
		userService: userService,
	}
}

// Signup godoc
// POST /api/v1/auth/signup
// Registers a new account with a unique email ID and username.
func (h *AuthHandler) Signup(c *gin.Context) {
	var req model.SignupRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	user, err := h.userService.Signup(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailExists):
			response.Fail(c, http.StatusConflict, response.ErrEmailExists)
		case errors.Is(err, service.ErrUserNameExists):
			response.Fail(c, http.StatusConflict, response.ErrUserNameExists)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"user": userView(user)})
}

// Login godoc
// POST /api/v1/auth/login
// Validates credentials and sets the auth cookie.
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	user, err := h.userService.Login(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	token, err := h.authService.GenerateToken(c.Request.Context(), user.EmailID, user.UserName)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	h.setAuthCookie(c, token, int(h.cfg.JWTExpiry.Seconds()))
	response.Success(c, http.StatusOK, gin.H{"user": userView(user)})
}

// Logout godoc
// POST /api/v1/auth/logout
// Clears the server-side session and expires the auth cookie.
func (h *AuthHandler) Logout(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	if err := h.authService.ClearSession(c.Request.Context(), claims.EmailID); err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	h.setAuthCookie(c, "", -1)
	response.Success(c, http.StatusOK, gin.H{})
}

// Me godoc
// GET /api/v1/auth/me
// Returns the authenticated account; used by clients as a logged-in probe.
func (h *AuthHandler) Me(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	user, err := h.userService.GetByEmail(c.Request.Context(), claims.EmailID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrUserNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"user": userView(user)})
}

// EditProfile godoc
// PATCH /api/v1/auth/profile
// Changes the account's username and reissues the auth cookie so the token
// claims stay in sync.
func (h *AuthHandler) EditProfile(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var req model.EditProfileRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	user, err := h.userService.EditProfile(c.Request.Context(), claims.EmailID, req.UserName)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNameExists):
			response.Fail(c, http.StatusConflict, response.ErrUserNameExists)
		case errors.Is(err, service.ErrUserNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrUserNotFound)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	token, err := h.authService.GenerateToken(c.Request.Context(), user.EmailID, user.UserName)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	h.setAuthCookie(c, token, int(h.cfg.JWTExpiry.Seconds()))
	response.Success(c, http.StatusOK, gin.H{"user": userView(user)})
}

func (h *AuthHandler) setAuthCookie(c *gin.Context, token string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cfg.CookieName, token, maxAge, "/", "", h.cfg.CookieSecure, true)
}

func userView(u *model.User) gin.H {
	return gin.H{
		"email_id":   u.EmailID,
		"user_name":  u.UserName,
		"created_at": u.CreatedAt,
	}
}
