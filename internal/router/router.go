package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/quizapp/quizapp-backend/internal/config"
	"github.com/quizapp/quizapp-backend/internal/handler"
	"github.com/quizapp/quizapp-backend/internal/middleware"
	"github.com/quizapp/quizapp-backend/internal/response"
	"github.com/quizapp/quizapp-backend/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth         *handler.AuthHandler
	Quiz         *handler.QuizHandler
	AttendedQuiz *handler.AttendedQuizHandler
	WS           *handler.WSHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	authService *service.AuthService,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
		corsConfig.AllowCredentials = true
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	requireAuth := middleware.RequireAuth(authService, cfg.CookieName)
	checkSession := middleware.CheckSessionActive(authService)

	// Rate limiter for auth routes (30 requests per minute per IP).
	authLimiter := middleware.NewRateLimiter(30, time.Minute)

	// ─── 1. Auth Group (Rate Limited) ──────────────────────────────────
	auth := router.Group("/api/v1/auth")
	auth.Use(authLimiter.Middleware())
	{
		auth.POST("/signup", handlers.Auth.Signup)
		auth.POST("/login", handlers.Auth.Login)

		// Authenticated profile routes
		auth.POST("/logout", requireAuth, handlers.Auth.Logout)
		auth.GET("/me", requireAuth, checkSession, handlers.Auth.Me)
		auth.PATCH("/profile", requireAuth, checkSession, handlers.Auth.EditProfile)
	}

	// ─── 2. Quiz Group (JWT + Active Session) ──────────────────────────
	quizzes := router.Group("/api/v1/quizzes")
	quizzes.Use(requireAuth, checkSession)
	{
		quizzes.POST("", handlers.Quiz.Create)
		quizzes.GET("", handlers.Quiz.ListCreated)
		quizzes.GET("/:quiz_id", handlers.Quiz.GetCreated)
		quizzes.PATCH("/:quiz_id/options", handlers.Quiz.EditOptions)
		quizzes.PUT("/:quiz_id/questions", handlers.Quiz.EditQuestions)
		quizzes.DELETE("/:quiz_id", handlers.Quiz.Delete)

		quizzes.GET("/:quiz_id/attend", handlers.Quiz.Attend)
		quizzes.POST("/:quiz_id/submit", handlers.AttendedQuiz.Submit)
	}

	// ─── 3. Attended Quiz Group (JWT + Active Session) ─────────────────
	attended := router.Group("/api/v1/attended-quizzes")
	attended.Use(requireAuth, checkSession)
	{
		attended.GET("", handlers.AttendedQuiz.List)
		attended.GET("/:quiz_id", handlers.AttendedQuiz.Get)
	}

	// ─── 4. WebSocket Group (JWT + Active Session) ─────────────────────
	ws := router.Group("/ws/v1")
	ws.Use(requireAuth, checkSession)
	{
		ws.GET("/quizzes/:quiz_id/results", handlers.WS.QuizResultsStream)
	}

	return router
}
