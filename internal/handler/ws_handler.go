package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/quizapp/quizapp-backend/internal/config"
	"github.com/quizapp/quizapp-backend/internal/middleware"
	"github.com/quizapp/quizapp-backend/internal/service"
	ws "github.com/quizapp/quizapp-backend/internal/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const keepAliveInterval = 30 * time.Second

// buildUpgrader creates a WebSocket upgrader with origin validation.
// allowedOrigins comes from config.Config.AllowedOrigins.
// An empty slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// WSHandler streams live submission results to quiz owners.
type WSHandler struct {
	rdb         *redis.Client
	quizService *service.QuizService
	log         zerolog.Logger
	upgrader    websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(rdb *redis.Client, quizService *service.QuizService, log zerolog.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		rdb:         rdb,
		quizService: quizService,
		log:         log.With().Str("component", "ws_handler").Logger(),
		upgrader:    buildUpgrader(allowedOrigins),
	}
}

// QuizResultsStream godoc
// WS /ws/v1/quizzes/:quiz_id/results
// Upgrades to WebSocket and forwards every submission result for the quiz
// as it happens. Only the quiz owner may attach.
func (h *WSHandler) QuizResultsStream(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	quizID := c.Param("quiz_id")

	// Ownership check happens before the upgrade so a rejected caller gets a
	// plain HTTP status instead of a half-open socket.
	if _, err := h.quizService.Get(c.Request.Context(), quizID, claims.EmailID); err != nil {
		switch {
		case errors.Is(err, service.ErrQuizNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "quiz not found"})
		case errors.Is(err, service.ErrUserMismatch):
			c.JSON(http.StatusForbidden, gin.H{"error": "not the quiz owner"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		}
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	reqCtx := c.Request.Context()

	pubsub := h.rdb.Subscribe(reqCtx, config.CacheKey.QuizResultsChannel(quizID))
	defer pubsub.Close()
	ch := pubsub.Channel()

	keepAliveTicker := time.NewTicker(keepAliveInterval)
	defer keepAliveTicker.Stop()

	wsLog := h.log.With().
		Str("quiz_id", quizID).
		Str("owner", claims.EmailID).
		Logger()
	wsLog.Info().Msg("Owner attached to live results stream")

	// Reads only surface client disconnects; incoming frames are ignored.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-reqCtx.Done():
			wsLog.Info().Msg("Owner disconnected from live results stream")
			return

		case <-done:
			wsLog.Info().Msg("Owner closed the results stream")
			return

		case msg, ok := <-ch:
			if !ok {
				wsLog.Warn().Msg("Results subscription closed")
				return
			}
			if err := ws.WriteTyped(conn, ws.ResultMessage{
				Event:   ws.EventResult,
				Payload: []byte(msg.Payload),
			}); err != nil {
				wsLog.Debug().Err(err).Msg("Result write failed, closing stream")
				return
			}

		case <-keepAliveTicker.C:
			if err := ws.WriteTyped(conn, ws.PingMessage{Event: ws.EventPing}); err != nil {
				return
			}
		}
	}
}
