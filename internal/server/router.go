package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/notewell/backend/internal/auth"
	"github.com/notewell/backend/internal/fault"
	"github.com/notewell/backend/internal/notes"
	"github.com/notewell/backend/internal/users"
	"go.uber.org/zap"
)

const (
	userIDContextKey    = "notewell_user_id"
	requestIDContextKey = "notewell_request_id"
	requestIDHeader     = "X-Request-ID"

	apiVersion = "1.0"
)

var (
	errMissingNotesService  = errors.New("notes service dependency required")
	errMissingUsersService  = errors.New("users service dependency required")
	errMissingTokens        = errors.New("token validator dependency required")
	errInvalidAuthorization = errors.New("authorization header missing or invalid")
)

// TokenValidator checks a bearer token and returns its claims.
type TokenValidator interface {
	Validate(token string) (auth.Claims, error)
}

// Dependencies carries everything the HTTP surface needs.
type Dependencies struct {
	NotesService *notes.Service
	UsersService *users.Service
	Tokens       TokenValidator
	Logger       *zap.Logger
}

// NewHTTPHandler wires middleware and routes into an http.Handler.
func NewHTTPHandler(deps Dependencies) (http.Handler, error) {
	if deps.NotesService == nil {
		return nil, errMissingNotesService
	}
	if deps.UsersService == nil {
		return nil, errMissingUsersService
	}
	if deps.Tokens == nil {
		return nil, errMissingTokens
	}

	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestIDMiddleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{"Authorization", "Content-Type"},
		MaxAge:       12 * time.Hour,
	}))

	handler := &httpHandler{
		notesService: deps.NotesService,
		usersService: deps.UsersService,
		tokens:       deps.Tokens,
		logger:       logger,
	}

	router.GET("/", handler.handleHelp)
	router.GET("/status", handler.handleStatus)
	router.POST("/login", handler.handleLogin)
	router.POST("/api/v1/users", handler.handleUserCreate)

	protected := router.Group("/api/v1")
	protected.Use(handler.authorizeRequest)
	protected.GET("/notes", handler.handleNoteList)
	protected.GET("/notes/:id", handler.handleNoteGet)
	protected.POST("/notes", handler.handleNoteCreate)
	protected.PUT("/notes/:id", handler.handleNoteUpdate)
	protected.DELETE("/notes/:id", handler.handleNoteDelete)
	protected.GET("/users", handler.handleUserSearch)
	protected.GET("/users/:id", handler.handleUserGet)
	protected.PUT("/users/:id", handler.handleUserUpdate)
	protected.DELETE("/users/:id", handler.handleUserDelete)

	return router, nil
}

type httpHandler struct {
	notesService *notes.Service
	usersService *users.Service
	tokens       TokenValidator
	logger       *zap.Logger
}

// requestIDMiddleware tags each request with a UUIDv7 used for log
// correlation, honoring an id supplied by an upstream proxy.
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if requestID == "" {
			generated, err := uuid.NewV7()
			if err == nil {
				requestID = generated.String()
			}
		}
		c.Set(requestIDContextKey, requestID)
		c.Header(requestIDHeader, requestID)
		c.Next()
	}
}

func (h *httpHandler) authorizeRequest(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errInvalidAuthorization.Error()})
		return
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	if token == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errInvalidAuthorization.Error()})
		return
	}
	claims, err := h.tokens.Validate(token)
	if err != nil {
		reason := "invalid_token"
		if errors.Is(err, auth.ErrTokenExpired) {
			reason = "token_expired"
		}
		h.logger.Warn("token validation failed",
			zap.String("reason", reason),
			zap.String("request_id", c.GetString(requestIDContextKey)))
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": reason})
		return
	}
	userID, err := claims.UserID()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_token"})
		return
	}
	c.Set(userIDContextKey, userID)
	c.Next()
}

func (h *httpHandler) handleHelp(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"notes":  "/api/v1/notes",
		"users":  "/api/v1/users",
		"login":  "/login",
		"status": "/status",
	})
}

func (h *httpHandler) handleStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "OK",
		"version":   apiVersion,
		"timestamp": time.Now().Unix(),
	})
}

// writeServiceError maps the fault taxonomy onto HTTP statuses. Anything
// outside the taxonomy is an infrastructure failure surfaced as 500.
func (h *httpHandler) writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, fault.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, fault.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, fault.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, fault.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	default:
		h.logger.Error("request failed",
			zap.Error(err),
			zap.String("path", c.FullPath()),
			zap.String("request_id", c.GetString(requestIDContextKey)))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
	}
}

func parseIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_id"})
		return 0, false
	}
	return uint(id), true
}
