package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"smartmap-backend/internal/admin"
	"smartmap-backend/internal/catalog"
	"smartmap-backend/internal/nav"
	"smartmap-backend/internal/ranking"
	"smartmap-backend/internal/session"
	"smartmap-backend/internal/store"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store    *store.Store
	sessions *session.Manager
	log      *zap.Logger
}

// NewHandler creates a new API handler.
func NewHandler(s *store.Store, sessions *session.Manager, log *zap.Logger) *Handler {
	return &Handler{
		store:    s,
		sessions: sessions,
		log:      log,
	}
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, catalog.ErrUnknownDistrict),
		errors.Is(err, catalog.ErrUnknownCategory),
		errors.Is(err, admin.ErrUnknownField),
		errors.Is(err, store.ErrDuplicateID),
		errors.Is(err, store.ErrEmptyID):
		return http.StatusBadRequest
	case errors.Is(err, admin.ErrAccessDenied),
		errors.Is(err, admin.ErrNotAuthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, admin.ErrRecordNotFound):
		return http.StatusNotFound
	case errors.Is(err, nav.ErrInvalidTransition),
		errors.Is(err, ranking.ErrLookupInFlight),
		errors.Is(err, session.ErrLookupUnavailable):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func (h *Handler) abort(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.log.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.AbortWithStatusJSON(status, gin.H{"error": "internal error"})
		return
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}

const sessionKey = "session"

// withSession resolves the :sid path parameter.
func (h *Handler) withSession(c *gin.Context) {
	s, ok := h.sessions.Get(c.Param("sid"))
	if !ok {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}
	c.Set(sessionKey, s)
	c.Next()
}

func currentSession(c *gin.Context) *session.Session {
	return c.MustGet(sessionKey).(*session.Session)
}
