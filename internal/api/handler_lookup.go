package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"smartmap-backend/internal/ranking"
	"smartmap-backend/internal/session"
)

type lookupRequest struct {
	Name string `json:"name"`
}

// SubmitLookup handles POST /api/sessions/:sid/lookup. The request is answered
// with 202 while the rank endpoint is queried in the background, unless
// ?wait=true asks to block until it resolves.
func (h *Handler) SubmitLookup(c *gin.Context) {
	var req lookupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	s := currentSession(c)
	var (
		done <-chan struct{}
		view ranking.View
	)
	err := s.Do(func(v *session.View) error {
		ch, err := v.SubmitLookup(req.Name)
		if err != nil {
			return err
		}
		done = ch
		view = v.Lookup().View()
		return nil
	})
	if err != nil {
		h.abort(c, err)
		return
	}

	if done == nil {
		c.JSON(http.StatusOK, view)
		return
	}
	if c.Query("wait") != "true" {
		c.JSON(http.StatusAccepted, view)
		return
	}

	select {
	case <-done:
	case <-c.Request.Context().Done():
		return
	}
	_ = s.Do(func(v *session.View) error {
		view = v.Lookup().View()
		return nil
	})
	c.JSON(http.StatusOK, view)
}

// GetLookup handles GET /api/sessions/:sid/lookup.
func (h *Handler) GetLookup(c *gin.Context) {
	s := currentSession(c)
	var view ranking.View
	_ = s.Do(func(v *session.View) error {
		view = v.Lookup().View()
		return nil
	})
	c.JSON(http.StatusOK, view)
}
