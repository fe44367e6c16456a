package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"smartmap-backend/internal/filter"
	"smartmap-backend/internal/nav"
	"smartmap-backend/internal/ranking"
	"smartmap-backend/internal/session"
)

type adminState struct {
	Authenticated bool `json:"authenticated"`
	Dirty         bool `json:"dirty"`
}

type sessionResponse struct {
	ID      string              `json:"id"`
	Nav     nav.Snapshot        `json:"nav"`
	Results *[]facilityResponse `json:"results,omitempty"` // set on the result list step, even when empty
	Lookup  ranking.View        `json:"lookup"`
	Admin   adminState          `json:"admin"`
}

// describe builds the client view of a session. It must run inside Session.Do.
func (h *Handler) describe(id string, v *session.View) sessionResponse {
	m := v.Nav()
	resp := sessionResponse{
		ID:     id,
		Nav:    m.Snapshot(),
		Lookup: v.Lookup().View(),
		Admin:  adminState{Authenticated: v.Admin().Authenticated()},
	}
	if m.State() == nav.StateList {
		d, cat, _ := m.Selection()
		results := toResponses(filter.Filter(h.store.All(), filter.Selection{District: d, Category: cat}))
		resp.Results = &results
	}
	if ed, err := v.Admin().Draft(); err == nil {
		resp.Admin.Dirty = ed.Dirty()
	}
	return resp
}

// CreateSession handles POST /api/sessions.
func (h *Handler) CreateSession(c *gin.Context) {
	s := h.sessions.Create()
	var resp sessionResponse
	_ = s.Do(func(v *session.View) error {
		resp = h.describe(s.ID, v)
		return nil
	})
	c.JSON(http.StatusCreated, resp)
}

// GetSession handles GET /api/sessions/:sid.
func (h *Handler) GetSession(c *gin.Context) {
	s := currentSession(c)
	var resp sessionResponse
	_ = s.Do(func(v *session.View) error {
		resp = h.describe(s.ID, v)
		return nil
	})
	c.JSON(http.StatusOK, resp)
}

// DeleteSession handles DELETE /api/sessions/:sid.
func (h *Handler) DeleteSession(c *gin.Context) {
	h.sessions.Delete(currentSession(c).ID)
	c.Status(http.StatusNoContent)
}

// Navigate handles POST /api/sessions/:sid/nav.
func (h *Handler) Navigate(c *gin.Context) {
	var action nav.Action
	if err := c.ShouldBindJSON(&action); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	s := currentSession(c)
	var resp sessionResponse
	err := s.Do(func(v *session.View) error {
		if err := v.Nav().Apply(action); err != nil {
			return err
		}
		resp = h.describe(s.ID, v)
		return nil
	})
	if err != nil {
		h.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
