package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"smartmap-backend/internal/admin"
	"smartmap-backend/internal/model"
	"smartmap-backend/internal/session"
)

type loginRequest struct {
	Code string `json:"code"`
}

type editRequest struct {
	Field string `json:"field" binding:"required"`
	Value string `json:"value"`
}

type draftResponse struct {
	Dirty   bool             `json:"dirty"`
	Records []model.Facility `json:"records"`
}

func toDraft(ed *admin.Editor) draftResponse {
	return draftResponse{Dirty: ed.Dirty(), Records: ed.Records()}
}

// withDraft runs fn against the session's open editor.
func (h *Handler) withDraft(c *gin.Context, fn func(ed *admin.Editor) error) error {
	return currentSession(c).Do(func(v *session.View) error {
		ed, err := v.Admin().Draft()
		if err != nil {
			return err
		}
		return fn(ed)
	})
}

// Login handles POST /api/sessions/:sid/admin/login.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	err := currentSession(c).Do(func(v *session.View) error {
		v.Admin().SetInput(req.Code)
		return v.Admin().Submit()
	})
	if err != nil {
		h.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, adminState{Authenticated: true})
}

// GetDraft handles GET /api/sessions/:sid/admin/draft.
func (h *Handler) GetDraft(c *gin.Context) {
	var resp draftResponse
	err := h.withDraft(c, func(ed *admin.Editor) error {
		resp = toDraft(ed)
		return nil
	})
	if err != nil {
		h.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// AddRow handles POST /api/sessions/:sid/admin/draft/rows.
func (h *Handler) AddRow(c *gin.Context) {
	var rec model.Facility
	err := h.withDraft(c, func(ed *admin.Editor) error {
		rec = ed.Add()
		return nil
	})
	if err != nil {
		h.abort(c, err)
		return
	}
	c.JSON(http.StatusCreated, rec)
}

// EditRow handles PATCH /api/sessions/:sid/admin/draft/rows/:id.
func (h *Handler) EditRow(c *gin.Context) {
	var req editRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	var rec model.Facility
	err := h.withDraft(c, func(ed *admin.Editor) error {
		var err error
		rec, err = ed.Edit(c.Param("id"), req.Field, req.Value)
		return err
	})
	if err != nil {
		h.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

// RemoveRow handles DELETE /api/sessions/:sid/admin/draft/rows/:id.
func (h *Handler) RemoveRow(c *gin.Context) {
	err := h.withDraft(c, func(ed *admin.Editor) error {
		return ed.Remove(c.Param("id"))
	})
	if err != nil {
		h.abort(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DiscardDraft handles POST /api/sessions/:sid/admin/draft/discard.
func (h *Handler) DiscardDraft(c *gin.Context) {
	var resp draftResponse
	err := h.withDraft(c, func(ed *admin.Editor) error {
		ed.Discard()
		resp = toDraft(ed)
		return nil
	})
	if err != nil {
		h.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// SaveDraft handles POST /api/sessions/:sid/admin/save.
func (h *Handler) SaveDraft(c *gin.Context) {
	var resp draftResponse
	err := h.withDraft(c, func(ed *admin.Editor) error {
		if err := ed.Save(c.Request.Context()); err != nil {
			return err
		}
		resp = toDraft(ed)
		return nil
	})
	if err != nil {
		h.abort(c, err)
		return
	}
	h.log.Info("directory saved", zap.Int("records", len(resp.Records)))
	c.JSON(http.StatusOK, resp)
}
