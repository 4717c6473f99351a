package handler

import (
	"net/http"

	"estate_crm_backend/internal/leads/transport"
	"estate_crm_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

func (h *Handler) ListNotes(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	result, err := h.notes.List(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

func (h *Handler) AddNote(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req transport.CreateLeadNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	author := httpkit.MustGetIdentity(c)

	note, err := h.notes.Create(c.Request.Context(), id, author.UserID(), req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.JSON(c, http.StatusCreated, note)
}
