package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"yogaseq/internal/history"
	"yogaseq/internal/overrides"
)

func (h *Handler) listHistory(c *gin.Context) {
	if h.history == nil {
		c.JSON(http.StatusOK, gin.H{"items": []HistoryEntry{}})
		return
	}
	entries, err := h.history.List(c.Request.Context())
	if err != nil {
		h.fail(c, http.StatusInternalServerError, "history list failed", err)
		return
	}
	items := make([]HistoryEntry, 0, len(entries))
	for _, e := range entries {
		items = append(items, FromCompletion(e))
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// appendHistory records a completion logged outside the session, for
// example a practice finished on another device.
func (h *Handler) appendHistory(c *gin.Context) {
	if h.history == nil {
		writeError(c, http.StatusServiceUnavailable, "history unavailable")
		return
	}
	var req HistoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		writeError(c, http.StatusBadRequest, "title is required")
		return
	}
	var at time.Time
	if raw := strings.TrimSpace(req.CompletedAt); raw != "" {
		if at = overrides.ParseTime(raw); at.IsZero() {
			writeError(c, http.StatusBadRequest, "invalid completed_at")
			return
		}
	}

	entry, err := h.history.Record(c.Request.Context(), history.New(req.Title, req.SequenceID, at))
	switch {
	case err == nil:
		c.JSON(http.StatusOK, StatusResponse{Status: "ok", ID: entry.ID})
	case errors.Is(err, history.ErrStoredLocally):
		c.JSON(http.StatusOK, StatusResponse{Status: "stored_locally", ID: entry.ID})
	default:
		h.fail(c, http.StatusInternalServerError, "history append failed", err)
	}
}
