package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"yogaseq/internal/history"
	"yogaseq/internal/player"
	"yogaseq/internal/sequence"
)

func (h *Handler) listSequences(c *gin.Context) {
	summaries := h.library.Sequences().Summaries()
	if summaries == nil {
		summaries = []sequence.Summary{}
	}
	c.JSON(http.StatusOK, SequenceListResponse{Items: summaries})
}

func (h *Handler) getSequence(c *gin.Context) {
	seq, err := h.library.Sequences().Get(c.Param("id"))
	if err != nil {
		writeError(c, http.StatusNotFound, err.Error())
		return
	}
	c.JSON(http.StatusOK, seq)
}

func (h *Handler) getSession(c *gin.Context) {
	c.JSON(http.StatusOK, h.view(h.session.Snapshot()))
}

func (h *Handler) selectSequence(c *gin.Context) {
	var req SelectRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.SequenceID == "" {
		writeError(c, http.StatusBadRequest, "sequence_id is required")
		return
	}
	seq, err := h.library.Sequences().Get(req.SequenceID)
	if err != nil {
		writeError(c, http.StatusNotFound, err.Error())
		return
	}
	var snap player.Snapshot
	h.session.Do(func(t *player.Timer) {
		t.SelectSequence(seq)
		snap = t.Snapshot()
	})
	c.JSON(http.StatusOK, h.view(snap))
}

// sessionAction runs one user trigger under the driver lock and returns
// the resulting session.
func (h *Handler) sessionAction(action func(*player.Timer)) gin.HandlerFunc {
	return func(c *gin.Context) {
		var snap player.Snapshot
		h.session.Do(func(t *player.Timer) {
			action(t)
			snap = t.Snapshot()
		})
		c.JSON(http.StatusOK, h.view(snap))
	}
}

func (h *Handler) complete(c *gin.Context) {
	var snap player.Snapshot
	err := h.session.DoErr(func(t *player.Timer) error {
		err := t.Complete(c.Request.Context())
		snap = t.Snapshot()
		return err
	})
	switch {
	case err == nil:
		c.JSON(http.StatusOK, CompleteResponse{Status: "ok", Session: h.view(snap)})
	case errors.Is(err, player.ErrNoSequence), errors.Is(err, player.ErrNotAtLastPose):
		writeError(c, http.StatusConflict, err.Error())
	case errors.Is(err, history.ErrStoredLocally):
		c.JSON(http.StatusOK, CompleteResponse{Status: "stored_locally", Session: h.view(snap)})
	default:
		h.fail(c, http.StatusInternalServerError, "completion failed", err)
	}
}

func (h *Handler) view(snap player.Snapshot) Session {
	return FromSnapshot(snap, h.library.Catalog())
}
