package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"yogaseq/internal/library"
	"yogaseq/internal/overrides"
	"yogaseq/internal/plate"
)

func (h *Handler) listOverrides(c *gin.Context) {
	kind, ok := parseKind(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, OverrideListResponse{
		Kind:  string(kind),
		Items: FromOverrideMap(h.library.Overrides(kind)),
	})
}

func (h *Handler) saveOverride(c *gin.Context) {
	kind, ok := parseKind(c)
	if !ok {
		return
	}
	var req SaveOverrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if plate.Normalize(req.Key).Empty() {
		writeError(c, http.StatusBadRequest, "key is required")
		return
	}
	if !kind.Accepts(req.Value) {
		writeError(c, http.StatusBadRequest, "value is required")
		return
	}

	saved, err := h.library.SaveOverride(c.Request.Context(), kind, req.Key, req.Value)
	if err != nil {
		h.fail(c, overrideStatus(err), "override save failed", err)
		return
	}
	c.JSON(http.StatusOK, SaveOverrideResponse{Status: "ok", UpdatedAt: saved.UpdatedAt})
}

func (h *Handler) clearOverride(c *gin.Context) {
	kind, ok := parseKind(c)
	if !ok {
		return
	}
	if err := h.library.ClearOverride(c.Request.Context(), kind, c.Param("key")); err != nil {
		h.fail(c, overrideStatus(err), "override delete failed", err)
		return
	}
	c.JSON(http.StatusOK, StatusResponse{Status: "ok"})
}

func parseKind(c *gin.Context) (overrides.Kind, bool) {
	kind, err := overrides.ParseKind(c.Param("kind"))
	if err != nil {
		writeError(c, http.StatusNotFound, err.Error())
		return "", false
	}
	return kind, true
}

func overrideStatus(err error) int {
	if errors.Is(err, library.ErrNoOverrideStore) {
		return http.StatusServiceUnavailable
	}
	return http.StatusBadGateway
}
