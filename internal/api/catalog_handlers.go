package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"yogaseq/internal/catalog"
)

func (h *Handler) listAsanas(c *gin.Context) {
	query := catalog.Query{
		Text:      c.Query("q"),
		Category:  c.Query("category"),
		HasImages: truthy(c.Query("images")),
	}
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			writeError(c, http.StatusBadRequest, "invalid limit")
			return
		}
		query.Limit = limit
	}

	matches := h.library.Catalog().Search(query)
	items := make([]Asana, 0, len(matches))
	for _, m := range matches {
		items = append(items, FromMatch(m))
	}
	c.JSON(http.StatusOK, AsanaListResponse{Items: items, Total: len(items)})
}

func (h *Handler) getAsana(c *gin.Context) {
	cat := h.library.Catalog()
	rec, ok := cat.Record(c.Param("no"))
	if !ok {
		writeError(c, http.StatusNotFound, "asana not found")
		return
	}
	c.JSON(http.StatusOK, FromRecord(rec, cat.RecordImages(rec.AsanaNo)))
}

func (h *Handler) listCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"items": Categories(h.library.Catalog().Categories())})
}

// resolveImages maps ?plate=3 to a single-plate lookup and repeated or
// comma separated plates to a collage.
func (h *Handler) resolveImages(c *gin.Context) {
	var plates []string
	for _, value := range c.QueryArray("plate") {
		for _, part := range strings.Split(value, ",") {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				plates = append(plates, trimmed)
			}
		}
	}
	if len(plates) == 0 {
		writeError(c, http.StatusBadRequest, "plate is required")
		return
	}
	c.JSON(http.StatusOK, ImagesResponse{
		Plates: plates,
		Images: h.library.Catalog().ResolveIDs(plates...),
	})
}

func truthy(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
