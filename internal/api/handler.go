package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"yogaseq/internal/history"
	"yogaseq/internal/library"
	"yogaseq/internal/logging"
	"yogaseq/internal/player"
)

// HistoryService appends and lists completions.
type HistoryService interface {
	Record(ctx context.Context, entry history.Completion) (history.Completion, error)
	List(ctx context.Context) ([]history.Completion, error)
}

// Options wires a Handler.
type Options struct {
	Library *library.Library
	History HistoryService
	Session *player.Driver
	Hub     *Hub
	// Status fills daemon-level fields of /api/health. Optional.
	Status func(ctx context.Context) DaemonStatus
	// Token, when set, is required as a bearer token.
	Token  string
	Logger *slog.Logger
}

// Handler serves the HTTP API.
type Handler struct {
	library *library.Library
	history HistoryService
	session *player.Driver
	hub     *Hub
	status  func(ctx context.Context) DaemonStatus
	token   string
	logger  *slog.Logger
}

// NewHandler builds a handler. Library and Session are required.
func NewHandler(opts Options) (*Handler, error) {
	if opts.Library == nil || opts.Session == nil {
		return nil, errors.New("api handler requires library and session")
	}
	return &Handler{
		library: opts.Library,
		history: opts.History,
		session: opts.Session,
		hub:     opts.Hub,
		status:  opts.Status,
		token:   opts.Token,
		logger:  logging.NewComponentLogger(opts.Logger, "api-server"),
	}, nil
}

// NewRouter returns a gin engine with middleware and every route mounted.
func (h *Handler) NewRouter() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestID(), accessLog(h.logger))
	_ = router.SetTrustedProxies(nil)
	router.NoRoute(func(c *gin.Context) {
		writeError(c, http.StatusNotFound, "not found")
	})
	h.RegisterRoutes(router.Group("/api", auth(h.token)))
	return router
}

// RegisterRoutes mounts the API under rg.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/health", h.health)
	rg.POST("/reload", h.reload)

	rg.GET("/asanas", h.listAsanas)
	rg.GET("/asanas/:no", h.getAsana)
	rg.GET("/categories", h.listCategories)
	rg.GET("/images", h.resolveImages)

	rg.GET("/overrides/:kind", h.listOverrides)
	rg.POST("/overrides/:kind", h.saveOverride)
	rg.DELETE("/overrides/:kind/:key", h.clearOverride)

	rg.GET("/history", h.listHistory)
	rg.POST("/history", h.appendHistory)

	rg.GET("/sequences", h.listSequences)
	rg.GET("/sequences/:id", h.getSequence)

	session := rg.Group("/session")
	session.GET("", h.getSession)
	session.POST("/select", h.selectSequence)
	session.POST("/start", h.sessionAction((*player.Timer).Start))
	session.POST("/pause", h.sessionAction((*player.Timer).Pause))
	session.POST("/next", h.sessionAction((*player.Timer).Advance))
	session.POST("/prev", h.sessionAction((*player.Timer).Prev))
	session.POST("/reset", h.sessionAction((*player.Timer).Reset))
	session.POST("/complete", h.complete)
	if h.hub != nil {
		session.GET("/ws", h.hub.ServeWS(h.session.Snapshot))
	}
}

func (h *Handler) health(c *gin.Context) {
	status := DaemonStatus{Running: true}
	if h.status != nil {
		status = h.status(c.Request.Context())
	}
	status.Catalog = h.library.Catalog().Stats()
	status.Sequences = h.library.Sequences().Len()
	status.Session = h.session.Snapshot().State.String()
	if h.hub != nil {
		status.Clients = h.hub.Count()
	}
	c.JSON(http.StatusOK, status)
}

func (h *Handler) reload(c *gin.Context) {
	report, err := h.library.Load(c.Request.Context())
	if err != nil {
		h.fail(c, http.StatusInternalServerError, "reload failed", err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// fail logs a server-side failure with request context and writes the
// error body.
func (h *Handler) fail(c *gin.Context, status int, msg string, err error) {
	log := logging.WithContext(c.Request.Context(), h.logger)
	if status >= 500 {
		logging.ErrorWithContext(log, msg, "api_request_failed",
			logging.String("path", c.FullPath()),
			logging.Error(err),
		)
	}
	writeError(c, status, err.Error())
}

func writeError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, ErrorResponse{Error: message})
}
