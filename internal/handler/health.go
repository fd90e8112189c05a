package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/summer-camp/internal/apperr"
)

// Liveness is the text served on GET /.
const Liveness = "Summer Camp is Running...!⚡"

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler answers the liveness and readiness probes. Neither probe
// needs a token or goes through the rate limiter.
type HealthHandler struct {
	store Pinger // nil for the in-memory store
	log   *zap.Logger
}

// NewHealthHandler constructs a HealthHandler; store may be nil.
func NewHealthHandler(store Pinger, log *zap.Logger) *HealthHandler {
	return &HealthHandler{store: store, log: log}
}

// Root answers the liveness probe with a fixed text.
func (h *HealthHandler) Root(c echo.Context) error {
	return c.String(http.StatusOK, Liveness)
}

// Ready pings the store; 503 store_unavailable when it is down.
func (h *HealthHandler) Ready(c echo.Context) error {
	if h.store != nil {
		if err := h.store.Ping(c.Request().Context()); err != nil {
			h.log.Warn("readiness check failed", zap.Error(err))
			return respondError(c, h.log, fmt.Errorf("%w: %v", apperr.ErrStoreUnavailable, err))
		}
	}
	return c.String(http.StatusOK, "ok")
}
