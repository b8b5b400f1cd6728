package handler

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/facturaec/dashboard/internal/infrastructure/apiclient"
	"github.com/facturaec/dashboard/internal/infrastructure/logger"
	"github.com/facturaec/dashboard/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BreakerReporter exposes the backend circuit breaker state
type BreakerReporter interface {
	BreakerState() apiclient.BreakerState
}

// Pinger checks a dependency's connection
type Pinger interface {
	Ping(ctx context.Context) error
}

// SystemHandler serves the liveness and readiness probes
type SystemHandler struct {
	appName   string
	startTime time.Time
	backend   BreakerReporter
	store     Pinger
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(appName string, backend BreakerReporter, store Pinger) *SystemHandler {
	return &SystemHandler{
		appName:   appName,
		startTime: time.Now(),
		backend:   backend,
		store:     store,
	}
}

// HealthResponse is the body of /healthz
type HealthResponse struct {
	Name      string `json:"name"`
	GoVersion string `json:"go_version"`
	Uptime    string `json:"uptime"`
}

// ReadyResponse is the body of /readyz
type ReadyResponse struct {
	Ready   bool   `json:"ready"`
	Backend string `json:"backend"`
	Session string `json:"session_store"`
}

// Healthz reports that the process is serving
func (h *SystemHandler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(HealthResponse{
		Name:      h.appName,
		GoVersion: runtime.Version(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
	}))
}

// Readyz reports 503 while the session store is unreachable or the backend
// breaker is open
func (h *SystemHandler) Readyz(c *gin.Context) {
	res := ReadyResponse{Ready: true, Backend: "unknown", Session: "ok"}
	if h.backend != nil {
		state := h.backend.BreakerState()
		res.Backend = state.String()
		if state == apiclient.BreakerOpen {
			res.Ready = false
		}
	}
	if h.store != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.store.Ping(ctx); err != nil {
			logger.L(ctx).Warn("session store ping failed", zap.Error(err))
			res.Session = "unavailable"
			res.Ready = false
		}
	}

	c.Header("Cache-Control", "no-store")
	if !res.Ready {
		c.JSON(http.StatusServiceUnavailable, dto.Response{
			Success: false,
			Data:    res,
			Error:   &dto.ErrorInfo{Code: dto.ErrCodeUpstreamUnavailable, Message: "not ready"},
		})
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(res))
}
