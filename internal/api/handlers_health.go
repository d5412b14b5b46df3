// handlers_health.go - Health check handlers
package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// HealthHandlerImpl implements the HealthHandler interface
type HealthHandlerImpl struct {
	version string
	started time.Time
	views   ViewController
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(version string, vc ViewController) HealthHandler {
	return &HealthHandlerImpl{
		version: version,
		started: time.Now(),
		views:   vc,
	}
}

// HandleHealth returns server health status
func (h *HealthHandlerImpl) HandleHealth(c echo.Context) error {
	resp := map[string]interface{}{
		"status":  "ok",
		"version": h.version,
		"uptime":  time.Since(h.started).Round(time.Second).String(),
	}
	if h.views != nil {
		st := h.views.Status()
		resp["view"] = st.Mode
		resp["running"] = st.SystemRunning
	}
	return c.JSON(http.StatusOK, resp)
}
