// handlers_history.go - Readout trend handler
package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shridharbhandiwad/RSCU-Animation/internal/history"
	"github.com/shridharbhandiwad/RSCU-Animation/internal/models"
)

// HistoryHandlerImpl implements the HistoryHandler interface
type HistoryHandlerImpl struct {
	store TrendStore
}

// NewHistoryHandler creates a new history handler. A nil store answers 503.
func NewHistoryHandler(store TrendStore) HistoryHandler {
	return &HistoryHandlerImpl{store: store}
}

// HandleHistory returns trend points, optionally after ?since=<RFC3339>
// and capped by ?limit=n
func (h *HistoryHandlerImpl) HandleHistory(c echo.Context) error {
	points, err := h.query(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"points": points,
		"count":  len(points),
	})
}

// HandleHistoryChart renders the same window as a PNG temperature chart.
// ?width and ?height are in points.
func (h *HistoryHandlerImpl) HandleHistoryChart(c echo.Context) error {
	points, err := h.query(c)
	if err != nil {
		return err
	}

	size := func(name string) (float64, error) {
		v := c.QueryParam(name)
		if v == "" {
			return 0, nil
		}
		n, err := strconv.ParseFloat(v, 64)
		if err != nil || n <= 0 || n > history.MaxChartSize {
			return 0, NewValidationError(name)
		}
		return n, nil
	}
	width, err := size("width")
	if err != nil {
		return err
	}
	height, err := size("height")
	if err != nil {
		return err
	}

	png, err := history.RenderChart(points, width, height)
	if errors.Is(err, history.ErrNoData) {
		return NewNotFoundError("trend points", "empty window")
	}
	if err != nil {
		return NewInternalError("failed to render chart", err)
	}
	c.Response().Header().Set("Cache-Control", "no-store")
	return c.Blob(http.StatusOK, "image/png", png)
}

func (h *HistoryHandlerImpl) query(c echo.Context) ([]models.TrendPoint, error) {
	if h.store == nil {
		return nil, NewServiceUnavailableError("history is disabled")
	}

	var since time.Time
	if s := c.QueryParam("since"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return nil, NewBadRequestError("since must be an RFC3339 timestamp", err)
		}
		since = t
	}

	limit := 0
	if l := c.QueryParam("limit"); l != "" {
		n, err := strconv.Atoi(l)
		if err != nil || n < 0 {
			return nil, NewValidationError("limit")
		}
		limit = n
	}

	points, err := h.store.Query(c.Request().Context(), since, limit)
	if err != nil {
		return nil, NewInternalError("failed to query history", err)
	}
	return points, nil
}
