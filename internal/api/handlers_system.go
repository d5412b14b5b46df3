// handlers_system.go - Unit state and operator command handlers
package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shridharbhandiwad/RSCU-Animation/internal/models"
	"github.com/shridharbhandiwad/RSCU-Animation/internal/readout"
	"github.com/shridharbhandiwad/RSCU-Animation/internal/views"
)

// SystemHandlerImpl implements the SystemHandler interface
type SystemHandlerImpl struct {
	unit  Unit
	views ViewController
}

// NewSystemHandler creates a new system handler
func NewSystemHandler(unit Unit, vc ViewController) SystemHandler {
	return &SystemHandlerImpl{unit: unit, views: vc}
}

// StateResponse is the full unit state plus the active view.
type StateResponse struct {
	Readings models.Readings `json:"readings"`
	Readouts models.Readouts `json:"readouts"`
	View     views.Status    `json:"view"`
}

type capacityRequest struct {
	KW *int `json:"kw"`
}

func (h *SystemHandlerImpl) state() StateResponse {
	r := h.unit.Snapshot()
	return StateResponse{
		Readings: r,
		Readouts: readout.Format(r),
		View:     h.views.Status(),
	}
}

// HandleGetState returns readings, labels and view status
func (h *SystemHandlerImpl) HandleGetState(c echo.Context) error {
	return c.JSON(http.StatusOK, h.state())
}

// HandleGetReadouts returns the operator labels only
func (h *SystemHandlerImpl) HandleGetReadouts(c echo.Context) error {
	return c.JSON(http.StatusOK, readout.Format(h.unit.Snapshot()))
}

// HandleStart runs the unit and animates the active view
func (h *SystemHandlerImpl) HandleStart(c echo.Context) error {
	h.views.Start()
	return c.JSON(http.StatusOK, h.state())
}

// HandleStop halts the unit and both views
func (h *SystemHandlerImpl) HandleStop(c echo.Context) error {
	h.views.Stop()
	return c.JSON(http.StatusOK, h.state())
}

// HandleResetTrips clears equipment trips
func (h *SystemHandlerImpl) HandleResetTrips(c echo.Context) error {
	h.unit.ResetAllTrips()
	return c.JSON(http.StatusOK, map[string]string{"status": "trips reset"})
}

// HandleSetCapacity applies a cooling capacity in kW; out-of-range values
// are clamped by the model
func (h *SystemHandlerImpl) HandleSetCapacity(c echo.Context) error {
	var req capacityRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid request body", err)
	}
	if req.KW == nil {
		return NewValidationError("kw")
	}
	h.unit.SetCoolingCapacity(*req.KW)
	return c.JSON(http.StatusOK, map[string]int{
		"requested":       *req.KW,
		"coolingCapacity": h.unit.CoolingCapacity(),
	})
}
