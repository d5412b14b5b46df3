// handlers_view.go - View switching and animation clock handlers
package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shridharbhandiwad/RSCU-Animation/internal/views"
)

// ViewHandlerImpl implements the ViewHandler interface
type ViewHandlerImpl struct {
	views ViewController
}

// NewViewHandler creates a new view handler
func NewViewHandler(vc ViewController) ViewHandler {
	return &ViewHandlerImpl{views: vc}
}

type setViewRequest struct {
	Mode string `json:"mode"`
}

type frameRateRequest struct {
	FPS *int `json:"fps"`
}

// HandleGetView returns the active view and its clock state
func (h *ViewHandlerImpl) HandleGetView(c echo.Context) error {
	return c.JSON(http.StatusOK, h.views.Status())
}

// HandleSetView switches between the 2D and 3D views
func (h *ViewHandlerImpl) HandleSetView(c echo.Context) error {
	var req setViewRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid request body", err)
	}
	mode, err := views.ParseMode(req.Mode)
	if err != nil {
		apiErr := NewValidationError("mode")
		apiErr.Details = err.Error()
		return apiErr
	}
	if err := h.views.SwitchTo(mode); err != nil {
		return NewBadRequestError("failed to switch view", err)
	}
	return c.JSON(http.StatusOK, h.views.Status())
}

// HandlePause freezes the active view
func (h *ViewHandlerImpl) HandlePause(c echo.Context) error {
	h.views.Pause()
	return c.JSON(http.StatusOK, h.views.Status())
}

// HandleResume continues the active view
func (h *ViewHandlerImpl) HandleResume(c echo.Context) error {
	h.views.Resume()
	return c.JSON(http.StatusOK, h.views.Status())
}

// HandleSetFrameRate changes the 3D frame rate
func (h *ViewHandlerImpl) HandleSetFrameRate(c echo.Context) error {
	var req frameRateRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid request body", err)
	}
	if req.FPS == nil {
		return NewValidationError("fps")
	}
	if err := h.views.SetFrameRate(*req.FPS); err != nil {
		return NewBadRequestError("invalid frame rate", err)
	}
	return c.JSON(http.StatusOK, h.views.Status())
}
