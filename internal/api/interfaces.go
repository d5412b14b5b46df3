// interfaces.go - Handler interface definitions for clean separation of concerns
package api

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shridharbhandiwad/RSCU-Animation/internal/datamodel"
	"github.com/shridharbhandiwad/RSCU-Animation/internal/models"
	"github.com/shridharbhandiwad/RSCU-Animation/internal/views"
)

// HealthHandler handles health check operations
type HealthHandler interface {
	HandleHealth(c echo.Context) error
}

// SystemHandler reads the unit and applies operator commands
type SystemHandler interface {
	HandleGetState(c echo.Context) error
	HandleGetReadouts(c echo.Context) error
	HandleStart(c echo.Context) error
	HandleStop(c echo.Context) error
	HandleResetTrips(c echo.Context) error
	HandleSetCapacity(c echo.Context) error
}

// ViewHandler controls which view animates
type ViewHandler interface {
	HandleGetView(c echo.Context) error
	HandleSetView(c echo.Context) error
	HandlePause(c echo.Context) error
	HandleResume(c echo.Context) error
	HandleSetFrameRate(c echo.Context) error
}

// SceneHandler serves the latest published frames
type SceneHandler interface {
	HandleScene2D(c echo.Context) error
	HandleScene3D(c echo.Context) error
	HandleSceneMsgpack(c echo.Context) error
}

// HistoryHandler serves the readout trend
type HistoryHandler interface {
	HandleHistory(c echo.Context) error
	HandleHistoryChart(c echo.Context) error
}

// StreamHandler pushes live frames and readouts over WebSocket
type StreamHandler interface {
	HandleWebSocket(c echo.Context) error
}

// Unit is the slice of the data model the handlers use.
// This allows mocking in tests
type Unit interface {
	datamodel.Reader
	SetCoolingCapacity(kw int)
	ResetAllTrips()
}

// ViewController is implemented by views.Manager
type ViewController interface {
	Start()
	Stop()
	Pause()
	Resume()
	SwitchTo(mode views.Mode) error
	SetFrameRate(fps int) error
	Status() views.Status
}

// Frame2DSource is implemented by scene2d.Scene
type Frame2DSource interface {
	Frame() models.Frame2D
}

// Frame3DSource is implemented by scene3d.Scene
type Frame3DSource interface {
	Frame() models.Frame3D
}

// TrendStore is implemented by history.Store
type TrendStore interface {
	Query(ctx context.Context, since time.Time, limit int) ([]models.TrendPoint, error)
}
