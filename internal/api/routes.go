// routes.go - Route registration helpers
// This file provides a clean way to register all API routes
package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Dependencies holds all handler dependencies
type Dependencies struct {
	Unit    Unit
	Views   ViewController
	Scene2D Frame2DSource
	Scene3D Frame3DSource
	History TrendStore
	Hub     *Hub
	Metrics http.Handler
	Version string
	Logger  *zap.Logger
	// MaxMessageSize caps inbound WebSocket frames in bytes
	MaxMessageSize int64
}

// Handlers holds all handler instances
type Handlers struct {
	Health  HealthHandler
	System  SystemHandler
	View    ViewHandler
	Scene   SceneHandler
	History HistoryHandler
	Stream  StreamHandler
	Metrics http.Handler
}

// NewHandlers creates all handler instances
func NewHandlers(deps *Dependencies) *Handlers {
	return &Handlers{
		Health:  NewHealthHandler(deps.Version, deps.Views),
		System:  NewSystemHandler(deps.Unit, deps.Views),
		View:    NewViewHandler(deps.Views),
		Scene:   NewSceneHandler(deps.Scene2D, deps.Scene3D),
		History: NewHistoryHandler(deps.History),
		Stream:  NewStreamHandler(deps.Hub, deps.Views, deps.MaxMessageSize, deps.Logger),
		// Metrics stays nil when disabled
		Metrics: deps.Metrics,
	}
}

// RegisterRoutes registers all API routes with the Echo instance
func RegisterRoutes(e *echo.Echo, handlers *Handlers) {
	apiGroup := e.Group("/api")

	// Health check
	apiGroup.GET("/health", handlers.Health.HandleHealth)

	// Unit state and commands
	apiGroup.GET("/state", handlers.System.HandleGetState)
	apiGroup.GET("/readouts", handlers.System.HandleGetReadouts)
	systemGroup := apiGroup.Group("/system")
	systemGroup.POST("/start", handlers.System.HandleStart)
	systemGroup.POST("/stop", handlers.System.HandleStop)
	systemGroup.POST("/reset-trips", handlers.System.HandleResetTrips)
	systemGroup.PUT("/capacity", handlers.System.HandleSetCapacity)

	// View control
	viewGroup := apiGroup.Group("/view")
	viewGroup.GET("", handlers.View.HandleGetView)
	viewGroup.POST("", handlers.View.HandleSetView)
	viewGroup.POST("/pause", handlers.View.HandlePause)
	viewGroup.POST("/resume", handlers.View.HandleResume)
	viewGroup.PUT("/frame-rate", handlers.View.HandleSetFrameRate)

	// Scene frames
	sceneGroup := apiGroup.Group("/scene")
	sceneGroup.GET("/2d", handlers.Scene.HandleScene2D)
	sceneGroup.GET("/3d", handlers.Scene.HandleScene3D)
	sceneGroup.GET("/:mode/msgpack", handlers.Scene.HandleSceneMsgpack)

	// Trend
	apiGroup.GET("/history", handlers.History.HandleHistory)
	apiGroup.GET("/history/chart.png", handlers.History.HandleHistoryChart)

	RegisterWebSocketRoutes(e, handlers)

	if handlers.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(handlers.Metrics))
	}
}

// RegisterWebSocketRoutes registers WebSocket routes
func RegisterWebSocketRoutes(e *echo.Echo, handlers *Handlers) {
	e.GET("/api/ws", handlers.Stream.HandleWebSocket)
}

// SetupMiddleware configures common middleware
func SetupMiddleware(e *echo.Echo) {
	// Use custom error handler
	e.HTTPErrorHandler = ErrorHandler
}
