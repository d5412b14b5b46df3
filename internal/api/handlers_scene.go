// handlers_scene.go - Scene frame handlers
package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/vmihailenco/msgpack/v5"
)

// SceneHandlerImpl implements the SceneHandler interface
type SceneHandlerImpl struct {
	scene2D Frame2DSource
	scene3D Frame3DSource
}

// NewSceneHandler creates a new scene handler
func NewSceneHandler(s2 Frame2DSource, s3 Frame3DSource) SceneHandler {
	return &SceneHandlerImpl{scene2D: s2, scene3D: s3}
}

// HandleScene2D returns the latest 2D frame
func (h *SceneHandlerImpl) HandleScene2D(c echo.Context) error {
	return c.JSON(http.StatusOK, h.scene2D.Frame())
}

// HandleScene3D returns the latest 3D frame
func (h *SceneHandlerImpl) HandleScene3D(c echo.Context) error {
	return c.JSON(http.StatusOK, h.scene3D.Frame())
}

// HandleSceneMsgpack returns the latest frame of either view in MessagePack format.
func (h *SceneHandlerImpl) HandleSceneMsgpack(c echo.Context) error {
	mode := c.Param("mode")

	var frame interface{}
	switch mode {
	case "2d":
		frame = h.scene2D.Frame()
	case "3d":
		frame = h.scene3D.Frame()
	default:
		return NewNotFoundError("scene", mode)
	}

	data, err := msgpack.Marshal(frame)
	if err != nil {
		return NewInternalError("failed to encode msgpack", err)
	}
	return c.Blob(http.StatusOK, "application/msgpack", data)
}
