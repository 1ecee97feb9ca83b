package routes

import (
	"net/http"

	pageservice "github.com/Ramsey-B/fern/internal/services/page"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Handler struct {
	service *pageservice.Service
}

func NewHandler(service *pageservice.Service) *Handler {
	return &Handler{service: service}
}

// Register mounts the API on e.
func Register(e *echo.Echo, service *pageservice.Service) {
	h := NewHandler(service)

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	e.GET("/operators", h.ListOperators)
	e.GET("/actions", h.ListActions)

	e.PUT("/pages/:pageId", h.PutPage)
	e.GET("/pages/:pageId", h.GetPage)
	e.POST("/pages/:pageId/contexts", h.CreateContext)

	e.GET("/contexts/:contextId", h.GetContext)
	e.DELETE("/contexts/:contextId", h.DeleteContext)
	e.PUT("/contexts/:contextId/blocks/:blockId/value", h.SetValue)
	e.POST("/contexts/:contextId/blocks/:blockId/events/:event", h.CallAction)
	e.PUT("/contexts/:contextId/validation", h.ShowValidationErrors)
}

func (h *Handler) ListOperators(c echo.Context) error {
	return c.JSON(http.StatusOK, h.service.Engine().Operators.Definitions())
}

func (h *Handler) ListActions(c echo.Context) error {
	return c.JSON(http.StatusOK, h.service.Engine().Actions.Types())
}
