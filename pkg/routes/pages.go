package routes

import (
	"net/http"

	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/tracing"
	"github.com/Ramsey-B/fern/pkg/utils"
	"github.com/labstack/echo/v4"
)

type CreateContextRequest struct {
	Input map[string]any `json:"input"`
	State map[string]any `json:"state"`
}

func (h *Handler) PutPage(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "routes.PutPage")
	defer span.End()

	var definition models.PageDefinition
	if err := c.Bind(&definition); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	definition.PageID = c.Param("pageId")

	record, err := h.service.SavePage(ctx, definition)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, record)
}

func (h *Handler) GetPage(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "routes.GetPage")
	defer span.End()

	definition, err := h.service.GetPage(ctx, c.Param("pageId"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, definition)
}

func (h *Handler) CreateContext(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "routes.CreateContext")
	defer span.End()

	req, err := utils.BindRequest[CreateContextRequest](c)
	if err != nil {
		return err
	}

	pageContext, err := h.service.CreateContext(ctx, c.Param("pageId"), req.Input, req.State)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, map[string]any{
		"contextId": pageContext.ID(),
		"snapshot":  pageContext.Snapshot(),
	})
}
