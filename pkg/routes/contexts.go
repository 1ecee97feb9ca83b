package routes

import (
	"net/http"

	"github.com/Ramsey-B/fern/pkg/actions"
	"github.com/Ramsey-B/fern/pkg/tracing"
	"github.com/Ramsey-B/fern/pkg/utils"
	"github.com/labstack/echo/v4"
)

type SetValueRequest struct {
	Value any `json:"value"`
}

type CallActionRequest struct {
	Event map[string]any `json:"event"`
	Args  map[string]any `json:"args"`
}

type ValidationRequest struct {
	Show bool `json:"show"`
}

func (h *Handler) GetContext(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "routes.GetContext")
	defer span.End()

	record, err := h.service.Snapshot(ctx, c.Param("contextId"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, record)
}

func (h *Handler) DeleteContext(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "routes.DeleteContext")
	defer span.End()

	if err := h.service.DeleteContext(ctx, c.Param("contextId")); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) SetValue(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "routes.SetValue")
	defer span.End()

	req, err := utils.BindRequest[SetValueRequest](c)
	if err != nil {
		return err
	}

	record, err := h.service.SetValue(ctx, c.Param("contextId"), c.Param("blockId"), req.Value)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, record)
}

func (h *Handler) CallAction(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "routes.CallAction")
	defer span.End()

	req, err := utils.BindRequest[CallActionRequest](c)
	if err != nil {
		return err
	}

	result, err := h.service.CallAction(ctx, c.Param("contextId"), c.Param("blockId"), c.Param("event"), actions.CallOptions{
		Event: req.Event,
		Args:  req.Args,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, result)
}

func (h *Handler) ShowValidationErrors(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "routes.ShowValidationErrors")
	defer span.End()

	req, err := utils.BindRequest[ValidationRequest](c)
	if err != nil {
		return err
	}

	record, err := h.service.ShowValidationErrors(ctx, c.Param("contextId"), req.Show)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, record)
}
