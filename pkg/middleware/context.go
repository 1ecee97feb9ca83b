package middleware

import (
	fernctx "github.com/Ramsey-B/fern/pkg/context"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// Context stores request metadata on the request context and echoes the request id back.
func Context() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()

			requestID := req.Header.Get(echo.HeaderXRequestID)
			if requestID == "" {
				requestID = uuid.New().String()
			}
			c.Response().Header().Set(echo.HeaderXRequestID, requestID)

			ctx := req.Context()
			ctx = fernctx.SetRequestID(ctx, requestID)
			ctx = fernctx.SetMethod(ctx, req.Method)
			ctx = fernctx.SetRoute(ctx, req.URL.Path)
			ctx = fernctx.SetRemoteIP(ctx, c.RealIP())
			if pageID := c.Param("pageId"); pageID != "" {
				ctx = fernctx.SetPageID(ctx, pageID)
			}

			c.SetRequest(req.WithContext(ctx))
			return next(c)
		}
	}
}
