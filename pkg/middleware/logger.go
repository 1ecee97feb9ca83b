package middleware

import (
	"time"

	"github.com/Gobusters/ectologger"
	fernctx "github.com/Ramsey-B/fern/pkg/context"
	"github.com/labstack/echo/v4"
)

// Logger writes one entry per request after the handler and the error handler ran.
func Logger(logger ectologger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			res := c.Response()
			start := time.Now()

			if err := next(c); err != nil {
				c.Error(err)
			}

			req := c.Request()
			ctx := req.Context()
			logger.WithContext(ctx).WithFields(map[string]any{
				"request_id":    fernctx.GetRequestID(ctx),
				"page_id":       fernctx.GetPageID(ctx),
				"method":        fernctx.GetMethod(ctx),
				"uri":           fernctx.GetRoute(ctx),
				"route":         c.Path(),
				"status":        res.Status,
				"remote_ip":     fernctx.GetRemoteIP(ctx),
				"user_agent":    req.UserAgent(),
				"response_time": time.Since(start).String(),
				"response_size": res.Size,
			}).Info("Request")

			return nil
		}
	}
}
