package middleware

import (
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"
)

// RequestLogger logs one record per request after the handler chain ran.
func RequestLogger(logger *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				// let echo's error handler settle the status before we read it
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()
			attrs := []any{
				"method", req.Method,
				"path", req.URL.Path,
				"remote_addr", c.RealIP(),
				"status", res.Status,
				"duration_ms", time.Since(start).Milliseconds(),
			}
			if id := res.Header().Get(echo.HeaderXRequestID); id != "" {
				attrs = append(attrs, "request_id", id)
			}
			if err != nil {
				attrs = append(attrs, "error", err.Error())
				logger.Error("handled request", attrs...)
			} else {
				logger.Info("handled request", attrs...)
			}
			return nil
		}
	}
}
