package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"pos/internal/logging"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// Logging はリクエストごとのloggerをcontextに入れ、終了時に1行出す。
func Logging(base *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			// request id
			reqID := c.Request().Header.Get(echo.HeaderXRequestID)
			if reqID == "" {
				reqID = uuid.NewString()
			}
			c.Response().Header().Set(echo.HeaderXRequestID, reqID)

			l := base.With(
				"req_id", reqID,
				"method", c.Request().Method,
				"path", c.Path(),
				"remote", c.RealIP(),
			)
			logging.With(c, l)

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			status := c.Response().Status
			attrs := []any{
				"status", status,
				"dur_ms", time.Since(start).Milliseconds(),
				"resp_bytes", c.Response().Size,
			}
			if term, ok := c.Get(CtxTerminalIDKey).(string); ok {
				attrs = append(attrs, "terminal", term)
			}
			if err != nil {
				attrs = append(attrs, "error", err.Error())
			}

			if status >= http.StatusBadRequest {
				l.Error("http_request", attrs...)
				return nil
			}
			l.Info("http_request", attrs...)
			return nil
		}
	}
}
