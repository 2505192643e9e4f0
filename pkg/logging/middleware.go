package logging

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDHeader is echoed back on every response.
const RequestIDHeader = "X-Request-ID"

// GinMiddleware assigns a request id, attaches a request scoped logger to the
// request context and logs the completed request. 4xx are logged at warn and
// 5xx at error.
func GinMiddleware(base *slog.Logger) gin.HandlerFunc {
	base = Component(base, ComponentHTTP)
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(RequestIDHeader, requestID)

		l := base.With(FieldRequestID, requestID)
		c.Request = c.Request.WithContext(WithLogger(c.Request.Context(), l))

		c.Next()

		status := c.Writer.Status()
		level := slog.LevelInfo
		switch {
		case status >= http.StatusInternalServerError:
			level = slog.LevelError
		case status >= http.StatusBadRequest:
			level = slog.LevelWarn
		}
		attrs := []any{
			FieldMethod, c.Request.Method,
			FieldPath, c.FullPath(),
			FieldStatusCode, status,
			FieldDuration, time.Since(start).Milliseconds(),
			FieldClientIP, c.ClientIP(),
		}
		if len(c.Errors) > 0 {
			attrs = append(attrs, FieldError, c.Errors.String())
		}
		l.Log(c.Request.Context(), level, "HTTP request completed", attrs...)
	}
}
