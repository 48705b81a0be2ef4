package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const HeaderRequestID = "X-Request-ID"

// RequestLogger tags every request with an id (reusing the caller's
// X-Request-ID when present) and writes one access log line per request.
func RequestLogger(logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		requestID := c.Get(HeaderRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Locals("requestID", requestID)
		c.Set(HeaderRequestID, requestID)

		start := time.Now()
		err := c.Next()
		if err != nil {
			// Let the app error handler write the response before we read
			// the final status.
			if handlerErr := c.App().ErrorHandler(c, err); handlerErr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		fields := []zap.Field{
			zap.String("request_id", requestID),
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", c.Response().StatusCode()),
			zap.Duration("latency", time.Since(start)),
		}
		if c.Response().StatusCode() >= fiber.StatusInternalServerError {
			logger.Error("Request failed", fields...)
		} else {
			logger.Info("Request handled", fields...)
		}

		return nil
	}
}
