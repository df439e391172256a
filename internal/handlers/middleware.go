package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"stockpulse-api/internal/common"
)

const localsErrorKey = "handlerError"

// RequestLogger logs one line per request: 5xx at error, 4xx at info, the
// rest at debug. Runs after requestid so the id is available.
func RequestLogger(logger *common.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		chainErr := c.Next()
		if chainErr != nil {
			if err := c.App().ErrorHandler(c, chainErr); err != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		status := c.Response().StatusCode()
		event := logger.Debug()
		switch {
		case status >= fiber.StatusInternalServerError:
			event = logger.Error()
		case status >= fiber.StatusBadRequest:
			event = logger.Info()
		}

		if err, ok := c.Locals(localsErrorKey).(error); ok {
			event = event.Err(err)
		}

		event.
			Str("request_id", requestID(c)).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Msg("HTTP request")

		return nil
	}
}

func requestID(c *fiber.Ctx) string {
	if id, ok := c.Locals("requestid").(string); ok {
		return id
	}
	return c.GetRespHeader(fiber.HeaderXRequestID)
}
