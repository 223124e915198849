package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// requestLogger logs one line per request. Chain errors are rendered here so
// the logged status is the one the client receives.
func (s *HTTPServer) requestLogger(c *fiber.Ctx) error {
	start := time.Now()

	if err := c.Next(); err != nil {
		if herr := c.App().ErrorHandler(c, err); herr != nil {
			_ = c.SendStatus(fiber.StatusInternalServerError)
		}
	}

	s.logger.Info(userContext(c), "request",
		"method", c.Method(),
		"path", c.Path(),
		"status", c.Response().StatusCode(),
		"latency", time.Since(start),
	)
	return nil
}
