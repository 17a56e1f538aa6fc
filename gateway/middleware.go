package gateway

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// RequestIDHeader carries the request id. A caller supplied value is kept.
const RequestIDHeader = "X-Request-ID"

// requestLogger assigns a request id, resolves chain errors to their final
// status, then logs and counts the request.
func (s *Server) requestLogger(c *fiber.Ctx) error {
	start := time.Now()

	id := c.Get(RequestIDHeader)
	if id == "" {
		id = uuid.NewString()
	}
	c.Locals(requestIDKey, id)
	c.Set(RequestIDHeader, id)

	if chainErr := c.Next(); chainErr != nil {
		if err := s.handleError(c, chainErr); err != nil {
			_ = c.SendStatus(fiber.StatusInternalServerError)
		}
	}

	status := c.Response().StatusCode()

	// The matched route pattern keeps metric cardinality bounded
	route := c.Route().Path
	if status == fiber.StatusNotFound {
		route = "unmatched"
	}

	s.logger.Info("request",
		"request_id", id,
		"method", c.Method(),
		"path", c.Path(),
		"status", status,
		"duration", time.Since(start),
	)

	if s.config.Metrics != nil {
		s.config.Metrics.ObserveRequest(c.Method(), route, status)
	}

	return nil
}

type contextKey string

const requestIDKey contextKey = "request_id"

func requestID(c *fiber.Ctx) string {
	id, _ := c.Locals(requestIDKey).(string)
	return id
}
