package gateway

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/papercomputeco/ollamagw/pkg/connector"
	"github.com/papercomputeco/ollamagw/pkg/llm"
)

const errInternal = "Internal server error"

// connectorFailure logs err and writes the {error, type} body.
func (s *Server) connectorFailure(c *fiber.Ctx, err error) error {
	s.logFailure(c, err)
	return c.Status(s.failureStatus()).JSON(llm.ErrorResponse{
		Error: err.Error(),
		Type:  connector.KindOf(err).String(),
	})
}

// failureStatus is 503 while the connector is the unavailable variant and 500
// for every other backend failure.
func (s *Server) failureStatus() int {
	if connector.IsUnavailable(s.connector) {
		return fiber.StatusServiceUnavailable
	}
	return fiber.StatusInternalServerError
}

func (s *Server) logFailure(c *fiber.Ctx, err error) {
	if err == nil {
		return
	}
	s.logger.Error("backend call failed",
		"request_id", requestID(c),
		"endpoint", c.Path(),
		"ollama", s.connector.BaseURL(),
		"kind", connector.KindOf(err).String(),
		"error", err,
	)
}

// handleError is the fiber error handler. Client errors raised by fiber keep
// their status; anything else, including recovered panics, becomes a generic 500.
func (s *Server) handleError(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) && fe.Code < fiber.StatusInternalServerError {
		return c.Status(fe.Code).JSON(llm.ErrorResponse{Error: fe.Message})
	}

	s.logger.Error("unhandled gateway error",
		"request_id", requestID(c),
		"method", c.Method(),
		"path", c.Path(),
		"error", err,
	)

	return c.Status(fiber.StatusInternalServerError).JSON(llm.ErrorResponse{Error: errInternal})
}

func errorMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
