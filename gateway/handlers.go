package gateway

import (
	"bytes"
	"encoding/json"

	"github.com/gofiber/fiber/v2"

	"github.com/papercomputeco/ollamagw/pkg/connector"
	"github.com/papercomputeco/ollamagw/pkg/llm"
)

const (
	errNoJSON         = "No JSON data provided"
	errPromptRequired = "Prompt is required"
	errNotFound       = "Endpoint not found"
)

// handleHealth probes the backend by listing its models.
func (s *Server) handleHealth(c *fiber.Ctx) error {
	if connector.IsUnavailable(s.connector) {
		_, err := s.connector.ListModels(c.Context())
		s.logFailure(c, err)
		return c.Status(fiber.StatusServiceUnavailable).JSON(llm.HealthResponse{
			Status:          "unhealthy",
			OllamaConnected: false,
			Error:           errorMessage(err),
		})
	}

	models, err := s.connector.ListModels(c.Context())
	if err != nil {
		s.logFailure(c, err)
		return c.Status(fiber.StatusServiceUnavailable).JSON(llm.HealthResponse{
			Status:          "degraded",
			OllamaConnected: false,
			Error:           err.Error(),
		})
	}

	count := len(models)
	return c.JSON(llm.HealthResponse{
		Status:          "healthy",
		OllamaConnected: true,
		ModelsAvailable: &count,
	})
}

// handleModels returns the backend's models in backend order.
func (s *Server) handleModels(c *fiber.Ctx) error {
	models, err := s.connector.ListModels(c.Context())
	if err != nil {
		s.logFailure(c, err)
		return c.Status(s.failureStatus()).JSON(llm.ModelsErrorResponse{
			Error:  err.Error(),
			Models: []llm.ModelInfo{},
		})
	}

	if models == nil {
		models = []llm.ModelInfo{}
	}

	return c.JSON(llm.ModelsResponse{
		Models: models,
		Count:  len(models),
	})
}

// handleChat forwards a prompt and its client supplied context to the backend.
func (s *Server) handleChat(c *fiber.Ctx) error {
	var req *llm.ChatRequest
	if !decodeBody(c.Body(), &req) || req == nil {
		return c.Status(fiber.StatusBadRequest).JSON(llm.ErrorResponse{Error: errNoJSON})
	}
	if req.Prompt == "" {
		return c.Status(fiber.StatusBadRequest).JSON(llm.ErrorResponse{Error: errPromptRequired})
	}
	req.ApplyDefaults()

	s.logger.Debug("chat request",
		"request_id", requestID(c),
		"model", req.Model,
		"conversation_id", req.ConversationID,
		"context_messages", len(req.Context),
	)

	reply, err := s.connector.Chat(c.Context(), req.Prompt, req.Model, req.Context)
	if err != nil {
		return s.connectorFailure(c, err)
	}

	return c.JSON(llm.ChatResponse{
		Response:       reply,
		ConversationID: req.ConversationID,
		Model:          req.Model,
	})
}

// handleGenerate runs a single-turn completion.
func (s *Server) handleGenerate(c *fiber.Ctx) error {
	var req *llm.GenerateRequest
	if !decodeBody(c.Body(), &req) || req == nil {
		return c.Status(fiber.StatusBadRequest).JSON(llm.ErrorResponse{Error: errNoJSON})
	}
	if req.Prompt == "" {
		return c.Status(fiber.StatusBadRequest).JSON(llm.ErrorResponse{Error: errPromptRequired})
	}
	req.ApplyDefaults()

	reply, err := s.connector.Generate(c.Context(), req.Prompt, req.Model)
	if err != nil {
		return s.connectorFailure(c, err)
	}

	return c.JSON(llm.GenerateResponse{
		Response: reply,
		Model:    req.Model,
	})
}

// handleNotFound answers every unmatched route.
func (s *Server) handleNotFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(llm.NotFoundResponse{
		Error:              errNotFound,
		AvailableEndpoints: s.Endpoints(),
	})
}

// decodeBody reports whether body is present and parses as JSON into out.
func decodeBody(body []byte, out any) bool {
	if len(bytes.TrimSpace(body)) == 0 {
		return false
	}
	return json.Unmarshal(body, out) == nil
}
