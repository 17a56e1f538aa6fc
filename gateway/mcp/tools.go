package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/papercomputeco/ollamagw/pkg/llm"
)

var (
	chatToolName    = "chat"
	chatDescription = "Send a prompt to the local Ollama model. Pass earlier turns in context; the server keeps no conversation state."

	listModelsToolName    = "list_models"
	listModelsDescription = "List the models installed on the local Ollama server, in the order Ollama reports them."
)

// ChatInput represents the input arguments for the chat tool.
type ChatInput struct {
	Prompt  string        `json:"prompt" jsonschema:"the user message to send"`
	Model   string        `json:"model,omitempty" jsonschema:"model name (default: llama2)"`
	Context []llm.Message `json:"context,omitempty" jsonschema:"earlier conversation turns, oldest first"`
}

// ChatOutput represents the output of the chat tool.
type ChatOutput struct {
	Response string `json:"response"`
	Model    string `json:"model"`
}

// ListModelsInput takes no arguments.
type ListModelsInput struct{}

// ListModelsOutput represents the output of the list_models tool.
type ListModelsOutput struct {
	Models []llm.ModelInfo `json:"models"`
	Count  int             `json:"count"`
}

func (s *Server) handleChat(ctx context.Context, _ *mcp.CallToolRequest, input ChatInput) (*mcp.CallToolResult, ChatOutput, error) {
	logger := s.config.Logger

	if input.Prompt == "" {
		return toolError("prompt is required"), ChatOutput{}, nil
	}

	model := input.Model
	if model == "" {
		model = llm.DefaultModel
	}

	logger.Debug("MCP chat request",
		"model", model,
		"context_messages", len(input.Context),
	)

	reply, err := s.config.Connector.Chat(ctx, input.Prompt, model, input.Context)
	if err != nil {
		logger.Error("MCP chat failed", "error", err)
		return toolError(fmt.Sprintf("Chat failed: %v", err)), ChatOutput{}, nil
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: reply},
		},
	}, ChatOutput{Response: reply, Model: model}, nil
}

func (s *Server) handleListModels(ctx context.Context, _ *mcp.CallToolRequest, _ ListModelsInput) (*mcp.CallToolResult, ListModelsOutput, error) {
	models, err := s.config.Connector.ListModels(ctx)
	if err != nil {
		s.config.Logger.Error("MCP list models failed", "error", err)
		return toolError(fmt.Sprintf("Failed to list models: %v", err)), ListModelsOutput{}, nil
	}

	if models == nil {
		models = []llm.ModelInfo{}
	}

	output := ListModelsOutput{Models: models, Count: len(models)}

	// Structured output is mirrored as JSON text for clients without
	// structured content support
	jsonBytes, err := json.Marshal(output)
	if err != nil {
		s.config.Logger.Error("failed to marshal models output", "error", err)
		return toolError(fmt.Sprintf("Failed to serialize models: %v", err)), ListModelsOutput{}, nil
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(jsonBytes)},
		},
	}, output, nil
}

func toolError(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{
			&mcp.TextContent{Text: msg},
		},
	}
}
