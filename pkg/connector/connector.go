// Package connector defines the gateway's single outbound relationship with an
// inference backend and the error taxonomy every backend failure is mapped to.
package connector

import (
	"context"

	"github.com/papercomputeco/ollamagw/pkg/llm"
)

const (
	// NoGenerateResponse is returned by Generate when the backend omits its response field.
	NoGenerateResponse = "No response from model"

	// NoChatResponse is returned by Chat when the backend omits message.content.
	NoChatResponse = "No response"
)

// Connector talks to an inference backend. Implementations hold no per-session
// state and are safe for concurrent use; each call makes exactly one outbound
// request and is never retried.
type Connector interface {
	// ListModels returns the backend's models in the order the backend lists them.
	// Any failure is reported as a KindUnavailable *Error.
	ListModels(ctx context.Context) ([]llm.ModelInfo, error)

	// Generate runs a single-turn, non-streaming completion of prompt.
	Generate(ctx context.Context, prompt, model string) (string, error)

	// Chat sends history followed by message as a trailing user turn.
	Chat(ctx context.Context, message, model string, history []llm.Message) (string, error)

	// BaseURL returns the backend URL the connector was built with.
	BaseURL() string
}

// BuildMessages maps caller supplied history into backend messages, defaulting
// an empty role to "user", and appends message as the final user turn.
func BuildMessages(message string, history []llm.Message) []llm.Message {
	messages := make([]llm.Message, 0, len(history)+1)
	for _, m := range history {
		role := m.Role
		if role == "" {
			role = "user"
		}
		messages = append(messages, llm.Message{Role: role, Content: m.Content})
	}

	return append(messages, llm.Message{Role: "user", Content: message})
}
