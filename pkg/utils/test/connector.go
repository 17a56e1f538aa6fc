// Package testutils provides test doubles shared across ollamagw packages.
package testutils

import (
	"context"

	"github.com/papercomputeco/ollamagw/pkg/connector"
	"github.com/papercomputeco/ollamagw/pkg/llm"
)

// MockConnector is a connector.Connector that records calls and returns
// configurable results.
type MockConnector struct {
	// URL is returned by BaseURL.
	URL string

	// Models is returned by ListModels.
	Models []llm.ModelInfo

	// ChatReply and GenerateReply are returned by Chat and Generate.
	ChatReply     string
	GenerateReply string

	// ListErr, GenerateErr and ChatErr make the matching call fail.
	ListErr     error
	GenerateErr error
	ChatErr     error

	// PanicOnChat makes Chat panic, standing in for an uncaught handler fault.
	PanicOnChat bool

	// Recorded arguments of the last Chat / Generate call.
	LastMessage string
	LastPrompt  string
	LastModel   string
	LastHistory []llm.Message

	ListCalls int
	ChatCalls int
}

// NewMockConnector creates a mock that answers every call successfully.
func NewMockConnector() *MockConnector {
	return &MockConnector{
		URL:           "http://ollama.test:11434",
		Models:        []llm.ModelInfo{{Name: "llama2"}, {Name: "mistral"}},
		ChatReply:     "Hello from the model",
		GenerateReply: "Generated text",
	}
}

func (m *MockConnector) ListModels(_ context.Context) ([]llm.ModelInfo, error) {
	m.ListCalls++
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	return m.Models, nil
}

func (m *MockConnector) Generate(_ context.Context, prompt, model string) (string, error) {
	m.LastPrompt = prompt
	m.LastModel = model
	if m.GenerateErr != nil {
		return "", m.GenerateErr
	}
	return m.GenerateReply, nil
}

func (m *MockConnector) Chat(_ context.Context, message, model string, history []llm.Message) (string, error) {
	m.ChatCalls++
	if m.PanicOnChat {
		panic("mock connector panic")
	}
	m.LastMessage = message
	m.LastModel = model
	m.LastHistory = history
	if m.ChatErr != nil {
		return "", m.ChatErr
	}
	return m.ChatReply, nil
}

func (m *MockConnector) BaseURL() string {
	return m.URL
}

// Ensure MockConnector implements connector.Connector
var _ connector.Connector = (*MockConnector)(nil)
