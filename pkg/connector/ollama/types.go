package ollama

import (
	"encoding/json"

	"github.com/papercomputeco/ollamagw/pkg/llm"
)

// tagsResponse is the body of GET /api/tags. Models stays raw so an absent key
// (no models) can be told apart from an explicit null (malformed).
type tagsResponse struct {
	Models json.RawMessage `json:"models"`
}

// tagsModel is a single /api/tags entry. Only the name is consumed; Name is a
// pointer so entries without one are reported as malformed.
type tagsModel struct {
	Name       *string `json:"name"`
	Model      string  `json:"model,omitempty"`
	ModifiedAt string  `json:"modified_at,omitempty"`
	Size       int64   `json:"size,omitempty"`
	Digest     string  `json:"digest,omitempty"`
}

// generateRequest is the fixed request shape for POST /api/generate.
type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

// generateResponse is the body of a non-streaming /api/generate call.
type generateResponse struct {
	Model    string  `json:"model"`
	Response *string `json:"response"`
	Done     bool    `json:"done"`
}

// chatRequest is the fixed request shape for POST /api/chat.
type chatRequest struct {
	Model    string        `json:"model"`
	Messages []llm.Message `json:"messages"`
	Stream   bool          `json:"stream"`
}

// chatResponse is the body of a non-streaming /api/chat call.
type chatResponse struct {
	Model   string       `json:"model"`
	Message *chatMessage `json:"message"`
	Done    bool         `json:"done"`
}

type chatMessage struct {
	Role    string  `json:"role"`
	Content *string `json:"content"`
}
