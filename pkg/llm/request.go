package llm

import "encoding/json"

const (
	// DefaultModel is used when a request does not name a model.
	DefaultModel = "llama2"

	// DefaultConversationID is echoed back when a request carries no conversation id.
	DefaultConversationID = "default"
)

// ChatRequest is the inbound body of POST /api/chat.
// The conversation id is only echoed; the gateway keeps no session state and
// all history must arrive in Context.
type ChatRequest struct {
	Prompt         string    `json:"prompt"`
	Model          string    `json:"model,omitempty"`
	ConversationID string    `json:"conversationId,omitempty"`
	Context        []Message `json:"context,omitempty"`
}

// UnmarshalJSON accepts the snake_case "conversation_id" and the "messages"
// history key sent by older clients. The canonical keys win when both are set.
func (r *ChatRequest) UnmarshalJSON(data []byte) error {
	type plain ChatRequest
	var wire struct {
		plain
		ConversationIDAlias string    `json:"conversation_id"`
		MessagesAlias       []Message `json:"messages"`
	}

	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	*r = ChatRequest(wire.plain)
	if r.ConversationID == "" {
		r.ConversationID = wire.ConversationIDAlias
	}
	if r.Context == nil {
		r.Context = wire.MessagesAlias
	}

	return nil
}

// ApplyDefaults fills in the documented defaults for omitted optional fields.
func (r *ChatRequest) ApplyDefaults() {
	if r.Model == "" {
		r.Model = DefaultModel
	}
	if r.ConversationID == "" {
		r.ConversationID = DefaultConversationID
	}
	if r.Context == nil {
		r.Context = []Message{}
	}
}

// GenerateRequest is the inbound body of POST /api/generate.
type GenerateRequest struct {
	Prompt string `json:"prompt"`
	Model  string `json:"model,omitempty"`
}

// ApplyDefaults fills in the default model when omitted.
func (r *GenerateRequest) ApplyDefaults() {
	if r.Model == "" {
		r.Model = DefaultModel
	}
}
