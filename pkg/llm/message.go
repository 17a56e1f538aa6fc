// Package llm provides the gateway's wire representations of chat requests and
// responses, independent of the inference backend's native format.
package llm

// Message represents a single prior turn supplied by the caller.
type Message struct {
	Role    string `json:"role"`    // "system", "user", "assistant"
	Content string `json:"content"` // The message content
}
