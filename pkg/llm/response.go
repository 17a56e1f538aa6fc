package llm

// ChatResponse is returned by POST /api/chat.
type ChatResponse struct {
	Response       string `json:"response"`
	ConversationID string `json:"conversationId"`
	Model          string `json:"model"`
}

// GenerateResponse is returned by POST /api/generate.
type GenerateResponse struct {
	Response string `json:"response"`
	Model    string `json:"model"`
}

// ModelInfo describes a single model the backend has available.
type ModelInfo struct {
	Name string `json:"name"`
}

// ModelsResponse is returned by GET /api/models.
type ModelsResponse struct {
	Models []ModelInfo `json:"models"`
	Count  int         `json:"count"`
}

// ModelsErrorResponse is returned by GET /api/models when the backend cannot be listed.
// Models is always an empty, non-nil list.
type ModelsErrorResponse struct {
	Error  string      `json:"error"`
	Models []ModelInfo `json:"models"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status          string `json:"status"` // "healthy", "degraded", "unhealthy"
	OllamaConnected bool   `json:"ollamaConnected"`
	ModelsAvailable *int   `json:"modelsAvailable,omitempty"`
	Error           string `json:"error,omitempty"`
}

// ErrorResponse represents an error returned to gateway clients.
type ErrorResponse struct {
	Error string `json:"error"`
	Type  string `json:"type,omitempty"`
}

// NotFoundResponse is returned for unmatched routes.
type NotFoundResponse struct {
	Error              string   `json:"error"`
	AvailableEndpoints []string `json:"available_endpoints"`
}
