package config

import "time"

const (
	// CurrentV is the only supported config file version.
	CurrentV = 0

	defaultOllamaHost      = "localhost"
	defaultOllamaPort      = "11434"
	defaultModelsTimeout   = 5 * time.Second
	defaultGenerateTimeout = 60 * time.Second
	defaultChatTimeout     = 120 * time.Second

	defaultGatewayListen = ":8000"
	defaultCORSOrigins   = "*"

	defaultGatewayTarget = "http://localhost:8000"
	defaultClientModel   = "llama2"
)

// NewDefaultConfig returns a Config with every default filled in.
// This is the single source of truth for default values.
func NewDefaultConfig() *Config {
	return &Config{
		Version: CurrentV,
		Ollama: OllamaConfig{
			Host:            defaultOllamaHost,
			Port:            defaultOllamaPort,
			ModelsTimeout:   defaultModelsTimeout,
			GenerateTimeout: defaultGenerateTimeout,
			ChatTimeout:     defaultChatTimeout,
		},
		Gateway: GatewayConfig{
			Listen:      defaultGatewayListen,
			CORSOrigins: defaultCORSOrigins,
			Metrics:     true,
		},
		Client: ClientConfig{
			GatewayTarget: defaultGatewayTarget,
			Model:         defaultClientModel,
		},
	}
}
