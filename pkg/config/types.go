// Package config loads ollamagw configuration from flags, the environment,
// an optional config.toml and built-in defaults.
package config

import (
	"net"
	"time"
)

// Config is the resolved ollamagw configuration.
type Config struct {
	Version int           `mapstructure:"version"`
	Ollama  OllamaConfig  `mapstructure:"ollama"`
	Gateway GatewayConfig `mapstructure:"gateway"`
	Client  ClientConfig  `mapstructure:"client"`
}

// OllamaConfig locates the inference backend and bounds each call to it.
type OllamaConfig struct {
	Host            string        `mapstructure:"host"`
	Port            string        `mapstructure:"port"`
	ModelsTimeout   time.Duration `mapstructure:"models_timeout"`
	GenerateTimeout time.Duration `mapstructure:"generate_timeout"`
	ChatTimeout     time.Duration `mapstructure:"chat_timeout"`
}

// GatewayConfig holds inbound server settings.
type GatewayConfig struct {
	Listen      string `mapstructure:"listen"`
	CORSOrigins string `mapstructure:"cors_origins"`
	Metrics     bool   `mapstructure:"metrics"`
	MCP         bool   `mapstructure:"mcp"`

	// LogFile, when set, receives JSON logs in addition to the terminal output.
	LogFile string `mapstructure:"log_file"`
}

// ClientConfig holds settings for the commands that call a running gateway
// (ollamagw chat, ollamagw models). GatewayTarget is a full URL.
type ClientConfig struct {
	GatewayTarget string `mapstructure:"gateway_target"`
	Model         string `mapstructure:"model"`
}

// BaseURL is the connector's backend URL, http://{host}:{port}.
func (c *Config) BaseURL() string {
	return "http://" + net.JoinHostPort(c.Ollama.Host, c.Ollama.Port)
}
