package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

const (
	configName = "config"
	configType = "toml"

	// EnvPrefix prefixes every OLLAMAGW_<SECTION>_<KEY> environment variable.
	EnvPrefix = "OLLAMAGW"

	// DotDir is the per-user config directory under $HOME.
	DotDir = ".ollamagw"
)

// InitViper creates a *viper.Viper with defaults, the config.toml found in
// configDir (or $HOME/.ollamagw when empty) and environment bindings.
//
// Config precedence (highest to lowest):
//  1. CLI flags (once bound via BindRegisteredFlags)
//  2. Environment variables (OLLAMA_HOST, OLLAMA_PORT, OLLAMAGW_GATEWAY_LISTEN, etc.)
//  3. config.toml values
//  4. Defaults from NewDefaultConfig()
func InitViper(configDir string) (*viper.Viper, error) {
	v := viper.New()

	setViperDefaults(v)

	v.SetConfigName(configName)
	v.SetConfigType(configType)

	if dir, err := ResolveDir(configDir); err == nil {
		v.AddConfigPath(dir)
	}

	if err := v.ReadInConfig(); err != nil {
		// Missing config files are fine, defaults apply.
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// The backend location also honors the bare variables deployments set.
	if err := v.BindEnv("ollama.host", EnvPrefix+"_OLLAMA_HOST", "OLLAMA_HOST"); err != nil {
		return nil, fmt.Errorf("binding OLLAMA_HOST: %w", err)
	}
	if err := v.BindEnv("ollama.port", EnvPrefix+"_OLLAMA_PORT", "OLLAMA_PORT"); err != nil {
		return nil, fmt.Errorf("binding OLLAMA_PORT: %w", err)
	}

	return v, nil
}

// ResolveDir returns configDir, or $HOME/.ollamagw when it is empty.
func ResolveDir(configDir string) (string, error) {
	if configDir != "" {
		return configDir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, DotDir), nil
}

// ValidKeys returns every dotted config key, sorted.
func ValidKeys() []string {
	v := viper.New()
	setViperDefaults(v)
	keys := v.AllKeys()
	slices.Sort(keys)
	return keys
}

// IsValidKey reports whether key is a known dotted config key.
func IsValidKey(key string) bool {
	return slices.Contains(ValidKeys(), strings.ToLower(key))
}

// Load resolves v into a validated Config.
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate rejects configurations the gateway cannot start with.
func (c *Config) Validate() error {
	if c.Version != CurrentV {
		return fmt.Errorf("unsupported config version %d (expected %d)", c.Version, CurrentV)
	}
	if c.Ollama.Host == "" {
		return errors.New("ollama.host must not be empty")
	}
	port, err := strconv.Atoi(c.Ollama.Port)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("ollama.port %q is not a valid port", c.Ollama.Port)
	}
	if c.Ollama.ModelsTimeout <= 0 || c.Ollama.GenerateTimeout <= 0 || c.Ollama.ChatTimeout <= 0 {
		return errors.New("ollama timeouts must be positive")
	}
	return nil
}

// setViperDefaults registers NewDefaultConfig() under dotted keys so
// defaults.go stays the single source of truth.
func setViperDefaults(v *viper.Viper) {
	d := NewDefaultConfig()

	v.SetDefault("version", d.Version)

	// Ollama
	v.SetDefault("ollama.host", d.Ollama.Host)
	v.SetDefault("ollama.port", d.Ollama.Port)
	v.SetDefault("ollama.models_timeout", d.Ollama.ModelsTimeout)
	v.SetDefault("ollama.generate_timeout", d.Ollama.GenerateTimeout)
	v.SetDefault("ollama.chat_timeout", d.Ollama.ChatTimeout)

	// Gateway
	v.SetDefault("gateway.listen", d.Gateway.Listen)
	v.SetDefault("gateway.cors_origins", d.Gateway.CORSOrigins)
	v.SetDefault("gateway.metrics", d.Gateway.Metrics)
	v.SetDefault("gateway.mcp", d.Gateway.MCP)
	v.SetDefault("gateway.log_file", d.Gateway.LogFile)

	// Client
	v.SetDefault("client.gateway_target", d.Client.GatewayTarget)
	v.SetDefault("client.model", d.Client.Model)
}
