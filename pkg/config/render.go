package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// fileConfig is the config.toml layout. Durations are written as strings
// ("5s") which viper parses back into time.Duration.
type fileConfig struct {
	Version int `toml:"version"`
	Ollama  struct {
		Host            string `toml:"host"`
		Port            string `toml:"port"`
		ModelsTimeout   string `toml:"models_timeout"`
		GenerateTimeout string `toml:"generate_timeout"`
		ChatTimeout     string `toml:"chat_timeout"`
	} `toml:"ollama"`
	Gateway struct {
		Listen      string `toml:"listen"`
		CORSOrigins string `toml:"cors_origins"`
		Metrics     bool   `toml:"metrics"`
		MCP         bool   `toml:"mcp"`
		LogFile     string `toml:"log_file,omitempty"`
	} `toml:"gateway"`
	Client struct {
		GatewayTarget string `toml:"gateway_target"`
		Model         string `toml:"model"`
	} `toml:"client"`
}

// MarshalTOML renders c in the config.toml layout.
func (c *Config) MarshalTOML() ([]byte, error) {
	var f fileConfig
	f.Version = c.Version
	f.Ollama.Host = c.Ollama.Host
	f.Ollama.Port = c.Ollama.Port
	f.Ollama.ModelsTimeout = c.Ollama.ModelsTimeout.String()
	f.Ollama.GenerateTimeout = c.Ollama.GenerateTimeout.String()
	f.Ollama.ChatTimeout = c.Ollama.ChatTimeout.String()
	f.Gateway.Listen = c.Gateway.Listen
	f.Gateway.CORSOrigins = c.Gateway.CORSOrigins
	f.Gateway.Metrics = c.Gateway.Metrics
	f.Gateway.MCP = c.Gateway.MCP
	f.Gateway.LogFile = c.Gateway.LogFile
	f.Client.GatewayTarget = c.Client.GatewayTarget
	f.Client.Model = c.Client.Model

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(f); err != nil {
		return nil, fmt.Errorf("encoding config: %w", err)
	}

	return buf.Bytes(), nil
}

// WriteFile writes c as config.toml into dir, creating dir if needed, and
// returns the file path. An existing file is only replaced when force is set.
func (c *Config) WriteFile(dir string, force bool) (string, error) {
	path := filepath.Join(dir, configName+"."+configType)

	if !force {
		if _, err := os.Stat(path); err == nil {
			return path, fmt.Errorf("%s already exists", path)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return path, fmt.Errorf("checking %s: %w", path, err)
		}
	}

	data, err := c.MarshalTOML()
	if err != nil {
		return path, err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return path, fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return path, fmt.Errorf("writing config: %w", err)
	}

	return path, nil
}
