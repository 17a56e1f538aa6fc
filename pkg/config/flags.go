package config

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Flag is the single source of truth for a CLI flag that maps onto a config key.
type Flag struct {
	// Name is the long flag name (e.g. "ollama-host").
	Name string

	// Shorthand is the one-letter short flag. Empty for no shorthand.
	Shorthand string

	// ViperKey is the dotted config key this flag maps to (e.g. "ollama.host").
	ViperKey string

	// Description is the help text shown in --help output.
	Description string
}

// FlagSet maps registry keys to flag definitions.
type FlagSet map[string]Flag

// Flag registry keys.
const (
	FlagListen        = "listen"
	FlagOllamaHost    = "ollama-host"
	FlagOllamaPort    = "ollama-port"
	FlagCORSOrigins   = "cors-origins"
	FlagLogFile       = "log-file"
	FlagGatewayTarget = "target"
	FlagModel         = "model"
)

// Flags is the registry every ollamagw command draws its config flags from.
var Flags = FlagSet{
	FlagListen: {
		Name:        "listen",
		Shorthand:   "l",
		ViperKey:    "gateway.listen",
		Description: "Address for the gateway to listen on",
	},
	FlagOllamaHost: {
		Name:        "ollama-host",
		ViperKey:    "ollama.host",
		Description: "Ollama host (env OLLAMA_HOST)",
	},
	FlagOllamaPort: {
		Name:        "ollama-port",
		ViperKey:    "ollama.port",
		Description: "Ollama port (env OLLAMA_PORT)",
	},
	FlagCORSOrigins: {
		Name:        "cors-origins",
		ViperKey:    "gateway.cors_origins",
		Description: "Comma separated list of allowed CORS origins",
	},
	FlagLogFile: {
		Name:        "log-file",
		ViperKey:    "gateway.log_file",
		Description: "Also write JSON logs to this file",
	},
	FlagGatewayTarget: {
		Name:        "target",
		Shorthand:   "t",
		ViperKey:    "client.gateway_target",
		Description: "URL of a running ollamagw gateway",
	},
	FlagModel: {
		Name:        "model",
		Shorthand:   "m",
		ViperKey:    "client.model",
		Description: "Model name (e.g., llama2, mistral)",
	},
}

// AddStringFlags registers the string flags named by keys on cmd, taking
// names, shorthands, defaults and descriptions from fs. The values are read
// back through viper after BindRegisteredFlags, so no target variable is needed.
func AddStringFlags(cmd *cobra.Command, fs FlagSet, keys ...string) {
	for _, key := range keys {
		def, ok := fs[key]
		if !ok {
			continue
		}

		defaultVal := defaultString(def.ViperKey)
		if def.Shorthand != "" {
			cmd.Flags().StringP(def.Name, def.Shorthand, defaultVal, def.Description)
		} else {
			cmd.Flags().String(def.Name, defaultVal, def.Description)
		}
	}
}

// BindRegisteredFlags binds already-registered flags to viper so that an
// explicitly set flag wins over env, config file and default.
// Call it in PreRunE after InitViper.
func BindRegisteredFlags(v *viper.Viper, cmd *cobra.Command, fs FlagSet, keys ...string) {
	for _, key := range keys {
		def, ok := fs[key]
		if !ok {
			continue
		}

		f := cmd.Flags().Lookup(def.Name)
		if f == nil {
			continue
		}

		_ = v.BindPFlag(def.ViperKey, f)
	}
}

// defaultString returns the default value of viperKey from NewDefaultConfig.
func defaultString(viperKey string) string {
	v := viper.New()
	setViperDefaults(v)
	return v.GetString(viperKey)
}
