// Package configcmder provides the config command for inspecting and creating
// ollamagw configuration.
package configcmder

import (
	"github.com/spf13/cobra"
)

const configLongDesc string = `Inspect and create ollamagw configuration.

Configuration is read from config.toml in --config-dir (default
$HOME/.ollamagw). Environment variables (OLLAMA_HOST, OLLAMA_PORT and
OLLAMAGW_<SECTION>_<KEY>) override the file, and CLI flags override both.

Keys use dotted notation matching the TOML section structure:
  ollama.host, ollama.port, ollama.models_timeout,
  ollama.generate_timeout, ollama.chat_timeout,
  gateway.listen, gateway.cors_origins, gateway.metrics, gateway.mcp,
  gateway.log_file, client.gateway_target, client.model

Examples:
  ollamagw config show
  ollamagw config get ollama.host
  ollamagw config init`

const configShortDesc string = "Inspect and create ollamagw configuration"

func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: configShortDesc,
		Long:  configLongDesc,
	}

	cmd.AddCommand(newShowCmd())
	cmd.AddCommand(newGetCmd())
	cmd.AddCommand(newInitCmd())

	return cmd
}
