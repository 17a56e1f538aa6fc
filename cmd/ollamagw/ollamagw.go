// Package ollamagwcmder is the root ollamagw command.
package ollamagwcmder

import (
	"github.com/spf13/cobra"

	chatcmder "github.com/papercomputeco/ollamagw/cmd/ollamagw/chat"
	configcmder "github.com/papercomputeco/ollamagw/cmd/ollamagw/config"
	generatecmder "github.com/papercomputeco/ollamagw/cmd/ollamagw/generate"
	healthcmder "github.com/papercomputeco/ollamagw/cmd/ollamagw/health"
	modelscmder "github.com/papercomputeco/ollamagw/cmd/ollamagw/models"
	servecmder "github.com/papercomputeco/ollamagw/cmd/ollamagw/serve"
	versioncmder "github.com/papercomputeco/ollamagw/cmd/version"
)

const ollamagwLongDesc string = `ollamagw is a small HTTP gateway in front of a local Ollama server.

Run the gateway:
  ollamagw serve       Serve /health, /api/models, /api/chat and /api/generate

Talk to a running gateway:
  ollamagw chat        Interactive chat, history kept on the client
  ollamagw generate    Single-turn completion
  ollamagw models      List the models Ollama has installed
  ollamagw health      Check that the gateway can reach Ollama

Configuration is read from flags, the environment (OLLAMA_HOST, OLLAMA_PORT,
OLLAMAGW_*), $HOME/.ollamagw/config.toml and built-in defaults, in that order.`

const ollamagwShortDesc string = "ollamagw - Ollama HTTP gateway"

func NewOllamagwCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "ollamagw",
		Short:         ollamagwShortDesc,
		Long:          ollamagwLongDesc,
		SilenceUsage:  true,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().String("config-dir", "", "Directory holding config.toml (default $HOME/.ollamagw)")

	cmd.AddCommand(servecmder.NewServeCmd())
	cmd.AddCommand(chatcmder.NewChatCmd())
	cmd.AddCommand(generatecmder.NewGenerateCmd())
	cmd.AddCommand(modelscmder.NewModelsCmd())
	cmd.AddCommand(healthcmder.NewHealthCmd())
	cmd.AddCommand(configcmder.NewConfigCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}
