package configcmder

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/ollamagw/pkg/config"
)

const getLongDesc string = `Get the effective value of a configuration key.

Examples:
  ollamagw config get ollama.host
  ollamagw config get gateway.listen`

const getShortDesc string = "Get a configuration value"

func newGetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <key>",
		Short: getShortDesc,
		Long:  getLongDesc,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			return runGet(cmd.OutOrStdout(), configDir, args[0])
		},
	}

	return cmd
}

func runGet(w io.Writer, configDir, key string) error {
	if !config.IsValidKey(key) {
		return fmt.Errorf("unknown config key %q, valid keys: %s", key, strings.Join(config.ValidKeys(), ", "))
	}

	v, err := config.InitViper(configDir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	_, err = fmt.Fprintln(w, v.Get(strings.ToLower(key)))
	return err
}
