package configcmder

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/ollamagw/pkg/config"
)

const showLongDesc string = `Print the effective configuration as TOML.

The output merges defaults, config.toml and the environment, and can be
saved as a config.toml.`

const showShortDesc string = "Print the effective configuration"

func newShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: showShortDesc,
		Long:  showLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			return runShow(cmd.OutOrStdout(), configDir)
		},
	}

	return cmd
}

func runShow(w io.Writer, configDir string) error {
	v, err := config.InitViper(configDir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	cfg, err := config.Load(v)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	data, err := cfg.MarshalTOML()
	if err != nil {
		return err
	}

	if used := v.ConfigFileUsed(); used != "" {
		fmt.Fprintf(w, "# Using config file: %s\n", used)
	} else {
		fmt.Fprint(w, "# No config file found. Using defaults and environment.\n")
	}

	_, err = w.Write(data)
	return err
}
