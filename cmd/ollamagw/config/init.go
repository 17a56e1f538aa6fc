package configcmder

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/ollamagw/pkg/cliui"
	"github.com/papercomputeco/ollamagw/pkg/config"
)

const initLongDesc string = `Write a config.toml with the default configuration.

The file is written to --config-dir (default $HOME/.ollamagw). An existing
file is left alone unless --force is given.`

const initShortDesc string = "Write a default config.toml"

func newInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: initShortDesc,
		Long:  initLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			return runInit(cmd.OutOrStdout(), configDir, force)
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing config.toml")

	return cmd
}

func runInit(w io.Writer, configDir string, force bool) error {
	dir, err := config.ResolveDir(configDir)
	if err != nil {
		return err
	}

	path, err := config.NewDefaultConfig().WriteFile(dir, force)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(w, "  %s Wrote %s\n", cliui.SuccessMark, path)
	return err
}
