// Package modelscmder provides the models command, which lists the models a
// running gateway reports.
package modelscmder

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/ollamagw/pkg/cliui"
	"github.com/papercomputeco/ollamagw/pkg/client"
	"github.com/papercomputeco/ollamagw/pkg/config"
	"github.com/papercomputeco/ollamagw/pkg/llm"
)

type modelsCommander struct {
	target string
	asJSON bool
	out    io.Writer
}

const modelsLongDesc string = `List the models installed on the Ollama server behind a running gateway,
in the order Ollama reports them.

Examples:
  ollamagw models
  ollamagw models --json --target http://localhost:8000`

const modelsShortDesc string = "List models available through the gateway"

func NewModelsCmd() *cobra.Command {
	cmder := &modelsCommander{}

	cmd := &cobra.Command{
		Use:   "models",
		Short: modelsShortDesc,
		Long:  modelsLongDesc,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			v, err := config.InitViper(configDir)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			config.BindRegisteredFlags(v, cmd, config.Flags, config.FlagGatewayTarget)

			cfg, err := config.Load(v)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			cmder.target = cfg.Client.GatewayTarget
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmder.out = cmd.OutOrStdout()
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			return cmder.run(ctx)
		},
	}

	config.AddStringFlags(cmd, config.Flags, config.FlagGatewayTarget)
	cmd.Flags().BoolVar(&cmder.asJSON, "json", false, "Print the gateway's JSON response")

	return cmd
}

func (c *modelsCommander) run(ctx context.Context) error {
	resp, err := client.New(c.target, nil).Models(ctx)
	if err != nil {
		return fmt.Errorf("listing models: %w", err)
	}

	if c.asJSON {
		enc := json.NewEncoder(c.out)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}

	c.print(resp)
	return nil
}

func (c *modelsCommander) print(resp *llm.ModelsResponse) {
	fmt.Fprintln(c.out)
	if resp.Count == 0 {
		fmt.Fprintf(c.out, "  %s\n\n", cliui.DimStyle.Render("No models installed. Pull one with: ollama pull llama2"))
		return
	}

	for _, m := range resp.Models {
		fmt.Fprintf(c.out, "  %s %s\n", cliui.SuccessMark, cliui.NameStyle.Render(m.Name))
	}
	fmt.Fprintf(c.out, "\n  %s\n\n", cliui.DimStyle.Render(fmt.Sprintf("%d models", resp.Count)))
}
