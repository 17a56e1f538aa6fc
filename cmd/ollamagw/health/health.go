// Package healthcmder provides the health command, which reports whether a
// running gateway can reach its Ollama backend.
package healthcmder

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/ollamagw/pkg/cliui"
	"github.com/papercomputeco/ollamagw/pkg/client"
	"github.com/papercomputeco/ollamagw/pkg/config"
	"github.com/papercomputeco/ollamagw/pkg/llm"
)

type healthCommander struct {
	target string
	asJSON bool
	out    io.Writer
}

const healthLongDesc string = `Query a running gateway's /health endpoint. Exits non-zero unless the
gateway reports healthy.

Examples:
  ollamagw health
  ollamagw health --json --target http://localhost:8000`

const healthShortDesc string = "Check gateway and Ollama health"

func NewHealthCmd() *cobra.Command {
	cmder := &healthCommander{}

	cmd := &cobra.Command{
		Use:   "health",
		Short: healthShortDesc,
		Long:  healthLongDesc,
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

func (c *healthCommander) run(ctx context.Context) error {
	report, err := client.New(c.target, nil).Health(ctx)
	if report == nil {
		return fmt.Errorf("checking health: %w", err)
	}

	if c.asJSON {
		enc := json.NewEncoder(c.out)
		enc.SetIndent("", "  ")
		if encErr := enc.Encode(report); encErr != nil {
			return encErr
		}
	} else {
		c.print(report)
	}

	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("gateway is %s", report.Status)
	}
	return err
}

func (c *healthCommander) print(report *llm.HealthResponse) {
	mark := cliui.SuccessMark
	if report.Status != "healthy" {
		mark = cliui.FailMark
	}

	fmt.Fprintln(c.out)
	fmt.Fprintf(c.out, "  %s %s %s\n", mark, cliui.KeyStyle.Render("Status:"), cliui.NameStyle.Render(report.Status))
	fmt.Fprintf(c.out, "  %s %t\n", cliui.KeyStyle.Render("Ollama connected:"), report.OllamaConnected)
	if report.ModelsAvailable != nil {
		fmt.Fprintf(c.out, "  %s %d\n", cliui.KeyStyle.Render("Models available:"), *report.ModelsAvailable)
	}
	if report.Error != "" {
		fmt.Fprintf(c.out, "  %s %s\n", cliui.KeyStyle.Render("Error:"), cliui.DimStyle.Render(report.Error))
	}
	fmt.Fprintln(c.out)
}
