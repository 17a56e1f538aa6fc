// Package generatecmder provides the generate command, a single-turn
// completion through a running gateway.
package generatecmder

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/ollamagw/pkg/client"
	"github.com/papercomputeco/ollamagw/pkg/config"
	"github.com/papercomputeco/ollamagw/pkg/llm"
)

type generateCommander struct {
	target string
	model  string
	asJSON bool
	out    io.Writer
}

var generateFlags = []string{
	config.FlagGatewayTarget,
	config.FlagModel,
}

const generateLongDesc string = `Send a single prompt to a running gateway and print the completion.
No history is kept; use chat for multi-turn conversations.

Examples:
  ollamagw generate "Why is the sky blue?"
  ollamagw generate --model mistral --json "Summarize TCP in one line"`

const generateShortDesc string = "Single-turn completion through the gateway"

func NewGenerateCmd() *cobra.Command {
	cmder := &generateCommander{}

	cmd := &cobra.Command{
		Use:   "generate <prompt>",
		Short: generateShortDesc,
		Long:  generateLongDesc,
		Args:  cobra.MinimumNArgs(1),
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			v, err := config.InitViper(configDir)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			config.BindRegisteredFlags(v, cmd, config.Flags, generateFlags...)

			cfg, err := config.Load(v)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			cmder.target = cfg.Client.GatewayTarget
			cmder.model = cfg.Client.Model
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmder.out = cmd.OutOrStdout()
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			return cmder.run(ctx, strings.Join(args, " "))
		},
	}

	config.AddStringFlags(cmd, config.Flags, generateFlags...)
	cmd.Flags().BoolVar(&cmder.asJSON, "json", false, "Print the gateway's JSON response")

	return cmd
}

func (c *generateCommander) run(ctx context.Context, prompt string) error {
	if strings.TrimSpace(prompt) == "" {
		return errors.New("prompt is empty")
	}

	resp, err := client.New(c.target, nil).Generate(ctx, llm.GenerateRequest{
		Prompt: prompt,
		Model:  c.model,
	})
	if err != nil {
		return fmt.Errorf("generating: %w", err)
	}

	if c.asJSON {
		enc := json.NewEncoder(c.out)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}

	fmt.Fprintln(c.out, resp.Response)
	return nil
}
