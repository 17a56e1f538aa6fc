// Package chatcmder provides the chat command for interactive LLM chat
// through a running ollamagw gateway.
package chatcmder

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/papercomputeco/ollamagw/pkg/cliui"
	"github.com/papercomputeco/ollamagw/pkg/client"
	"github.com/papercomputeco/ollamagw/pkg/config"
	"github.com/papercomputeco/ollamagw/pkg/llm"
	"github.com/papercomputeco/ollamagw/pkg/logger"
	"github.com/papercomputeco/ollamagw/pkg/utils"
)

type chatCommander struct {
	target string
	model  string
	raw    bool
	debug  bool

	in  io.Reader
	out io.Writer
	err io.Writer

	logger *slog.Logger
	client *client.Client

	conversationID string
	history        []llm.Message
}

var chatFlags = []string{
	config.FlagGatewayTarget,
	config.FlagModel,
}

const chatLongDesc string = `Start an interactive chat session through a running gateway.

The gateway keeps no conversation state: the chat command holds the history
and sends it as context with every message.

Examples:
  ollamagw chat --model mistral
  ollamagw chat --target http://localhost:8000`

const chatShortDesc string = "Interactive chat through the gateway"

func NewChatCmd() *cobra.Command {
	cmder := &chatCommander{}

	cmd := &cobra.Command{
		Use:   "chat",
		Short: chatShortDesc,
		Long:  chatLongDesc,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			v, err := config.InitViper(configDir)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			config.BindRegisteredFlags(v, cmd, config.Flags, chatFlags...)

			cfg, err := config.Load(v)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			cmder.target = cfg.Client.GatewayTarget
			cmder.model = cfg.Client.Model
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}

			cmder.in = cmd.InOrStdin()
			cmder.out = cmd.OutOrStdout()
			cmder.err = cmd.ErrOrStderr()

			return cmder.run(cmd.Context())
		},
	}

	config.AddStringFlags(cmd, config.Flags, chatFlags...)
	cmd.Flags().BoolVar(&cmder.raw, "raw", false, "Print replies without markdown rendering")

	return cmd
}

func (c *chatCommander) run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	c.logger = logger.New(logger.WithDebug(c.debug), logger.WithWriter(c.err))
	c.client = client.New(c.target, nil)
	c.conversationID = uuid.NewString()

	fmt.Fprintln(c.out)
	fmt.Fprintf(c.out, "  %s %s\n", cliui.KeyStyle.Render("Gateway:"), cliui.NameStyle.Render(c.client.Target()))
	fmt.Fprintf(c.out, "  %s %s\n", cliui.KeyStyle.Render("Model:"), cliui.NameStyle.Render(c.model))
	fmt.Fprintf(c.out, "  %s %s\n\n", cliui.KeyStyle.Render("Conversation:"), cliui.DimStyle.Render(utils.Truncate(c.conversationID, 8)))
	fmt.Fprintf(c.out, "  %s\n\n", cliui.DimStyle.Render("Type your message and press Enter. /reset clears history, /exit or Ctrl+D quits."))

	scanner := bufio.NewScanner(c.in)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	for {
		fmt.Fprint(c.out, cliui.UserPrompt)
		if !scanner.Scan() {
			break
		}

		input := strings.TrimSpace(scanner.Text())
		switch input {
		case "":
			continue
		case "/exit":
			fmt.Fprintln(c.out)
			return nil
		case "/reset":
			c.history = nil
			c.conversationID = uuid.NewString()
			fmt.Fprintf(c.out, "  %s %s\n\n", cliui.SuccessMark, cliui.DimStyle.Render("history cleared"))
			continue
		}

		reply, err := c.send(ctx, input)
		if err != nil {
			// The failed turn is not added to history so it can be retried
			fmt.Fprintf(c.err, "  %s %v\n\n", cliui.FailMark, err)
			continue
		}

		fmt.Fprintf(c.out, "%s%s\n\n", cliui.AssistantPrompt, c.render(reply))
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	fmt.Fprintln(c.out)
	return nil
}

// send posts one turn with the accumulated history and, on success, records
// both sides of the exchange.
func (c *chatCommander) send(ctx context.Context, input string) (string, error) {
	c.logger.Debug("sending chat request",
		"target", c.client.Target(),
		"model", c.model,
		"context_messages", len(c.history),
	)

	resp, err := c.client.Chat(ctx, llm.ChatRequest{
		Prompt:         input,
		Model:          c.model,
		ConversationID: c.conversationID,
		Context:        c.history,
	})
	if err != nil {
		return "", err
	}

	c.history = append(c.history,
		llm.Message{Role: "user", Content: input},
		llm.Message{Role: "assistant", Content: resp.Response},
	)

	return resp.Response, nil
}

// render formats reply as markdown when writing to a terminal.
func (c *chatCommander) render(reply string) string {
	f, ok := c.out.(*os.File)
	if c.raw || !ok || !cliui.IsTerminal(f) {
		return reply
	}

	rendered, err := cliui.RenderMarkdown(reply, cliui.Width(f)-4)
	if err != nil {
		c.logger.Debug("markdown rendering failed", "error", err)
		return reply
	}
	return "\n" + strings.TrimRight(rendered, "\n")
}
