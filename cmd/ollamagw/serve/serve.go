// Package servecmder provides the serve command that runs the gateway.
package servecmder

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/ollamagw/gateway"
	"github.com/papercomputeco/ollamagw/pkg/cliui"
	"github.com/papercomputeco/ollamagw/pkg/config"
	"github.com/papercomputeco/ollamagw/pkg/connector"
	"github.com/papercomputeco/ollamagw/pkg/connector/ollama"
	"github.com/papercomputeco/ollamagw/pkg/logger"
	"github.com/papercomputeco/ollamagw/pkg/metrics"
)

type serveCommander struct {
	debug bool
	cfg   *config.Config

	logger  *slog.Logger
	logFile *os.File
}

var serveFlags = []string{
	config.FlagListen,
	config.FlagOllamaHost,
	config.FlagOllamaPort,
	config.FlagCORSOrigins,
	config.FlagLogFile,
}

const serveLongDesc string = `Run the ollamagw gateway.

The gateway forwards chat and generate requests to Ollama and reports its
health. The backend location comes from OLLAMA_HOST and OLLAMA_PORT (or the
matching flags) and is fixed for the life of the process.

Endpoints:
  GET  /health        Backend connectivity and model count
  GET  /api/models    Models installed on the backend
  POST /api/chat      {prompt, model?, conversationId?, context?}
  POST /api/generate  {prompt, model?}
  GET  /metrics       Prometheus metrics (--metrics)
  POST /mcp           MCP tools chat and list_models (--mcp)`

const serveShortDesc string = "Run the gateway"

func NewServeCmd() *cobra.Command {
	cmder := &serveCommander{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: serveShortDesc,
		Long:  serveLongDesc,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			v, err := config.InitViper(configDir)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			config.BindRegisteredFlags(v, cmd, config.Flags, serveFlags...)
			if err := v.BindPFlag("gateway.metrics", cmd.Flags().Lookup("metrics")); err != nil {
				return fmt.Errorf("binding metrics flag: %w", err)
			}
			if err := v.BindPFlag("gateway.mcp", cmd.Flags().Lookup("mcp")); err != nil {
				return fmt.Errorf("binding mcp flag: %w", err)
			}

			cmder.cfg, err = config.Load(v)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}

			return cmder.run(cmd.Context())
		},
	}

	defaults := config.NewDefaultConfig()
	config.AddStringFlags(cmd, config.Flags, serveFlags...)
	cmd.Flags().Bool("metrics", defaults.Gateway.Metrics, "Serve Prometheus metrics at /metrics")
	cmd.Flags().Bool("mcp", defaults.Gateway.MCP, "Serve MCP tools at /mcp")

	return cmd
}

func (c *serveCommander) run(ctx context.Context) error {
	if err := c.setupLogger(); err != nil {
		return err
	}
	if c.logFile != nil {
		defer c.logFile.Close()
	}

	if ctx == nil {
		ctx = context.Background()
	}

	conn := c.newConnector()
	c.probe(ctx, conn)

	gwConfig := gateway.Config{
		ListenAddr:  c.cfg.Gateway.Listen,
		CORSOrigins: c.cfg.Gateway.CORSOrigins,
		MCP:         c.cfg.Gateway.MCP,
	}
	if c.cfg.Gateway.Metrics {
		gwConfig.Metrics = metrics.NewCollector(metrics.DefaultNamespace)
	}

	server, err := gateway.New(gwConfig, conn, c.logger)
	if err != nil {
		return fmt.Errorf("creating gateway: %w", err)
	}

	errChan := make(chan error, 1)
	go func() {
		if err := server.Run(); err != nil {
			errChan <- fmt.Errorf("gateway error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case err := <-errChan:
		return err
	case sig := <-sigChan:
		c.logger.Info("received signal, shutting down", "signal", sig.String())
	case <-ctx.Done():
		c.logger.Info("context done, shutting down")
	}

	if err := server.Shutdown(); err != nil {
		return fmt.Errorf("shutting down gateway: %w", err)
	}
	return nil
}

// setupLogger writes pretty logs to a terminal stderr, text logs otherwise,
// and additionally JSON to the configured log file.
func (c *serveCommander) setupLogger() error {
	c.logger = logger.New(
		logger.WithDebug(c.debug),
		logger.WithPretty(cliui.IsTerminal(os.Stderr)),
		logger.WithWriter(os.Stderr),
	)

	if c.cfg.Gateway.LogFile == "" {
		return nil
	}

	f, err := os.OpenFile(c.cfg.Gateway.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	c.logFile = f

	c.logger = logger.Multi(c.logger, logger.New(
		logger.WithDebug(c.debug),
		logger.WithJSON(true),
		logger.WithWriter(f),
	))
	return nil
}

// newConnector resolves the connector once. A base URL the Ollama client
// rejects yields the unavailable variant so the gateway still starts and
// reports itself unhealthy.
func (c *serveCommander) newConnector() connector.Connector {
	baseURL := c.cfg.BaseURL()

	client, err := ollama.NewClient(ollama.Config{
		BaseURL:         baseURL,
		ModelsTimeout:   c.cfg.Ollama.ModelsTimeout,
		GenerateTimeout: c.cfg.Ollama.GenerateTimeout,
		ChatTimeout:     c.cfg.Ollama.ChatTimeout,
		Logger:          c.logger,
	})
	if err != nil {
		c.logger.Error("could not create ollama connector",
			"ollama", baseURL,
			"error", err,
		)
		return connector.NewUnavailable(baseURL, err)
	}

	c.logger.Info("connecting to ollama", "ollama", baseURL)
	return client
}

// probe lists models once at startup. Failure only warns: the backend may
// come up after the gateway.
func (c *serveCommander) probe(ctx context.Context, conn connector.Connector) {
	if connector.IsUnavailable(conn) {
		return
	}

	models, err := conn.ListModels(ctx)
	if err != nil {
		c.logger.Warn("ollama is not reachable yet",
			"ollama", conn.BaseURL(),
			"error", err,
		)
		return
	}

	c.logger.Info("ollama reachable", "models", len(models))
}
