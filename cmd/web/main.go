package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Bahjat/page-insight-tool/web/internal/backend"
	"github.com/Bahjat/page-insight-tool/web/internal/insight"
	"github.com/Bahjat/page-insight-tool/web/internal/platform/config"
	"github.com/Bahjat/page-insight-tool/web/internal/platform/logger"
)

// errReported marks a failure whose details were already written to the
// command's output. main exits non-zero without printing it again.
var errReported = errors.New("failure reported")

var (
	portFlag     string
	logLevelFlag string
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "web",
		Short: "Page Insight Tool web front end",
		Long: `Serves the landing and status views in front of the page analysis service.

The analysis service origin is read from BACKEND_ORIGIN (or API_URL) on every
request. Run without a subcommand to start the HTTP server.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runServe,
	}

	root.PersistentFlags().StringVar(&portFlag, "port", "", "Listen port (overrides PORT)")
	root.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Log level: DEBUG, INFO, WARN or ERROR (overrides LOG_LEVEL)")

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Start the HTTP server",
			Args:  cobra.NoArgs,
			RunE:  runServe,
		},
		&cobra.Command{
			Use:   "health",
			Short: "Print the analysis service health as JSON",
			Args:  cobra.NoArgs,
			RunE:  runHealth,
		},
		&cobra.Command{
			Use:   "analyze <url>",
			Short: "Analyze one URL and print the result as JSON",
			Args:  cobra.ExactArgs(1),
			RunE:  runAnalyze,
		},
		newTUICmd(),
	)
	return root
}

// loadConfig applies flag overrides on top of the environment.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, err
	}
	if portFlag != "" {
		cfg.Port = portFlag
	}
	if logLevelFlag != "" {
		cfg.LogLevel = logLevelFlag
	}
	return cfg, cfg.Validate()
}

func newService(cfg config.Config, log *slog.Logger) *insight.Service {
	client := backend.NewClient(cfg.BackendTimeout, log)
	return insight.NewService(client, log)
}

// stderrLogger keeps stdout free for command output.
func stderrLogger(cfg config.Config) *slog.Logger {
	return logger.NewWithWriter(os.Stderr, cfg.LogLevel)
}

func discardLogger() *slog.Logger {
	return logger.NewWithWriter(io.Discard, "ERROR")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()

	if err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(1)
	}
}
