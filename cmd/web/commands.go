package main

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Bahjat/page-insight-tool/web/internal/platform/logger"
	"github.com/Bahjat/page-insight-tool/web/internal/tui"
)

func runHealth(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	report := newService(cfg, stderrLogger(cfg)).LoadHealth(cmd.Context())
	if err := writeJSON(cmd.OutOrStdout(), report); err != nil {
		return err
	}
	if report.Fallback {
		return errReported
	}
	return nil
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	result := newService(cfg, stderrLogger(cfg)).LoadAnalysis(cmd.Context(), args[0])
	if err := writeJSON(cmd.OutOrStdout(), result); err != nil {
		return err
	}
	if result.Failed() {
		return errReported
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newTUICmd() *cobra.Command {
	var logFile string

	cmd := &cobra.Command{
		Use:   "tui [url]",
		Short: "Start the interactive terminal client",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			// The screen belongs to the client, so logs go to a file or nowhere.
			log := discardLogger()
			if logFile != "" {
				f, err := os.OpenFile(filepath.Clean(logFile), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
				if err != nil {
					return err
				}
				defer f.Close()
				log = logger.NewWithWriter(f, cfg.LogLevel)
			}

			var initial string
			if len(args) == 1 {
				initial = args[0]
			}
			return tui.Run(cmd.Context(), newService(cfg, log), initial)
		},
	}
	cmd.Flags().StringVar(&logFile, "log-file", "", "Append JSON logs to this file")
	return cmd
}
