package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/diogo/lgclient/internal/config"
	"github.com/diogo/lgclient/internal/logger"
	"github.com/diogo/lgclient/internal/render"
	"github.com/diogo/lgclient/internal/tui"
)

// runForm is replaced in tests
var runForm = tui.RunForm

var formCmd = &cobra.Command{
	Use:   "form",
	Short: "Open the request form in the terminal",
	Long: `Open an interactive form to enter the API key, assistant ID and message,
send the request and read the response.

Logs are written to ~/.lgclient/debug.log when --debug is set.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := effectiveConfig()
		if err != nil {
			return err
		}

		log, closeLog, err := formLogger()
		if err != nil {
			return err
		}
		defer func() { _ = closeLog() }()

		if cfg.TUITheme != "" && !tui.ApplyTheme(cfg.TUITheme) {
			fmt.Fprintf(os.Stderr, "Warning: unknown theme '%s', using default\n", cfg.TUITheme)
		}

		controller := newController(cfg, log, cfg.DefaultMessage)
		return runForm(cmd.Context(), controller, render.FromConfig(cfg.Markdown))
	},
}

// formLogger returns the file logger when --debug is set and a no-op logger
// otherwise
func formLogger() (*zap.Logger, func() error, error) {
	if !debugFlag {
		return zap.NewNop(), func() error { return nil }, nil
	}

	path, err := config.GetDebugLogPath()
	if err != nil {
		return nil, nil, err
	}
	return logger.NewFileLogger(path)
}
