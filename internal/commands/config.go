package commands

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/diogo/lgclient/internal/config"
)

var forceFlag bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Long: `Show the configuration after applying the config file, LGCLIENT_*
environment variables and flags. The API key is masked.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := effectiveConfig()
		if err != nil {
			return err
		}

		path, err := config.GetConfigPath()
		if err != nil {
			return err
		}

		printConfig(cmd.OutOrStdout(), cfg, path)
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default configuration file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.GetConfigPath()
		if err != nil {
			return err
		}

		if _, err := os.Stat(path); err == nil && !forceFlag {
			return fmt.Errorf("config file %s already exists (use --force to overwrite)", path)
		} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to check config file: %w", err)
		}

		if err := config.SaveConfig(config.DefaultConfig()); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
		return nil
	},
}

func init() {
	configInitCmd.Flags().BoolVar(&forceFlag, "force", false, "Overwrite an existing config file")
	configCmd.AddCommand(configInitCmd)
}

// printConfig writes cfg as aligned key/value lines
func printConfig(w io.Writer, cfg config.Config, path string) {
	rows := []struct {
		key   string
		value any
	}{
		{"config file", path},
		{"endpoint", cfg.Endpoint},
		{"assistant_id", cfg.AssistantID},
		{"api_key", config.MaskAPIKey(cfg.APIKey)},
		{"timeout_seconds", cfg.TimeoutSeconds},
		{"strict_decoding", cfg.StrictDecoding},
		{"listen_addr", cfg.ListenAddr},
		{"verbose", cfg.Verbose},
		{"copy_to_clipboard", cfg.CopyToClipboard},
		{"tui_theme", cfg.TUITheme},
		{"markdown.style", cfg.Markdown.Style},
	}

	for _, row := range rows {
		fmt.Fprintf(w, "%-18s %v\n", row.key+":", row.value)
	}
}
