// Package commands provides CLI commands for lgclient.
package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/diogo/lgclient/internal/api"
	"github.com/diogo/lgclient/internal/config"
	"github.com/diogo/lgclient/internal/form"
)

var (
	// Global flags
	endpointFlag    string
	assistantIDFlag string
	apiKeyFlag      string
	debugFlag       bool
	strictFlag      bool

	// Root flags
	outputFlag string
	fileFlag   string
	rawFlag    bool

	// Version info (set at build time)
	Version   = "0.1.0"
	BuildTime = "unknown"
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "lgclient [message]",
	Short: "Client for a LangGraph streaming runs endpoint",
	Long: `lgclient sends a message to a LangGraph assistant through the streaming
runs endpoint and prints the concatenated response text.

The API key is read from --api-key or the LGCLIENT_API_KEY environment
variable. It is never written to the config file.

Examples:
  lgclient "What is 2+2?"               Send a single message
  lgclient -f message.md                Read the message from a file
  cat message.md | lgclient             Read the message from stdin
  lgclient "Hello" -o response.txt      Save the response to a file
  lgclient form                         Open the terminal form
  lgclient serve --listen :8080         Serve the web form
  lgclient config                       Show the effective configuration`,
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if v, _ := cmd.Flags().GetBool("version"); v {
			fmt.Fprintf(cmd.OutOrStdout(), "lgclient %s (built %s)\n", Version, BuildTime)
			return nil
		}

		message, ok, err := readMessage(args, cmd.InOrStdin())
		if err != nil {
			return err
		}
		if !ok {
			return cmd.Help()
		}

		raw := rawFlag || !isStdoutTTY()
		return runQuery(cmd.Context(), cmd.OutOrStdout(), message, raw)
	},
}

// Execute runs the root command. SIGINT and SIGTERM cancel the running
// request.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&endpointFlag, "endpoint", "", "Runs endpoint URL")
	rootCmd.PersistentFlags().StringVarP(&assistantIDFlag, "assistant-id", "a", "", "Assistant ID")
	rootCmd.PersistentFlags().StringVar(&apiKeyFlag, "api-key", "", "API key (default from "+config.EnvAPIKey+")")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&strictFlag, "strict", false, "Fail on malformed UTF-8 in the response")

	rootCmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Save response to file")
	rootCmd.Flags().StringVarP(&fileFlag, "file", "f", "", "Read message from file")
	rootCmd.Flags().BoolVar(&rawFlag, "raw", false, "Print only the response text")
	rootCmd.Flags().BoolP("version", "v", false, "Show version and exit")

	// Add subcommands
	rootCmd.AddCommand(formCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(configCmd)
}

// readMessage returns the message from the file flag, the positional
// argument or piped stdin, in that order. ok is false when none is given.
func readMessage(args []string, in io.Reader) (message string, ok bool, err error) {
	if fileFlag != "" {
		data, err := os.ReadFile(fileFlag)
		if err != nil {
			return "", false, fmt.Errorf("failed to read file: %w", err)
		}
		return string(data), true, nil
	}

	if len(args) > 0 {
		return args[0], true, nil
	}

	if hasPipedInput(in) {
		data, err := io.ReadAll(in)
		if err != nil {
			return "", false, fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), true, nil
	}

	return "", false, nil
}

// hasPipedInput reports whether in carries data that is not a terminal
func hasPipedInput(in io.Reader) bool {
	f, ok := in.(*os.File)
	if !ok {
		return in != nil
	}
	stat, err := f.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

// effectiveConfig loads the config and applies the global flags on top
func effectiveConfig() (config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return cfg, err
	}

	if endpointFlag != "" {
		cfg.Endpoint = endpointFlag
	}
	if assistantIDFlag != "" {
		cfg.AssistantID = assistantIDFlag
	}
	if key := strings.TrimSpace(apiKeyFlag); key != "" {
		cfg.APIKey = key
	}
	if strictFlag {
		cfg.StrictDecoding = true
	}

	return cfg, nil
}

// newClientFactory builds the factory every command submits through
var newClientFactory = func(cfg config.Config, logger *zap.Logger) form.ClientFactory {
	return form.APIClientFactory(
		api.WithEndpoint(cfg.Endpoint),
		api.WithTimeout(time.Duration(cfg.TimeoutSeconds)*time.Second),
		api.WithStrictDecoding(cfg.StrictDecoding),
		api.WithLogger(logger),
	)
}

// newController creates a form controller pre-populated from cfg
func newController(cfg config.Config, logger *zap.Logger, content string) *form.Controller {
	return form.New(newClientFactory(cfg, logger),
		form.WithDefaultAPIKey(cfg.APIKey),
		form.WithAssistantID(cfg.AssistantID),
		form.WithMessageContent(content),
		form.WithLogger(logger),
	)
}
