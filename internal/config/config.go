// Package config handles configuration loading and saving for lgclient.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/diogo/lgclient/internal/models"
)

// EnvPrefix is the prefix of environment overrides, e.g. LGCLIENT_ENDPOINT
const EnvPrefix = "LGCLIENT"

// EnvAPIKey supplies the default API key. It is the only source of the key
// besides an explicit flag or form input.
const EnvAPIKey = EnvPrefix + "_API_KEY"

const (
	configDirName  = ".lgclient"
	configFileName = "config"
	configFileType = "json"
)

// MarkdownConfig configures markdown rendering of the help panel
type MarkdownConfig struct {
	Style       string `json:"style" mapstructure:"style"` // "dark", "light", "notty" or path to JSON theme
	EnableEmoji bool   `json:"enable_emoji" mapstructure:"enable_emoji"`
	TableWrap   bool   `json:"table_wrap" mapstructure:"table_wrap"`
}

// Config represents the user configuration
type Config struct {
	Endpoint       string `json:"endpoint" mapstructure:"endpoint"`
	AssistantID    string `json:"assistant_id" mapstructure:"assistant_id"`
	DefaultMessage string `json:"default_message" mapstructure:"default_message"`
	// TimeoutSeconds is the transport timeout of the HTTP client.
	TimeoutSeconds int `json:"timeout_seconds" mapstructure:"timeout_seconds"`
	// StrictDecoding fails a request on malformed UTF-8 instead of
	// substituting U+FFFD.
	StrictDecoding  bool           `json:"strict_decoding" mapstructure:"strict_decoding"`
	ListenAddr      string         `json:"listen_addr" mapstructure:"listen_addr"`
	Verbose         bool           `json:"verbose" mapstructure:"verbose"`
	CopyToClipboard bool           `json:"copy_to_clipboard" mapstructure:"copy_to_clipboard"`
	TUITheme        string         `json:"tui_theme,omitempty" mapstructure:"tui_theme"`
	Markdown        MarkdownConfig `json:"markdown" mapstructure:"markdown"`

	// APIKey comes from the environment only and is never written to disk.
	APIKey string `json:"-" mapstructure:"-"`
}

// DefaultMarkdownConfig returns the default markdown configuration
func DefaultMarkdownConfig() MarkdownConfig {
	return MarkdownConfig{
		Style:       "dark",
		EnableEmoji: true,
		TableWrap:   true,
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		Endpoint:        models.EndpointRunsStream,
		AssistantID:     models.DefaultAssistantID,
		DefaultMessage:  models.DefaultMessageContent,
		TimeoutSeconds:  300,
		StrictDecoding:  false,
		ListenAddr:      "127.0.0.1:8080",
		Verbose:         false,
		CopyToClipboard: false,
		TUITheme:        "tokyonight",
		Markdown:        DefaultMarkdownConfig(),
	}
}

// GetConfigDir returns the configuration directory path
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(home, configDirName), nil
}

// EnsureConfigDir creates the configuration directory if it doesn't exist
func EnsureConfigDir() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return configDir, nil
}

// GetConfigPath returns the path to the config file
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, configFileName+"."+configFileType), nil
}

// GetDebugLogPath returns the path of the TUI debug log
func GetDebugLogPath() (string, error) {
	configDir, err := EnsureConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "debug.log"), nil
}

// setDefaults registers every key so environment overrides resolve during
// Unmarshal
func setDefaults(v *viper.Viper) {
	def := DefaultConfig()
	v.SetDefault("endpoint", def.Endpoint)
	v.SetDefault("assistant_id", def.AssistantID)
	v.SetDefault("default_message", def.DefaultMessage)
	v.SetDefault("timeout_seconds", def.TimeoutSeconds)
	v.SetDefault("strict_decoding", def.StrictDecoding)
	v.SetDefault("listen_addr", def.ListenAddr)
	v.SetDefault("verbose", def.Verbose)
	v.SetDefault("copy_to_clipboard", def.CopyToClipboard)
	v.SetDefault("tui_theme", def.TUITheme)
	v.SetDefault("markdown.style", def.Markdown.Style)
	v.SetDefault("markdown.enable_emoji", def.Markdown.EnableEmoji)
	v.SetDefault("markdown.table_wrap", def.Markdown.TableWrap)
}

// LoadConfig loads the configuration from disk and overlays LGCLIENT_*
// environment variables. A missing file yields the defaults.
func LoadConfig() (Config, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return DefaultConfig(), err
	}

	v := viper.New()
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	// allow environment variables like LGCLIENT_ENDPOINT or LGCLIENT_MARKDOWN_STYLE
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if !errors.As(err, &nf) {
			return withAPIKey(DefaultConfig()), fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return withAPIKey(DefaultConfig()), fmt.Errorf("failed to parse config file: %w", err)
	}

	return withAPIKey(cfg), nil
}

// withAPIKey fills APIKey from the environment. A key in the config file is
// ignored.
func withAPIKey(cfg Config) Config {
	env := viper.New()
	env.SetEnvPrefix(EnvPrefix)
	_ = env.BindEnv("api_key")
	cfg.APIKey = strings.TrimSpace(env.GetString("api_key"))
	return cfg
}

// SaveConfig saves the configuration to disk. The API key is never written.
func SaveConfig(cfg Config) error {
	configDir, err := EnsureConfigDir()
	if err != nil {
		return err
	}

	configPath := filepath.Join(configDir, configFileName+"."+configFileType)

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MaskAPIKey returns a display form of key that hides all but its edges
func MaskAPIKey(key string) string {
	switch {
	case key == "":
		return "(not set)"
	case len(key) <= 8:
		return strings.Repeat("*", len(key))
	default:
		return key[:4] + strings.Repeat("*", 4) + key[len(key)-4:]
	}
}
