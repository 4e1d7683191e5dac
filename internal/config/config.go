// Package config loads and validates the relay configuration. Values come
// from an optional JSON or YAML file (with ${VAR} expansion) and from
// environment variables, which always win. The service runs with no config
// file at all when the required tokens are present in the environment.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Config is the root configuration for the relay.
type Config struct {
	Server   ServerConfig   `json:"server" yaml:"server"`
	Facebook FacebookConfig `json:"facebook" yaml:"facebook"`
	Telegram TelegramConfig `json:"telegram" yaml:"telegram"`
	Metrics  MetricsConfig  `json:"metrics" yaml:"metrics"`
	LogLevel string         `json:"logLevel" yaml:"logLevel" env:"FB2TG_LOG_LEVEL"`
}

// ServerConfig configures the inbound HTTP listener.
type ServerConfig struct {
	Host        string `json:"host" yaml:"host" env:"FB2TG_HOST"`
	Port        int    `json:"port" yaml:"port" env:"FB2TG_PORT"`
	WebhookPath string `json:"webhookPath" yaml:"webhookPath" env:"FB2TG_WEBHOOK_PATH"`
}

// FacebookConfig holds the webhook handshake secret.
type FacebookConfig struct {
	VerifyToken string `json:"verifyToken" yaml:"verifyToken" env:"FB_VERIFY_TOKEN"`
}

// TelegramConfig configures the outbound notifier.
type TelegramConfig struct {
	BotToken            string `json:"botToken" yaml:"botToken" env:"TELEGRAM_BOT_TOKEN"`
	ChatID              string `json:"chatId" yaml:"chatId" env:"TELEGRAM_CHAT_ID"`
	ParseMode           string `json:"parseMode" yaml:"parseMode" env:"TELEGRAM_PARSE_MODE"`
	DisableNotification bool   `json:"disableNotification" yaml:"disableNotification" env:"TELEGRAM_DISABLE_NOTIFICATION"`
	APIEndpoint         string `json:"apiEndpoint,omitempty" yaml:"apiEndpoint,omitempty" env:"TELEGRAM_API_ENDPOINT"`
	TimeoutSeconds      int    `json:"timeoutSeconds" yaml:"timeoutSeconds" env:"TELEGRAM_TIMEOUT_SECONDS"`
}

// MetricsConfig configures the Prometheus metrics endpoint.
type MetricsConfig struct {
	Enabled  bool   `json:"enabled" yaml:"enabled" env:"FB2TG_METRICS_ENABLED"`
	Endpoint string `json:"endpoint" yaml:"endpoint" env:"FB2TG_METRICS_ENDPOINT"`
}

// DefaultConfigDir returns the default config directory (~/.fb2tg).
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".fb2tg"
	}
	return filepath.Join(home, ".fb2tg")
}

func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.json")
}

// Load reads the config file at path, applies environment overrides, and
// validates the result. An empty path skips the file step entirely and
// builds the config from defaults plus environment.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if path != "" {
		path = ExpandPath(path)
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("cannot read config file %s: %w", path, err)
		}

		// Substitute environment variables: ${VAR} and ${VAR:-default}
		data = []byte(ExpandEnvVars(string(data)))

		if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
			err = yaml.Unmarshal(data, cfg)
		} else {
			err = json.Unmarshal(data, cfg)
		}
		if err != nil {
			return nil, fmt.Errorf("cannot parse config file %s: %w", path, err)
		}
	}

	// Environment variables override file values.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("environment overrides: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

// envVarPattern matches ${VAR} and ${VAR:-default} patterns in config files.
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?::-(.*?))?\}`)

// ExpandEnvVars replaces ${VAR} with the environment variable value.
// Supports default values: ${VAR:-default} uses "default" when VAR is unset
// or empty.
func ExpandEnvVars(input string) string {
	return envVarPattern.ReplaceAllStringFunc(input, func(match string) string {
		groups := envVarPattern.FindStringSubmatch(match)
		if len(groups) < 2 {
			return match
		}
		varName := groups[1]
		defaultVal := ""
		hasDefault := len(groups) >= 3 && groups[2] != ""
		if hasDefault {
			defaultVal = groups[2]
		}

		val, exists := os.LookupEnv(varName)
		if !exists || val == "" {
			if hasDefault {
				return defaultVal
			}
			return match // keep original if no env var and no default
		}
		return val
	})
}

// Save writes cfg to path as indented JSON, creating directories as needed.
func Save(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("cannot create config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("cannot marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0o644)
}

// Validate checks that the config has valid and complete values.
func Validate(cfg *Config) error {
	var errs []string

	if cfg.Facebook.VerifyToken == "" {
		errs = append(errs, "facebook.verifyToken is required (env FB_VERIFY_TOKEN)")
	}
	if cfg.Telegram.BotToken == "" {
		errs = append(errs, "telegram.botToken is required (env TELEGRAM_BOT_TOKEN)")
	}
	if cfg.Telegram.ChatID == "" {
		errs = append(errs, "telegram.chatId is required (env TELEGRAM_CHAT_ID)")
	}

	if cfg.Server.Port < 0 || cfg.Server.Port > 65535 {
		errs = append(errs, "server.port must be between 0 and 65535")
	}
	if !strings.HasPrefix(cfg.Server.WebhookPath, "/") {
		errs = append(errs, "server.webhookPath must start with /")
	}
	if cfg.Telegram.TimeoutSeconds < 1 {
		errs = append(errs, "telegram.timeoutSeconds must be >= 1")
	}
	switch cfg.Telegram.ParseMode {
	case "", "Markdown", "MarkdownV2", "HTML":
		// valid
	default:
		errs = append(errs, "telegram.parseMode must be one of: Markdown, MarkdownV2, HTML")
	}
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		errs = append(errs, "logLevel must be one of: debug, info, warn, error")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation errors:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// ExpandPath resolves ~/ to the user's home directory.
func ExpandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}
