package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fb2tg/internal/config"
	"fb2tg/internal/relay"
	"fb2tg/internal/server"
	"fb2tg/internal/telegram"

	"github.com/spf13/cobra"
)

var (
	version    = "0.1.0"
	logger     *slog.Logger
	configPath string // overridable via --config flag
)

func main() {
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	root := &cobra.Command{
		Use:   "fb2tg",
		Short: "fb2tg: Facebook Messenger to Telegram relay",
		Long:  "fb2tg receives Facebook Messenger webhook events and forwards them as text to a Telegram chat.",
	}

	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config file (default: ~/.fb2tg/config.json, or environment only)")

	root.AddCommand(serveCmd())
	root.AddCommand(initCmd())
	root.AddCommand(checkCmd())
	root.AddCommand(versionCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// resolveConfigPath returns the config path from --config, the default
// location if a file exists there, or "" for environment-only config.
func resolveConfigPath() string {
	if configPath != "" {
		return configPath
	}
	if _, err := os.Stat(config.DefaultConfigPath()); err == nil {
		return config.DefaultConfigPath()
	}
	return ""
}

func loadConfig() (*config.Config, error) {
	cfgPath := resolveConfigPath()
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}
	if cfgPath == "" {
		logger.Info("no config file, using environment")
	} else {
		logger.Info("config loaded", "path", cfgPath)
	}
	return cfg, nil
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

func newNotifier(cfg *config.Config, logger *slog.Logger) *telegram.Notifier {
	return telegram.NewNotifier(telegram.Config{
		BotToken:            cfg.Telegram.BotToken,
		ChatID:              cfg.Telegram.ChatID,
		ParseMode:           cfg.Telegram.ParseMode,
		DisableNotification: cfg.Telegram.DisableNotification,
		APIEndpoint:         cfg.Telegram.APIEndpoint,
		Timeout:             time.Duration(cfg.Telegram.TimeoutSeconds) * time.Second,
		Logger:              logger,
	})
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the relay server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			logger = newLogger(cfg.LogLevel)

			// Graceful shutdown on signals.
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			notifier := newNotifier(cfg, logger)
			pipeline := relay.New(notifier, logger)

			srv := server.New(server.Config{
				Host:            cfg.Server.Host,
				Port:            cfg.Server.Port,
				WebhookPath:     cfg.Server.WebhookPath,
				VerifyToken:     cfg.Facebook.VerifyToken,
				MetricsEnabled:  cfg.Metrics.Enabled,
				MetricsEndpoint: cfg.Metrics.Endpoint,
				Logger:          logger,
			}, pipeline)

			return srv.Run(ctx)
		},
	}
}

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath := configPath
			if cfgPath == "" {
				cfgPath = config.DefaultConfigPath()
			}
			if _, err := os.Stat(cfgPath); err == nil {
				return fmt.Errorf("config already exists: %s", cfgPath)
			}
			if err := config.Save(cfgPath, config.Defaults()); err != nil {
				return err
			}
			logger.Info("initialized", "config", cfgPath)
			return nil
		},
	}
}

func checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate config and Telegram credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			notifier := newNotifier(cfg, logger)
			if err := notifier.Check(cmd.Context()); err != nil {
				return fmt.Errorf("telegram credentials: %w", err)
			}
			logger.Info("check passed", "chat_id", cfg.Telegram.ChatID)
			return nil
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("fb2tg v%s\n", version)
		},
	}
}
