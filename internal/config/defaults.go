package config

// Defaults returns a config with every non-secret field populated. The
// three tokens (verify token, bot token, chat id) have no defaults and must
// come from the config file or the environment.
func Defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Host:        "0.0.0.0",
			Port:        8000,
			WebhookPath: "/webhook",
		},
		Telegram: TelegramConfig{
			ParseMode:           "",
			DisableNotification: false,
			TimeoutSeconds:      10,
		},
		Metrics: MetricsConfig{
			Enabled:  false,
			Endpoint: "/metrics",
		},
		LogLevel: "info",
	}
}
