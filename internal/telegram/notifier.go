// Package telegram delivers formatted text to a fixed Telegram chat through
// the Bot API sendMessage endpoint.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const defaultTimeout = 10 * time.Second

// DeliveryError is returned when a message could not be delivered: the
// transport call failed, or the Telegram API answered with ok=false.
type DeliveryError struct {
	Code        int    // Telegram error code, 0 for pure transport failures
	Description string // Telegram error description, if any
	Err         error  // underlying cause
}

func (e *DeliveryError) Error() string {
	if e.Description != "" {
		return fmt.Sprintf("telegram: delivery failed: %s (code %d)", e.Description, e.Code)
	}
	return fmt.Sprintf("telegram: delivery failed: %v", e.Err)
}

func (e *DeliveryError) Unwrap() error { return e.Err }

// Config holds the immutable construction parameters of a Notifier.
type Config struct {
	BotToken string
	ChatID   string

	// Default send options, applied by Send.
	ParseMode           string
	DisableNotification bool

	// APIEndpoint overrides the Bot API endpoint template
	// ("https://api.telegram.org/bot%s/%s"). Used by tests.
	APIEndpoint string

	// Timeout bounds each outbound call. Defaults to 10 seconds.
	Timeout time.Duration

	Logger *slog.Logger
}

// Options controls a single sendMessage call.
type Options struct {
	// ParseMode selects rich-text interpretation on the Telegram side
	// ("Markdown", "MarkdownV2", "HTML"). Empty means plain text.
	ParseMode string

	// DisableNotification delivers the message silently.
	DisableNotification bool

	// Extra fields are merged into the request body. Reserved fields
	// (chat_id, text, disable_notification) cannot be overridden.
	Extra map[string]string
}

// Notifier sends messages to one configured chat. The bot token, chat id
// and endpoint are fixed at construction; the underlying HTTP client pools
// connections and is safe for concurrent use across requests.
type Notifier struct {
	bot      *tgbotapi.BotAPI
	chatID   string
	defaults Options
	logger   *slog.Logger
}

// NewNotifier builds a Notifier. No network traffic happens here; the first
// call to Send opens the connection.
func NewNotifier(cfg Config) *Notifier {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	bot := &tgbotapi.BotAPI{
		Token:  cfg.BotToken,
		Client: newHTTPClient(timeout),
		Buffer: 100,
	}
	endpoint := cfg.APIEndpoint
	if endpoint == "" {
		endpoint = tgbotapi.APIEndpoint
	}
	bot.SetAPIEndpoint(endpoint)

	return &Notifier{
		bot:    bot,
		chatID: cfg.ChatID,
		defaults: Options{
			ParseMode:           cfg.ParseMode,
			DisableNotification: cfg.DisableNotification,
		},
		logger: logger,
	}
}

// Send delivers text to the configured chat using the notifier's default
// options. It performs exactly one call; retry policy belongs to the caller.
func (n *Notifier) Send(ctx context.Context, text string) error {
	_, err := n.SendWith(ctx, text, n.defaults)
	return err
}

// SendWith delivers text with explicit per-call options and returns the
// decoded API response. A nil error means Telegram accepted the message
// (transport success and ok=true in the body).
func (n *Notifier) SendWith(ctx context.Context, text string, opts Options) (*tgbotapi.APIResponse, error) {
	params := tgbotapi.Params{
		"chat_id":              n.chatID,
		"text":                 text,
		"disable_notification": strconv.FormatBool(opts.DisableNotification),
	}
	params.AddNonEmpty("parse_mode", opts.ParseMode)
	for k, v := range opts.Extra {
		switch k {
		case "chat_id", "text", "disable_notification":
			continue
		}
		params[k] = v
	}

	start := time.Now()
	resp, err := n.bot.MakeRequest("sendMessage", params)
	if err != nil {
		derr := &DeliveryError{Err: err}
		var apiErr *tgbotapi.Error
		if errors.As(err, &apiErr) {
			derr.Code = apiErr.Code
			derr.Description = apiErr.Message
		}
		n.logger.Error("telegram send failed",
			"chat_id", n.chatID,
			"elapsed", time.Since(start),
			"err", err,
		)
		return resp, derr
	}

	n.logger.Debug("telegram message sent",
		"chat_id", n.chatID,
		"text_len", len(text),
		"elapsed", time.Since(start),
	)
	return resp, nil
}

// Check validates the bot token with a getMe call. Used by the CLI to
// surface credential problems before serving traffic.
func (n *Notifier) Check(ctx context.Context) error {
	if _, err := n.bot.MakeRequest("getMe", nil); err != nil {
		return &DeliveryError{Err: fmt.Errorf("getMe: %w", err)}
	}
	return nil
}
