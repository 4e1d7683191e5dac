// Package relay orchestrates the webhook-to-Telegram pipeline: extract
// message events, format them, and forward each one downstream.
package relay

import (
	"context"
	"log/slog"
	"time"

	"fb2tg/internal/facebook"
	"fb2tg/internal/metrics"
)

// Sender delivers one formatted message to the downstream chat.
type Sender interface {
	Send(ctx context.Context, text string) error
}

// Pipeline runs one pass per webhook payload. It holds no per-request
// state, so a single Pipeline serves concurrent requests.
type Pipeline struct {
	sender Sender
	logger *slog.Logger
}

// New creates a Pipeline forwarding through sender.
func New(sender Sender, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{sender: sender, logger: logger}
}

// Process extracts message events from a decoded webhook payload, formats
// each one, and attempts delivery in payload order. A failed delivery is
// logged and counted but never stops the rest of the batch. Returns the
// number of successful deliveries.
func (p *Pipeline) Process(ctx context.Context, payload map[string]any) int {
	events := facebook.Extract(payload)
	metrics.EventsExtracted.Add(int64(len(events)))

	delivered := 0
	for _, event := range events {
		text := facebook.Format(event)

		start := time.Now()
		err := p.sender.Send(ctx, text)
		metrics.SendLatency.Observe(time.Since(start).Seconds())

		if err != nil {
			metrics.DeliveriesFailed.Inc()
			p.logger.Error("failed to forward message",
				"text_len", len(text),
				"err", err,
			)
			continue
		}

		metrics.DeliveriesOK.Inc()
		delivered++
	}

	if len(events) > 0 {
		p.logger.Info("payload processed",
			"events", len(events),
			"delivered", delivered,
		)
	}
	return delivered
}
