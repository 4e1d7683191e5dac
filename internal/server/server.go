// Package server exposes the relay over HTTP: the Facebook verification
// handshake, the webhook POST endpoint, a health check, and optionally the
// metrics endpoint.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"fb2tg/internal/facebook"
	"fb2tg/internal/metrics"
	"fb2tg/internal/relay"
)

const maxBodyBytes = 1 << 20 // 1MB

// Config configures the HTTP boundary.
type Config struct {
	Host        string
	Port        int
	WebhookPath string // default: /webhook
	VerifyToken string // Facebook handshake shared secret

	MetricsEnabled  bool
	MetricsEndpoint string // default: /metrics

	Logger *slog.Logger
}

// Server receives webhook traffic and hands it to the pipeline.
type Server struct {
	cfg      Config
	pipeline *relay.Pipeline
	logger   *slog.Logger
	srv      *http.Server
}

// New creates a Server around pipeline.
func New(cfg Config, pipeline *relay.Pipeline) *Server {
	if cfg.WebhookPath == "" {
		cfg.WebhookPath = "/webhook"
	}
	if cfg.MetricsEndpoint == "" {
		cfg.MetricsEndpoint = "/metrics"
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{cfg: cfg, pipeline: pipeline, logger: logger}
}

// Run starts the HTTP server and blocks until ctx is cancelled or the
// server fails. Shutdown drains in-flight requests for up to 5 seconds.
func (s *Server) Run(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleHealth)
	mux.HandleFunc(s.cfg.WebhookPath, s.handleWebhook)
	if s.cfg.MetricsEnabled {
		mux.HandleFunc(s.cfg.MetricsEndpoint, metrics.Collector.Handler())
	}

	s.srv = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	s.logger.Info("relay server starting",
		"addr", s.srv.Addr,
		"path", s.cfg.WebhookPath,
	)

	errCh := make(chan error, 1)
	go func() {
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("relay server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return fmt.Errorf("relay server: %w", err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleVerify(w, r)
	case http.MethodPost:
		s.handleEvents(w, r)
	default:
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
	}
}

// handleVerify answers the one-time subscription handshake: echo the
// challenge on success, 403 otherwise.
func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	params := map[string]string{
		"hub.mode":         q.Get("hub.mode"),
		"hub.verify_token": q.Get("hub.verify_token"),
		"hub.challenge":    q.Get("hub.challenge"),
	}

	challenge, err := facebook.Verify(params, s.cfg.VerifyToken)
	if err != nil {
		s.logger.Warn("webhook verification rejected", "mode", params["hub.mode"])
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	s.logger.Info("webhook verified")
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, challenge)
}

// handleEvents runs one pipeline pass. Delivery failures never surface
// here: the platform sees 200 when something was forwarded, 202 when
// nothing was, and a malformed body is treated as an empty payload.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	metrics.WebhookRequests.Inc()

	var payload map[string]any
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err == nil {
		_ = json.Unmarshal(body, &payload)
	}
	defer r.Body.Close()

	count := s.pipeline.Process(r.Context(), payload)

	status := "ignored"
	code := http.StatusAccepted
	if count > 0 {
		status = "forwarded"
		code = http.StatusOK
	}
	writeJSON(w, code, map[string]any{"status": status, "count": count})
}

func writeJSON(w http.ResponseWriter, code int, body map[string]any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}
