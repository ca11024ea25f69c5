package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/daeunpk/AX-MALL-AI-SERVICE/internal/platform/timeouts"
	"github.com/daeunpk/AX-MALL-AI-SERVICE/internal/services/ai/gemini"
	"github.com/daeunpk/AX-MALL-AI-SERVICE/internal/services/ai/summarizer"
)

const defaultGeminiModel = "gemini-2.5-flash"

// Config defines the inputs for the consultation relay boundary.
//
// The settings couple the relay's WebSocket surface to the external
// text-generation provider without owning any conversation semantics.
type Config struct {
	HTTPAddr          string
	GeminiAPIKey      string
	GeminiModel       string
	GeminiBaseURL     string
	ReadHeaderTimeout time.Duration
	ShutdownTimeout   time.Duration
}

// Server hosts the relay HTTP/WebSocket process.
type Server struct {
	httpAddr        string
	shutdownTimeout time.Duration
	httpServer      *http.Server
}

// NewServer builds a configured relay server wired to the Gemini-backed
// report gateway.
func NewServer(config Config) (*Server, error) {
	httpAddr := strings.TrimSpace(config.HTTPAddr)
	if httpAddr == "" {
		return nil, errors.New("http address is required")
	}
	if config.ReadHeaderTimeout <= 0 {
		config.ReadHeaderTimeout = timeouts.ReadHeader
	}
	if config.ShutdownTimeout <= 0 {
		config.ShutdownTimeout = timeouts.Shutdown
	}
	model := strings.TrimSpace(config.GeminiModel)
	if model == "" {
		model = defaultGeminiModel
	}

	generator := gemini.NewClient(gemini.Config{
		BaseURL: config.GeminiBaseURL,
		APIKey:  config.GeminiAPIKey,
		HTTPClient: &http.Client{
			Timeout: timeouts.AIRequest,
		},
	})
	gateway, err := summarizer.New(generator, summarizer.Config{Model: model})
	if err != nil {
		return nil, fmt.Errorf("init report gateway: %w", err)
	}

	httpServer := &http.Server{
		Addr:              httpAddr,
		Handler:           NewHandler(gateway),
		ReadHeaderTimeout: config.ReadHeaderTimeout,
	}

	return &Server{
		httpAddr:        httpAddr,
		shutdownTimeout: config.ShutdownTimeout,
		httpServer:      httpServer,
	}, nil
}

// Run creates and serves a relay server until the context ends.
//
// Operators can treat this as the lifecycle boundary for the real-time surface.
func Run(ctx context.Context, config Config) error {
	server, err := NewServer(config)
	if err != nil {
		return fmt.Errorf("init chat server: %w", err)
	}

	if err := server.ListenAndServe(ctx); err != nil {
		return fmt.Errorf("serve chat: %w", err)
	}
	return nil
}

// ListenAndServe runs the HTTP server until the context ends.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s == nil {
		return errors.New("chat server is nil")
	}
	if ctx == nil {
		return errors.New("context is required")
	}

	serveErr := make(chan error, 1)
	log.Printf("chat server listening on %s", s.httpAddr)
	go func() {
		serveErr <- s.httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		err := s.httpServer.Shutdown(shutdownCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	}
}
