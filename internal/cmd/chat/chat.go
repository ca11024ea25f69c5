// Package chat parses chat command flags and composes transport entrypoints.
package chat

import (
	"context"
	"flag"
	"fmt"

	entrypoint "github.com/daeunpk/AX-MALL-AI-SERVICE/internal/platform/cmd"
	server "github.com/daeunpk/AX-MALL-AI-SERVICE/internal/services/chat/app"
)

// Config holds chat command configuration.
type Config struct {
	HTTPAddr      string `env:"AX_MALL_CHAT_HTTP_ADDR"   envDefault:":8000"`
	GeminiAPIKey  string `env:"AX_MALL_GEMINI_API_KEY"`
	GeminiModel   string `env:"AX_MALL_GEMINI_MODEL"     envDefault:"gemini-2.5-flash"`
	GeminiBaseURL string `env:"AX_MALL_GEMINI_BASE_URL"  envDefault:"https://generativelanguage.googleapis.com"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "chat HTTP listen address")
	fs.StringVar(&cfg.GeminiAPIKey, "gemini-api-key", cfg.GeminiAPIKey, "Gemini API key")
	fs.StringVar(&cfg.GeminiModel, "gemini-model", cfg.GeminiModel, "Gemini model used for strategy reports")
	fs.StringVar(&cfg.GeminiBaseURL, "gemini-base-url", cfg.GeminiBaseURL, "Gemini API base URL")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run builds the chat app and starts realtime transport behavior.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceChat, func(context.Context) error {
		if err := server.Run(ctx, server.Config{
			HTTPAddr:      cfg.HTTPAddr,
			GeminiAPIKey:  cfg.GeminiAPIKey,
			GeminiModel:   cfg.GeminiModel,
			GeminiBaseURL: cfg.GeminiBaseURL,
		}); err != nil {
			return fmt.Errorf("serve chat: %w", err)
		}
		return nil
	})
}
