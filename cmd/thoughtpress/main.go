// Package main is the entry point for the ThoughtPress server.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"thoughtpress/internal/ai"
	"thoughtpress/internal/cache"
	"thoughtpress/internal/compose"
	"thoughtpress/internal/config"
	"thoughtpress/internal/database"
	"thoughtpress/internal/handlers"
	"thoughtpress/internal/middleware"
	"thoughtpress/internal/render"
	"thoughtpress/internal/router"
	"thoughtpress/internal/store"
)

func main() {
	// Structured logger — outputs JSON in production, text in development.
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
	)

	// Connect to PostgreSQL.
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Run pending migrations.
	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Connect to Valkey (Redis-compatible cache). The app degrades to
	// uncached listing when Valkey is down, so a failure here is fatal
	// only because it usually means a misconfigured address.
	valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		slog.Error("failed to connect to valkey", "error", err)
		os.Exit(1)
	}
	defer valkeyClient.Close()

	// Cache for the rendered post list, invalidated on every new post.
	listCache := cache.NewListCache(valkeyClient, cache.DefaultListTTL)

	// Initialize the HTML template renderer for the public pages.
	renderer, err := render.New()
	if err != nil {
		slog.Error("failed to initialize template renderer", "error", err)
		os.Exit(1)
	}

	// Post store backed by PostgreSQL.
	postStore := store.NewPostStore(db)

	// Initialize the AI provider registry with all configured providers.
	// Generation parameters are shared across providers.
	params := ai.GenParams{Temperature: cfg.AITemperature, MaxTokens: cfg.AIMaxTokens}
	aiRegistry := ai.NewRegistry(cfg.AIProvider, map[string]ai.ProviderConfig{
		"openai":  {APIKey: cfg.OpenAIKey, Model: cfg.OpenAIModel, BaseURL: cfg.OpenAIBaseURL, Params: params},
		"gemini":  {APIKey: cfg.GeminiKey, Model: cfg.GeminiModel, BaseURL: cfg.GeminiBaseURL, Params: params},
		"claude":  {APIKey: cfg.ClaudeKey, Model: cfg.ClaudeModel, BaseURL: cfg.ClaudeBaseURL, Params: params},
		"mistral": {APIKey: cfg.MistralKey, Model: cfg.MistralModel, BaseURL: cfg.MistralBaseURL, Params: params},
	})

	slog.Info("ai providers initialized",
		"active", aiRegistry.ActiveName(),
		"available", aiRegistry.Available(),
	)

	// The composer runs the full thought-to-post pipeline.
	composer := compose.NewComposer(aiRegistry)

	// Create the handler group with its dependencies.
	thoughts := handlers.NewThoughts(renderer, composer, postStore, listCache)

	// Per-IP limiter on the submission endpoint: each accepted request
	// costs one metered LLM call.
	limiter := middleware.NewSubmitLimiter()
	defer limiter.Stop()

	// Set up the Chi router with all middleware and routes.
	r := router.New(thoughts, limiter)

	// Create the HTTP server with sensible timeouts.
	// WriteTimeout must accommodate the submission endpoint, which waits
	// on an LLM response (typically 10-30s, up to 60s for long content).
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	// Give active requests up to 30 seconds to complete.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
