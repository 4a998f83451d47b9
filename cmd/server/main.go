// Command server starts the candidate matching HTTP server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/fairyhunter13/candidate-matcher/internal/adapter/ai/gemini"
	"github.com/fairyhunter13/candidate-matcher/internal/adapter/ai/openrouter"
	"github.com/fairyhunter13/candidate-matcher/internal/adapter/catalog/csvsource"
	httpserver "github.com/fairyhunter13/candidate-matcher/internal/adapter/httpserver"
	"github.com/fairyhunter13/candidate-matcher/internal/adapter/observability"
	"github.com/fairyhunter13/candidate-matcher/internal/app"
	"github.com/fairyhunter13/candidate-matcher/internal/config"
	"github.com/fairyhunter13/candidate-matcher/internal/domain"
	"github.com/fairyhunter13/candidate-matcher/internal/usecase"
)

func main() {
	// Local development convenience; missing .env is not an error.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := observability.SetupLogger(cfg)
	slog.SetDefault(logger)

	// Register all Prometheus metrics once per process so that /metrics
	// exposes HTTP, catalog, and AI instrumentation.
	observability.InitMetrics()

	shutdownTracer, err := observability.SetupTracing(cfg)
	if err != nil {
		slog.Error("failed to setup tracing", slog.Any("error", err))
	}
	defer func() {
		if shutdownTracer != nil {
			_ = shutdownTracer(context.Background())
		}
	}()

	// Catalog: CSV loader behind a TTL cache.
	loader := csvsource.NewLoader(cfg.JobsCSVPath, cfg.CatalogMaxRows)
	cache := csvsource.NewCache(loader, cfg.CatalogTTL)

	keywords, err := config.LoadRelevanceKeywords(cfg.FilterKeywordsFile)
	if err != nil {
		slog.Error("keyword override load failed", slog.Any("error", err))
		os.Exit(1)
	}
	filter := usecase.NewRelevanceFilter(keywords, cfg.FilterMaxJobs)

	analyzer, err := buildAnalyzer(context.Background(), cfg)
	if err != nil {
		slog.Error("narrative analyzer init failed", slog.Any("error", err))
		os.Exit(1)
	}
	if analyzer != nil {
		slog.Info("narrative analyzer enabled", slog.String("provider", cfg.AIProvider))
	}

	matches := usecase.NewMatchService(cache, filter, analyzer, cfg.AITimeout)

	catalogCheck := func(_ context.Context) error {
		if _, err := os.Stat(cfg.JobsCSVPath); err != nil {
			return fmt.Errorf("catalog source: %w", err)
		}
		return nil
	}
	aiCheck := func(_ context.Context) error {
		if analyzer == nil {
			return errors.New("narrative analyzer not configured")
		}
		return nil
	}

	srv := httpserver.NewServer(cfg, matches, catalogCheck, aiCheck)
	handler := app.BuildRouter(cfg, srv)

	srvHTTP := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handler,
		ReadTimeout:       cfg.HTTPReadTimeout,
		WriteTimeout:      cfg.HTTPWriteTimeout,
		IdleTimeout:       cfg.HTTPIdleTimeout,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	errCh := make(chan error, 1)
	go func() {
		slog.Info("http server starting", slog.Int("port", cfg.Port))
		errCh <- srvHTTP.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		slog.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", slog.Any("error", err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ServerShutdownTimeout)
	defer cancel()
	_ = srvHTTP.Shutdown(shutdownCtx)
}

// buildAnalyzer selects the narrative backend from configuration; "off" or a
// missing key yields nil, which keeps matching fully deterministic.
func buildAnalyzer(ctx context.Context, cfg config.Config) (domain.NarrativeAnalyzer, error) {
	if !cfg.AIEnabled() {
		return nil, nil
	}
	switch strings.ToLower(cfg.AIProvider) {
	case "openrouter":
		return openrouter.New(cfg), nil
	case "gemini":
		return gemini.New(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	default:
		return nil, nil
	}
}
