// Command server exposes the readiness diagnosis pipeline over HTTP.
//
//	@title			Business Readiness Diagnosis API
//	@version		1.0
//	@description	Scores questionnaire submissions against industry benchmarks and returns a full diagnosis report.
//	@BasePath		/
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/ZanzyTHEbar/readiness-diagnosis/docs"
	"github.com/ZanzyTHEbar/readiness-diagnosis/internal/config"
	"github.com/ZanzyTHEbar/readiness-diagnosis/internal/monitoring"
	"github.com/ZanzyTHEbar/readiness-diagnosis/internal/narrative"
)

func main() {
	cfg, err := config.Load(getEnvOrDefault("CONFIG_PATH", ""))
	if err == nil {
		err = cfg.ApplyEnv()
	}
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	appLogger := monitoring.NewLogger(os.Stdout, monitoring.ParseLevel(cfg.Server.LogLevel))
	slog.SetDefault(appLogger.Logger)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	narrator, judge := buildCollaborators(ctx, cfg)

	a, err := newApp(ctx, cfg, appLogger, narrator, judge)
	if err != nil {
		slog.Error("Failed to initialize server", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	go monitoring.RunRuntimeSampler(ctx, 30*time.Second, 256<<20, a.metrics, appLogger)
	go a.privacy.Run(ctx, 24*time.Hour)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           a.router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Starting server", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		return
	}

	slog.Info("Server exited")
}

// buildCollaborators returns the model-backed narrator and judge, or nils when
// no API key is configured. Narration can be switched off independently.
func buildCollaborators(ctx context.Context, cfg *config.Config) (narrative.Narrator, narrative.Judge) {
	if cfg.Gemini.APIKey == "" {
		slog.Info("Gemini API key not set, using template narration and fallback quality scores")
		return nil, nil
	}

	g, err := narrative.NewGemini(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
	if err != nil {
		slog.Warn("Gemini client unavailable, continuing without it", "error", err)
		return nil, nil
	}

	var narrator narrative.Narrator
	if cfg.Pipeline.Narration {
		narrator = g
	}
	return narrator, g
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
