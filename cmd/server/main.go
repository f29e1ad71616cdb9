package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"log/slog"

	"WiccRecorderwebserver/internal/auth"
	"WiccRecorderwebserver/internal/config"
	"WiccRecorderwebserver/internal/gemini"
	"WiccRecorderwebserver/internal/httpapi"
	"WiccRecorderwebserver/internal/service"
	"WiccRecorderwebserver/internal/store/memory"
	"WiccRecorderwebserver/internal/store/postgres"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}

	logger := newLogger(cfg)

	seriesSvc := &service.SeriesService{Logger: logger, Target: cfg.SeriesTarget}
	var dbPing func(context.Context) error

	if cfg.DBDSN != "" {
		pgPool, err := postgres.Open(context.Background(), cfg.DBDSN)
		if err != nil {
			logger.Error("db open failed", "err", err)
			os.Exit(1)
		}
		defer pgPool.Close()

		seriesSvc.Series = postgres.NewSeriesStore(pgPool)
		seriesSvc.Matches = postgres.NewMatchesStore(pgPool)
		seriesSvc.Archives = postgres.NewArchivesStore(pgPool)
		dbPing = pgPool.Ping
	} else {
		logger.Warn("no APP_DB_DSN set, series kept in memory only")
		mem := memory.New()
		seriesSvc.Series = mem
		seriesSvc.Matches = mem
		seriesSvc.Archives = mem
	}

	if err := seriesSvc.Load(context.Background()); err != nil {
		logger.Error("series load failed", "err", err)
		os.Exit(1)
	}

	summarySvc := &service.SummaryService{Logger: logger}
	if cfg.GeminiAPIKey != "" {
		summarySvc.Gen = gemini.NewClient(cfg.GeminiAPIKey, cfg.GeminiModel)
	} else {
		logger.Info("no APP_GEMINI_API_KEY set, briefings use the local fallback")
	}

	router := httpapi.NewRouter(httpapi.RouterOpts{
		Logger:       logger,
		IsProd:       cfg.IsProd(),
		DBPing:       dbPing,
		Series:       seriesSvc,
		Summary:      summarySvc,
		CookieCodec:  auth.NewCookieCodec([]byte(cfg.CookieSecret)),
		CookieSecure: cfg.CookieSecure(),
		SessionTTL:   cfg.SessionTTL,
		PasscodeHash: cfg.OperatorPasscodeHash,
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "env", cfg.Env, "addr", cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "err", err)
			os.Exit(1)
		}
	}
}

func newLogger(cfg config.Config) *slog.Logger {
	var level slog.Level
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "info", "":
		level = slog.LevelInfo
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.IsProd() {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
