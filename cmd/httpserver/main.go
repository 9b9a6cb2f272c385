package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"moviecatalog/httpserver"
	"moviecatalog/movie"
	"moviecatalog/pkg/config"
	"moviecatalog/pkg/sentry"
	"moviecatalog/postgres"
	"moviecatalog/rating"

	sentrygo "github.com/getsentry/sentry-go"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Cannot load config", "error", err)
		os.Exit(1)
	}

	err = sentrygo.Init(sentrygo.ClientOptions{
		Dsn:              cfg.SentryDSN,
		Environment:      cfg.AppEnv,
		AttachStacktrace: true,
	})
	if err != nil {
		slog.Error("Cannot init sentry", "error", err)
		os.Exit(1)
	}
	defer sentrygo.Flush(sentry.FlushTime)

	db, err := postgres.NewConnection(postgres.Options{
		DBName:     cfg.DB.Name,
		DBUser:     cfg.DB.User,
		Password:   cfg.DB.Pass,
		Host:       cfg.DB.Host,
		Port:       fmt.Sprintf("%d", cfg.DB.Port),
		SSLMode:    cfg.DB.EnableSSL,
		LogQueries: cfg.DB.LogQueries,
	})
	if err != nil {
		slog.Error("Cannot open postgres connection", "error", err)
		os.Exit(1)
	}
	sqlDB, err := db.DB()
	if err != nil {
		slog.Error("Cannot get db instance", "error", err)
		os.Exit(1)
	}
	defer sqlDB.Close()

	server := httpserver.Default(cfg)
	server.DB = sqlDB
	server.MovieService = movie.NewUsecase(postgres.NewMovieRepository(db), cfg.Movies.MaxPageSize)
	server.RatingService = rating.NewUsecase(postgres.NewRatingRepository(db))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("server started!", "addr", server.Addr)
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server stopped with error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown failed", "error", err)
		return
	}
	slog.Info("server stopped")
}
