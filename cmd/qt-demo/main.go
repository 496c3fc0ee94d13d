// Command qt-demo serves an offline stand-in for the Quebra-Tigela REST
// backend: demo accounts, JWT login and the schedule endpoints backed by the
// in-memory mock store.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/example/quebra-tigela/internal/config"
	"github.com/example/quebra-tigela/internal/demo"
	httptransport "github.com/example/quebra-tigela/internal/http"
	"github.com/example/quebra-tigela/internal/logging"
	"github.com/example/quebra-tigela/internal/schedule/mockstore"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	cfg, err := config.LoadDemo()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger := logging.NewJSON(os.Stdout, logging.ParseLevel(cfg.LogLevel))

	directory := demo.NewDirectory(
		demo.WithPasswordParams(demo.FastArgon2idParams),
		demo.WithLogger(logger),
	)
	if err := demo.SeedAccounts(ctx, directory, cfg.ArtistID); err != nil {
		logger.Error("failed to seed demo accounts", "error", err)
		os.Exit(1)
	}

	issuer, err := demo.NewIssuer(cfg.JWTSecret, cfg.TokenTTL, time.Now)
	if err != nil {
		logger.Error("failed to configure token issuer", "error", err)
		os.Exit(1)
	}

	store := mockstore.New(
		mockstore.WithArtistID(cfg.ArtistID),
		mockstore.WithoutLatency(),
		mockstore.WithLogger(logger),
	)

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Auth:       httptransport.NewAuthHandler(directory, issuer, logger),
		Users:      httptransport.NewUserHandler(directory, logger),
		Schedules:  httptransport.NewScheduleHandler(store, time.Now, logger),
		Session:    httptransport.RequireSession(issuer, logger),
		Middleware: []func(http.Handler) http.Handler{httptransport.RequestLogger(logger)},
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           otelhttp.NewHandler(router, "qt-demo"),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to shutdown server", "error", err)
		}
	}()

	logger.Info("demo backend listening",
		"addr", server.Addr,
		"entries", store.Len(),
		"artist_email", demo.SeedArtistEmail,
		"client_email", demo.SeedClientEmail,
	)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server encountered error", "error", err)
		os.Exit(1)
	}
}
