// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/danielhkuo/mealpick/cache"
	"github.com/danielhkuo/mealpick/cliparse"
	"github.com/danielhkuo/mealpick/db"
	"github.com/danielhkuo/mealpick/handlers"
	"github.com/danielhkuo/mealpick/kitchen"
	"github.com/danielhkuo/mealpick/middleware"
	"github.com/danielhkuo/mealpick/picker"
	"github.com/danielhkuo/mealpick/recipes"
	"github.com/danielhkuo/mealpick/router"
	"github.com/danielhkuo/mealpick/version"
)

// shutdownTimeout bounds how long in-flight requests get after a signal
const shutdownTimeout = 10 * time.Second

func main() {
	// A missing .env is fine; the environment may already be set
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("failed to load .env", "error", err)
	}

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	logger, err := newLogger(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		slog.Error("invalid logging config", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(logger)

	if banner, err := version.Get(cfg.DatabaseType).Banner(); err == nil {
		fmt.Fprint(os.Stderr, banner)
	}

	ctx := context.Background()

	// Connect and verify
	dbConn, err := db.Open(ctx, cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		slog.Error("database connection failed", "type", cfg.DatabaseType, "error", err)
		os.Exit(1)
	}
	defer dbConn.Close()

	// Create schema (tables)
	if err := db.CreateSchema(dbConn); err != nil {
		slog.Error("schema creation failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database schema ready", "type", cfg.DatabaseType)

	recipeCache, err := openCache(ctx, cfg.RedisURL)
	if err != nil {
		slog.Error("recipe cache unavailable", "error", err)
		os.Exit(1)
	}
	defer recipeCache.Close()

	kitchenClient := kitchen.NewClient(cfg.KitchenAPIURL, cfg.KitchenTimeout)
	board := picker.NewBoard(
		picker.WithDuration(cfg.SpinDuration),
		picker.WithIdleTTL(cfg.WheelIdleTTL),
		picker.OnSettle(handlers.SpinRecorder(dbConn, 5*time.Second)),
	)

	// Create router
	mux := router.NewRouter(dbConn, cfg, router.Services{
		Kitchen:     kitchenClient,
		Recommender: recipes.NewRecommender(kitchenClient, recipeCache, cfg.RecipeCacheTTL),
		Board:       board,
	})

	// Create server
	server := http.Server{
		Handler:           middleware.CORS(middleware.WithTimeout(cfg.RequestTimeout, mux)),
		Addr:              ":" + strconv.Itoa(cfg.Port),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ln, err := net.Listen("tcp", server.Addr)
	if err != nil {
		slog.Error("Failed to listen", "addr", server.Addr, "error", err)
		os.Exit(1)
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)

	// Start server
	slog.Info("Listening", "port", cfg.Port, "kitchen", kitchenClient.BaseURL())
	err = serve(&server, ln, ctrlc, shutdownTimeout)
	board.Close()
	if err != nil {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed")
	}
}

// serve runs srv on ln until stop fires, then gives in-flight requests up
// to timeout to finish. It returns only after they have, or after the
// remaining connections were closed at the deadline.
func serve(srv *http.Server, ln net.Listener, stop <-chan os.Signal, timeout time.Duration) error {
	drained := make(chan error, 1)
	go func() {
		sig := <-stop
		slog.Info("Shutting down", "signal", sig)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		if err != nil {
			slog.Warn("graceful shutdown incomplete", "error", err)
			srv.Close()
		}
		drained <- err
	}()

	if err := srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return <-drained
}

// newLogger builds the process logger from the configured level and format
func newLogger(w io.Writer, level, format string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}

	opts := &slog.HandlerOptions{Level: lvl}
	switch strings.ToLower(format) {
	case "", "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
}

// openCache uses Redis when a URL is configured and memory otherwise
func openCache(ctx context.Context, redisURL string) (cache.Cache, error) {
	if redisURL == "" {
		slog.Info("recipe cache in memory")
		return cache.NewMemory(), nil
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	c, err := cache.NewRedis(pingCtx, redisURL, "mealpick:")
	if err != nil {
		return nil, err
	}
	slog.Info("recipe cache in redis")
	return c, nil
}
