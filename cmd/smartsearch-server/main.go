// Command smartsearch-server runs the account service used for sign-up and
// login. "smartsearch-server admin ..." runs maintenance commands instead.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/smhrd/smartsearch/internal/api"
	"github.com/smhrd/smartsearch/internal/serverdb"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "admin" {
		os.Exit(runAdmin(os.Args[2:], os.Stdout, os.Stderr))
	}
	if err := serve(); err != nil {
		slog.Error("server exited", "err", err)
		os.Exit(1)
	}
}

// serve runs the HTTP server until SIGINT or SIGTERM, then drains it
func serve() error {
	cfg := api.LoadConfig()
	slog.SetDefault(slog.New(newHandler(os.Stderr, cfg.LogFormat, cfg.LogLevel)))

	store, err := serverdb.OpenWithDriver(cfg.DBDriver, cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open %s db %s: %w", cfg.DBDriver, cfg.DBPath, err)
	}
	defer store.Close()

	srv, err := api.NewServer(cfg, store)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Start(); err != nil {
		return err
	}
	slog.Info("listening", "addr", cfg.ListenAddr, "driver", store.Driver())

	<-ctx.Done()
	slog.Info("shutting down", "timeout", cfg.ShutdownTimeout)

	drainCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(drainCtx)
}

// newHandler builds the process logger. Unknown levels fall back to info.
func newHandler(w io.Writer, format, level string) slog.Handler {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: lvl}
	if strings.EqualFold(format, "text") {
		return slog.NewTextHandler(w, opts)
	}
	return slog.NewJSONHandler(w, opts)
}
