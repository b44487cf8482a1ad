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

	"github.com/spf13/pflag"

	"github.com/nhle/quicktasks/internal/httpapi"
	"github.com/nhle/quicktasks/internal/logging"
	"github.com/nhle/quicktasks/internal/model"
	"github.com/nhle/quicktasks/internal/store"
	"github.com/nhle/quicktasks/internal/task"
)

func main() {
	fs := pflag.NewFlagSet("quicktasksd", pflag.ExitOnError)
	configPath := fs.StringP("config", "c", model.DefaultConfigPath(), "path to the YAML config file")
	addr := fs.String("addr", "", "listen address, overrides server.addr")
	writeConfig := fs.Bool("write-config", false, "write the effective config to --config and exit")
	_ = fs.Parse(os.Args[1:])

	cfg, err := model.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "quicktasksd: %v\n", err)
		os.Exit(1)
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}

	if *writeConfig {
		if err := model.SaveConfig(*configPath, cfg); err != nil {
			fmt.Fprintf(os.Stderr, "quicktasksd: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(*configPath)
		return
	}

	logger := logging.New(cfg.Log, os.Stderr)
	if err := run(cfg, logger); err != nil {
		logger.Error("exiting", "err", err)
		os.Exit(1)
	}
}

func run(cfg *model.AppConfig, logger *slog.Logger) error {
	// Root context cancelled on SIGINT/SIGTERM.
	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	openCtx, cancel := context.WithTimeout(rootCtx, 10*time.Second)
	st, err := store.Open(openCtx, cfg.Database)
	cancel()
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer st.Close()
	logger.Info("store ready", "driver", st.Dialect())

	handler := httpapi.NewServer(task.NewService(st), httpapi.Options{
		Logger:         logger,
		Pinger:         st,
		RequestTimeout: cfg.Server.RequestTimeout,
	})

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           handler,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelWarn),
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("serving: %w", err)
		}
		return nil
	case <-rootCtx.Done():
		logger.Info("shutdown signal received")
	}

	// Stop accepting new requests; wait for in-flight ones.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	logger.Info("bye")
	return nil
}
