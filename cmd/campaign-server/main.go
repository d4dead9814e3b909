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

	"go.uber.org/zap"

	"github.com/I-PingLin/Nano-Banana-Pro---AI-Marketing-Suite/internal/ai"
	"github.com/I-PingLin/Nano-Banana-Pro---AI-Marketing-Suite/internal/config"
	"github.com/I-PingLin/Nano-Banana-Pro---AI-Marketing-Suite/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger, err := newLogger(cfg.DebugMode)
	if err != nil {
		panic(err)
	}
	sugar := logger.Sugar()
	defer func() {
		_ = logger.Sync()
	}()

	for _, w := range cfg.Warnings() {
		sugar.Warn(w)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gen, err := ai.New(ctx, cfg, sugar)
	if err != nil {
		sugar.Fatalw("failed to create generation client", "provider", cfg.Provider, "error", err)
	}

	s := server.NewServer(cfg, gen, sugar)
	go s.RunSweeper(ctx, time.Minute)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		sugar.Infow("campaign server listening", "addr", srv.Addr, "provider", cfg.Provider)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			sugar.Fatalw("server error", "error", err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeoutCause(context.Background(), 10*time.Second, errors.New("shutdown timeout"))
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		sugar.Warnw("graceful shutdown error", "error", err)
		_ = srv.Close()
	}
	sugar.Info("server stopped")
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
