package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/TemirB/patterns/internal/bootstrap"
	"github.com/TemirB/patterns/internal/config"
	"github.com/TemirB/patterns/internal/database"
	"github.com/TemirB/patterns/internal/domain"
	"github.com/TemirB/patterns/internal/httpapi"
	"github.com/TemirB/patterns/internal/observability"
)

func main() {
	cfg := config.Load()

	logger, err := bootstrap.NewLogger(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store := database.NewMemory(
		domain.NewUser(123, "Ivan"),
		domain.NewUser(124, "Maria"),
	)
	server := httpapi.New(store, logger, observability.NewInmem(1000))

	logger.Info("user api listening", zap.String("addr", cfg.HTTPAddr))
	if err := server.ListenAndServe(ctx, cfg.HTTPAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("listen", zap.Error(err))
	}
	logger.Info("user api stopped")
}
