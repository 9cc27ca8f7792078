package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/TemirB/patterns/internal/application/lookup"
	"github.com/TemirB/patterns/internal/bootstrap"
	"github.com/TemirB/patterns/internal/config"
	"github.com/TemirB/patterns/internal/database"
	"github.com/TemirB/patterns/internal/domain"
	"github.com/TemirB/patterns/internal/httpapi"
)

const demoUserID = 123

func main() {
	cfg := config.Load()

	logger, err := bootstrap.NewLogger(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.UserAPI.BaseURL == "" && slices.Contains(cfg.LookupChain, config.SourceAPI) {
		url, err := serveStubAPI(ctx, logger.Named("userapi"))
		if err != nil {
			logger.Fatal("Failed to start user api stub", zap.Error(err))
		}
		cfg.UserAPI.BaseURL = url
	}

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("Demo failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, logger *zap.Logger) error {
	chain, closeChain, err := bootstrap.Chain(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("build lookup chain: %w", err)
	}
	defer closeChain()

	resolver := lookup.NewResolver(chain, logger, nil)
	user, err := resolver.Resolve(ctx, demoUserID)
	if err != nil {
		return fmt.Errorf("resolve user %d: %w", demoUserID, err)
	}
	fmt.Println(user)

	engine, err := bootstrap.Engine(cfg, logger, nil)
	if err != nil {
		return fmt.Errorf("build pricing engine: %w", err)
	}
	order, err := domain.NewOrder(1,
		domain.Customer{ID: demoUserID, Name: user.Name(), Type: domain.UserCorporate},
		domain.DeliveryPickup,
		2000,
		domain.Manager{ID: 1, Name: "Anna"},
	)
	if err != nil {
		return err
	}
	out, err := engine.Apply(order)
	if err != nil {
		return fmt.Errorf("price order: %w", err)
	}
	fmt.Printf("%d -> %d\n", out.OldPrice, out.NewPrice)
	return nil
}

// serveStubAPI starts the user service on a loopback port, seeded with the
// demo user, and returns its base url.
func serveStubAPI(ctx context.Context, logger *zap.Logger) (string, error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", err
	}

	store := database.NewMemory(domain.NewUser(demoUserID, "Ivan"))
	srv := &http.Server{
		Handler:           httpapi.New(store, logger, nil).Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("user api stub stopped", zap.Error(err))
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	return "http://" + ln.Addr().String(), nil
}
