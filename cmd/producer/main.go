package main

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"net/http"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/TemirB/patterns/internal/application/handler"
	"github.com/TemirB/patterns/internal/bootstrap"
	"github.com/TemirB/patterns/internal/config"
	"github.com/TemirB/patterns/internal/domain"
	"github.com/TemirB/patterns/internal/kafka"
)

type publisher interface {
	Publish(ctx context.Context, key string, value []byte) error
}

// Spammer publishes random orders at a fixed rate until stopped.
type Spammer struct {
	publisher publisher
	logger    *zap.Logger

	mu        sync.Mutex
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	isRunning atomic.Bool
	totalSent atomic.Int64
	nextID    atomic.Int64
}

type SpamRequest struct {
	Rate     int    `json:"rate"`
	Duration string `json:"duration"`
}

func NewSpammer(p publisher, logger *zap.Logger) *Spammer {
	return &Spammer{publisher: p, logger: logger}
}

func (s *Spammer) Start(rate int, duration time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isRunning.Load() {
		return false
	}
	s.isRunning.Store(true)
	s.totalSent.Store(0)

	ctx, cancel := context.WithTimeout(context.Background(), duration)
	s.cancel = cancel

	s.logger.Info("starting spam", zap.Int("rate", rate), zap.Duration("duration", duration))
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer s.isRunning.Store(false)
		defer cancel()

		ticker := time.NewTicker(time.Second / time.Duration(rate))
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				payload, err := json.Marshal(s.randomOrder())
				if err != nil {
					s.logger.Error("marshal order", zap.Error(err))
					continue
				}
				// empty key: the producer assigns a uuid
				if err := s.publisher.Publish(ctx, "", payload); err != nil {
					s.logger.Warn("publish order", zap.Error(err))
					continue
				}
				s.totalSent.Add(1)
			case <-ctx.Done():
				s.logger.Info("spam finished", zap.Int64("total_sent", s.totalSent.Load()))
				return
			}
		}
	}()
	return true
}

func (s *Spammer) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	s.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	s.wg.Wait()
}

func (s *Spammer) randomOrder() handler.OrderMessage {
	userTypes := []domain.UserType{domain.UserRegular, domain.UserCorporate}
	deliveries := []domain.DeliveryType{domain.DeliveryDHL, domain.DeliveryPickup}
	id := s.nextID.Add(1)

	return handler.OrderMessage{
		ID: id,
		Customer: domain.Customer{
			ID:   int64(rand.Intn(1000) + 1),
			Name: "Test User",
			Type: userTypes[rand.Intn(len(userTypes))],
		},
		Delivery: string(deliveries[rand.Intn(len(deliveries))]),
		Price:    int64(rand.Intn(10000) + 100),
		Manager:  domain.Manager{ID: int64(rand.Intn(10) + 1), Name: "Manager"},
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func main() {
	cfg := config.Load()
	if err := cfg.ValidateKafka(); err != nil {
		panic(err)
	}

	logger, err := bootstrap.NewLogger(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	producer := kafka.NewProducer(kafka.NewWriter(cfg.Kafka.Brokers, cfg.Kafka.Topic), cfg.Kafka.Topic, logger)
	defer func() { _ = producer.Close() }()

	spammer := NewSpammer(producer, logger)
	defer spammer.Stop()

	r := chi.NewRouter()
	r.Post("/start", func(w http.ResponseWriter, r *http.Request) {
		var req SpamRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		if req.Rate <= 0 {
			req.Rate = 10
		}
		duration, err := time.ParseDuration(req.Duration)
		if err != nil || duration <= 0 {
			http.Error(w, "Invalid duration", http.StatusBadRequest)
			return
		}
		if !spammer.Start(req.Rate, duration) {
			http.Error(w, "already running", http.StatusConflict)
			return
		}
		writeJSON(w, map[string]any{"status": "started", "rate": req.Rate, "duration": duration.String()})
	})
	r.Post("/stop", func(w http.ResponseWriter, _ *http.Request) {
		spammer.Stop()
		writeJSON(w, map[string]any{"status": "stopped", "total_sent": spammer.totalSent.Load()})
	})
	r.Get("/stats", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, map[string]any{"is_running": spammer.isRunning.Load(), "total_sent": spammer.totalSent.Load()})
	})

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: r, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("producer listening", zap.String("addr", cfg.HTTPAddr), zap.String("topic", cfg.Kafka.Topic))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("listen", zap.Error(err))
	}
}
