package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/TemirB/patterns/internal/application/handler"
	"github.com/TemirB/patterns/internal/bootstrap"
	"github.com/TemirB/patterns/internal/config"
	"github.com/TemirB/patterns/internal/kafka"
	"github.com/TemirB/patterns/internal/observability"
	"github.com/TemirB/patterns/internal/pkg/circuit"
)

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

	topicCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	err = kafka.EnsureTopics(topicCtx, cfg.Kafka, 3, 1, logger)
	cancel()
	if err != nil {
		logger.Fatal("kafka topics", zap.Error(err))
	}

	metrics := observability.NewInmem(1000)
	engine, err := bootstrap.Engine(cfg, logger, metrics)
	if err != nil {
		logger.Fatal("pricing engine", zap.Error(err))
	}
	logger.Info("pricing rules", zap.Strings("rules", engine.RuleNames()))

	producer := kafka.NewProducer(kafka.NewWriter(cfg.Kafka.Brokers, cfg.Kafka.PricedTopic), cfg.Kafka.PricedTopic, logger)
	defer func() { _ = producer.Close() }()

	reader := kafka.NewReader(cfg.Kafka)
	defer func() { _ = reader.Close() }()

	h := handler.NewHandler(engine, producer, circuit.FromConfig(cfg.Breaker), cfg.Retry, logger, metrics)
	kafka.NewConsumer(h, reader, cfg.Kafka.Workers, logger).Start(ctx)
	logger.Info("pricer stopped")
}
