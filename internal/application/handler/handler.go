package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/TemirB/patterns/internal/application/pricing"
	"github.com/TemirB/patterns/internal/config"
	"github.com/TemirB/patterns/internal/domain"
	"github.com/TemirB/patterns/internal/kafka"
	"github.com/TemirB/patterns/internal/observability"
	"github.com/TemirB/patterns/internal/pkg/retry"
)

//go:generate mockgen -source internal/application/handler/handler.go -destination=internal/application/handler/handler_mock_test.go -package=handler

var (
	ErrBadJSON      = errors.New("bad json")
	ErrInvalidOrder = errors.New("invalid order")
	ErrPricing      = errors.New("pricing failed")
	ErrPublish      = errors.New("publish failed")
	ErrCircuitOpen  = errors.New("circuit breaker open")
)

type Pricer interface {
	Apply(o *domain.Order) (pricing.Outcome, error)
}

type Publisher interface {
	Publish(ctx context.Context, key string, value []byte) error
}

type brk interface {
	Allow() error
	Success()
	Failure()
}

// OrderMessage is the payload read from the intake topic.
type OrderMessage struct {
	ID       int64           `json:"id"`
	Customer domain.Customer `json:"customer"`
	Delivery string          `json:"delivery"`
	Price    int64           `json:"price"`
	Manager  domain.Manager  `json:"manager"`
}

// PricedOrder is the payload written to the priced topic.
type PricedOrder struct {
	ID       int64           `json:"id"`
	Customer domain.Customer `json:"customer"`
	Delivery string          `json:"delivery"`
	Price    int64           `json:"price"`
	OldPrice int64           `json:"old_price"`
	Rule     string          `json:"rule,omitempty"`
	Manager  domain.Manager  `json:"manager"`
}

type Handler struct {
	pricer      Pricer
	publisher   Publisher
	breaker     brk
	logger      *zap.Logger
	metrics     observability.Metrics
	retryPolicy config.Retry
}

func NewHandler(pricer Pricer, publisher Publisher, brk brk, retryPolicy config.Retry, logger *zap.Logger, metrics observability.Metrics) *Handler {
	if metrics == nil {
		metrics = observability.NewNoop()
	}
	return &Handler{
		pricer:      pricer,
		publisher:   publisher,
		breaker:     brk,
		logger:      logger,
		metrics:     metrics,
		retryPolicy: retryPolicy,
	}
}

// Handle prices a single order message and publishes the result. Malformed
// and unpriceable orders wrap kafka.ErrDrop so the consumer commits past them.
// Publish failures and an open breaker do not; the consumer hands the same
// message back until it goes through.
func (h *Handler) Handle(ctx context.Context, message kafkago.Message) (err error) {
	start := time.Now()
	defer func() {
		h.metrics.ObserveKafka(float64(time.Since(start).Microseconds())/1000.0, err == nil)
	}()

	var msg OrderMessage
	if err := json.Unmarshal(message.Value, &msg); err != nil {
		h.logger.Error("bad json format",
			zap.Error(err),
			zap.Int("partition", message.Partition),
			zap.Int64("offset", message.Offset),
		)
		return fmt.Errorf("%w: %w", ErrBadJSON, kafka.ErrDrop)
	}

	order, err := domain.NewOrder(msg.ID, msg.Customer, domain.DeliveryType(msg.Delivery), msg.Price, msg.Manager)
	if err != nil {
		h.logger.Error("invalid order",
			zap.Int64("order_id", msg.ID),
			zap.Error(err),
			zap.Int64("offset", message.Offset),
		)
		return fmt.Errorf("%w: %v: %w", ErrInvalidOrder, err, kafka.ErrDrop)
	}

	outcome, err := h.pricer.Apply(order)
	if err != nil {
		h.logger.Error("pricing failed", zap.Int64("order_id", msg.ID), zap.Error(err))
		return fmt.Errorf("%w: %v: %w", ErrPricing, err, kafka.ErrDrop)
	}

	payload, err := json.Marshal(PricedOrder{
		ID:       order.ID(),
		Customer: order.Customer(),
		Delivery: string(order.Delivery()),
		Price:    order.Price(),
		OldPrice: outcome.OldPrice,
		Rule:     outcome.Rule,
		Manager:  order.Manager(),
	})
	if err != nil {
		return fmt.Errorf("%w: %v: %w", ErrPricing, err, kafka.ErrDrop)
	}

	// the breaker guards the publisher only, so bad input never holds a
	// half-open trial
	if err := h.breaker.Allow(); err != nil {
		h.logger.Warn("circuit breaker is open",
			zap.Error(err),
			zap.Int("partition", message.Partition),
			zap.Int64("offset", message.Offset),
		)
		return fmt.Errorf("%w: %v", ErrCircuitOpen, err)
	}

	key := strconv.FormatInt(order.ID(), 10)
	if err := retry.Do(ctx, h.retryPolicy, func() error {
		return h.publisher.Publish(ctx, key, payload)
	}); err != nil {
		h.logger.Error("publish failed after retries",
			zap.Int64("order_id", msg.ID),
			zap.Error(err),
			zap.Int("partition", message.Partition),
			zap.Int64("offset", message.Offset),
		)
		h.breaker.Failure()
		return fmt.Errorf("%w: %v", ErrPublish, err)
	}

	h.breaker.Success()
	h.logger.Info("order priced",
		zap.Int64("order_id", msg.ID),
		zap.String("rule", outcome.Rule),
		zap.Int64("old_price", outcome.OldPrice),
		zap.Int64("new_price", outcome.NewPrice),
		zap.Int("partition", message.Partition),
		zap.Int64("offset", message.Offset),
	)
	return nil
}
