package kafka

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/TemirB/patterns/internal/config"
	"github.com/TemirB/patterns/internal/pkg/retry"
)

var errTopicNotReady = errors.New("topic not visible yet")

// TopicSpec describes a topic the binaries expect to exist.
type TopicSpec struct {
	Name              string
	Partitions        int
	ReplicationFactor int
}

// EnsureTopics creates the intake and priced topics when they are missing.
func EnsureTopics(ctx context.Context, cfg config.Kafka, partitions, replicationFactor int, logger *zap.Logger) error {
	for _, name := range []string{cfg.Topic, cfg.PricedTopic} {
		spec := TopicSpec{Name: name, Partitions: partitions, ReplicationFactor: replicationFactor}
		if err := EnsureTopic(ctx, cfg.Brokers, spec, logger); err != nil {
			return fmt.Errorf("ensure %s: %w", name, err)
		}
	}
	return nil
}

// EnsureTopic creates the topic through the controller if it does not exist
// and waits until its partitions show up in the metadata. Idempotent.
func EnsureTopic(ctx context.Context, brokers []string, spec TopicSpec, logger *zap.Logger) error {
	if len(brokers) == 0 {
		return fmt.Errorf("no kafka brokers configured")
	}
	if strings.TrimSpace(spec.Name) == "" {
		return fmt.Errorf("empty topic")
	}

	dialer := &kafkago.Dialer{Timeout: 10 * time.Second}
	conn, err := dialer.DialContext(ctx, "tcp", brokers[0])
	if err != nil {
		return fmt.Errorf("dial broker: %w", err)
	}
	defer conn.Close()

	if parts, err := conn.ReadPartitions(spec.Name); err == nil && len(parts) > 0 {
		logger.Info("kafka topic exists", zap.String("topic", spec.Name), zap.Int("partitions", len(parts)))
		return nil
	}

	if err := createOnController(ctx, dialer, conn, spec, logger); err != nil {
		return err
	}

	wait := config.Retry{Attempts: 20, Base: 500 * time.Millisecond, Max: 500 * time.Millisecond}
	err = retry.Do(ctx, wait, func() error {
		parts, err := conn.ReadPartitions(spec.Name)
		if err != nil || len(parts) < spec.Partitions {
			return errTopicNotReady
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("topic %s: %w", spec.Name, err)
	}
	logger.Info("kafka topic is ready", zap.String("topic", spec.Name))
	return nil
}

func createOnController(ctx context.Context, dialer *kafkago.Dialer, conn *kafkago.Conn, spec TopicSpec, logger *zap.Logger) error {
	controller, err := conn.Controller()
	if err != nil {
		return fmt.Errorf("get controller: %w", err)
	}
	addr := net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port))

	ctrl, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("dial controller %s: %w", addr, err)
	}
	defer ctrl.Close()

	logger.Info("creating kafka topic",
		zap.String("topic", spec.Name),
		zap.Int("partitions", spec.Partitions),
		zap.Int("replication", spec.ReplicationFactor),
	)
	err = ctrl.CreateTopics(kafkago.TopicConfig{
		Topic:             spec.Name,
		NumPartitions:     spec.Partitions,
		ReplicationFactor: spec.ReplicationFactor,
	})
	if err != nil && !errors.Is(err, kafkago.TopicAlreadyExists) {
		return fmt.Errorf("create topic: %w", err)
	}
	return nil
}
