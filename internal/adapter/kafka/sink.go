// Package kafka publishes decision events to a Kafka topic.
package kafka

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/heartmarshall/accountlinking/internal/config"
	"github.com/heartmarshall/accountlinking/internal/domain"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Sink writes every decision event as a JSON message keyed by the user it
// concerns, so events of one user keep their order within a partition.
// Writes are asynchronous; delivery failures are logged and dropped.
type Sink struct {
	writer messageWriter
	log    *slog.Logger
}

// NewSink creates a Sink for cfg. It returns nil when no broker is configured.
func NewSink(cfg config.KafkaConfig, logger *slog.Logger) *Sink {
	brokers := cfg.Brokers()
	if len(brokers) == 0 || cfg.Topic == "" {
		return nil
	}

	log := logger.With("component", "kafka_sink")
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 50 * time.Millisecond,
		Async:        true,
		Completion: func(msgs []kafka.Message, err error) {
			if err != nil {
				log.Error("deliver decision events",
					slog.Int("count", len(msgs)),
					slog.String("error", err.Error()))
			}
		},
	}
	return newSink(writer, log)
}

func newSink(w messageWriter, logger *slog.Logger) *Sink {
	return &Sink{writer: w, log: logger}
}

// Emit enqueues ev. It never blocks on the broker.
func (s *Sink) Emit(ctx context.Context, ev domain.DecisionEvent) {
	payload, err := json.Marshal(ev)
	if err != nil {
		s.log.ErrorContext(ctx, "marshal decision event", slog.String("error", err.Error()))
		return
	}

	key := ev.PrimaryUserID
	if key == "" {
		key = ev.RecipeUserID
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: payload,
		Time:  ev.At,
		Headers: []kafka.Header{
			{Key: "point", Value: []byte(ev.Point)},
		},
	}
	if err := s.writer.WriteMessages(context.WithoutCancel(ctx), msg); err != nil {
		s.log.WarnContext(ctx, "enqueue decision event",
			slog.String("point", ev.Point.String()),
			slog.String("error", err.Error()))
	}
}

// Close flushes pending messages and closes the writer.
func (s *Sink) Close() error {
	return s.writer.Close()
}
