// Package events provides decision-event sinks for the linking engine.
package events

import (
	"context"
	"log/slog"

	"github.com/heartmarshall/accountlinking/internal/domain"
)

// Sink receives decision events.
type Sink interface {
	Emit(ctx context.Context, ev domain.DecisionEvent)
}

// Multi fans every event out to all sinks, in order.
type Multi []Sink

func (m Multi) Emit(ctx context.Context, ev domain.DecisionEvent) {
	for _, s := range m {
		if s != nil {
			s.Emit(ctx, ev)
		}
	}
}

// Nop discards events.
type Nop struct{}

func (Nop) Emit(context.Context, domain.DecisionEvent) {}

// LogSink writes events to a structured logger at debug level.
type LogSink struct {
	log *slog.Logger
}

// NewLogSink creates a LogSink.
func NewLogSink(logger *slog.Logger) *LogSink {
	return &LogSink{log: logger.With("component", "decision_events")}
}

func (s *LogSink) Emit(ctx context.Context, ev domain.DecisionEvent) {
	s.log.DebugContext(ctx, "decision point",
		slog.String("point", ev.Point.String()),
		slog.String("recipe_user_id", ev.RecipeUserID),
		slog.String("primary_user_id", ev.PrimaryUserID))
}
