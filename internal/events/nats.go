package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"

	"git.home.luguber.info/inful/appforge/internal/config"
)

// NATSEmitter publishes task lifecycle events as JSON messages on
// <subject>.started, <subject>.completed, and <subject>.failed.
type NATSEmitter struct {
	conn    *nats.Conn
	subject string
}

// NewNATSEmitter connects to NATS using the events configuration.
func NewNATSEmitter(cfg config.EventsConfig) (*NATSEmitter, error) {
	if !cfg.Enabled {
		return nil, fmt.Errorf("event publishing is disabled")
	}

	conn, err := nats.Connect(cfg.URL, nats.Name("appforge"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	slog.Info("NATS emitter initialized",
		slog.String("url", cfg.URL),
		slog.String("subject", cfg.Subject))

	return &NATSEmitter{conn: conn, subject: cfg.Subject}, nil
}

func (e *NATSEmitter) EmitTaskStarted(ctx context.Context, ev TaskStarted) error {
	return e.publish("started", ev)
}

func (e *NATSEmitter) EmitTaskCompleted(ctx context.Context, ev TaskCompleted) error {
	return e.publish("completed", ev)
}

func (e *NATSEmitter) EmitTaskFailed(ctx context.Context, ev TaskFailed) error {
	return e.publish("failed", ev)
}

// Close drains the connection so queued events flush before shutdown.
func (e *NATSEmitter) Close() {
	if e.conn != nil {
		_ = e.conn.Drain()
	}
}

func (e *NATSEmitter) publish(kind string, ev any) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to encode %s event: %w", kind, err)
	}
	return e.conn.Publish(e.subject+"."+kind, data)
}
