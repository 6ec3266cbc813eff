package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/culturatoken/ctk-platform/internal/adapter"
	"github.com/culturatoken/ctk-platform/internal/logger"
)

// Publisher publishes ledger events to the message broker
type Publisher interface {
	// PublishEvent publishes a ledger event
	PublishEvent(ctx context.Context, event *LedgerEvent) error
	// Close closes the broker connection
	Close()
}

// PublisherConfig holds the configuration for the NATS JetStream connection
type PublisherConfig struct {
	URL            string
	StreamName     string
	MaxReconnects  int
	ReconnectWait  time.Duration
	ConnectionName string
}

type publisher struct {
	nc         adapter.NatsConn
	js         adapter.JetStream
	streamName string
	json       adapter.JSON
}

// NewPublisher creates a NATS JetStream publisher
func NewPublisher(cfg PublisherConfig, natsJS adapter.NatsJetStream, jsonAdapter adapter.JSON) (Publisher, error) {
	opts := []nats.Option{
		nats.Name(cfg.ConnectionName),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			if err != nil {
				logger.Error(err, zap.String("message", "disconnected from NATS"))
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("reconnected to NATS", zap.String("url", nc.ConnectedUrl()))
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			logger.Info("NATS connection closed")
		}),
	}

	nc, js, err := natsJS.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	return &publisher{
		nc:         nc,
		js:         js,
		streamName: cfg.StreamName,
		json:       jsonAdapter,
	}, nil
}

func (p *publisher) PublishEvent(ctx context.Context, event *LedgerEvent) error {
	logger.DebugCtx(ctx, "publishing ledger event", zap.Any("event", event))

	data, err := p.json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	// Format: ledger.{event_type}, e.g. ledger.investment.created
	subject := fmt.Sprintf("ledger.%s", event.Type)

	if _, err := p.js.Publish(ctx, subject, data); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	return nil
}

func (p *publisher) Close() {
	if p.nc != nil {
		p.nc.Close()
	}
}

// NoopPublisher discards events. Used when the broker is not configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishEvent(context.Context, *LedgerEvent) error { return nil }

func (NoopPublisher) Close() {}
