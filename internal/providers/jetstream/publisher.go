package jetstream

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/reef-chain/explorer-backtracker/internal/adapter"
	"github.com/reef-chain/explorer-backtracker/internal/backtracking"
	"github.com/reef-chain/explorer-backtracker/internal/logger"
)

// Config holds the configuration for NATS JetStream connection
type Config struct {
	URL            string
	SubjectPrefix  string
	Network        string
	MaxReconnects  int
	ReconnectWait  time.Duration
	ConnectionName string
}

// ContractBacktracked is the message published once a contract's history is decoded
type ContractBacktracked struct {
	EventID   string             `json:"event_id"`
	Network   string             `json:"network"`
	Contract  string             `json:"contract"`
	Stats     backtracking.Stats `json:"stats"`
	Timestamp time.Time          `json:"timestamp"`
}

// Publisher is a backtracking.Notifier backed by NATS JetStream
type Publisher struct {
	nc      adapter.NatsConn
	js      adapter.JetStream
	prefix  string
	network string
	clock   adapter.Clock
}

// NewPublisher creates a new NATS JetStream publisher
func NewPublisher(cfg Config, natsJS adapter.NatsJetStream, clock adapter.Clock) (*Publisher, error) {
	opts := []nats.Option{
		nats.Name(cfg.ConnectionName),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			if err != nil {
				logger.Error(err, zap.String("message", "Disconnected from NATS"))
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("Reconnected to NATS", zap.String("url", nc.ConnectedUrl()))
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			logger.Info("NATS connection closed")
		}),
	}

	nc, js, err := natsJS.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS and create JetStream: %w", err)
	}

	prefix := cfg.SubjectPrefix
	if prefix == "" {
		prefix = "backtracking"
	}

	return &Publisher{
		nc:      nc,
		js:      js,
		prefix:  prefix,
		network: cfg.Network,
		clock:   clock,
	}, nil
}

// ContractBacktracked publishes the completion of a contract.
// The message id deduplicates redeliveries within the stream's duplicate window.
func (p *Publisher) ContractBacktracked(ctx context.Context, contract string, stats backtracking.Stats) error {
	now := p.clock.Now()
	msg := ContractBacktracked{
		EventID:   ulid.MustNewDefault(now).String(),
		Network:   p.network,
		Contract:  contract,
		Stats:     stats,
		Timestamp: now.UTC(),
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	subject := p.subject(contract)
	logger.DebugCtx(ctx, "Publishing backtracking completion", zap.String("subject", subject), zap.String("event_id", msg.EventID))

	if _, err := p.js.Publish(ctx, subject, data, jetstream.WithMsgID(msg.EventID)); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	return nil
}

// subject builds {prefix}.completed.{contract}
func (p *Publisher) subject(contract string) string {
	return fmt.Sprintf("%s.completed.%s", p.prefix, contract)
}

// Close closes the NATS connection
func (p *Publisher) Close() {
	if p.nc == nil {
		return
	}

	p.nc.Close()
}
