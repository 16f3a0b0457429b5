package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
	"ideagraph.backend/internal/domain/entities"
	"ideagraph.backend/pkg/logger"
	"ideagraph.backend/pkg/metrics"
)

type natsConn interface {
	Publish(subject string, data []byte) error
}

// NATSPublisher announces activity events on <prefix>.<type>. Delivery is
// best effort: failures are logged and counted, never returned.
type NATSPublisher struct {
	conn    natsConn
	prefix  string
	metrics *metrics.Metrics
}

// Connect dials the broker with reconnect settings suited to a long-lived publisher
func Connect(url, name string) (*nats.Conn, error) {
	return nats.Connect(url,
		nats.Name(name),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.Timeout(5*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn(context.Background(), "NATS disconnected", zap.Error(err))
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logger.Info(context.Background(), "NATS reconnected", zap.String("url", c.ConnectedUrl()))
		}),
	)
}

func NewNATSPublisher(conn natsConn, prefix string, m *metrics.Metrics) *NATSPublisher {
	return &NATSPublisher{conn: conn, prefix: prefix, metrics: m}
}

func (p *NATSPublisher) Publish(ctx context.Context, event entities.ActivityEvent) {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}
	data, err := json.Marshal(event)
	if err == nil {
		err = p.conn.Publish(p.prefix+"."+string(event.Type), data)
	}
	p.metrics.EventPublished(string(event.Type), err == nil)
	if err != nil {
		logger.Warn(ctx, "Failed to publish activity event",
			zap.String("type", string(event.Type)),
			zap.String("target", event.TargetID),
			zap.Error(err),
		)
	}
}

// NoopPublisher drops every event
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, entities.ActivityEvent) {}
