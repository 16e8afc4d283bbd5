// Package telemetry assembles the per-cycle record and delivers it over the
// broker session. Delivery is fire-and-forget per cycle: a missed publish is
// logged and the next cycle tries again with fresh data.
package telemetry

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"

	"meteonode/internal/config"
)

// Session is the broker session used to deliver telemetry.
// meteonode/internal/mqtt.Client implements it.
type Session interface {
	Connect(ctx context.Context) error
	Publish(topic string, payload []byte) error
	IsConnected() bool
}

// Publisher serializes records and publishes them to the deployment's fixed
// topic.
type Publisher struct {
	session Session
	topic   string
	logger  *logrus.Logger
}

// NewPublisher creates a publisher over an existing session.
func NewPublisher(session Session, cfg *config.Config, logger *logrus.Logger) *Publisher {
	return &Publisher{
		session: session,
		topic:   cfg.Topic(),
		logger:  logger,
	}
}

// EnsureConnected runs the session's bounded connect sequence if the session
// is down and reports whether it is usable afterwards. Exhausted retries are
// logged, not fatal; the orchestrator calls this again next cycle.
func (p *Publisher) EnsureConnected(ctx context.Context) bool {
	if p.session.IsConnected() {
		return true
	}
	if err := p.session.Connect(ctx); err != nil {
		p.logger.WithError(err).Warn("Telemetry session unavailable")
		return false
	}
	return true
}

// IsConnected reports whether the underlying session is healthy.
func (p *Publisher) IsConnected() bool {
	return p.session.IsConnected()
}

// Publish serializes the record and sends it to the telemetry topic. It is
// a no-op returning an error while the session is down; the reading is
// dropped, never queued.
func (p *Publisher) Publish(rec Record) error {
	if !p.session.IsConnected() {
		return fmt.Errorf("session not connected, dropping reading")
	}

	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal telemetry record: %w", err)
	}

	if err := p.session.Publish(p.topic, payload); err != nil {
		return err
	}

	p.logger.WithFields(logrus.Fields{
		"topic": p.topic,
		"size":  len(payload),
	}).Debug("Telemetry record published")
	return nil
}

// Topic returns the fixed topic this publisher delivers to.
func (p *Publisher) Topic() string { return p.topic }
