package mqtt

import (
	"context"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/sirupsen/logrus"

	"meteonode/internal/config"
	"meteonode/internal/netutil"
)

// Client wraps the paho MQTT client with the node's session policy: bounded
// connect retries and publishes that never block indefinitely. Automatic
// reconnection is off; the orchestrator re-runs the bounded connect sequence
// every cycle while the session is down.
type Client struct {
	client      mqtt.Client
	maxAttempts int
	retryDelay  time.Duration
	logger      *logrus.Logger
	wait        func(time.Duration)
	attempt     func() error
}

// NewClient creates a new MQTT client for the configured broker. The session
// is not established here; call Connect.
func NewClient(cfg *config.Config, logger *logrus.Logger) *Client {
	broker := fmt.Sprintf("ssl://%s:%d", cfg.BrokerHost, cfg.BrokerPort)
	clientID := fmt.Sprintf("meteonode-%s", cfg.DeviceID)

	opts := mqtt.NewClientOptions()
	opts.AddBroker(broker)
	opts.SetClientID(clientID)
	opts.SetUsername(cfg.AccountID)
	opts.SetPassword(cfg.DevicePassword)
	opts.SetCleanSession(true)
	opts.SetAutoReconnect(false)
	opts.SetConnectRetry(false)
	opts.SetKeepAlive(60 * time.Second)
	opts.SetPingTimeout(1 * time.Second)
	opts.SetConnectTimeout(config.MQTTConnectTimeout)
	opts.SetTLSConfig(netutil.InsecureTLSConfig(logger))

	opts.SetConnectionLostHandler(func(client mqtt.Client, err error) {
		logger.WithError(err).Warn("MQTT connection lost")
	})
	opts.SetOnConnectHandler(func(client mqtt.Client) {
		logger.WithFields(logrus.Fields{
			"broker":    broker,
			"client_id": clientID,
		}).Info("MQTT connected")
	})

	c := &Client{
		client:      mqtt.NewClient(opts),
		maxAttempts: cfg.MQTTMaxAttempts,
		retryDelay:  cfg.MQTTRetryDelay,
		logger:      logger,
		wait:        time.Sleep,
	}
	c.attempt = c.connectOnce
	return c
}

// connectOnce runs a single session attempt against the broker.
func (c *Client) connectOnce() error {
	token := c.client.Connect()
	if !token.WaitTimeout(config.MQTTConnectTimeout + time.Second) {
		return fmt.Errorf("connect timed out after %s", config.MQTTConnectTimeout)
	}
	return token.Error()
}

// Connect attempts session establishment up to maxAttempts times, sleeping
// retryDelay between attempts. It returns an error only after exhausting the
// budget; the caller decides when the whole sequence runs again.
func (c *Client) Connect(ctx context.Context) error {
	var lastErr error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		lastErr = c.attempt()
		if lastErr == nil {
			return nil
		}

		c.logger.WithError(lastErr).WithFields(logrus.Fields{
			"attempt":      attempt,
			"max_attempts": c.maxAttempts,
		}).Warn("MQTT connection attempt failed")

		if attempt < c.maxAttempts {
			c.wait(c.retryDelay)
		}
	}
	return fmt.Errorf("broker unreachable after %d attempts: %w", c.maxAttempts, lastErr)
}

// Publish sends a message to the given topic with at-least-once delivery.
// It waits for the acknowledgment with a timeout instead of indefinitely.
func (c *Client) Publish(topic string, payload []byte) error {
	token := c.client.Publish(topic, 1, false, payload)

	if !token.WaitTimeout(config.MQTTPublishTimeout) {
		return fmt.Errorf("publish to topic %s timed out after %s", topic, config.MQTTPublishTimeout)
	}
	if token.Error() != nil {
		return fmt.Errorf("failed to publish to topic %s: %w", topic, token.Error())
	}

	c.logger.WithFields(logrus.Fields{
		"topic": topic,
		"size":  len(payload),
	}).Debug("Published MQTT message")
	return nil
}

// IsConnected returns true if the session is currently healthy.
func (c *Client) IsConnected() bool {
	return c.client.IsConnected()
}

// Disconnect closes the session, allowing quiesce milliseconds for in-flight
// work to finish.
func (c *Client) Disconnect(quiesce uint) {
	c.client.Disconnect(quiesce)
	c.logger.Debug("MQTT client disconnected")
}
