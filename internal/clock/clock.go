// Package clock provides the wall-clock time source for telemetry
// timestamps: a single bounded SNTP synchronization at startup plus
// ISO-8601 rendering under a configurable timezone rule. A node that never
// managed to synchronize keeps running and reports null timestamps.
package clock

import (
	"context"
	"time"

	"github.com/beevik/ntp"
	"github.com/sirupsen/logrus"

	"meteonode/internal/config"
)

// Clock renders the current instant using an offset obtained from an SNTP
// server. It is owned and mutated by the single control goroutine only.
type Clock struct {
	rule   *TZRule
	server string
	logger *logrus.Logger

	synced bool
	offset time.Duration

	// seams for tests
	query func(server string) (time.Duration, error)
	now   func() time.Time
}

// New creates a Clock from the configured timezone rule and SNTP server.
func New(cfg *config.Config, logger *logrus.Logger) (*Clock, error) {
	rule, err := ParseTZRule(cfg.TZRule)
	if err != nil {
		return nil, err
	}
	timeout := cfg.NTPTimeout
	return &Clock{
		rule:   rule,
		server: cfg.NTPServer,
		logger: logger,
		query: func(server string) (time.Duration, error) {
			resp, err := ntp.QueryWithOptions(server, ntp.QueryOptions{Timeout: timeout})
			if err != nil {
				return 0, err
			}
			if err := resp.Validate(); err != nil {
				return 0, err
			}
			return resp.ClockOffset, nil
		},
		now: time.Now,
	}, nil
}

// Synchronize performs one bounded SNTP query and stores the resulting
// clock offset. Failure is logged and non-fatal: Now degrades to nil until
// a later Synchronize succeeds. Called once at startup.
func (c *Clock) Synchronize(ctx context.Context) bool {
	if ctx.Err() != nil {
		return c.synced
	}
	offset, err := c.query(c.server)
	if err != nil {
		c.logger.WithError(err).WithField("server", c.server).Warn("Time synchronization failed")
		return false
	}
	c.offset = offset
	c.synced = true
	c.logger.WithFields(logrus.Fields{
		"server": c.server,
		"offset": offset,
	}).Info("Time synchronized")
	return true
}

// Synced reports whether wall-clock time has ever been established.
func (c *Clock) Synced() bool { return c.synced }

// Now returns the current instant as YYYY-MM-DDTHH:MM:SS±HH:MM in the
// configured zone, or nil if time was never established.
func (c *Clock) Now() *string {
	if !c.synced {
		return nil
	}
	s := c.rule.Format(c.now().Add(c.offset))
	return &s
}
