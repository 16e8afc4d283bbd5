// Package app runs the fixed-period telemetry cycle. Every step of a cycle
// executes strictly in sequence on a single goroutine: ensure connectivity,
// ensure the broker session, sample, timestamp, publish. No step
// short-circuits the rest; sensors are sampled and the status line is
// emitted even while the network is down.
package app

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"meteonode/internal/clock"
	"meteonode/internal/config"
	"meteonode/internal/sensors"
	"meteonode/internal/telemetry"
	"meteonode/internal/wifi"
)

// App wires the components into the orchestrated cycle.
type App struct {
	cfg       *config.Config
	wifi      *wifi.Manager
	publisher *telemetry.Publisher
	sampler   *sensors.Sampler
	clock     *clock.Clock
	logger    *logrus.Logger
}

// New creates the orchestrator.
func New(cfg *config.Config, wifiMgr *wifi.Manager, publisher *telemetry.Publisher,
	sampler *sensors.Sampler, clk *clock.Clock, logger *logrus.Logger) *App {
	return &App{
		cfg:       cfg,
		wifi:      wifiMgr,
		publisher: publisher,
		sampler:   sampler,
		clock:     clk,
		logger:    logger,
	}
}

// Run synchronizes time once, then executes one cycle per ReadInterval until
// ctx is cancelled. Cycles never overlap: a cycle that spends its worst case
// in connect timeouts simply delays the next tick's processing.
func (a *App) Run(ctx context.Context) error {
	// Time sync happens once, at startup. If it fails (or the link never
	// comes up) every timestamp degrades to null until the next boot.
	if !a.wifi.IsConnected() {
		a.wifi.Connect(ctx)
	}
	a.clock.Synchronize(ctx)

	grp, ctx := errgroup.WithContext(ctx)
	grp.Go(func() error {
		ticker := time.NewTicker(a.cfg.ReadInterval)
		defer ticker.Stop()

		a.Cycle(ctx)
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
				a.Cycle(ctx)
			}
		}
	})
	return grp.Wait()
}

// Cycle performs one full telemetry iteration. Connectivity failures degrade
// to a skipped publish; nothing in here is fatal.
func (a *App) Cycle(ctx context.Context) {
	linkUp := a.wifi.IsConnected()
	if !linkUp {
		linkUp = a.wifi.Connect(ctx)
	}

	sessionUp := false
	if linkUp {
		sessionUp = a.publisher.EnsureConnected(ctx)
	}

	reading := a.sampler.Sample()
	record := telemetry.NewRecord(a.clock.Now(), a.cfg.AccountID, a.cfg.DeviceID, reading)

	published := false
	if err := a.publisher.Publish(record); err != nil {
		a.logger.WithError(err).Warn("Telemetry publish skipped")
	} else {
		published = true
	}

	fields := logrus.Fields{
		"wifi":            a.wifi.State().String(),
		"session":         sessionUp,
		"published":       published,
		"ntc_temperature": record.NTCTemperature,
		"luminosity":      record.Luminosity,
	}
	if record.DHTTemperature != nil && record.DHTHumidity != nil {
		fields["dht_temperature"] = *record.DHTTemperature
		fields["dht_humidity"] = *record.DHTHumidity
	} else {
		fields["dht"] = "read error"
	}
	if record.Timestamp != nil {
		fields["timestamp"] = *record.Timestamp
	}
	a.logger.WithFields(fields).Info("Sensor cycle complete")
}
