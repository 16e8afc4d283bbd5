package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"meteonode/internal/app"
	"meteonode/internal/clock"
	"meteonode/internal/config"
	"meteonode/internal/driver"
	"meteonode/internal/mqtt"
	"meteonode/internal/sensors"
	"meteonode/internal/telemetry"
	"meteonode/internal/wifi"
)

// version is injected at build time via ldflags
var version = "dev"

func main() {
	cfg, once := parseFlags()

	logger := setupLogger(cfg.Verbose)

	if err := cfg.Validate(); err != nil {
		logger.WithError(err).Fatal("Invalid configuration")
	}

	logger.WithFields(logrus.Fields{
		"version":   version,
		"device_id": cfg.DeviceID,
		"topic":     cfg.Topic(),
		"interval":  cfg.ReadInterval,
	}).Info("Starting meteonode")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		logger.Info("Shutdown signal received")
		cancel()
	}()

	// Hardware drivers ------------------------------------------------------
	// This build runs against the simulated drivers; hardware targets supply
	// platform implementations of the same interfaces.
	adc, climate, link := buildSimDrivers()

	// Components -------------------------------------------------------------
	wifiMgr := wifi.NewManager(link, cfg, logger)
	sampler := sensors.NewSampler(adc, climate, cfg, logger)

	clk, err := clock.New(cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("Invalid timezone rule")
	}

	session := mqtt.NewClient(cfg, logger)
	defer session.Disconnect(250)
	publisher := telemetry.NewPublisher(session, cfg, logger)

	node := app.New(cfg, wifiMgr, publisher, sampler, clk, logger)

	if once {
		if !wifiMgr.IsConnected() {
			wifiMgr.Connect(ctx)
		}
		clk.Synchronize(ctx)
		node.Cycle(ctx)
		return
	}

	if err := node.Run(ctx); err != nil && err != context.Canceled {
		logger.WithError(err).Warn("Run loop exited")
	}
	logger.Info("meteonode stopped")
}

// -----------------------------------------------------------------------------
// Helpers & Flags
// -----------------------------------------------------------------------------

func parseFlags() (*config.Config, bool) {
	cfg := config.GetDefaultConfig()

	showVersion := flag.Bool("version", false, "Show version and exit")
	once := flag.Bool("once", false, "Run a single telemetry cycle and exit")

	flag.StringVar(&cfg.WiFiSSID, "wifi-ssid", getEnv("METEONODE_WIFI_SSID", cfg.WiFiSSID), "WiFi SSID")
	flag.StringVar(&cfg.WiFiPassphrase, "wifi-pass", getEnv("METEONODE_WIFI_PASS", cfg.WiFiPassphrase), "WiFi passphrase")
	flag.StringVar(&cfg.BrokerHost, "broker-host", getEnv("METEONODE_BROKER_HOST", cfg.BrokerHost), "MQTT broker host")
	flag.IntVar(&cfg.BrokerPort, "broker-port", getEnvInt("METEONODE_BROKER_PORT", cfg.BrokerPort), "MQTT broker TLS port")
	flag.StringVar(&cfg.AccountID, "account-id", getEnv("METEONODE_ACCOUNT_ID", cfg.AccountID), "Account identifier")
	flag.StringVar(&cfg.DeviceID, "device-id", getEnv("METEONODE_DEVICE_ID", cfg.DeviceID), "Device identifier")
	flag.StringVar(&cfg.DevicePassword, "device-pass", getEnv("METEONODE_DEVICE_PASS", cfg.DevicePassword), "Broker password")
	flag.StringVar(&cfg.NTPServer, "ntp-server", getEnv("METEONODE_NTP_SERVER", cfg.NTPServer), "NTP server")
	flag.StringVar(&cfg.TZRule, "tz-rule", getEnv("METEONODE_TZ_RULE", cfg.TZRule), "Timezone rule (POSIX style)")
	flag.BoolVar(&cfg.Verbose, "verbose", getEnv("METEONODE_VERBOSE", "false") == "true", "Verbose logging")

	readIntervalStr := flag.String("read-interval", getEnv("METEONODE_READ_INTERVAL", ""), "Telemetry cycle period (e.g. 10s)")

	flag.Parse()

	if *showVersion {
		fmt.Printf("meteonode %s\n", version)
		os.Exit(0)
	}

	if *readIntervalStr != "" {
		if d, err := time.ParseDuration(*readIntervalStr); err == nil && d > 0 {
			cfg.ReadInterval = d
		}
	}

	return cfg, *once
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		var n int
		if _, err := fmt.Sscanf(v, "%d", &n); err == nil {
			return n
		}
	}
	return def
}

func setupLogger(verbose bool) *logrus.Logger {
	l := logrus.New()
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, TimestampFormat: time.RFC3339})
	if verbose {
		l.SetLevel(logrus.DebugLevel)
	} else {
		l.SetLevel(logrus.InfoLevel)
	}
	return l
}

// buildSimDrivers wires the simulated hardware: an ADC resting near the NTC
// calibration point with realistic jitter, a healthy climate sensor and a
// link that associates after a couple of status polls.
func buildSimDrivers() (driver.ADC, driver.ClimateSensor, driver.Link) {
	adc := &driver.SimADC{
		Counts: map[int]int{
			config.ThermistorChannel: 613, // ~25 C with the default divider
			config.LightChannel:      3150,
		},
		Jitter: 12,
	}
	climate := &driver.SimClimate{TemperatureC: 21.4, HumidityPct: 48.0}
	link := &driver.SimLink{ConnectAfter: 2}
	return adc, climate, link
}
