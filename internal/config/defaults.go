package config

import "time"

// Central place for all application-wide timing constants and calibration
// defaults. Changing a value here immediately affects every component that
// imports meteonode/internal/config.

const (
	// Telemetry cycle
	ReadInterval = 10 * time.Second // One reading published per interval
	SampleCount  = 20               // ADC samples averaged per analog read
	SampleDelay  = 5 * time.Millisecond

	// WiFi association (500 ms * 40 polls = 20 s ceiling)
	WiFiPollInterval = 500 * time.Millisecond
	WiFiMaxPolls     = 40

	// Broker session
	DefaultBrokerPort  = 8883
	MQTTMaxAttempts    = 3
	MQTTRetryDelay     = 2 * time.Second
	MQTTConnectTimeout = 5 * time.Second
	MQTTPublishTimeout = 5 * time.Second

	// Time sync
	DefaultNTPServer = "pool.ntp.org"
	NTPTimeout       = 5 * time.Second
	DefaultTZRule    = "CET-1CEST,M3.5.0,M10.5.0/3"

	// NTC thermistor module calibration
	SeriesResistance   = 10000.0
	BetaCoefficient    = 3950.0
	NominalResistance  = 1760.0
	NominalTemperature = 25.0

	// Analog channels
	ThermistorChannel = 0
	LightChannel      = 1
)
