package config

import (
	"fmt"
	"time"
)

// Config holds all configuration for the meteonode agent. It is populated
// once at startup and never mutated afterwards; every component receives the
// values it needs by reference.
type Config struct {
	// WiFi Configuration
	WiFiSSID         string        `json:"wifi_ssid"`          // Network SSID
	WiFiPassphrase   string        `json:"wifi_passphrase"`    // Network passphrase
	WiFiPollInterval time.Duration `json:"wifi_poll_interval"` // Link status poll interval during association
	WiFiMaxPolls     int           `json:"wifi_max_polls"`     // Status polls before an association attempt is abandoned

	// Broker Configuration
	BrokerHost      string        `json:"broker_host"`       // MQTT broker hostname or IP
	BrokerPort      int           `json:"broker_port"`       // MQTT broker TLS port
	AccountID       string        `json:"account_id"`        // Account identifier (broker username, topic segment)
	DeviceID        string        `json:"device_id"`         // Device identifier (client id, topic segment)
	DevicePassword  string        `json:"device_password"`   // Broker password for this device
	MQTTMaxAttempts int           `json:"mqtt_max_attempts"` // Session attempts per reconnect sequence
	MQTTRetryDelay  time.Duration `json:"mqtt_retry_delay"`  // Delay between session attempts

	// Time Configuration
	NTPServer  string        `json:"ntp_server"`  // SNTP server queried once at startup
	NTPTimeout time.Duration `json:"ntp_timeout"` // SNTP query timeout
	TZRule     string        `json:"tz_rule"`     // POSIX-style timezone rule for timestamp rendering

	// Sampling Configuration
	ReadInterval time.Duration `json:"read_interval"` // Telemetry cycle period
	SampleCount  int           `json:"sample_count"`  // ADC samples averaged per analog read
	SampleDelay  time.Duration `json:"sample_delay"`  // Delay between consecutive ADC samples

	// NTC thermistor calibration
	SeriesResistance   float64 `json:"series_resistance"`   // Voltage-divider series resistor (ohm)
	BetaCoefficient    float64 `json:"beta_coefficient"`    // Thermistor Beta coefficient (K)
	NominalResistance  float64 `json:"nominal_resistance"`  // Resistance at the calibration point (ohm)
	NominalTemperature float64 `json:"nominal_temperature"` // Calibration point temperature (C)

	// Analog channel assignment
	ThermistorChannel int `json:"thermistor_channel"`
	LightChannel      int `json:"light_channel"`

	// Application Configuration
	Verbose bool `json:"verbose"` // Enable verbose logging
}

// GetDefaultConfig returns a configuration with sensible defaults. Identity
// and credentials have no defaults and must come from flags or environment.
func GetDefaultConfig() *Config {
	return &Config{
		WiFiPollInterval: WiFiPollInterval,
		WiFiMaxPolls:     WiFiMaxPolls,

		BrokerPort:      DefaultBrokerPort,
		MQTTMaxAttempts: MQTTMaxAttempts,
		MQTTRetryDelay:  MQTTRetryDelay,

		NTPServer:  DefaultNTPServer,
		NTPTimeout: NTPTimeout,
		TZRule:     DefaultTZRule,

		ReadInterval: ReadInterval,
		SampleCount:  SampleCount,
		SampleDelay:  SampleDelay,

		SeriesResistance:   SeriesResistance,
		BetaCoefficient:    BetaCoefficient,
		NominalResistance:  NominalResistance,
		NominalTemperature: NominalTemperature,

		ThermistorChannel: ThermistorChannel,
		LightChannel:      LightChannel,
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.DeviceID == "" {
		return fmt.Errorf("device ID is required")
	}
	if c.AccountID == "" {
		return fmt.Errorf("account ID is required")
	}
	if c.BrokerHost == "" {
		return fmt.Errorf("broker host is required")
	}
	if c.BrokerPort <= 0 || c.BrokerPort > 65535 {
		return fmt.Errorf("invalid broker port %d", c.BrokerPort)
	}
	if c.ReadInterval <= 0 {
		return fmt.Errorf("read interval must be positive, got %v", c.ReadInterval)
	}
	if c.SampleCount <= 0 {
		return fmt.Errorf("sample count must be positive, got %d", c.SampleCount)
	}
	if c.WiFiMaxPolls <= 0 || c.WiFiPollInterval <= 0 {
		return fmt.Errorf("wifi poll settings must be positive")
	}
	if c.MQTTMaxAttempts <= 0 {
		return fmt.Errorf("mqtt max attempts must be positive, got %d", c.MQTTMaxAttempts)
	}
	if c.SeriesResistance <= 0 || c.NominalResistance <= 0 || c.BetaCoefficient <= 0 {
		return fmt.Errorf("thermistor calibration values must be positive")
	}
	return nil
}

// Topic returns the fixed telemetry topic for this deployment.
func (c *Config) Topic() string {
	return fmt.Sprintf("sensors/%s/%s", c.AccountID, c.DeviceID)
}
