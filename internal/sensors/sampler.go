package sensors

import (
	"math"
	"time"

	"github.com/sirupsen/logrus"

	"meteonode/internal/config"
	"meteonode/internal/driver"
)

// Reading holds one acquisition cycle's worth of sensor values.
// The DHT-derived fields use *float64 so a failed read (nil) is
// distinguishable from a legitimate zero; validity is evaluated once for the
// pair, so they are always jointly present or jointly absent. The NTC
// temperature and luminosity are range-bounded derived values and are always
// present.
type Reading struct {
	DHTTemperatureC *float64
	HumidityPct     *float64
	NTCTemperatureC float64
	LuminosityPct   float64
}

// Sampler acquires readings from the analog and digital sensors, smoothing
// ADC noise by averaging and converting raw counts to engineering units.
type Sampler struct {
	adc     driver.ADC
	climate driver.ClimateSensor
	cfg     *config.Config
	logger  *logrus.Logger
	wait    func(time.Duration)
}

// NewSampler creates a sampler over the given drivers.
func NewSampler(adc driver.ADC, climate driver.ClimateSensor, cfg *config.Config, logger *logrus.Logger) *Sampler {
	return &Sampler{
		adc:     adc,
		climate: climate,
		cfg:     cfg,
		logger:  logger,
		wait:    time.Sleep,
	}
}

// SampleAnalog reads the channel SampleCount times with a fixed inter-sample
// delay and returns the integer mean. The delay spreads the samples across
// multiple conversion cycles so single-sample noise averages out.
func (s *Sampler) SampleAnalog(channel int) int {
	var sum int64
	for i := 0; i < s.cfg.SampleCount; i++ {
		sum += int64(s.adc.Read(channel))
		if i < s.cfg.SampleCount-1 {
			s.wait(s.cfg.SampleDelay)
		}
	}
	return int(sum / int64(s.cfg.SampleCount))
}

// ReadThermistor converts an averaged raw count to Celsius. The count is
// first turned into a resistance via the voltage-divider relation against
// the series resistor, then into temperature via the Beta approximation.
// Counts at the divider's rails are clamped one count inward so the
// conversion stays finite.
func (s *Sampler) ReadThermistor() float64 {
	raw := s.SampleAnalog(s.cfg.ThermistorChannel)
	max := s.adc.MaxCount()
	if raw <= 0 {
		raw = 1
	}
	if raw >= max {
		raw = max - 1
	}

	resistance := s.cfg.SeriesResistance * float64(raw) / (float64(max) - float64(raw))
	nominalK := s.cfg.NominalTemperature + 273.15
	tempK := 1.0 / (1.0/nominalK + math.Log(resistance/s.cfg.NominalResistance)/s.cfg.BetaCoefficient)
	return tempK - 273.15
}

// ReadLight maps an averaged raw count linearly onto a 0-100 percentage of
// full ADC scale.
func (s *Sampler) ReadLight() float64 {
	raw := s.SampleAnalog(s.cfg.LightChannel)
	return float64(raw) * 100.0 / float64(s.adc.MaxCount())
}

// ReadClimate reads the digital humidity/temperature sensor. A driver error
// or a NaN in either value counts as a single read failure: both fields come
// back nil.
func (s *Sampler) ReadClimate() (temperatureC, humidityPct *float64) {
	t, h, err := s.climate.Read()
	if err != nil || math.IsNaN(t) || math.IsNaN(h) {
		if err != nil {
			s.logger.WithError(err).Warn("Climate sensor read failed")
		} else {
			s.logger.Warn("Climate sensor returned invalid values")
		}
		return nil, nil
	}
	return &t, &h
}

// Sample performs one full acquisition across all sensors.
func (s *Sampler) Sample() Reading {
	temp, hum := s.ReadClimate()
	return Reading{
		DHTTemperatureC: temp,
		HumidityPct:     hum,
		NTCTemperatureC: s.ReadThermistor(),
		LuminosityPct:   s.ReadLight(),
	}
}
