package telemetry

import (
	"math"

	"meteonode/internal/sensors"
)

// Record is the fixed telemetry JSON schema published every cycle. Absent
// optional fields serialize as explicit null rather than being omitted so
// the schema stays stable for consumers. All numeric fields, luminosity
// included, carry one decimal place.
type Record struct {
	Timestamp      *string  `json:"timestamp"`
	User           string   `json:"user"`
	Device         string   `json:"device"`
	DHTTemperature *float64 `json:"dht_temperature"`
	DHTHumidity    *float64 `json:"dht_humidity"`
	NTCTemperature float64  `json:"ntc_temperature"`
	Luminosity     float64  `json:"luminosity"`
}

// NewRecord builds an immutable record from one reading and the current
// timestamp (nil when wall-clock time was never established).
func NewRecord(timestamp *string, user, device string, r sensors.Reading) Record {
	return Record{
		Timestamp:      timestamp,
		User:           user,
		Device:         device,
		DHTTemperature: round1Ptr(r.DHTTemperatureC),
		DHTHumidity:    round1Ptr(r.HumidityPct),
		NTCTemperature: round1(r.NTCTemperatureC),
		Luminosity:     round1(r.LuminosityPct),
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round1Ptr(v *float64) *float64 {
	if v == nil {
		return nil
	}
	r := round1(*v)
	return &r
}
