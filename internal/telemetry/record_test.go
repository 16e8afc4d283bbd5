package telemetry

import (
	"encoding/json"
	"strings"
	"testing"

	"meteonode/internal/sensors"
)

func f(v float64) *float64 { return &v }

func TestNewRecord_Rounding(t *testing.T) {
	ts := "2026-02-08T15:30:00+01:00"
	rec := NewRecord(&ts, "user@example.com", "meteonode_1", sensors.Reading{
		DHTTemperatureC: f(20.74),
		HumidityPct:     f(52.06),
		NTCTemperatureC: 21.1499,
		LuminosityPct:   76.95,
	})

	if *rec.DHTTemperature != 20.7 {
		t.Errorf("DHTTemperature = %v; want 20.7", *rec.DHTTemperature)
	}
	if *rec.DHTHumidity != 52.1 {
		t.Errorf("DHTHumidity = %v; want 52.1", *rec.DHTHumidity)
	}
	if rec.NTCTemperature != 21.1 {
		t.Errorf("NTCTemperature = %v; want 21.1", rec.NTCTemperature)
	}
	if rec.Luminosity != 77.0 {
		t.Errorf("Luminosity = %v; want 77.0", rec.Luminosity)
	}
}

func TestRecord_SchemaStability(t *testing.T) {
	t.Run("absent optionals serialize as null, not omitted", func(t *testing.T) {
		rec := NewRecord(nil, "user@example.com", "meteonode_1", sensors.Reading{
			NTCTemperatureC: 21.1,
			LuminosityPct:   77.0,
		})
		payload, err := json.Marshal(rec)
		if err != nil {
			t.Fatalf("Marshal() error = %v", err)
		}
		s := string(payload)
		for _, key := range []string{`"timestamp":null`, `"dht_temperature":null`, `"dht_humidity":null`} {
			if !strings.Contains(s, key) {
				t.Errorf("payload %s is missing %s", s, key)
			}
		}
	})

	t.Run("all schema keys present", func(t *testing.T) {
		rec := NewRecord(nil, "u", "d", sensors.Reading{})
		payload, err := json.Marshal(rec)
		if err != nil {
			t.Fatalf("Marshal() error = %v", err)
		}
		var m map[string]json.RawMessage
		if err := json.Unmarshal(payload, &m); err != nil {
			t.Fatalf("Unmarshal() error = %v", err)
		}
		want := []string{"timestamp", "user", "device", "dht_temperature", "dht_humidity", "ntc_temperature", "luminosity"}
		if len(m) != len(want) {
			t.Errorf("payload has %d keys; want %d", len(m), len(want))
		}
		for _, k := range want {
			if _, ok := m[k]; !ok {
				t.Errorf("payload is missing key %q", k)
			}
		}
	})
}

func TestRecord_RoundTrip(t *testing.T) {
	ts := "2026-02-08T15:30:00+01:00"
	orig := NewRecord(&ts, "user@example.com", "meteoStation_1", sensors.Reading{
		DHTTemperatureC: f(20.7),
		HumidityPct:     f(52.0),
		NTCTemperatureC: 21.1,
		LuminosityPct:   77.0,
	})

	payload, err := json.Marshal(orig)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	var parsed Record
	if err := json.Unmarshal(payload, &parsed); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	if parsed.User != orig.User || parsed.Device != orig.Device {
		t.Errorf("identity fields changed: got (%q, %q)", parsed.User, parsed.Device)
	}
	if parsed.Timestamp == nil || *parsed.Timestamp != ts {
		t.Errorf("Timestamp = %v; want %q", parsed.Timestamp, ts)
	}
	if parsed.DHTTemperature == nil || *parsed.DHTTemperature != 20.7 {
		t.Errorf("DHTTemperature did not survive the round trip: %v", parsed.DHTTemperature)
	}
	if parsed.DHTHumidity == nil || *parsed.DHTHumidity != 52.0 {
		t.Errorf("DHTHumidity did not survive the round trip: %v", parsed.DHTHumidity)
	}
	if parsed.NTCTemperature != 21.1 || parsed.Luminosity != 77.0 {
		t.Errorf("numeric fields changed: ntc=%v lum=%v", parsed.NTCTemperature, parsed.Luminosity)
	}
}
