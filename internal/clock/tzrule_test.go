package clock

import (
	"testing"
	"time"
)

func TestParseTZRule_CentralEuropean(t *testing.T) {
	rule, err := ParseTZRule("CET-1CEST,M3.5.0,M10.5.0/3")
	if err != nil {
		t.Fatalf("ParseTZRule() error = %v", err)
	}
	if rule.StdName != "CET" || rule.StdOffset != time.Hour {
		t.Errorf("standard zone = %q %v; want CET +1h", rule.StdName, rule.StdOffset)
	}
	if rule.DSTName != "CEST" || rule.DSTOffset != 2*time.Hour {
		t.Errorf("daylight zone = %q %v; want CEST +2h", rule.DSTName, rule.DSTOffset)
	}
}

func TestTZRule_OffsetAt(t *testing.T) {
	rule, err := ParseTZRule("CET-1CEST,M3.5.0,M10.5.0/3")
	if err != nil {
		t.Fatalf("ParseTZRule() error = %v", err)
	}

	tests := []struct {
		name     string
		instant  time.Time
		wantName string
		wantOff  time.Duration
	}{
		{
			name:     "winter is standard time",
			instant:  time.Date(2026, 2, 8, 15, 30, 0, 0, time.UTC),
			wantName: "CET",
			wantOff:  time.Hour,
		},
		{
			name:     "summer is daylight time",
			instant:  time.Date(2026, 7, 14, 12, 0, 0, 0, time.UTC),
			wantName: "CEST",
			wantOff:  2 * time.Hour,
		},
		{
			// Last Sunday of March 2026 is the 29th; the switch happens
			// at 02:00 CET = 01:00 UTC.
			name:     "just before spring transition",
			instant:  time.Date(2026, 3, 29, 0, 59, 59, 0, time.UTC),
			wantName: "CET",
			wantOff:  time.Hour,
		},
		{
			name:     "at spring transition",
			instant:  time.Date(2026, 3, 29, 1, 0, 0, 0, time.UTC),
			wantName: "CEST",
			wantOff:  2 * time.Hour,
		},
		{
			// Last Sunday of October 2026 is the 25th; the switch happens
			// at 03:00 CEST = 01:00 UTC.
			name:     "just before autumn transition",
			instant:  time.Date(2026, 10, 25, 0, 59, 59, 0, time.UTC),
			wantName: "CEST",
			wantOff:  2 * time.Hour,
		},
		{
			name:     "at autumn transition",
			instant:  time.Date(2026, 10, 25, 1, 0, 0, 0, time.UTC),
			wantName: "CET",
			wantOff:  time.Hour,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, off := rule.OffsetAt(tt.instant)
			if name != tt.wantName || off != tt.wantOff {
				t.Errorf("OffsetAt(%v) = %q %v; want %q %v", tt.instant, name, off, tt.wantName, tt.wantOff)
			}
		})
	}
}

func TestTZRule_Format(t *testing.T) {
	rule, err := ParseTZRule("CET-1CEST,M3.5.0,M10.5.0/3")
	if err != nil {
		t.Fatalf("ParseTZRule() error = %v", err)
	}

	t.Run("winter offset", func(t *testing.T) {
		got := rule.Format(time.Date(2026, 2, 8, 14, 30, 0, 0, time.UTC))
		if got != "2026-02-08T15:30:00+01:00" {
			t.Errorf("Format() = %q; want 2026-02-08T15:30:00+01:00", got)
		}
	})

	t.Run("summer offset", func(t *testing.T) {
		got := rule.Format(time.Date(2026, 7, 14, 12, 0, 0, 0, time.UTC))
		if got != "2026-07-14T14:00:00+02:00" {
			t.Errorf("Format() = %q; want 2026-07-14T14:00:00+02:00", got)
		}
	})
}

func TestParseTZRule_NoDST(t *testing.T) {
	rule, err := ParseTZRule("UTC0")
	if err != nil {
		t.Fatalf("ParseTZRule() error = %v", err)
	}
	name, off := rule.OffsetAt(time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC))
	if name != "UTC" || off != 0 {
		t.Errorf("OffsetAt() = %q %v; want UTC +0", name, off)
	}
}

func TestParseTZRule_Invalid(t *testing.T) {
	rules := []string{
		"",
		"C1",
		"CET",
		"CET-1CEST",          // daylight name without transition rules
		"CET-1CEST,M3.5.0",   // one transition rule missing
		"CET-1CEST,J80,J290", // Julian-day rules unsupported
		"CET-99CEST,M3.5.0,M10.5.0",
		"CET-1CEST,M13.5.0,M10.5.0",
	}
	for _, r := range rules {
		if _, err := ParseTZRule(r); err == nil {
			t.Errorf("ParseTZRule(%q) succeeded; want error", r)
		}
	}
}
