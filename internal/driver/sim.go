package driver

import (
	"math"
	"math/rand"
	"sync"
)

// SimADC is a simulated converter that returns a per-channel base count with
// bounded random jitter, mimicking the single-sample noise of a real ADC.
type SimADC struct {
	Counts map[int]int // base count per channel
	Jitter int         // max deviation applied to each read, 0 disables noise
	Max    int         // saturation value, defaults to 4095
}

func (a *SimADC) Read(channel int) int {
	base := a.Counts[channel]
	if a.Jitter > 0 {
		base += rand.Intn(2*a.Jitter+1) - a.Jitter
	}
	if base < 0 {
		base = 0
	}
	if max := a.MaxCount(); base > max {
		base = max
	}
	return base
}

func (a *SimADC) MaxCount() int {
	if a.Max > 0 {
		return a.Max
	}
	return 4095
}

// SimClimate is a simulated humidity/temperature sensor. With Fail set it
// reports NaN for both values, the way a DHT driver does after a failed bus
// transaction.
type SimClimate struct {
	TemperatureC float64
	HumidityPct  float64
	Fail         bool
}

func (c *SimClimate) Read() (float64, float64, error) {
	if c.Fail {
		return math.NaN(), math.NaN(), nil
	}
	return c.TemperatureC, c.HumidityPct, nil
}

// SimLink is a simulated WiFi stack. After Connect it reports
// LinkConnecting until it has been polled ConnectAfter times, then
// LinkConnected. ConnectAfter < 0 means the association never completes.
type SimLink struct {
	ConnectAfter int

	mu     sync.Mutex
	status LinkStatus
	polls  int
}

func (l *SimLink) Disconnect() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.status = LinkIdle
	l.polls = 0
}

func (l *SimLink) Connect(ssid, passphrase string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.status = LinkConnecting
	l.polls = 0
	return nil
}

func (l *SimLink) Status() LinkStatus {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.status == LinkConnecting {
		if l.ConnectAfter >= 0 && l.polls >= l.ConnectAfter {
			l.status = LinkConnected
		}
		l.polls++
	}
	return l.status
}
