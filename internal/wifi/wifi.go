// Package wifi owns the WiFi session: connect with a bounded timeout,
// non-blocking state queries, and reconnect-on-drop. The underlying
// association protocol belongs to the network stack behind driver.Link.
package wifi

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"meteonode/internal/config"
	"meteonode/internal/driver"
)

// State is the manager's view of the WiFi session.
type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	default:
		return "disconnected"
	}
}

// Manager handles WiFi association with a bounded blocking connect and a
// retry-every-cycle reconnection policy driven by the orchestrator.
type Manager struct {
	link         driver.Link
	ssid         string
	passphrase   string
	pollInterval time.Duration
	maxPolls     int
	logger       *logrus.Logger

	state State
	wait  func(time.Duration)
}

// NewManager creates a new WiFi manager over the given link.
func NewManager(link driver.Link, cfg *config.Config, logger *logrus.Logger) *Manager {
	return &Manager{
		link:         link,
		ssid:         cfg.WiFiSSID,
		passphrase:   cfg.WiFiPassphrase,
		pollInterval: cfg.WiFiPollInterval,
		maxPolls:     cfg.WiFiMaxPolls,
		logger:       logger,
		state:        StateDisconnected,
		wait:         time.Sleep,
	}
}

// Connect forces a clean disconnect, begins a fresh association attempt and
// polls the link until it connects or the poll budget is exhausted. It
// blocks the calling goroutine for at most pollInterval*maxPolls and returns
// whether the link came up. Context cancellation abandons the attempt early.
func (m *Manager) Connect(ctx context.Context) bool {
	m.state = StateDisconnected
	m.link.Disconnect()

	m.logger.WithField("ssid", m.ssid).Info("WiFi connecting")
	if err := m.link.Connect(m.ssid, m.passphrase); err != nil {
		m.logger.WithError(err).Warn("WiFi association could not be started")
		return false
	}
	m.state = StateConnecting

	for i := 0; i < m.maxPolls; i++ {
		if m.link.Status() == driver.LinkConnected {
			m.state = StateConnected
			m.logger.WithField("ssid", m.ssid).Info("WiFi connected")
			return true
		}
		if ctx.Err() != nil {
			break
		}
		m.wait(m.pollInterval)
	}

	m.state = StateDisconnected
	m.logger.WithFields(logrus.Fields{
		"ssid":  m.ssid,
		"polls": m.maxPolls,
	}).Warn("WiFi connection attempt timed out")
	return false
}

// IsConnected is a non-blocking status query against the underlying link.
// A link drop observed here also resets the manager state so the next
// orchestrator cycle retries the association.
func (m *Manager) IsConnected() bool {
	up := m.link.Status() == driver.LinkConnected
	if up {
		m.state = StateConnected
	} else if m.state == StateConnected {
		m.logger.Warn("WiFi link dropped")
		m.state = StateDisconnected
	}
	return up
}

// State returns the manager's current view of the session.
func (m *Manager) State() State { return m.state }
