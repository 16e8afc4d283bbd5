// Package driver defines the hardware collaborator interfaces the agent is
// built against. The bus protocols themselves (ADC conversion, the DHT
// single-wire protocol, WiFi association) belong to the platform; the agent
// only consumes these seams. Simulated implementations for host builds and
// tests live in sim.go.
package driver

// ADC produces bounded integer counts proportional to the voltage on an
// analog input channel. Reads cannot fail: the converter saturates at the
// rails instead.
type ADC interface {
	// Read performs one conversion on the given channel.
	Read(channel int) int
	// MaxCount returns the saturation value of the converter (e.g. 4095
	// for a 12-bit ADC).
	MaxCount() int
}

// ClimateSensor reads a combined digital humidity/temperature sensor.
// A failed bus transaction surfaces as a non-nil error; some drivers instead
// report NaN values, callers must treat both the same way.
type ClimateSensor interface {
	Read() (temperatureC, humidityPct float64, err error)
}

// LinkStatus is the association state reported by the network stack.
type LinkStatus int

const (
	LinkIdle LinkStatus = iota
	LinkConnecting
	LinkConnected
	LinkFailed
)

func (s LinkStatus) String() string {
	switch s {
	case LinkIdle:
		return "idle"
	case LinkConnecting:
		return "connecting"
	case LinkConnected:
		return "connected"
	case LinkFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Link is the WiFi network stack. Connect only begins an association
// attempt; callers poll Status to observe the outcome.
type Link interface {
	// Disconnect tears down any existing association. Safe to call in any state.
	Disconnect()
	// Connect begins a fresh association attempt. It returns immediately;
	// an error means the attempt could not even be started.
	Connect(ssid, passphrase string) error
	// Status reports the current association state without blocking.
	Status() LinkStatus
}
