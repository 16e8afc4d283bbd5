package netutil

import (
	"crypto/tls"

	"github.com/sirupsen/logrus"
)

// InsecureTLSConfig returns the client TLS configuration for the broker
// session. Certificate verification is disabled so deployments with
// self-signed broker certificates keep connecting; this is a known,
// accepted risk and the warning below keeps it visible in the logs.
func InsecureTLSConfig(logger *logrus.Logger) *tls.Config {
	logger.Warn("Broker TLS certificate verification is disabled")

	return &tls.Config{
		InsecureSkipVerify: true,
		MinVersion:         tls.VersionTLS12,
	}
}
