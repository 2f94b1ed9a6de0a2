// SPDX-License-Identifier: MIT
package transport

import (
	applog "github.com/TGALLOWAY1/ParticleFlowAnimation/internal/log"
)

// LoggingTransport implements the Transport interface by discarding frames,
// optionally logging their size at debug level. Used when no renderer is
// configured and in tests.
type LoggingTransport struct{}

// NewLoggingTransport creates a new LoggingTransport instance.
func NewLoggingTransport() *LoggingTransport {
	applog.Infof("Transport: Using LoggingTransport")
	return &LoggingTransport{}
}

// Send logs the frame size at debug level and discards it.
func (lt *LoggingTransport) Send(frame []byte) error {
	applog.Debugf("LoggingTransport: frame of %d bytes", len(frame))
	return nil
}

// Close is a no-op for LoggingTransport.
func (lt *LoggingTransport) Close() error {
	return nil
}

// Ensure LoggingTransport satisfies the interface at compile time.
var _ Transport = (*LoggingTransport)(nil)
