// SPDX-License-Identifier: MIT
package transport

// Transport defines a generic interface for delivering encoded render frames
// to a consumer. Implementations must be safe for use from the engine tick
// goroutine and must never block it; dropping a frame is always preferable
// to stalling the simulation.
type Transport interface {
	Send(frame []byte) error
	Close() error
}
