// SPDX-License-Identifier: MIT
package transport

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"time"
)

/*
Render Frame Packet Structure (BigEndian)

+------------------------------------------------------------------------------+
| Field             | Data Type      | Size (Bytes) | Description              |
|-------------------|----------------|--------------|--------------------------|
| Sequence Number   | uint32         | 4            | Monotonically increasing |
| Timestamp         | int64          | 8            | Nanoseconds since epoch  |
| Particle Count    | uint32         | 4            | Number of particles (N)  |
| Stride            | uint8          | 1            | Floats per particle (7)  |
| Payload           | []float32      | N * 7 * 4    | x y size r g b a per     |
|                   |                |              | particle, upload-ready   |
+------------------------------------------------------------------------------+

Visual Layout:

|<-- 4 Bytes -->|<---- 8 Bytes ---->|<-- 4 Bytes -->|<-1->|<-- N * 7 * 4 Bytes -->|
+---------------+-------------------+---------------+-----+-----------------------+
|   Sequence    |     Timestamp     |   Particle    | Str |        Payload        |
|    (uint32)   |      (int64)      |     Count     | ide |     (N*7 float32)     |
+---------------+-------------------+---------------+-----+-----------------------+
*/

// FrameHeader describes one decoded render frame packet.
type FrameHeader struct {
	Sequence  uint32
	Timestamp int64
	Count     uint32
	Stride    uint8
}

// headerSize is the fixed number of bytes before the payload.
const headerSize = 4 + 8 + 4 + 1

// FrameEncoder packs particle render buffers into the binary packet format.
// It keeps a reusable buffer and a monotonically increasing sequence number,
// so encoding performs no steady-state allocations. Not safe for concurrent
// use; the engine owns one encoder and calls it once per tick.
type FrameEncoder struct {
	sequenceNum uint32
	stride      int
	buf         *bytes.Buffer
}

// NewFrameEncoder creates an encoder for payloads with the given per-particle
// stride (number of float32 values).
func NewFrameEncoder(stride int) *FrameEncoder {
	return &FrameEncoder{
		stride: stride,
		buf:    new(bytes.Buffer),
	}
}

// Encode packs one render buffer into a packet. The returned slice is only
// valid until the next Encode call. The payload length must be a whole
// multiple of the stride.
func (e *FrameEncoder) Encode(payload []float32) ([]byte, error) {
	if e.stride <= 0 || len(payload)%e.stride != 0 {
		return nil, fmt.Errorf("payload length %d is not a multiple of stride %d", len(payload), e.stride)
	}

	e.sequenceNum++
	e.buf.Reset()

	err := binary.Write(e.buf, binary.BigEndian, e.sequenceNum)
	if err == nil {
		err = binary.Write(e.buf, binary.BigEndian, time.Now().UnixNano())
	}
	if err == nil {
		err = binary.Write(e.buf, binary.BigEndian, uint32(len(payload)/e.stride))
	}
	if err == nil {
		err = binary.Write(e.buf, binary.BigEndian, uint8(e.stride))
	}
	if err == nil {
		err = binary.Write(e.buf, binary.BigEndian, payload)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to pack frame packet: %w", err)
	}

	return e.buf.Bytes(), nil
}

// DecodeFrame unpacks a packet produced by Encode. Used by tests and by Go
// consumers of the frame stream.
func DecodeFrame(packet []byte) (FrameHeader, []float32, error) {
	var hdr FrameHeader
	if len(packet) < headerSize {
		return hdr, nil, fmt.Errorf("packet too short: %d bytes", len(packet))
	}

	r := bytes.NewReader(packet)
	if err := binary.Read(r, binary.BigEndian, &hdr.Sequence); err != nil {
		return hdr, nil, err
	}
	if err := binary.Read(r, binary.BigEndian, &hdr.Timestamp); err != nil {
		return hdr, nil, err
	}
	if err := binary.Read(r, binary.BigEndian, &hdr.Count); err != nil {
		return hdr, nil, err
	}
	if err := binary.Read(r, binary.BigEndian, &hdr.Stride); err != nil {
		return hdr, nil, err
	}

	want := int(hdr.Count) * int(hdr.Stride)
	if len(packet)-headerSize != want*4 {
		return hdr, nil, fmt.Errorf("payload size %d does not match header (%d particles x stride %d)",
			len(packet)-headerSize, hdr.Count, hdr.Stride)
	}

	payload := make([]float32, want)
	if err := binary.Read(r, binary.BigEndian, payload); err != nil {
		return hdr, nil, err
	}
	return hdr, payload, nil
}
