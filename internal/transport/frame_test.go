// SPDX-License-Identifier: MIT
package transport

import (
	"testing"
)

func TestFrameEncoder_RoundTrip(t *testing.T) {
	enc := NewFrameEncoder(7)

	payload := make([]float32, 3*7)
	for i := range payload {
		payload[i] = float32(i) * 0.5
	}

	packet, err := enc.Encode(payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	hdr, decoded, err := DecodeFrame(packet)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hdr.Sequence != 1 {
		t.Errorf("sequence = %d, want 1", hdr.Sequence)
	}
	if hdr.Count != 3 {
		t.Errorf("count = %d, want 3", hdr.Count)
	}
	if hdr.Stride != 7 {
		t.Errorf("stride = %d, want 7", hdr.Stride)
	}
	if hdr.Timestamp == 0 {
		t.Error("timestamp not set")
	}
	for i := range payload {
		if decoded[i] != payload[i] {
			t.Fatalf("payload[%d] = %f, want %f", i, decoded[i], payload[i])
		}
	}
}

func TestFrameEncoder_SequenceIncrements(t *testing.T) {
	enc := NewFrameEncoder(7)
	payload := make([]float32, 7)

	for want := uint32(1); want <= 5; want++ {
		packet, err := enc.Encode(payload)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		hdr, _, err := DecodeFrame(packet)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if hdr.Sequence != want {
			t.Errorf("sequence = %d, want %d", hdr.Sequence, want)
		}
	}
}

func TestFrameEncoder_RejectsBadPayload(t *testing.T) {
	enc := NewFrameEncoder(7)
	if _, err := enc.Encode(make([]float32, 10)); err == nil {
		t.Error("expected error for payload not a multiple of stride")
	}
}

func TestDecodeFrame_Truncated(t *testing.T) {
	if _, _, err := DecodeFrame([]byte{1, 2, 3}); err == nil {
		t.Error("expected error for short packet")
	}

	enc := NewFrameEncoder(7)
	packet, err := enc.Encode(make([]float32, 14))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, _, err := DecodeFrame(packet[:len(packet)-4]); err == nil {
		t.Error("expected error for truncated payload")
	}
}
