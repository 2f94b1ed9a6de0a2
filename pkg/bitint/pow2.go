// SPDX-License-Identifier: MIT

// Package bitint provides power-of-two helpers used for FFT sizing and
// render buffer allocation. All operations are constant time and
// allocation free, so they are safe to call from the analysis hot path.
package bitint

import "math/bits"

// NextPowerOfTwo returns the smallest power of 2 >= size.
// Exact powers of 2 are returned unchanged; the size-1 before Len is
// what preserves them (Len(8) is 4, Len(7) is 3).
// Non-positive sizes return 1.
func NextPowerOfTwo(size int) int {
	if size <= 0 {
		return 1
	}
	return 1 << bits.Len64(uint64(size-1))
}

// IsPowerOfTwo reports whether n is a positive power of 2.
// Powers of 2 have exactly one bit set, so n&(n-1) clears it to zero.
func IsPowerOfTwo(n int) bool {
	return n > 0 && (n&(n-1)) == 0
}
