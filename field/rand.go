package field

import (
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// ErrRandomness reports that the secure randomness source failed. Callers
// treat it as fatal for the current operation; it is never retried.
var ErrRandomness = errors.New("field: secure randomness source unavailable")

// SecureRandomBytes returns n bytes from the operating system CSPRNG.
func SecureRandomBytes(n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("field: negative byte count %d", n)
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(rand.Reader, buf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRandomness, err)
	}
	return buf, nil
}

// SecureRandomInt returns a uniform integer in the inclusive range
// [min, max]. Candidates are drawn as 64-bit words and rejected above the
// largest multiple of the range size, which removes modulo bias.
func SecureRandomInt(min, max int64) (int64, error) {
	if max < min {
		return 0, fmt.Errorf("field: invalid range [%d, %d]", min, max)
	}
	span := uint64(max-min) + 1
	if span == 0 {
		// Full 64-bit range: every word is acceptable.
		var buf [8]byte
		if _, err := io.ReadFull(rand.Reader, buf[:]); err != nil {
			return 0, fmt.Errorf("%w: %v", ErrRandomness, err)
		}
		return min + int64(binary.LittleEndian.Uint64(buf[:])), nil
	}
	threshold := (^uint64(0) / span) * span
	var buf [8]byte
	for {
		if _, err := io.ReadFull(rand.Reader, buf[:]); err != nil {
			return 0, fmt.Errorf("%w: %v", ErrRandomness, err)
		}
		word := binary.LittleEndian.Uint64(buf[:])
		if word < threshold {
			return min + int64(word%span), nil
		}
	}
}
