package ring

import (
	"golang.org/x/crypto/sha3"

	"pqcrystals/field"
)

// All samplers are deterministic in seed and nonce so that both sides of
// a protocol run can re-derive the same values from a shared seed. The
// nonce is absorbed after the seed as two little-endian bytes, giving
// each polynomial of a vector or matrix its own domain.

// ExpandUniform derives a uniform ring element from seed and nonce by
// rejection sampling over SHAKE128 output. Candidates are read as
// little-endian bit groups just wide enough for q (12 bits for QKem,
// 23 bits for QSig) and kept when below q.
func (t *Table) ExpandUniform(seed []byte, nonce uint16) Poly {
	xof := sha3.NewShake128()
	xof.Write(seed)
	xof.Write([]byte{byte(nonce), byte(nonce >> 8)})

	var p Poly
	var buf [168]byte
	i := 0
	for i < N {
		xof.Read(buf[:])
		for j := 0; j+3 <= len(buf) && i < N; j += 3 {
			if t.Q == QKem {
				// Two 12-bit candidates per 3 bytes.
				d1 := uint32(buf[j]) | uint32(buf[j+1]&0x0f)<<8
				d2 := uint32(buf[j+1])>>4 | uint32(buf[j+2])<<4
				if d1 < t.Q {
					p[i] = d1
					i++
				}
				if d2 < t.Q && i < N {
					p[i] = d2
					i++
				}
			} else {
				// One 23-bit candidate per 3 bytes.
				d := uint32(buf[j]) | uint32(buf[j+1])<<8 | uint32(buf[j+2]&0x7f)<<16
				if d < t.Q {
					p[i] = d
					i++
				}
			}
		}
	}
	return p
}

// SampleEta draws a small polynomial with coefficients from the centered
// binomial distribution on [-eta, eta], from SHAKE256(seed || nonce).
func (t *Table) SampleEta(seed []byte, nonce uint16, eta int) Poly {
	xof := sha3.NewShake256()
	xof.Write(seed)
	xof.Write([]byte{byte(nonce), byte(nonce >> 8)})

	buf := make([]byte, 2*eta*N/8)
	xof.Read(buf)

	bit := func(n int) int32 {
		return int32(buf[n/8]>>(n%8)) & 1
	}
	var p Poly
	for i := 0; i < N; i++ {
		var a, b int32
		for j := 0; j < eta; j++ {
			a += bit(2*i*eta + j)
			b += bit(2*i*eta + eta + j)
		}
		p[i] = field.Reduce(int64(a-b), t.Q)
	}
	return p
}

// ExpandMask draws a masking polynomial with coefficients in
// [-gamma1, gamma1-1]. gamma1 must be a power of two; each coefficient
// consumes log2(gamma1)+1 bits and equals gamma1 - 1 - value, so no
// rejection is needed.
func (t *Table) ExpandMask(seed []byte, nonce uint16, gamma1 uint32) Poly {
	bits := 1
	for 1<<bits < int(gamma1) {
		bits++
	}
	bits++ // range size 2*gamma1

	xof := sha3.NewShake256()
	xof.Write(seed)
	xof.Write([]byte{byte(nonce), byte(nonce >> 8)})

	buf := make([]byte, bits*N/8)
	xof.Read(buf)

	var p Poly
	var acc uint64
	accBits := 0
	next := 0
	mask := uint64(1)<<bits - 1
	for i := 0; i < N; i++ {
		for accBits < bits {
			acc |= uint64(buf[next]) << accBits
			next++
			accBits += 8
		}
		v := uint32(acc & mask)
		acc >>= uint(bits)
		accBits -= bits
		p[i] = field.Reduce(int64(gamma1)-1-int64(v), t.Q)
	}
	return p
}

// SampleInBall derives the challenge polynomial: exactly tau coefficients
// set to +1 or -1, the rest zero. The SHAKE256 stream supplies eight sign
// bytes followed by swap indices for a Fisher-Yates shuffle.
func (t *Table) SampleInBall(seed []byte, tau int) Poly {
	xof := sha3.NewShake256()
	xof.Write(seed)

	var signs [8]byte
	xof.Read(signs[:])
	sbits := uint64(0)
	for i, b := range signs {
		sbits |= uint64(b) << (8 * i)
	}

	var c Poly
	var b [1]byte
	for i := N - tau; i < N; i++ {
		j := i + 1
		for j > i {
			xof.Read(b[:])
			j = int(b[0])
		}
		c[i] = c[j]
		if sbits&1 == 1 {
			c[j] = t.Q - 1 // -1
		} else {
			c[j] = 1
		}
		sbits >>= 1
	}
	return c
}
