package dsa

import "pqcrystals/ring"

// Rounding splits coefficients in [0, q) into high and low parts. The
// high part survives the hint mechanism; the low part is what rejection
// sampling keeps small. m = (q-1)/(2*Gamma2) = 44 is the number of
// distinct high values.

const highMod = 44

// power2Round splits a into a1*2^D + a0 with a0 centered in
// (-2^(D-1), 2^(D-1)].
func power2Round(a uint32) (a1 uint32, a0 int32) {
	a1 = (a + (1 << (D - 1)) - 1) >> D
	a0 = int32(a) - int32(a1<<D)
	return a1, a0
}

// decompose splits a into a1*2*Gamma2 + a0 with a0 centered in
// (-Gamma2, Gamma2], folding the wrap-around at q-1 into a1 = 0.
func decompose(a uint32) (a1 uint32, a0 int32) {
	a1 = (a + 127) >> 7
	a1 = (a1*11275 + (1 << 23)) >> 24
	a1 ^= uint32((int32(highMod-1)-int32(a1))>>31) & a1

	a0 = int32(a) - int32(a1)*2*Gamma2
	a0 -= (((int32(ring.QSig)-1)/2 - a0) >> 31) & int32(ring.QSig)
	return a1, a0
}

// highBits returns the high parts of p, each in [0, 44).
func highBits(p ring.Poly) ring.Poly {
	var h ring.Poly
	for i := range p {
		h[i], _ = decompose(p[i])
	}
	return h
}

// lowBits returns the centered low parts of p.
func lowBits(p ring.Poly) []int32 {
	out := make([]int32, ring.N)
	for i := range p {
		_, out[i] = decompose(p[i])
	}
	return out
}

// infNormCentered returns the largest absolute value in cs.
func infNormCentered(cs []int32) uint32 {
	var max uint32
	for _, c := range cs {
		if c < 0 {
			c = -c
		}
		if uint32(c) > max {
			max = uint32(c)
		}
	}
	return max
}

// makeHint flags the coefficients whose high part changes between r and
// rCarry, and returns the hint polynomial with the number of set bits.
func makeHint(r, rCarry ring.Poly) (ring.Poly, int) {
	var h ring.Poly
	n := 0
	a := highBits(r)
	b := highBits(rCarry)
	for i := 0; i < ring.N; i++ {
		if a[i] != b[i] {
			h[i] = 1
			n++
		}
	}
	return h, n
}

// useHint recovers the high bits of a under the hint h: a set hint bit
// nudges the high part toward the side the carry came from, decided by
// the sign of the low part.
func useHint(h, a ring.Poly) ring.Poly {
	var w ring.Poly
	for i := 0; i < ring.N; i++ {
		a1, a0 := decompose(a[i])
		if h[i] == 0 {
			w[i] = a1
			continue
		}
		if a0 > 0 {
			w[i] = (a1 + 1) % highMod
		} else {
			w[i] = (a1 + highMod - 1) % highMod
		}
	}
	return w
}
