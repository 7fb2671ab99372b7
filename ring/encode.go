package ring

// Bit packing uses a single fixed convention: coefficient i contributes
// its bits least-significant first, and bytes fill from the low bit up.

// BitPack serializes p at the given width. Every coefficient must already
// be below 2^bits.
func BitPack(p Poly, bits int) []byte {
	out := make([]byte, N*bits/8)
	var acc uint64
	accBits := 0
	next := 0
	for i := 0; i < N; i++ {
		acc |= uint64(p[i]) << accBits
		accBits += bits
		for accBits >= 8 {
			out[next] = byte(acc)
			next++
			acc >>= 8
			accBits -= 8
		}
	}
	return out
}

// BitUnpack reads N coefficients of the given width from buf, which must
// hold exactly N*bits/8 bytes.
func BitUnpack(buf []byte, bits int) Poly {
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
		p[i] = uint32(acc & mask)
		acc >>= uint(bits)
		accBits -= bits
	}
	return p
}

// Compress rounds every coefficient to d bits: round(2^d * x / q) mod 2^d.
func (t *Table) Compress(p Poly, d int) Poly {
	var c Poly
	q := uint64(t.Q)
	for i := range p {
		c[i] = uint32((uint64(p[i])<<d + q/2) / q) & (1<<d - 1)
	}
	return c
}

// Decompress is the pseudo-inverse of Compress: round(q * v / 2^d).
func (t *Table) Decompress(p Poly, d int) Poly {
	var c Poly
	q := uint64(t.Q)
	for i := range p {
		c[i] = uint32((q*uint64(p[i]) + 1<<(d-1)) >> d)
	}
	return c
}

// EncodeMessage maps a 32-byte message to a ring element: bit 0 becomes
// coefficient 0, bit 1 becomes round(q/2). Bits are read low-first from
// each byte.
func (t *Table) EncodeMessage(msg []byte) Poly {
	var p Poly
	half := (t.Q + 1) / 2
	for i := 0; i < N; i++ {
		if msg[i/8]>>(i%8)&1 == 1 {
			p[i] = half
		}
	}
	return p
}

// DecodeMessage rounds every coefficient to the nearer of 0 and q/2,
// recovering the message as long as additive noise stays below q/4.
func (t *Table) DecodeMessage(p Poly) []byte {
	msg := make([]byte, N/8)
	c := t.Compress(p, 1)
	for i := 0; i < N; i++ {
		msg[i/8] |= byte(c[i]) << (i % 8)
	}
	return msg
}
