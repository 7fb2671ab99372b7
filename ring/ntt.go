// Package ring implements the polynomial rings Z_q[X]/(X^256+1) used by
// the KEM and the signature scheme: the Number Theoretic Transform with
// precomputed twiddle factors, deterministic SHAKE-based samplers, and
// vector/matrix operations over ring elements.
package ring

import "pqcrystals/field"

// N is the ring degree, shared by both parameter sets.
const N = 256

// Moduli of the two supported rings.
const (
	QKem uint32 = 3329    // 2^8 * 13 + 1
	QSig uint32 = 8380417 // 2^23 - 2^13 + 1
)

// Table carries the precomputed NTT data for one modulus.
//
// The forward transform is a Cooley-Tukey butterfly network consuming
// twiddle factors psi^bitrev(k) in increasing k; its output is in
// bit-reversed order. The inverse is the matching Gentleman-Sande network
// followed by scaling with 2^-layers mod q. For QSig psi has order 2N and
// the transform is complete (eight layers, elementwise pointwise
// products). For QKem only an order-N root exists, so the transform stops
// after seven layers and the ring splits into 128 quadratic factors;
// pointwise multiplication then works on coefficient pairs against the
// per-factor constants in gammas.
type Table struct {
	Q      uint32
	Layers int
	zetas  []uint32 // psi^bitrev(k), k in [0, 2^Layers)
	gammas []uint32 // split case only: psi^(2*bitrev(i)+1), i in [0, N/2)
	scale  uint32   // (2^Layers)^-1 mod q
}

var (
	// Kem is the KEM ring: q = 3329, psi = 17 of order 256.
	Kem = newTable(QKem, 17, 7)
	// Sig is the signature ring: q = 8380417, psi = 1753 of order 512.
	Sig = newTable(QSig, 1753, 8)
)

func bitrev(x, bits int) int {
	r := 0
	for i := 0; i < bits; i++ {
		r = r<<1 | x&1
		x >>= 1
	}
	return r
}

func newTable(q, psi uint32, layers int) *Table {
	t := &Table{Q: q, Layers: layers}
	size := 1 << layers
	t.zetas = make([]uint32, size)
	for k := 0; k < size; k++ {
		t.zetas[k] = field.Exp(psi, uint64(bitrev(k, layers)), q)
	}
	if layers < 8 {
		t.gammas = make([]uint32, N/2)
		for i := 0; i < N/2; i++ {
			t.gammas[i] = field.Exp(psi, uint64(2*bitrev(i, layers)+1), q)
		}
	}
	t.scale = field.Inv(uint32(size), q)
	return t
}

// NTT applies the forward transform. Output order is bit-reversed.
func (t *Table) NTT(p Poly) Poly {
	q := t.Q
	k := 1
	for length := N / 2; length >= N>>t.Layers; length >>= 1 {
		for start := 0; start < N; start += 2 * length {
			zeta := t.zetas[k]
			k++
			for j := start; j < start+length; j++ {
				u := field.Mul(zeta, p[j+length], q)
				p[j+length] = field.Sub(p[j], u, q)
				p[j] = field.Add(p[j], u, q)
			}
		}
	}
	return p
}

// InvNTT applies the inverse transform and scales by 2^-layers, so that
// InvNTT(NTT(p)) == p exactly.
func (t *Table) InvNTT(p Poly) Poly {
	q := t.Q
	k := 1<<t.Layers - 1
	for length := N >> t.Layers; length < N; length <<= 1 {
		for start := 0; start < N; start += 2 * length {
			zeta := q - t.zetas[k]
			k--
			for j := start; j < start+length; j++ {
				u := p[j]
				p[j] = field.Add(u, p[j+length], q)
				p[j+length] = field.Mul(zeta, field.Sub(u, p[j+length], q), q)
			}
		}
	}
	for i := range p {
		p[i] = field.Mul(p[i], t.scale, q)
	}
	return p
}

// PointwiseMul multiplies two transformed polynomials. For the complete
// transform this is elementwise; for the split transform each coefficient
// pair (2i, 2i+1) is multiplied modulo X^2 - gammas[i].
func (t *Table) PointwiseMul(a, b Poly) Poly {
	q := t.Q
	var c Poly
	if t.gammas == nil {
		for i := range c {
			c[i] = field.Mul(a[i], b[i], q)
		}
		return c
	}
	for i := 0; i < N/2; i++ {
		a0, a1 := a[2*i], a[2*i+1]
		b0, b1 := b[2*i], b[2*i+1]
		c[2*i] = field.Add(field.Mul(a0, b0, q), field.Mul(t.gammas[i], field.Mul(a1, b1, q), q), q)
		c[2*i+1] = field.Add(field.Mul(a0, b1, q), field.Mul(a1, b0, q), q)
	}
	return c
}

// MulPoly multiplies two coefficient-domain polynomials through the NTT.
func (t *Table) MulPoly(a, b Poly) Poly {
	return t.InvNTT(t.PointwiseMul(t.NTT(a), t.NTT(b)))
}
