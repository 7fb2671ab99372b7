package ring

import "pqcrystals/field"

// Poly is one ring element: N coefficients, each kept in [0, q). The
// zero value is the zero polynomial.
type Poly [N]uint32

// Add returns a + b coefficient-wise mod q.
func (t *Table) Add(a, b Poly) Poly {
	var c Poly
	for i := range c {
		c[i] = field.Add(a[i], b[i], t.Q)
	}
	return c
}

// Sub returns a - b coefficient-wise mod q.
func (t *Table) Sub(a, b Poly) Poly {
	var c Poly
	for i := range c {
		c[i] = field.Sub(a[i], b[i], t.Q)
	}
	return c
}

// InfNorm returns the largest absolute centered coefficient of p.
func (t *Table) InfNorm(p Poly) uint32 {
	var max uint32
	for _, a := range p {
		c := field.Center(a, t.Q)
		if c < 0 {
			c = -c
		}
		if uint32(c) > max {
			max = uint32(c)
		}
	}
	return max
}

// FromCentered builds a polynomial from centered coefficients.
func (t *Table) FromCentered(cs []int32) Poly {
	var p Poly
	for i, c := range cs {
		p[i] = field.Reduce(int64(c), t.Q)
	}
	return p
}
