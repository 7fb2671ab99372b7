package ring

// Vec is a vector of ring elements. Mat is a row-major matrix of them.
type Vec []Poly
type Mat []Vec

// NewVec returns a zero vector of n ring elements.
func NewVec(n int) Vec {
	return make(Vec, n)
}

// ExpandMatrix expands a public seed into a rows x cols matrix of uniform
// ring elements in the NTT domain. Entry (i, j) uses nonce i<<8 | j, so
// the expansion is identical wherever it is recomputed.
func (t *Table) ExpandMatrix(rho []byte, rows, cols int) Mat {
	m := make(Mat, rows)
	for i := range m {
		m[i] = NewVec(cols)
		for j := range m[i] {
			m[i][j] = t.ExpandUniform(rho, uint16(i)<<8|uint16(j))
		}
	}
	return m
}

// NTTVec transforms every element of v.
func (t *Table) NTTVec(v Vec) Vec {
	w := NewVec(len(v))
	for i := range v {
		w[i] = t.NTT(v[i])
	}
	return w
}

// InvNTTVec inverse-transforms every element of v.
func (t *Table) InvNTTVec(v Vec) Vec {
	w := NewVec(len(v))
	for i := range v {
		w[i] = t.InvNTT(v[i])
	}
	return w
}

// MatVecMul computes m * v with all operands in the NTT domain.
func (t *Table) MatVecMul(m Mat, v Vec) Vec {
	w := NewVec(len(m))
	for i := range m {
		var acc Poly
		for j := range v {
			acc = t.Add(acc, t.PointwiseMul(m[i][j], v[j]))
		}
		w[i] = acc
	}
	return w
}

// MatTransVecMul computes m^T * v with all operands in the NTT domain.
func (t *Table) MatTransVecMul(m Mat, v Vec) Vec {
	if len(m) == 0 {
		return nil
	}
	w := NewVec(len(m[0]))
	for j := range w {
		var acc Poly
		for i := range m {
			acc = t.Add(acc, t.PointwiseMul(m[i][j], v[i]))
		}
		w[j] = acc
	}
	return w
}

// DotVec computes the inner product of two NTT-domain vectors.
func (t *Table) DotVec(a, b Vec) Poly {
	var acc Poly
	for i := range a {
		acc = t.Add(acc, t.PointwiseMul(a[i], b[i]))
	}
	return acc
}

// AddVec adds two vectors elementwise.
func (t *Table) AddVec(a, b Vec) Vec {
	w := NewVec(len(a))
	for i := range a {
		w[i] = t.Add(a[i], b[i])
	}
	return w
}

// SubVec subtracts b from a elementwise.
func (t *Table) SubVec(a, b Vec) Vec {
	w := NewVec(len(a))
	for i := range a {
		w[i] = t.Sub(a[i], b[i])
	}
	return w
}

// InfNormVec returns the largest InfNorm over the vector.
func (t *Table) InfNormVec(v Vec) uint32 {
	var max uint32
	for i := range v {
		if n := t.InfNorm(v[i]); n > max {
			max = n
		}
	}
	return max
}

// ScalarMulVec multiplies every element of an NTT-domain vector by the
// NTT-domain polynomial c.
func (t *Table) ScalarMulVec(c Poly, v Vec) Vec {
	w := NewVec(len(v))
	for i := range v {
		w[i] = t.PointwiseMul(c, v[i])
	}
	return w
}
