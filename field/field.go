// Package field implements arithmetic over the prime fields used by the
// KEM and signature rings, constant-time byte comparison, and secure
// randomness helpers. Both scheme moduli fit in 32 bits, so all products
// are taken through uint64 before reduction.
package field

// Reduce maps an arbitrary signed value into [0, q). Negative inputs are
// handled by the double-modulo idiom.
func Reduce(x int64, q uint32) uint32 {
	m := int64(q)
	return uint32(((x % m) + m) % m)
}

// Add returns (a + b) mod q. Both inputs must already be in [0, q).
func Add(a, b, q uint32) uint32 {
	s := a + b
	if s >= q {
		s -= q
	}
	return s
}

// Sub returns (a - b) mod q. Both inputs must already be in [0, q).
func Sub(a, b, q uint32) uint32 {
	s := a + q - b
	if s >= q {
		s -= q
	}
	return s
}

// Mul returns (a * b) mod q through a 64-bit product.
func Mul(a, b, q uint32) uint32 {
	return uint32(uint64(a) * uint64(b) % uint64(q))
}

// Exp returns base^e mod q by square-and-multiply.
func Exp(base uint32, e uint64, q uint32) uint32 {
	result := uint32(1 % q)
	b := base % q
	for e > 0 {
		if e&1 == 1 {
			result = Mul(result, b, q)
		}
		b = Mul(b, b, q)
		e >>= 1
	}
	return result
}

// Inv returns a^-1 mod q for prime q via Fermat's little theorem.
// a must be non-zero mod q.
func Inv(a, q uint32) uint32 {
	return Exp(a, uint64(q)-2, q)
}

// Center maps a coefficient in [0, q) to its centered representative
// in (-q/2, q/2].
func Center(a, q uint32) int32 {
	if a > q/2 {
		return int32(a) - int32(q)
	}
	return int32(a)
}

// ConstantTimeEquals compares two byte slices without early exit.
// A length mismatch fails closed. For equal lengths the XOR of every
// byte pair is ORed into an accumulator, so the running time does not
// depend on the position of the first difference.
func ConstantTimeEquals(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	var diff byte
	for i := range a {
		diff |= a[i] ^ b[i]
	}
	return diff == 0
}
