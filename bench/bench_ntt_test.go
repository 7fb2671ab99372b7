package bench

import (
	"math/rand"
	"testing"

	lring "github.com/tuneinsight/lattigo/v4/ring"

	"pqcrystals/ring"
)

func randPoly(rng *rand.Rand, q uint32) ring.Poly {
	var p ring.Poly
	for i := range p {
		p[i] = uint32(rng.Int63n(int64(q)))
	}
	return p
}

func BenchmarkNTTForwardInverseKem(b *testing.B) {
	rng := rand.New(rand.NewSource(1))
	p := randPoly(rng, ring.QKem)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		p = ring.Kem.InvNTT(ring.Kem.NTT(p))
	}
}

func BenchmarkNTTForwardInverseSig(b *testing.B) {
	rng := rand.New(rand.NewSource(2))
	p := randPoly(rng, ring.QSig)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		p = ring.Sig.InvNTT(ring.Sig.NTT(p))
	}
}

func BenchmarkMulPolySig(b *testing.B) {
	rng := rand.New(rand.NewSource(3))
	x := randPoly(rng, ring.QSig)
	y := randPoly(rng, ring.QSig)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		x = ring.Sig.MulPoly(x, y)
	}
}

// Same transform through lattigo, for a baseline against an optimized
// implementation.
func BenchmarkNTTForwardInverseLattigo(b *testing.B) {
	lr, err := lring.NewRing(ring.N, []uint64{uint64(ring.QSig)})
	if err != nil {
		b.Fatalf("lattigo ring: %v", err)
	}
	p := lr.NewPoly()
	for i := 0; i < ring.N; i++ {
		p.Coeffs[0][i] = uint64(i)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		lr.NTT(p, p)
		lr.InvNTT(p, p)
	}
}
