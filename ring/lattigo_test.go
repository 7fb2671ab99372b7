package ring

import (
	"math/rand"
	"testing"

	lring "github.com/tuneinsight/lattigo/v4/ring"
)

// The signature modulus is lattigo-compatible (8380417 = 1 mod 512), so
// lattigo's ring serves as an independent implementation to validate our
// negacyclic product against.
func TestMulPolyAgainstLattigo(t *testing.T) {
	lr, err := lring.NewRing(N, []uint64{uint64(QSig)})
	if err != nil {
		t.Fatalf("lattigo ring: %v", err)
	}

	rng := rand.New(rand.NewSource(8))
	for trial := 0; trial < 8; trial++ {
		a := randPoly(rng, QSig)
		b := randPoly(rng, QSig)

		la, lb, lc := lr.NewPoly(), lr.NewPoly(), lr.NewPoly()
		for i := 0; i < N; i++ {
			la.Coeffs[0][i] = uint64(a[i])
			lb.Coeffs[0][i] = uint64(b[i])
		}
		lr.MForm(la, la)
		lr.MForm(lb, lb)
		lr.NTT(la, la)
		lr.NTT(lb, lb)
		lr.MulCoeffsMontgomery(la, lb, lc)
		lr.InvNTT(lc, lc)
		lr.InvMForm(lc, lc)

		got := Sig.MulPoly(a, b)
		for i := 0; i < N; i++ {
			if uint64(got[i]) != lc.Coeffs[0][i] {
				t.Fatalf("trial %d: coefficient %d: ours %d, lattigo %d",
					trial, i, got[i], lc.Coeffs[0][i])
			}
		}
	}
}
