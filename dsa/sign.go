package dsa

import (
	"errors"
	"time"

	"golang.org/x/crypto/sha3"

	"pqcrystals/field"
	"pqcrystals/measure"
	"pqcrystals/ring"
)

// ErrRetryExhausted is returned when the rejection loop hits its
// attempt ceiling. With these parameters each candidate is accepted
// with probability around 1/4, so the ceiling is unreachable unless
// the randomness source is broken.
var ErrRetryExhausted = errors.New("dsa: rejection sampling exhausted its attempt budget")

// GenerateKeyPair produces a fresh signing key pair from the system
// CSPRNG. All secrets derive from one 32-byte seed through SHAKE256.
func GenerateKeyPair() (*PublicKey, *PrivateKey, error) {
	seed, err := field.SecureRandomBytes(SeedSize)
	if err != nil {
		return nil, nil, err
	}
	pk, sk := newKeyPair(seed)
	return pk, sk, nil
}

// newKeyPair derives a key pair deterministically from the seed.
func newKeyPair(seed []byte) (*PublicKey, *PrivateKey) {
	r := ring.Sig

	expanded := shake256(2*SeedSize+TRSize, seed)
	rho := expanded[:SeedSize]
	rhoPrime := expanded[SeedSize : SeedSize+TRSize]
	key := expanded[SeedSize+TRSize:]

	a := r.ExpandMatrix(rho, K, L)
	s1 := ring.NewVec(L)
	s2 := ring.NewVec(K)
	for i := 0; i < L; i++ {
		s1[i] = r.SampleEta(rhoPrime, uint16(i), Eta)
	}
	for i := 0; i < K; i++ {
		s2[i] = r.SampleEta(rhoPrime, uint16(L+i), Eta)
	}

	// t = A*s1 + s2, then split into (t1, t0) around 2^D.
	t := r.AddVec(r.InvNTTVec(r.MatVecMul(a, r.NTTVec(s1))), s2)
	t1 := ring.NewVec(K)
	t0 := ring.NewVec(K)
	lows := make([]int32, ring.N)
	for i := 0; i < K; i++ {
		for j := 0; j < ring.N; j++ {
			hi, lo := power2Round(t[i][j])
			t1[i][j] = hi
			lows[j] = lo
		}
		t0[i] = r.FromCentered(lows)
	}

	pk := &PublicKey{t1: t1}
	copy(pk.rho[:], rho)

	sk := &PrivateKey{s1: s1, s2: s2, t0: t0}
	copy(sk.rho[:], rho)
	copy(sk.key[:], key)
	tr := shake256(TRSize, pk.Bytes())
	copy(sk.tr[:], tr)
	return pk, sk
}

// Sign produces a signature over message. Candidate signatures are
// rejected until z, the low bits of w - c*s2, and the hint weight all
// stay inside their bounds; only then does the candidate leak nothing
// about s1 and s2. Fresh randomness is mixed into the mask seed so two
// signatures over the same message differ.
func Sign(privateKey, message []byte) ([]byte, error) {
	sk, err := ParsePrivateKey(privateKey)
	if err != nil {
		return nil, err
	}
	rnd, err := field.SecureRandomBytes(SeedSize)
	if err != nil {
		return nil, err
	}
	return sign(sk, message, rnd)
}

func sign(sk *PrivateKey, message, rnd []byte) ([]byte, error) {
	defer measure.Global.Track(time.Now(), "dsa/sign")
	r := ring.Sig
	a := r.ExpandMatrix(sk.rho[:], K, L)
	s1Hat := r.NTTVec(sk.s1)
	s2Hat := r.NTTVec(sk.s2)
	t0Hat := r.NTTVec(sk.t0)

	mu := shake256(TRSize, sk.tr[:], message)
	rhoPrime := shake256(TRSize, sk.key[:], rnd, mu)

	for kappa := 0; kappa < maxAttempts*L; kappa += L {
		y := ring.NewVec(L)
		for i := 0; i < L; i++ {
			y[i] = r.ExpandMask(rhoPrime, uint16(kappa+i), Gamma1)
		}
		yHat := r.NTTVec(y)
		w := r.InvNTTVec(r.MatVecMul(a, yHat))

		w1 := ring.NewVec(K)
		for i := 0; i < K; i++ {
			w1[i] = highBits(w[i])
		}
		var sig signature
		copy(sig.cTilde[:], shake256(CTildeSize, mu, packHigh(w1)))

		c := r.SampleInBall(sig.cTilde[:], Tau)
		cHat := r.NTT(c)

		// z = y + c*s1 must hide y.
		sig.z = r.AddVec(y, r.InvNTTVec(r.ScalarMulVec(cHat, s1Hat)))
		if r.InfNormVec(sig.z) >= Gamma1-Beta {
			continue
		}

		// The low bits of w - c*s2 must not straddle a rounding edge.
		wSub := r.SubVec(w, r.InvNTTVec(r.ScalarMulVec(cHat, s2Hat)))
		reject := false
		for i := 0; i < K && !reject; i++ {
			reject = infNormCentered(lowBits(wSub[i])) >= Gamma2-Beta
		}
		if reject {
			continue
		}

		// c*t0 feeds the hint; it must stay below Gamma2 and the hint
		// weight below Omega.
		ct0 := r.InvNTTVec(r.ScalarMulVec(cHat, t0Hat))
		if r.InfNormVec(ct0) >= Gamma2 {
			continue
		}
		sig.hint = ring.NewVec(K)
		weight := 0
		for i := 0; i < K; i++ {
			var n int
			sig.hint[i], n = makeHint(wSub[i], r.Add(wSub[i], ct0[i]))
			weight += n
		}
		if weight > Omega {
			continue
		}
		measure.Global.Add("dsa/sign/attempts", uint64(kappa/L+1))
		measure.Global.Add("dsa/sign/hint_weight", uint64(weight))
		return sig.bytes(), nil
	}
	return nil, ErrRetryExhausted
}

// Verify reports whether sig is a valid signature over message under
// publicKey. Malformed inputs verify as false, never as an error.
func Verify(publicKey, message, sig []byte) bool {
	pk, err := ParsePublicKey(publicKey)
	if err != nil {
		return false
	}
	s, err := parseSignature(sig)
	if err != nil {
		return false
	}

	r := ring.Sig
	if r.InfNormVec(s.z) >= Gamma1-Beta {
		return false
	}

	tr := shake256(TRSize, publicKey)
	mu := shake256(TRSize, tr, message)
	c := r.SampleInBall(s.cTilde[:], Tau)

	// w' = A*z - c*t1*2^D, recovered up to its high bits via the hint.
	a := r.ExpandMatrix(pk.rho[:], K, L)
	az := r.MatVecMul(a, r.NTTVec(s.z))

	t1Shift := ring.NewVec(K)
	for i := 0; i < K; i++ {
		for j := 0; j < ring.N; j++ {
			t1Shift[i][j] = field.Reduce(int64(pk.t1[i][j])<<D, ring.QSig)
		}
	}
	ct1 := r.ScalarMulVec(r.NTT(c), r.NTTVec(t1Shift))
	wApprox := r.InvNTTVec(r.SubVec(az, ct1))

	w1 := ring.NewVec(K)
	for i := 0; i < K; i++ {
		w1[i] = useHint(s.hint[i], wApprox[i])
	}
	cTilde := shake256(CTildeSize, mu, packHigh(w1))
	return field.ConstantTimeEquals(s.cTilde[:], cTilde)
}

// packHigh serializes high-bit vectors at 6 bits per coefficient for
// hashing into the challenge.
func packHigh(w1 ring.Vec) []byte {
	out := make([]byte, 0, len(w1)*w1Bytes)
	for i := range w1 {
		out = append(out, ring.BitPack(w1[i], 6)...)
	}
	return out
}

// shake256 hashes the concatenation of the parts to n bytes.
func shake256(n int, parts ...[]byte) []byte {
	xof := sha3.NewShake256()
	for _, p := range parts {
		xof.Write(p)
	}
	out := make([]byte, n)
	xof.Read(out)
	return out
}
