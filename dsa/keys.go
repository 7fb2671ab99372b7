package dsa

import (
	"errors"
	"fmt"

	"pqcrystals/field"
	"pqcrystals/ring"
)

// Byte-level format errors.
var (
	ErrPublicKeySize  = errors.New("dsa: wrong public key length")
	ErrPrivateKeySize = errors.New("dsa: wrong private key length")
	ErrSignatureSize  = errors.New("dsa: wrong signature length")
	ErrEncoding       = errors.New("dsa: malformed encoding")
)

// PublicKey is the verification key: the matrix seed rho and the high
// bits t1 of t = A*s1 + s2.
type PublicKey struct {
	rho [SeedSize]byte
	t1  ring.Vec
}

// PrivateKey is the signing key. tr caches SHAKE256 of the public key
// so signing does not have to re-serialize it.
type PrivateKey struct {
	rho [SeedSize]byte
	key [SeedSize]byte
	tr  [TRSize]byte
	s1  ring.Vec
	s2  ring.Vec
	t0  ring.Vec
}

type signature struct {
	cTilde [CTildeSize]byte
	z      ring.Vec
	hint   ring.Vec
}

// Bytes serializes the public key as rho || t1 (10-bit packed).
func (pk *PublicKey) Bytes() []byte {
	out := make([]byte, 0, PublicKeySize)
	out = append(out, pk.rho[:]...)
	for i := 0; i < K; i++ {
		out = append(out, ring.BitPack(pk.t1[i], 10)...)
	}
	return out
}

// Bytes serializes the private key as rho || key || tr || s1 || s2 || t0.
// Small secrets pack as Eta - c at 3 bits; t0 packs as 2^(D-1) - c at D
// bits, both biased so the packed value is nonnegative.
func (sk *PrivateKey) Bytes() []byte {
	out := make([]byte, 0, PrivateKeySize)
	out = append(out, sk.rho[:]...)
	out = append(out, sk.key[:]...)
	out = append(out, sk.tr[:]...)
	for i := 0; i < L; i++ {
		out = append(out, packBiased(sk.s1[i], Eta, 3)...)
	}
	for i := 0; i < K; i++ {
		out = append(out, packBiased(sk.s2[i], Eta, 3)...)
	}
	for i := 0; i < K; i++ {
		out = append(out, packBiased(sk.t0[i], 1<<(D-1), D)...)
	}
	return out
}

// ParsePublicKey validates the exact length and decodes the key.
func ParsePublicKey(b []byte) (*PublicKey, error) {
	if len(b) != PublicKeySize {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrPublicKeySize, len(b), PublicKeySize)
	}
	pk := &PublicKey{t1: ring.NewVec(K)}
	copy(pk.rho[:], b[:SeedSize])
	b = b[SeedSize:]
	for i := 0; i < K; i++ {
		pk.t1[i] = ring.BitUnpack(b[i*t1Bytes:(i+1)*t1Bytes], 10)
	}
	return pk, nil
}

// ParsePrivateKey validates the exact length and decodes the key. Biased
// fields are range-checked so a parsed key is always well-formed.
func ParsePrivateKey(b []byte) (*PrivateKey, error) {
	if len(b) != PrivateKeySize {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrPrivateKeySize, len(b), PrivateKeySize)
	}
	sk := &PrivateKey{s1: ring.NewVec(L), s2: ring.NewVec(K), t0: ring.NewVec(K)}
	copy(sk.rho[:], b[:SeedSize])
	copy(sk.key[:], b[SeedSize:2*SeedSize])
	copy(sk.tr[:], b[2*SeedSize:2*SeedSize+TRSize])
	b = b[2*SeedSize+TRSize:]

	var err error
	for i := 0; i < L; i++ {
		sk.s1[i], err = unpackBiased(b[i*etaBytes:(i+1)*etaBytes], Eta, -Eta, 3)
		if err != nil {
			return nil, err
		}
	}
	b = b[L*etaBytes:]
	for i := 0; i < K; i++ {
		sk.s2[i], err = unpackBiased(b[i*etaBytes:(i+1)*etaBytes], Eta, -Eta, 3)
		if err != nil {
			return nil, err
		}
	}
	b = b[K*etaBytes:]
	for i := 0; i < K; i++ {
		sk.t0[i], err = unpackBiased(b[i*t0Bytes:(i+1)*t0Bytes], 1<<(D-1), 1-(1<<(D-1)), D)
		if err != nil {
			return nil, err
		}
	}
	return sk, nil
}

// packBiased serializes a polynomial with centered coefficients in
// (bound - 2^bits, bound] as bound - c at the given width.
func packBiased(p ring.Poly, bound int32, bits int) []byte {
	var biased ring.Poly
	for i := range p {
		biased[i] = uint32(bound - field.Center(p[i], ring.QSig))
	}
	return ring.BitPack(biased, bits)
}

// unpackBiased decodes bound - raw and rejects anything outside
// [lo, bound]; for full-width fields lo admits every raw value.
func unpackBiased(buf []byte, bound, lo int32, bits int) (ring.Poly, error) {
	raw := ring.BitUnpack(buf, bits)
	cs := make([]int32, ring.N)
	for i := range raw {
		c := bound - int32(raw[i])
		if c < lo || c > bound {
			return ring.Poly{}, fmt.Errorf("%w: coefficient out of range", ErrEncoding)
		}
		cs[i] = c
	}
	return ring.Sig.FromCentered(cs), nil
}

// bytes serializes a signature as cTilde || z || hints. z packs as
// Gamma1 - 1 - c at 18 bits. Hints pack as up to Omega set positions
// followed by K cumulative counts.
func (s *signature) bytes() []byte {
	out := make([]byte, 0, SignatureSize)
	out = append(out, s.cTilde[:]...)
	for i := 0; i < L; i++ {
		out = append(out, packBiased(s.z[i], Gamma1-1, 18)...)
	}

	h := make([]byte, Omega+K)
	idx := 0
	for i := 0; i < K; i++ {
		for j := 0; j < ring.N; j++ {
			if s.hint[i][j] != 0 {
				h[idx] = byte(j)
				idx++
			}
		}
		h[Omega+i] = byte(idx)
	}
	return append(out, h...)
}

// parseSignature validates the exact length and every encoding rule:
// hint counts must be nondecreasing and at most Omega, positions must
// strictly increase within each polynomial, and padding must be zero.
// Any violation rejects the signature before arithmetic starts.
func parseSignature(b []byte) (*signature, error) {
	if len(b) != SignatureSize {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrSignatureSize, len(b), SignatureSize)
	}
	s := &signature{z: ring.NewVec(L), hint: ring.NewVec(K)}
	copy(s.cTilde[:], b[:CTildeSize])
	b = b[CTildeSize:]

	var err error
	for i := 0; i < L; i++ {
		s.z[i], err = unpackBiased(b[i*zBytes:(i+1)*zBytes], Gamma1-1, -Gamma1, 18)
		if err != nil {
			return nil, err
		}
	}
	h := b[L*zBytes:]

	idx := 0
	for i := 0; i < K; i++ {
		count := int(h[Omega+i])
		if count < idx || count > Omega {
			return nil, fmt.Errorf("%w: hint count", ErrEncoding)
		}
		for j := idx; j < count; j++ {
			if j > idx && h[j] <= h[j-1] {
				return nil, fmt.Errorf("%w: hint positions not sorted", ErrEncoding)
			}
			s.hint[i][h[j]] = 1
		}
		idx = count
	}
	for j := idx; j < Omega; j++ {
		if h[j] != 0 {
			return nil, fmt.Errorf("%w: nonzero hint padding", ErrEncoding)
		}
	}
	return s, nil
}
