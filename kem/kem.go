package kem

import (
	"golang.org/x/crypto/sha3"

	"pqcrystals/field"
	"pqcrystals/ring"
)

// GenerateKeyPair produces a fresh key pair from the system CSPRNG. The
// matrix A is derived from the public seed rho, so decapsulation peers
// re-derive it identically from the public key alone.
func GenerateKeyPair() (*PublicKey, *PrivateKey, error) {
	rho, err := field.SecureRandomBytes(SeedSize)
	if err != nil {
		return nil, nil, err
	}
	sigma, err := field.SecureRandomBytes(SeedSize)
	if err != nil {
		return nil, nil, err
	}
	pk, sk := newKeyPair(rho, sigma)
	return pk, sk, nil
}

// newKeyPair derives a key pair deterministically from the two seeds.
func newKeyPair(rho, sigma []byte) (*PublicKey, *PrivateKey) {
	r := ring.Kem
	a := r.ExpandMatrix(rho, K, K)

	s := ring.NewVec(K)
	e := ring.NewVec(K)
	for i := 0; i < K; i++ {
		s[i] = r.SampleEta(sigma, uint16(i), Eta)
		e[i] = r.SampleEta(sigma, uint16(K+i), Eta)
	}

	// t = A*s + e, computed in the NTT domain and mapped back.
	sHat := r.NTTVec(s)
	t := r.AddVec(r.InvNTTVec(r.MatVecMul(a, sHat)), e)

	pk := &PublicKey{t: t}
	copy(pk.rho[:], rho)
	return pk, &PrivateKey{s: s}
}

// Encapsulate derives a fresh shared secret against the given public key
// and returns the ciphertext transporting it. Every call draws new
// randomness; the ephemeral vector r is never reused.
func Encapsulate(publicKey []byte) (ciphertext, sharedSecret []byte, err error) {
	pk, err := ParsePublicKey(publicKey)
	if err != nil {
		return nil, nil, err
	}
	m, err := field.SecureRandomBytes(MessageSize)
	if err != nil {
		return nil, nil, err
	}
	coins, err := field.SecureRandomBytes(SeedSize)
	if err != nil {
		return nil, nil, err
	}
	ct := encrypt(pk, m, coins)
	return ct, deriveSecret(m, ct), nil
}

// encrypt is the deterministic core of encapsulation: u = A^T*r + e1,
// v = t^T*r + e2 + encode(m), both compressed.
func encrypt(pk *PublicKey, m, coins []byte) []byte {
	r := ring.Kem
	a := r.ExpandMatrix(pk.rho[:], K, K)

	rv := ring.NewVec(K)
	e1 := ring.NewVec(K)
	for i := 0; i < K; i++ {
		rv[i] = r.SampleEta(coins, uint16(i), Eta)
		e1[i] = r.SampleEta(coins, uint16(K+i), Eta)
	}
	e2 := r.SampleEta(coins, uint16(2*K), Eta)

	rHat := r.NTTVec(rv)
	u := r.AddVec(r.InvNTTVec(r.MatTransVecMul(a, rHat)), e1)

	tHat := r.NTTVec(pk.t)
	v := r.InvNTT(r.DotVec(tHat, rHat))
	v = r.Add(v, e2)
	v = r.Add(v, r.EncodeMessage(m))

	ct := make([]byte, 0, CiphertextSize)
	for i := 0; i < K; i++ {
		ct = append(ct, ring.BitPack(r.Compress(u[i], Du), Du)...)
	}
	return append(ct, ring.BitPack(r.Compress(v, Dv), Dv)...)
}

// Decapsulate recovers the shared secret from a ciphertext. It never
// fails on a well-formed buffer: a corrupted ciphertext decodes to a
// different message and therefore yields an unrelated secret, rather
// than an error a decryption oracle could observe.
func Decapsulate(ciphertext, privateKey []byte) ([]byte, error) {
	sk, err := ParsePrivateKey(privateKey)
	if err != nil {
		return nil, err
	}
	if len(ciphertext) != CiphertextSize {
		return nil, ErrCiphertextSize
	}

	r := ring.Kem
	const uBytes = ring.N * Du / 8
	u := ring.NewVec(K)
	for i := 0; i < K; i++ {
		u[i] = r.Decompress(ring.BitUnpack(ciphertext[i*uBytes:(i+1)*uBytes], Du), Du)
	}
	v := r.Decompress(ring.BitUnpack(ciphertext[K*uBytes:], Dv), Dv)

	// m' = decode(v - s^T * u)
	w := r.Sub(v, r.InvNTT(r.DotVec(r.NTTVec(sk.s), r.NTTVec(u))))
	m := r.DecodeMessage(w)
	return deriveSecret(m, ciphertext), nil
}

// deriveSecret is the KDF binding the message to its ciphertext:
// SHAKE256(m || ct), 32 bytes.
func deriveSecret(m, ct []byte) []byte {
	xof := sha3.NewShake256()
	xof.Write(m)
	xof.Write(ct)
	out := make([]byte, SharedSecretSize)
	xof.Read(out)
	return out
}
