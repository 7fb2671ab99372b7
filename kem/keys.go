package kem

import (
	"errors"
	"fmt"

	"pqcrystals/ring"
)

// Byte-level format errors. All are recoverable input validation
// failures, reported before any arithmetic happens.
var (
	ErrPublicKeySize  = errors.New("kem: wrong public key length")
	ErrPrivateKeySize = errors.New("kem: wrong private key length")
	ErrCiphertextSize = errors.New("kem: wrong ciphertext length")
)

// PublicKey is the encapsulation key: t = A*s + e and the seed rho that
// re-derives A.
type PublicKey struct {
	rho [SeedSize]byte
	t   ring.Vec
}

// PrivateKey is the decapsulation key: the secret vector s.
type PrivateKey struct {
	s ring.Vec
}

// Bytes serializes the public key as t (12-bit packed) || rho.
func (pk *PublicKey) Bytes() []byte {
	out := make([]byte, 0, PublicKeySize)
	for i := 0; i < K; i++ {
		out = append(out, ring.BitPack(pk.t[i], 12)...)
	}
	return append(out, pk.rho[:]...)
}

// Bytes serializes the private key as s (12-bit packed).
func (sk *PrivateKey) Bytes() []byte {
	out := make([]byte, 0, PrivateKeySize)
	for i := 0; i < K; i++ {
		out = append(out, ring.BitPack(sk.s[i], 12)...)
	}
	return out
}

// ParsePublicKey validates the exact length and decodes the key. Packed
// coefficients are reduced mod q so a parsed key is always well-formed.
func ParsePublicKey(b []byte) (*PublicKey, error) {
	if len(b) != PublicKeySize {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrPublicKeySize, len(b), PublicKeySize)
	}
	pk := &PublicKey{t: ring.NewVec(K)}
	for i := 0; i < K; i++ {
		pk.t[i] = reducePoly(ring.BitUnpack(b[i*polyBytes:(i+1)*polyBytes], 12))
	}
	copy(pk.rho[:], b[K*polyBytes:])
	return pk, nil
}

// ParsePrivateKey validates the exact length and decodes the key.
func ParsePrivateKey(b []byte) (*PrivateKey, error) {
	if len(b) != PrivateKeySize {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrPrivateKeySize, len(b), PrivateKeySize)
	}
	sk := &PrivateKey{s: ring.NewVec(K)}
	for i := 0; i < K; i++ {
		sk.s[i] = reducePoly(ring.BitUnpack(b[i*polyBytes:(i+1)*polyBytes], 12))
	}
	return sk, nil
}

func reducePoly(p ring.Poly) ring.Poly {
	for i := range p {
		if p[i] >= ring.QKem {
			p[i] -= ring.QKem
		}
	}
	return p
}
