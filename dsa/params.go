// Package dsa implements a lattice signature scheme over the ring
// Z_8380417[X]/(X^256+1) using the Fiat-Shamir with aborts paradigm.
// Signing retries internally until a candidate leaks nothing about the
// secret key; verification is deterministic and total.
package dsa

import "pqcrystals/ring"

const (
	// K and L are the module dimensions: A is K x L.
	K = 4
	L = 4
	// Eta bounds the secret vectors s1, s2.
	Eta = 2
	// Tau is the Hamming weight of the challenge polynomial.
	Tau = 39
	// D is the number of low-order bits dropped from t.
	D = 13
	// Gamma1 bounds the signing mask y.
	Gamma1 = 1 << 17
	// Gamma2 is the low-order rounding range, (q-1)/88.
	Gamma2 = 95232
	// Beta = Tau * Eta bounds the contribution of c*s to z.
	Beta = Tau * Eta
	// Omega caps the total number of hint bits.
	Omega = 80

	// SeedSize is the length of all 32-byte internal seeds.
	SeedSize = 32
	// TRSize is the length of the public key hash kept in the secret key.
	TRSize = 64
	// CTildeSize is the length of the challenge hash in a signature.
	CTildeSize = 32

	// maxAttempts caps the rejection loop. Each round accepts with
	// probability around 1/4, so hitting the cap signals broken
	// randomness rather than bad luck.
	maxAttempts = 512

	t1Bytes  = ring.N * 10 / 8
	t0Bytes  = ring.N * D / 8
	etaBytes = ring.N * 3 / 8
	zBytes   = ring.N * 18 / 8
	w1Bytes  = ring.N * 6 / 8

	// PublicKeySize is rho || t1 at 10 bits per coefficient.
	PublicKeySize = SeedSize + K*t1Bytes
	// PrivateKeySize is rho || key || tr || s1 || s2 || t0.
	PrivateKeySize = 2*SeedSize + TRSize + (L+K)*etaBytes + K*t0Bytes
	// SignatureSize is cTilde || z at 18 bits per coefficient || hints.
	SignatureSize = CTildeSize + L*zBytes + Omega + K
)
