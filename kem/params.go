// Package kem implements a lattice key-encapsulation mechanism over the
// ring Z_3329[X]/(X^256+1) with module rank 3. Callers exchange opaque
// fixed-size byte buffers; all sizes below are part of the wire contract.
package kem

import "pqcrystals/ring"

const (
	// K is the module rank: matrices are K x K, vectors have K entries.
	K = 3
	// Eta bounds the centered binomial noise distribution.
	Eta = 2
	// Du and Dv are the ciphertext compression widths for u and v.
	Du = 10
	Dv = 4

	// SeedSize is the length of all internal seeds.
	SeedSize = 32
	// MessageSize is the length of the encapsulated message.
	MessageSize = ring.N / 8

	polyBytes = ring.N * 12 / 8

	// PublicKeySize is t packed at 12 bits per coefficient, then the
	// matrix seed rho.
	PublicKeySize = K*polyBytes + SeedSize
	// PrivateKeySize is s packed at 12 bits per coefficient.
	PrivateKeySize = K * polyBytes
	// CiphertextSize is u compressed to Du bits and v compressed to Dv.
	CiphertextSize = K*ring.N*Du/8 + ring.N*Dv/8
	// SharedSecretSize is the KDF output length.
	SharedSecretSize = 32
)
