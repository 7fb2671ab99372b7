package kem

import (
	"bytes"
	"encoding/hex"
	"testing"

	"golang.org/x/crypto/sha3"

	"pqcrystals/field"
	"pqcrystals/ring"
)

func TestEncapsulateDecapsulateRoundTrip(t *testing.T) {
	for trial := 0; trial < 24; trial++ {
		pk, sk, err := GenerateKeyPair()
		if err != nil {
			t.Fatalf("GenerateKeyPair: %v", err)
		}
		ct, ss, err := Encapsulate(pk.Bytes())
		if err != nil {
			t.Fatalf("Encapsulate: %v", err)
		}
		got, err := Decapsulate(ct, sk.Bytes())
		if err != nil {
			t.Fatalf("Decapsulate: %v", err)
		}
		if !field.ConstantTimeEquals(ss, got) {
			t.Fatalf("trial %d: shared secrets differ", trial)
		}
	}
}

func TestBufferSizes(t *testing.T) {
	pk, sk, err := GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}
	if n := len(pk.Bytes()); n != PublicKeySize {
		t.Fatalf("public key %d bytes, want %d", n, PublicKeySize)
	}
	if n := len(sk.Bytes()); n != PrivateKeySize {
		t.Fatalf("private key %d bytes, want %d", n, PrivateKeySize)
	}
	ct, ss, err := Encapsulate(pk.Bytes())
	if err != nil {
		t.Fatalf("Encapsulate: %v", err)
	}
	if len(ct) != CiphertextSize {
		t.Fatalf("ciphertext %d bytes, want %d", len(ct), CiphertextSize)
	}
	if len(ss) != SharedSecretSize {
		t.Fatalf("shared secret %d bytes, want %d", len(ss), SharedSecretSize)
	}
}

func TestKeyParseRoundTrip(t *testing.T) {
	pk, sk, err := GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}
	pk2, err := ParsePublicKey(pk.Bytes())
	if err != nil {
		t.Fatalf("ParsePublicKey: %v", err)
	}
	if !bytes.Equal(pk.Bytes(), pk2.Bytes()) {
		t.Fatal("public key reserialization differs")
	}
	sk2, err := ParsePrivateKey(sk.Bytes())
	if err != nil {
		t.Fatalf("ParsePrivateKey: %v", err)
	}
	if !bytes.Equal(sk.Bytes(), sk2.Bytes()) {
		t.Fatal("private key reserialization differs")
	}
}

func TestInputValidation(t *testing.T) {
	pk, sk, err := GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}
	if _, _, err := Encapsulate(pk.Bytes()[:PublicKeySize-1]); err == nil {
		t.Fatal("undersized public key accepted")
	}
	if _, _, err := Encapsulate(append(pk.Bytes(), 0)); err == nil {
		t.Fatal("oversized public key accepted")
	}
	ct, _, err := Encapsulate(pk.Bytes())
	if err != nil {
		t.Fatalf("Encapsulate: %v", err)
	}
	if _, err := Decapsulate(ct[:CiphertextSize-1], sk.Bytes()); err == nil {
		t.Fatal("undersized ciphertext accepted")
	}
	if _, err := Decapsulate(ct, sk.Bytes()[:10]); err == nil {
		t.Fatal("undersized private key accepted")
	}
	if _, err := Decapsulate(nil, sk.Bytes()); err == nil {
		t.Fatal("nil ciphertext accepted")
	}
}

// A tampered ciphertext must still decapsulate without error, but to an
// unrelated secret (implicit rejection: no decryption oracle).
func TestTamperedCiphertextYieldsDifferentSecret(t *testing.T) {
	pk, sk, err := GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}
	ct, ss, err := Encapsulate(pk.Bytes())
	if err != nil {
		t.Fatalf("Encapsulate: %v", err)
	}
	for _, pos := range []int{0, CiphertextSize / 2, CiphertextSize - 1} {
		bad := append([]byte(nil), ct...)
		bad[pos] ^= 0x01
		got, err := Decapsulate(bad, sk.Bytes())
		if err != nil {
			t.Fatalf("Decapsulate(tampered): %v", err)
		}
		if field.ConstantTimeEquals(ss, got) {
			t.Fatalf("flip at byte %d left the shared secret unchanged", pos)
		}
	}
}

func TestEncapsulationFreshness(t *testing.T) {
	pk, _, err := GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}
	ct1, ss1, err := Encapsulate(pk.Bytes())
	if err != nil {
		t.Fatalf("Encapsulate: %v", err)
	}
	ct2, ss2, err := Encapsulate(pk.Bytes())
	if err != nil {
		t.Fatalf("Encapsulate: %v", err)
	}
	if bytes.Equal(ct1, ct2) || field.ConstantTimeEquals(ss1, ss2) {
		t.Fatal("two encapsulations reused randomness")
	}
}

var katRho = []byte("kat-rho-seed-0123456789abcdef012")
var katSigma = []byte("kat-sigma-seed-0123456789abcdef0")
var katMsg = []byte("kat-message-0123456789abcdef0123")
var katCoins = []byte("kat-coins-seed-0123456789abcdef0")

// Known-answer vectors for the seeds above. Any unintended change to the
// sampling order, the packing layout, or the KDF breaks these constants.
const (
	katPublicKeyDigest  = "00f38453a0885f320b01d663a53e4845820f287704f956fc24366d7a16ab270b"
	katPrivateKeyDigest = "eb94c39cbcde4aad388edbd8ade8d471794a9c2d6d33ddde8baf2f5564190f04"
	katSharedSecret     = "0782c9bd6628b124331af3052f94b66478be218cd94cf3d143209e4f8a157197"

	katCiphertext = "b44c74d77a41cff5e18177005f98f7a7d8b76c4ade72b5edafabb24456df5cd7" +
		"94f0c1470b4bea149c9991ac689e04e0f653869de5e340646006a7fdfa09e960" +
		"b122d5c94e3e87d259c5d44e2e89a8a47df492679bf816cfa591c8a588ade57c" +
		"6b3e69ed8268f79700aceb298de148852d57b9aaa629b0e71462f449f34d6384" +
		"c825fdd28560ce8f3b8fcf65816c0bcc88259454d54774bf2056f5a3b35e3444" +
		"240e6c24a6fbdf72b688a794669584c908f7202ad3d157d4ae2dc8ae15d69d98" +
		"bbf495ebe4185cef6bd0ff33450306691e25d693a6b449065de3ae1895888f88" +
		"986dfa59ba7ff5c091337938d9198f0d5a2f4a64cd726d261a122a0dc89a2588" +
		"11813183d12489faca588fe4f31ab9e13870a35d12c1a9d9c99601556f6a88ba" +
		"25b9ec7d81217efbf166b92e49b4d712d140061ec3bbd0654896250b01d36f7b" +
		"831c9f421098ed4f0dc21e7b12a163fad4704ef3bbe5aaf849692c60cea97b3f" +
		"a13a1469ba8230fcd5e60f7f81b28a1b0e4ad1262c5ae469b96017353c7ff9c9" +
		"9851f399e237a2c123c5a4f590376323823019c08e5fa43dbce0c6f98b16320f" +
		"2b1cd8d55458b1d0e3ab7d258d322c1f96b591bfc08475ba350c7493a45c2bc1" +
		"97b3eba8adbfeb67db4f66652313a222654ee41459d8189d7db23ae3e4148ecd" +
		"bbe30440d4c52627822f089c736d1ff8cfdf7c14dd3a6b01d50db5623847a471" +
		"a6cf55a194f11d10d699f57b3c8ac098c1b22635f574009d3fb56ac7ea86c158" +
		"fcff189d55fd8cbd245823cd82869a55e0780337938095e34fd52f1184df5cd9" +
		"f9a25773053737ed653b7318569fd900579f9de978fabe68a5203320146e34d2" +
		"2ee30c9a8d863a788dc5d55e7d44ec38b0cc05bc81b17deaa6cb25470ff95d26" +
		"82f83c05f498d6b83a83f87763bd564fade56239d8bce45845a9e1e627de168c" +
		"a70f81605f52d0422d0626d5948112b8b37a85e4947413423661652f93867ea5" +
		"8489a0128c038404f4417ccbc5bc09d035ce601cd2bf598968e45ec6b46c4072" +
		"0c708410baff1dd060952a815bd1e6d34341b7f50e671f60117f0ea9feb135dd" +
		"d7c390a163bb7d37874d68221f654829f2f4e27aaab69a8e8b4f460b13851fe0" +
		"b56a36f0c80fc133b95493682dee68944d7b06a6240f3dec87d443386ce6891f" +
		"a4758611b25d103dda0b5f99b22b1308ebdb4b23d144cca5fe65aca275e25489" +
		"d2630a3de8aca510372f14cb9c8114320063073267881394e057085a16af2f17" +
		"7682ee4889587a5546f0a25fd111587ce282f5fea3ede0db7ba59b64cfcdc584" +
		"6457bc09a77c53ace120f5f6eb1d4fa152363cbc6adb08998aa90e8ec66b517d" +
		"581cab10c875f68fe753aaff7d092e44e7365c079ea33c19560122872c0e025c" +
		"6cfe6a3b90a9a5029c8070e97c2b18340f74e2e5951a25940ff951987c7ed0f6" +
		"0f083001636bfa60031d076d0a099dda7fd287277eace565e5f230793e82586b" +
		"ca5bd9be7c79a7aa68008a49165b3469b11e239b29fad18b7b4e9b13c348f087"
)

func sha3Hex(b []byte) string {
	d := sha3.Sum256(b)
	return hex.EncodeToString(d[:])
}

func TestKnownAnswerVectors(t *testing.T) {
	pk, sk := newKeyPair(katRho, katSigma)
	if got := sha3Hex(pk.Bytes()); got != katPublicKeyDigest {
		t.Fatalf("public key digest %s, want %s", got, katPublicKeyDigest)
	}
	if got := sha3Hex(sk.Bytes()); got != katPrivateKeyDigest {
		t.Fatalf("private key digest %s, want %s", got, katPrivateKeyDigest)
	}
	ct := encrypt(pk, katMsg, katCoins)
	if got := hex.EncodeToString(ct); got != katCiphertext {
		t.Fatalf("ciphertext mismatch\n got %s\nwant %s", got, katCiphertext)
	}
	ss := deriveSecret(katMsg, ct)
	if got := hex.EncodeToString(ss); got != katSharedSecret {
		t.Fatalf("shared secret %s, want %s", got, katSharedSecret)
	}
	got, err := Decapsulate(ct, sk.Bytes())
	if err != nil {
		t.Fatalf("Decapsulate: %v", err)
	}
	if !field.ConstantTimeEquals(ss, got) {
		t.Fatal("decapsulation disagrees with the known-answer secret")
	}
}

// Cross-validate the NTT-based key equation against naive negacyclic
// arithmetic: t must equal A*s + e computed coefficient by coefficient.
func TestKeyEquationAgainstSchoolbook(t *testing.T) {
	r := ring.Kem
	pk, _ := newKeyPair(katRho, katSigma)

	a := r.ExpandMatrix(katRho, K, K)
	s := ring.NewVec(K)
	e := ring.NewVec(K)
	for i := 0; i < K; i++ {
		s[i] = r.SampleEta(katSigma, uint16(i), Eta)
		e[i] = r.SampleEta(katSigma, uint16(K+i), Eta)
	}
	for i := 0; i < K; i++ {
		want := e[i]
		for j := 0; j < K; j++ {
			// Matrix entries live in the NTT domain by construction.
			aij := r.InvNTT(a[i][j])
			want = r.Add(want, naiveMul(aij, s[j]))
		}
		if pk.t[i] != want {
			t.Fatalf("row %d: t != A*s + e", i)
		}
	}
}

func naiveMul(a, b ring.Poly) ring.Poly {
	var acc [ring.N]int64
	m := int64(ring.QKem)
	for i := 0; i < ring.N; i++ {
		if a[i] == 0 {
			continue
		}
		for j := 0; j < ring.N; j++ {
			p := int64(a[i]) * int64(b[j]) % m
			if i+j < ring.N {
				acc[i+j] = (acc[i+j] + p) % m
			} else {
				acc[i+j-ring.N] = (acc[i+j-ring.N] - p + m) % m
			}
		}
	}
	var out ring.Poly
	for i := range out {
		out[i] = uint32(acc[i])
	}
	return out
}
