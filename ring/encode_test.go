package ring

import (
	"math/rand"
	"testing"

	"pqcrystals/field"
)

func TestBitPackRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	for _, bits := range []int{1, 3, 4, 10, 12, 13, 18, 23} {
		var p Poly
		for i := range p {
			p[i] = uint32(rng.Int63n(1 << bits))
		}
		buf := BitPack(p, bits)
		if len(buf) != N*bits/8 {
			t.Fatalf("bits=%d: packed %d bytes, want %d", bits, len(buf), N*bits/8)
		}
		if got := BitUnpack(buf, bits); got != p {
			t.Fatalf("bits=%d: round trip mismatch", bits)
		}
	}
}

func TestCompressBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	for _, d := range []int{1, 4, 10} {
		p := randPoly(rng, Kem.Q)
		c := Kem.Compress(p, d)
		for i, v := range c {
			if v >= 1<<d {
				t.Fatalf("d=%d: compressed coefficient %d = %d", d, i, v)
			}
		}
		// Decompression error is at most round(q / 2^(d+1)).
		back := Kem.Decompress(c, d)
		limit := int32(Kem.Q)>>(d+1) + 1
		for i := range p {
			diff := field.Center(field.Sub(back[i], p[i], Kem.Q), Kem.Q)
			if diff < 0 {
				diff = -diff
			}
			if diff > limit {
				t.Fatalf("d=%d: coefficient %d error %d exceeds %d", d, i, diff, limit)
			}
		}
	}
}

func TestMessageRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(6))
	msg := make([]byte, N/8)
	rng.Read(msg)
	p := Kem.EncodeMessage(msg)
	got := Kem.DecodeMessage(p)
	if !field.ConstantTimeEquals(msg, got) {
		t.Fatal("noiseless decode failed")
	}
}

func TestMessageDecodeWithNoise(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	msg := make([]byte, N/8)
	rng.Read(msg)
	p := Kem.EncodeMessage(msg)
	// Additive noise strictly below q/4 must not flip any bit.
	bound := int64(Kem.Q) / 4
	for i := range p {
		noise := rng.Int63n(2*bound-1) - (bound - 1)
		p[i] = field.Reduce(int64(p[i])+noise, Kem.Q)
	}
	got := Kem.DecodeMessage(p)
	if !field.ConstantTimeEquals(msg, got) {
		t.Fatal("decode under tolerable noise failed")
	}
}
