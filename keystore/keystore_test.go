package keystore

import (
	"bytes"
	"testing"
)

func TestKeyRoundTrip(t *testing.T) {
	dir := t.TempDir()
	pub := []byte{1, 2, 3, 0xff}
	priv := []byte{4, 5, 6}

	if err := SavePublic(dir, "kem", pub); err != nil {
		t.Fatalf("SavePublic: %v", err)
	}
	if err := SavePrivate(dir, "kem", priv); err != nil {
		t.Fatalf("SavePrivate: %v", err)
	}
	gotPub, err := LoadPublic(dir, "kem")
	if err != nil {
		t.Fatalf("LoadPublic: %v", err)
	}
	if !bytes.Equal(gotPub, pub) {
		t.Fatal("public key changed across save/load")
	}
	gotPriv, err := LoadPrivate(dir, "kem")
	if err != nil {
		t.Fatalf("LoadPrivate: %v", err)
	}
	if !bytes.Equal(gotPriv, priv) {
		t.Fatal("private key changed across save/load")
	}
}

func TestSchemeMismatch(t *testing.T) {
	dir := t.TempDir()
	if err := SavePublic(dir, "kem", []byte{1}); err != nil {
		t.Fatalf("SavePublic: %v", err)
	}
	if _, err := LoadPublic(dir, "dsa"); err == nil {
		t.Fatal("wrong scheme label accepted")
	}
}

func TestSignatureBundleRoundTrip(t *testing.T) {
	dir := t.TempDir()
	b := NewSignatureBundle("dsa")
	b.Message = "68656c6c6f"
	b.PublicKey = "aabb"
	b.Signature = "ccdd"
	if err := SaveSignature(dir, b); err != nil {
		t.Fatalf("SaveSignature: %v", err)
	}
	got, err := LoadSignature(dir)
	if err != nil {
		t.Fatalf("LoadSignature: %v", err)
	}
	if got.Scheme != "dsa" || got.Signature != "ccdd" || got.Timestamp == "" {
		t.Fatalf("bundle changed across save/load: %+v", got)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := LoadPublic(t.TempDir(), "kem"); err == nil {
		t.Fatal("missing file did not error")
	}
}
