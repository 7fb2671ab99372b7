// Package keystore persists key material and signature bundles as
// indented JSON under a key directory. Binary fields are hex encoded so
// files stay inspectable and diffable.
package keystore

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"pqcrystals/measure"
)

const (
	// DefaultDir is where the CLIs keep their key files.
	DefaultDir = "pq_keys"

	publicFile    = "public.json"
	privateFile   = "private.json"
	signatureFile = "signature.json"
)

// PublicKey is the on-disk form of a public key.
type PublicKey struct {
	Version string `json:"version"`
	Scheme  string `json:"scheme"`
	Key     string `json:"key"`
}

// PrivateKey is the on-disk form of a private key.
type PrivateKey struct {
	Version string `json:"version"`
	Scheme  string `json:"scheme"`
	Key     string `json:"key"`
}

// SignatureBundle holds a detached signature next to everything needed
// to verify it.
type SignatureBundle struct {
	Version   string `json:"version"`
	Timestamp string `json:"timestamp"`
	Scheme    string `json:"scheme"`
	Message   string `json:"message"`
	PublicKey string `json:"public_key"`
	Signature string `json:"signature"`
}

// NewSignatureBundle fills in version, scheme and timestamp.
func NewSignatureBundle(scheme string) *SignatureBundle {
	return &SignatureBundle{
		Version:   "pq-signature-v1",
		Scheme:    scheme,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// SavePublic writes the public key to dir/public.json.
func SavePublic(dir, scheme string, key []byte) error {
	return writeJSON(filepath.Join(dir, publicFile), &PublicKey{
		Version: "pq-key-v1",
		Scheme:  scheme,
		Key:     hex.EncodeToString(key),
	})
}

// SavePrivate writes the private key to dir/private.json with owner-only
// permissions.
func SavePrivate(dir, scheme string, key []byte) error {
	path := filepath.Join(dir, privateFile)
	if err := writeJSON(path, &PrivateKey{
		Version: "pq-key-v1",
		Scheme:  scheme,
		Key:     hex.EncodeToString(key),
	}); err != nil {
		return err
	}
	return os.Chmod(path, 0o600)
}

// SaveSignature writes the bundle to dir/signature.json and records the
// file size.
func SaveSignature(dir string, b *SignatureBundle) error {
	path := filepath.Join(dir, signatureFile)
	if err := writeJSON(path, b); err != nil {
		return err
	}
	if info, err := os.Stat(path); err == nil {
		measure.Global.Add("keystore/signature/json_file", uint64(info.Size()))
	}
	return nil
}

// LoadPublic reads dir/public.json and decodes the key, checking the
// scheme label.
func LoadPublic(dir, scheme string) ([]byte, error) {
	var pk PublicKey
	if err := readJSON(filepath.Join(dir, publicFile), &pk); err != nil {
		return nil, err
	}
	if pk.Scheme != scheme {
		return nil, fmt.Errorf("keystore: public key is for scheme %q, want %q", pk.Scheme, scheme)
	}
	return hex.DecodeString(pk.Key)
}

// LoadPrivate reads dir/private.json and decodes the key, checking the
// scheme label.
func LoadPrivate(dir, scheme string) ([]byte, error) {
	var sk PrivateKey
	if err := readJSON(filepath.Join(dir, privateFile), &sk); err != nil {
		return nil, err
	}
	if sk.Scheme != scheme {
		return nil, fmt.Errorf("keystore: private key is for scheme %q, want %q", sk.Scheme, scheme)
	}
	return hex.DecodeString(sk.Key)
}

// LoadSignature reads dir/signature.json.
func LoadSignature(dir string) (*SignatureBundle, error) {
	var b SignatureBundle
	if err := readJSON(filepath.Join(dir, signatureFile), &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}
