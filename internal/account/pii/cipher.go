// Package pii protects personally-identifiable profile fields.
//
// Two primitives are exposed: a deterministic digest used as an indexable
// representation of an email address (the store can compare addresses
// without holding them in clear), and reversible encryption for fields
// that must be shown back to their owner (email, birthdate).
package pii

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/sha3"
)

// KeySize is the required length of the at-rest encryption key.
const KeySize = 32

// ErrMalformedCiphertext is returned when a stored value cannot be decoded
// or authenticated. It is distinct from a missing value: a row that carries
// one of these is corrupt, not absent.
var ErrMalformedCiphertext = errors.New("pii: malformed ciphertext")

// Cipher encrypts PII at rest and derives indexable digests.
type Cipher struct {
	aead cipher.AEAD
}

// NewCipher builds a Cipher from a 32-byte key (AES-256-GCM).
func NewCipher(key []byte) (*Cipher, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("pii: key must be %d bytes, got %d", KeySize, len(key))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("pii: build cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("pii: build GCM: %w", err)
	}
	return &Cipher{aead: aead}, nil
}

// HashIndex returns the deterministic hex digest of a PII value.
// Keccak-256 keeps digests stable across processes so the store can use
// them as a secondary comparison key.
func (c *Cipher) HashIndex(plaintext string) string {
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(plaintext))
	return hex.EncodeToString(h.Sum(nil))
}

// Encrypt seals a plaintext for storage. A random nonce is prepended to the
// ciphertext so Decrypt can split it out: blob = nonce ‖ ciphertext.
func (c *Cipher) Encrypt(plaintext string) (string, error) {
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("pii: nonce: %w", err)
	}
	sealed := c.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.RawURLEncoding.EncodeToString(sealed), nil
}

// Decrypt recovers the exact plaintext sealed by Encrypt. Any decoding or
// authentication failure maps to ErrMalformedCiphertext.
func (c *Cipher) Decrypt(ciphertext string) (string, error) {
	blob, err := base64.RawURLEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", ErrMalformedCiphertext
	}
	if len(blob) < c.aead.NonceSize() {
		return "", ErrMalformedCiphertext
	}
	nonce, sealed := blob[:c.aead.NonceSize()], blob[c.aead.NonceSize():]
	plaintext, err := c.aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", ErrMalformedCiphertext
	}
	return string(plaintext), nil
}
