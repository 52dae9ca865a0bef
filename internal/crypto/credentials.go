// Package crypto encrypts the municipal/state portal passwords stored on
// company records. Values are sealed with ChaCha20-Poly1305 under a single
// process-wide key and tagged with a versioned prefix so the format can
// rotate later.
package crypto

import (
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/chacha20poly1305"
)

const credPrefix = "$cred.v1$"

// ErrDecrypt signals a value that carries the scheme tag but cannot be
// opened (tampered, or the key changed).
var ErrDecrypt = errors.New("cannot decrypt credential")

// CredentialCipher seals and opens company portal credentials.
type CredentialCipher struct {
	aead cipher.AEAD
}

// NewCredentialCipher derives the AEAD from a base64 urlsafe key, matching
// the key format already distributed to operators.
func NewCredentialCipher(key string) (*CredentialCipher, error) {
	if key == "" {
		return nil, errors.New("credentials key is required")
	}
	raw, err := base64.URLEncoding.DecodeString(key)
	if err != nil {
		return nil, fmt.Errorf("decode credentials key: %w", err)
	}
	if len(raw) != chacha20poly1305.KeySize {
		return nil, fmt.Errorf("credentials key must be %d bytes, got %d", chacha20poly1305.KeySize, len(raw))
	}
	aead, err := chacha20poly1305.New(raw)
	if err != nil {
		return nil, err
	}
	return &CredentialCipher{aead: aead}, nil
}

// Encrypt seals a plaintext credential. Empty input stays empty.
func (c *CredentialCipher) Encrypt(plain string) (string, error) {
	if plain == "" {
		return "", nil
	}
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}
	sealed := c.aead.Seal(nonce, nonce, []byte(plain), nil)
	return credPrefix + base64.RawURLEncoding.EncodeToString(sealed), nil
}

// Decrypt opens a stored value. Values without the scheme tag predate
// encryption at rest and are returned as-is with legacy=true so callers can
// tell plaintext passthrough apart from a real decryption.
func (c *CredentialCipher) Decrypt(stored string) (plain string, legacy bool, err error) {
	if stored == "" {
		return "", false, nil
	}
	if !strings.HasPrefix(stored, credPrefix) {
		return stored, true, nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(strings.TrimPrefix(stored, credPrefix))
	if err != nil {
		return "", false, fmt.Errorf("%w: %v", ErrDecrypt, err)
	}
	if len(raw) < c.aead.NonceSize() {
		return "", false, ErrDecrypt
	}
	nonce, sealed := raw[:c.aead.NonceSize()], raw[c.aead.NonceSize():]
	opened, err := c.aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", false, fmt.Errorf("%w: %v", ErrDecrypt, err)
	}
	return string(opened), false, nil
}
