package configstore

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
)

// Sealer encrypts API keys at rest with AES-GCM. A nil *Sealer stores
// values as given.
type Sealer struct {
	aead cipher.AEAD
}

// NewSealer builds a sealer; key must be 16, 24 or 32 bytes. An empty key
// returns a nil sealer.
func NewSealer(key string) (*Sealer, error) {
	if key == "" {
		return nil, nil
	}
	raw := []byte(key)
	switch len(raw) {
	case 16, 24, 32:
	default:
		return nil, errors.New("config store encryption key must be 16, 24, or 32 bytes")
	}
	block, err := aes.NewCipher(raw)
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return &Sealer{aead: aead}, nil
}

// Enabled reports whether values are encrypted.
func (s *Sealer) Enabled() bool {
	return s != nil
}

// Seal encrypts plaintext into a url-safe string.
func (s *Sealer) Seal(plaintext string) (string, error) {
	if s == nil || plaintext == "" {
		return plaintext, nil
	}
	nonce := make([]byte, s.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("seal: %w", err)
	}
	payload := s.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.RawURLEncoding.EncodeToString(payload), nil
}

// Open reverses Seal.
func (s *Sealer) Open(encoded string) (string, error) {
	if s == nil || encoded == "" {
		return encoded, nil
	}
	payload, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("open: %w", err)
	}
	nonceSize := s.aead.NonceSize()
	if len(payload) < nonceSize {
		return "", errors.New("open: sealed payload too short")
	}
	plaintext, err := s.aead.Open(nil, payload[:nonceSize], payload[nonceSize:], nil)
	if err != nil {
		return "", fmt.Errorf("open: %w", err)
	}
	return string(plaintext), nil
}
