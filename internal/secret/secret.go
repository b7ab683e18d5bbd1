// Package secret encrypts short field values with AES-GCM.
//
// A token is base64(nonce || ciphertext) with a fresh random 12-byte nonce per
// value, so encrypting the same plaintext twice yields different tokens.
package secret

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
)

const nonceSize = 12

var (
	ErrNoKey     = errors.New("secret: no key configured")
	ErrKeyLength = errors.New("secret: key must decode to 16, 24 or 32 bytes")
	ErrMalformed = errors.New("secret: malformed token")
)

// ParseKey decodes a base64 AES key and checks its length.
func ParseKey(keyB64 string) ([]byte, error) {
	if keyB64 == "" {
		return nil, ErrNoKey
	}
	key, err := base64.StdEncoding.DecodeString(keyB64)
	if err != nil {
		return nil, fmt.Errorf("secret: decode key: %w", err)
	}
	switch len(key) {
	case 16, 24, 32:
		return key, nil
	}
	return nil, fmt.Errorf("%w (got %d)", ErrKeyLength, len(key))
}

// Box seals and opens tokens under one key. Safe for concurrent use.
type Box struct {
	aead cipher.AEAD
	rand io.Reader
}

// NewBox builds a Box from a base64 key.
func NewBox(keyB64 string) (*Box, error) {
	key, err := ParseKey(keyB64)
	if err != nil {
		return nil, err
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("secret: %w", err)
	}
	aead, err := cipher.NewGCMWithNonceSize(block, nonceSize)
	if err != nil {
		return nil, fmt.Errorf("secret: %w", err)
	}
	return &Box{aead: aead, rand: rand.Reader}, nil
}

// Encrypt seals plain and returns the encoded token.
func (b *Box) Encrypt(plain []byte) (string, error) {
	blob := make([]byte, nonceSize, nonceSize+len(plain)+b.aead.Overhead())
	if _, err := io.ReadFull(b.rand, blob); err != nil {
		return "", fmt.Errorf("secret: nonce: %w", err)
	}
	blob = b.aead.Seal(blob, blob[:nonceSize], plain, nil)
	return base64.StdEncoding.EncodeToString(blob), nil
}

func (b *Box) EncryptString(plain string) (string, error) {
	return b.Encrypt([]byte(plain))
}

// Decrypt opens a token produced by Encrypt. An empty token decrypts to an
// empty value.
func (b *Box) Decrypt(token string) ([]byte, error) {
	if token == "" {
		return []byte{}, nil
	}
	blob, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if len(blob) < nonceSize+b.aead.Overhead() {
		return nil, ErrMalformed
	}
	plain, err := b.aead.Open(nil, blob[:nonceSize], blob[nonceSize:], nil)
	if err != nil {
		return nil, fmt.Errorf("secret: open: %w", err)
	}
	return plain, nil
}
