// Package crypto seals card secrets at rest.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"
)

const sealedPrefix = "v1:"

// ErrTampered is returned when a sealed value fails authentication, either
// because it was modified or because it is bound to a different record.
var ErrTampered = errors.New("sealed value failed authentication")

// Encryptor seals values with AES-256-GCM. Each value is bound to the id of
// the record that holds it, so a ciphertext copied onto another row will not
// open.
type Encryptor struct {
	gcm cipher.AEAD
}

// NewEncryptor creates an Encryptor from a hex-encoded 32-byte key.
func NewEncryptor(hexKey string) (*Encryptor, error) {
	key, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, fmt.Errorf("decode encryption key: %w", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("encryption key must be 32 bytes, got %d", len(key))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create GCM: %w", err)
	}
	return &Encryptor{gcm: gcm}, nil
}

// GenerateKey returns a random hex-encoded key suitable for NewEncryptor.
func GenerateKey() (string, error) {
	key := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return "", fmt.Errorf("generate key: %w", err)
	}
	return hex.EncodeToString(key), nil
}

// Seal encrypts plaintext bound to recordID.
func (e *Encryptor) Seal(plaintext, recordID string) (string, error) {
	nonce := make([]byte, e.gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}
	out := e.gcm.Seal(nonce, nonce, []byte(plaintext), []byte(recordID))
	return sealedPrefix + base64.RawStdEncoding.EncodeToString(out), nil
}

// Open reverses Seal. recordID must match the id used when sealing.
func (e *Encryptor) Open(sealed, recordID string) (string, error) {
	body, ok := strings.CutPrefix(sealed, sealedPrefix)
	if !ok {
		return "", fmt.Errorf("unknown sealed value format")
	}
	raw, err := base64.RawStdEncoding.DecodeString(body)
	if err != nil {
		return "", fmt.Errorf("decode sealed value: %w", err)
	}
	n := e.gcm.NonceSize()
	if len(raw) < n+e.gcm.Overhead() {
		return "", fmt.Errorf("sealed value too short")
	}
	plaintext, err := e.gcm.Open(nil, raw[:n], raw[n:], []byte(recordID))
	if err != nil {
		return "", ErrTampered
	}
	return string(plaintext), nil
}
