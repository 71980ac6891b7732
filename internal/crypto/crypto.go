// Package crypto seals the stored API credential with a user passphrase.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	saltSize   = 16
	iterations = 100000
	keySize    = 32 // AES-256

	// Prefix marks a sealed value so plaintext settings written before a
	// passphrase was configured are still readable.
	Prefix = "enc:v1:"
)

// ErrWrongPassphrase is returned when a sealed value cannot be opened.
var ErrWrongPassphrase = errors.New("credential cannot be decrypted with the configured passphrase")

// Encryptor seals and opens credential strings with AES-GCM. A nil Encryptor
// passes values through unchanged.
type Encryptor struct {
	passphrase []byte
}

// NewEncryptor returns nil for an empty passphrase.
func NewEncryptor(passphrase string) *Encryptor {
	if passphrase == "" {
		return nil
	}
	return &Encryptor{passphrase: []byte(passphrase)}
}

func (e *Encryptor) key(salt []byte) []byte {
	return pbkdf2.Key(e.passphrase, salt, iterations, keySize, sha256.New)
}

// Seal encrypts plaintext. The random salt and nonce are stored in front of the ciphertext.
func (e *Encryptor) Seal(plaintext string) (string, error) {
	if e == nil || plaintext == "" {
		return plaintext, nil
	}

	salt := make([]byte, saltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", fmt.Errorf("generating salt: %w", err)
	}

	gcm, err := newGCM(e.key(salt))
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("generating nonce: %w", err)
	}

	out := append(salt, nonce...)
	out = gcm.Seal(out, nonce, []byte(plaintext), nil)
	return Prefix + base64.StdEncoding.EncodeToString(out), nil
}

// Open decrypts a value produced by Seal. Values without Prefix are returned as-is.
func (e *Encryptor) Open(value string) (string, error) {
	if !IsSealed(value) {
		return value, nil
	}
	if e == nil {
		return "", ErrWrongPassphrase
	}

	data, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(value, Prefix))
	if err != nil {
		return "", fmt.Errorf("decoding sealed credential: %w", err)
	}
	if len(data) < saltSize {
		return "", errors.New("sealed credential too short")
	}

	salt, rest := data[:saltSize], data[saltSize:]
	gcm, err := newGCM(e.key(salt))
	if err != nil {
		return "", err
	}
	if len(rest) < gcm.NonceSize() {
		return "", errors.New("sealed credential too short")
	}

	nonce, sealed := rest[:gcm.NonceSize()], rest[gcm.NonceSize():]
	plaintext, err := gcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", ErrWrongPassphrase
	}
	return string(plaintext), nil
}

// IsSealed reports whether value was produced by Seal.
func IsSealed(value string) bool {
	return strings.HasPrefix(value, Prefix)
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("creating cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("creating GCM: %w", err)
	}
	return gcm, nil
}
