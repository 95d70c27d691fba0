package encryption

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/chacha20poly1305"
)

// ErrInvalidCiphertext is returned when a value cannot be decoded or authenticated.
var ErrInvalidCiphertext = errors.New("encryption: invalid ciphertext")

// Encryptor seals and opens strings.
type Encryptor interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(ciphertext string) (string, error)
}

// Algorithm names an AEAD cipher.
type Algorithm string

const (
	AlgorithmChaCha20 Algorithm = "chacha20-poly1305"
	AlgorithmAESGCM   Algorithm = "aes-256-gcm"
)

// Option configures New.
type Option func(*options)

type options struct {
	algorithm Algorithm
}

// WithAlgorithm selects the cipher. The default is ChaCha20-Poly1305.
func WithAlgorithm(alg Algorithm) Option {
	return func(o *options) { o.algorithm = alg }
}

// New returns an Encryptor keyed by SHA-256(key).
func New(key string, opts ...Option) (Encryptor, error) {
	if key == "" {
		return nil, errors.New("encryption: key is required")
	}
	o := &options{algorithm: AlgorithmChaCha20}
	for _, opt := range opts {
		opt(o)
	}

	sum := sha256.Sum256([]byte(key))
	var (
		aead cipher.AEAD
		err  error
	)
	switch o.algorithm {
	case AlgorithmChaCha20:
		aead, err = chacha20poly1305.New(sum[:])
	case AlgorithmAESGCM:
		var block cipher.Block
		if block, err = aes.NewCipher(sum[:]); err == nil {
			aead, err = cipher.NewGCM(block)
		}
	default:
		return nil, fmt.Errorf("encryption: unsupported algorithm %q", o.algorithm)
	}
	if err != nil {
		return nil, fmt.Errorf("encryption: create %s: %w", o.algorithm, err)
	}
	return &sealer{aead: aead}, nil
}

// sealer encodes values as base64(nonce || ciphertext).
type sealer struct {
	aead cipher.AEAD
}

func (s *sealer) Encrypt(plaintext string) (string, error) {
	nonce := make([]byte, s.aead.NonceSize(), s.aead.NonceSize()+len(plaintext)+s.aead.Overhead())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("encryption: generate nonce: %w", err)
	}
	return base64.StdEncoding.EncodeToString(s.aead.Seal(nonce, nonce, []byte(plaintext), nil)), nil
}

func (s *sealer) Decrypt(ciphertext string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidCiphertext, err)
	}
	n := s.aead.NonceSize()
	if len(data) < n+s.aead.Overhead() {
		return "", fmt.Errorf("%w: too short", ErrInvalidCiphertext)
	}
	plaintext, err := s.aead.Open(nil, data[:n], data[n:], nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidCiphertext, err)
	}
	return string(plaintext), nil
}
