package pkce

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
)

// RandomnessSource fills buffers with cryptographically secure random bytes
type RandomnessSource interface {
	Fill(buf []byte) error
}

// DigestProvider computes a SHA-256 digest. It is the only step of the
// pipeline allowed to block, so it receives the caller's context.
type DigestProvider interface {
	SHA256(ctx context.Context, input []byte) ([]byte, error)
}

// Base64URLCodec encodes with the URL-safe alphabet and no padding
type Base64URLCodec interface {
	Encode(input []byte) string
	Decode(input string) ([]byte, error)
}

// CryptoRandom reads from crypto/rand
type CryptoRandom struct{}

func (CryptoRandom) Fill(buf []byte) error {
	n, err := rand.Read(buf)
	if err != nil {
		return fmt.Errorf("failed to read random bytes: %w", err)
	}
	if n != len(buf) {
		return fmt.Errorf("short random read: got %d of %d bytes", n, len(buf))
	}
	return nil
}

// SHA256Digest is an in-process DigestProvider
type SHA256Digest struct{}

func (SHA256Digest) SHA256(ctx context.Context, input []byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sum := sha256.Sum256(input)
	return sum[:], nil
}

// RawURLCodec wraps base64.RawURLEncoding (RFC 4648 §5, padding stripped).
// Decode is strict, so every value has exactly one accepted encoding.
type RawURLCodec struct{}

func (RawURLCodec) Encode(input []byte) string {
	return base64.RawURLEncoding.EncodeToString(input)
}

func (RawURLCodec) Decode(input string) ([]byte, error) {
	return base64.RawURLEncoding.Strict().DecodeString(input)
}
