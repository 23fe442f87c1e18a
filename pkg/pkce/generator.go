package pkce

import (
	"context"
	"crypto/sha256"
	"fmt"
)

const (
	// RandomByteArrLength is the number of random bytes drawn per verifier
	RandomByteArrLength = 32

	// Charset holds the RFC 3986 unreserved characters
	Charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-._~"
)

// Generator produces PKCE pairs. It holds only its collaborators and can be
// shared between goroutines as long as the collaborators can.
type Generator struct {
	random RandomnessSource
	digest DigestProvider
	codec  Base64URLCodec
}

type Option func(*Generator)

func WithRandomness(r RandomnessSource) Option {
	return func(g *Generator) {
		if r != nil {
			g.random = r
		}
	}
}

func WithDigest(d DigestProvider) Option {
	return func(g *Generator) {
		if d != nil {
			g.digest = d
		}
	}
}

func WithCodec(c Base64URLCodec) Option {
	return func(g *Generator) {
		if c != nil {
			g.codec = c
		}
	}
}

// New returns a Generator backed by crypto/rand, crypto/sha256 and
// base64.RawURLEncoding unless overridden by opts
func New(opts ...Option) *Generator {
	g := &Generator{
		random: CryptoRandom{},
		digest: SHA256Digest{},
		codec:  RawURLCodec{},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// GenerateCodes derives a fresh verifier and its S256 challenge.
// On failure the returned Codes is the zero value and the error is a
// *GenerationError naming the failed phase.
func (g *Generator) GenerateCodes(ctx context.Context) (Codes, error) {
	verifier, err := g.deriveVerifier()
	if err != nil {
		return Codes{}, err
	}

	challenge, err := g.deriveChallenge(ctx, verifier)
	if err != nil {
		return Codes{}, err
	}

	return Codes{verifier: verifier, challenge: challenge}, nil
}

// deriveVerifier maps 32 random bytes onto Charset and base64url-encodes
// the resulting string. The verifier is the encoded form, not the
// charset string itself.
func (g *Generator) deriveVerifier() (verifier string, err error) {
	defer func() {
		if r := recover(); r != nil {
			verifier, err = "", newGenerationError(PhaseVerifier, fmt.Errorf("panic: %v", r))
		}
	}()

	var buf [RandomByteArrLength]byte
	if err := g.random.Fill(buf[:]); err != nil {
		return "", newGenerationError(PhaseVerifier, err)
	}

	mapped := make([]byte, RandomByteArrLength)
	for i, b := range buf {
		mapped[i] = Charset[int(b)%len(Charset)]
	}

	return g.codec.Encode(mapped), nil
}

func (g *Generator) deriveChallenge(ctx context.Context, verifier string) (challenge string, err error) {
	defer func() {
		if r := recover(); r != nil {
			challenge, err = "", newGenerationError(PhaseChallenge, fmt.Errorf("panic: %v", r))
		}
	}()

	sum, err := g.digest.SHA256(ctx, []byte(verifier))
	if err != nil {
		return "", newGenerationError(PhaseChallenge, err)
	}
	if len(sum) != sha256.Size {
		return "", newGenerationError(PhaseChallenge,
			fmt.Errorf("digest length %d, want %d", len(sum), sha256.Size))
	}

	return g.codec.Encode(sum), nil
}
