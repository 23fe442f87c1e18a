package pkce

import (
	"crypto/sha256"
	"crypto/subtle"
)

// Verify checks a code_verifier against the challenge sent in the
// authorization request. Only the S256 method is accepted and the
// challenge must decode to a full SHA-256 digest.
func Verify(challenge, method, verifier string) bool {
	if method != MethodS256 || challenge == "" || verifier == "" {
		return false
	}
	want, err := RawURLCodec{}.Decode(challenge)
	if err != nil || len(want) != sha256.Size {
		return false
	}
	sum := sha256.Sum256([]byte(verifier))
	return subtle.ConstantTimeCompare(sum[:], want) == 1
}
