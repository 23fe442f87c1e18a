package pkce

import "net/url"

// MethodS256 is the only challenge method produced by this package
const MethodS256 = "S256"

// Codes is a verifier/challenge pair produced by a single GenerateCodes call.
// The verifier must be kept by the client until the token exchange,
// the challenge is sent with the authorization request.
type Codes struct {
	verifier  string
	challenge string
}

func (c Codes) Verifier() string {
	return c.verifier
}

func (c Codes) Challenge() string {
	return c.challenge
}

func (c Codes) Method() string {
	return MethodS256
}

// IsZero reports whether c was never populated by a generator
func (c Codes) IsZero() bool {
	return c.verifier == "" && c.challenge == ""
}

// AuthParams returns the query parameters for the authorization request
func (c Codes) AuthParams() url.Values {
	return url.Values{
		"code_challenge":        {c.challenge},
		"code_challenge_method": {MethodS256},
	}
}

// TokenParams returns the form parameters for the token exchange request
func (c Codes) TokenParams() url.Values {
	return url.Values{
		"code_verifier": {c.verifier},
	}
}

// String keeps the verifier out of logs and fmt output.
func (c Codes) String() string {
	return "pkce.Codes{challenge: " + c.challenge + ", method: " + MethodS256 + ", verifier: [redacted]}"
}
