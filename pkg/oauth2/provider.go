package oauth2

import (
	"context"
	"errors"
	"time"

	"pkcegen/pkg/pkce"
)

// ErrTokenEndpoint marks an exchange that failed without a response from
// the authorization server, as opposed to a rejected code or verifier
var ErrTokenEndpoint = errors.New("token endpoint unavailable")

// Provider defines the interface for OAuth2 authorization servers
type Provider interface {
	Name() string
	// AuthCodeURL builds the authorization request URL carrying state and
	// the S256 challenge of codes
	AuthCodeURL(state string, codes pkce.Codes) string
	// Exchange redeems an authorization code, proving possession with the
	// verifier retained since AuthCodeURL. Transport failures wrap
	// ErrTokenEndpoint.
	Exchange(ctx context.Context, code, codeVerifier string) (*TokenSet, error)
}

// TokenSet holds the tokens returned by the token endpoint
type TokenSet struct {
	AccessToken  string    `json:"access_token"`
	TokenType    string    `json:"token_type"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	IDToken      string    `json:"id_token,omitempty"`
	ExpiresAt    time.Time `json:"expires_at"`
}
