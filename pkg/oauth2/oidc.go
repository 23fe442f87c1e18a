package oauth2

import (
	"context"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"
)

// NewOIDCProvider discovers the authorization and token endpoints from
// issuer's /.well-known/openid-configuration. AuthURL and TokenURL in cfg
// are overwritten.
func NewOIDCProvider(ctx context.Context, issuer string, cfg ProviderConfig) (*OAuth2Provider, error) {
	discovered, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("failed to discover OIDC provider: %w", err)
	}

	endpoint := discovered.Endpoint()
	cfg.AuthURL = endpoint.AuthURL
	cfg.TokenURL = endpoint.TokenURL

	if len(cfg.Scopes) == 0 {
		cfg.Scopes = []string{oidc.ScopeOpenID, "profile", "email"}
	}

	return NewOAuth2Provider(cfg)
}
