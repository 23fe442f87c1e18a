package oauth2

import (
	"context"
	"errors"
	"fmt"

	"pkcegen/pkg/pkce"
	"pkcegen/pkg/validator"

	"golang.org/x/oauth2"
)

var ErrProviderConfig = errors.New("invalid provider config")

// reservedAuthParams are set by the flow itself and cannot be overridden
// through ExtraAuthParams
var reservedAuthParams = map[string]bool{
	"code_challenge":        true,
	"code_challenge_method": true,
	"code_verifier":         true,
	"state":                 true,
	"client_id":             true,
	"redirect_uri":          true,
	"response_type":         true,
}

// ProviderConfig describes a confidential or public OAuth2 client
type ProviderConfig struct {
	Name         string
	ClientID     string
	ClientSecret string
	RedirectURL  string
	AuthURL      string
	TokenURL     string
	Scopes       []string
	// ExtraAuthParams are appended to every authorization request
	ExtraAuthParams map[string]string
}

func (c ProviderConfig) validate() error {
	var errs []error
	if err := validator.ValidateProvider(c.Name); err != nil {
		errs = append(errs, fmt.Errorf("name %q: %w", c.Name, err))
	}
	if c.ClientID == "" {
		errs = append(errs, errors.New("client id is required"))
	}
	if c.RedirectURL == "" {
		errs = append(errs, errors.New("redirect url is required"))
	}
	if c.AuthURL == "" || c.TokenURL == "" {
		errs = append(errs, errors.New("auth and token urls are required"))
	}
	for key := range c.ExtraAuthParams {
		if reservedAuthParams[key] {
			errs = append(errs, fmt.Errorf("extra auth param %q is reserved", key))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrProviderConfig, errors.Join(errs...))
	}
	return nil
}

// OAuth2Provider implements Provider on top of golang.org/x/oauth2
type OAuth2Provider struct {
	name   string
	config *oauth2.Config
	extra  map[string]string
}

func NewOAuth2Provider(cfg ProviderConfig) (*OAuth2Provider, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &OAuth2Provider{
		name: cfg.Name,
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       cfg.Scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:  cfg.AuthURL,
				TokenURL: cfg.TokenURL,
			},
		},
		extra: cfg.ExtraAuthParams,
	}, nil
}

func (p *OAuth2Provider) Name() string {
	return p.name
}

func (p *OAuth2Provider) AuthCodeURL(state string, codes pkce.Codes) string {
	opts := make([]oauth2.AuthCodeOption, 0, len(p.extra)+2)
	for key, values := range codes.AuthParams() {
		opts = append(opts, oauth2.SetAuthURLParam(key, values[0]))
	}
	for key, value := range p.extra {
		opts = append(opts, oauth2.SetAuthURLParam(key, value))
	}
	return p.config.AuthCodeURL(state, opts...)
}

func (p *OAuth2Provider) Exchange(ctx context.Context, code, codeVerifier string) (*TokenSet, error) {
	token, err := p.config.Exchange(ctx, code, oauth2.SetAuthURLParam("code_verifier", codeVerifier))
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if !errors.As(err, &retrieveErr) {
			return nil, fmt.Errorf("failed to exchange code: %w: %w", ErrTokenEndpoint, err)
		}
		return nil, fmt.Errorf("failed to exchange code: %w", err)
	}

	tokenSet := &TokenSet{
		AccessToken:  token.AccessToken,
		TokenType:    token.TokenType,
		RefreshToken: token.RefreshToken,
		ExpiresAt:    token.Expiry,
	}
	if idToken, ok := token.Extra("id_token").(string); ok {
		tokenSet.IDToken = idToken
	}

	return tokenSet, nil
}
