package cfg

import (
	"errors"
	"time"
)

type Oauth2Config struct {
	Provider     string
	Issuer       string
	AuthURL      string
	TokenURL     string
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scopes       []string
	StateTimeout time.Duration
}

// UseDiscovery reports whether endpoints come from OIDC discovery
func (c Oauth2Config) UseDiscovery() bool {
	return c.Issuer != ""
}

func (l *Loader) loadOAuth2() Oauth2Config {
	c := Oauth2Config{
		Provider:     l.requireEnv("OAUTH2_PROVIDER"),
		Issuer:       l.getEnvWithDefault("OAUTH2_ISSUER", ""),
		AuthURL:      l.getEnvWithDefault("OAUTH2_AUTH_URL", ""),
		TokenURL:     l.getEnvWithDefault("OAUTH2_TOKEN_URL", ""),
		ClientID:     l.requireEnv("OAUTH2_CLIENT_ID"),
		ClientSecret: l.getEnvWithDefault("OAUTH2_CLIENT_SECRET", ""),
		RedirectURL:  l.requireEnv("OAUTH2_REDIRECT_URL"),
		Scopes:       l.getEnvList("OAUTH2_SCOPES"),
		StateTimeout: l.getEnvDurationOrDefault("STATE_TIMEOUT", 10*time.Minute),
	}

	if c.Issuer == "" && (c.AuthURL == "" || c.TokenURL == "") {
		l.errs = append(l.errs, errors.New("either OAUTH2_ISSUER or both OAUTH2_AUTH_URL and OAUTH2_TOKEN_URL must be set"))
	}
	if c.StateTimeout <= 0 {
		l.errs = append(l.errs, errors.New("STATE_TIMEOUT must be positive"))
	}

	return c
}
