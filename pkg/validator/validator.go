package validator

import (
	"errors"
	"regexp"
)

var (
	ProviderValidator  = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{0,63}$`)
	ErrMissingField    = errors.New("missing required field")
	ErrInvalidProvider = errors.New("invalid provider")
)

// ValidateProvider checks a provider name taken from config or a URL path
func ValidateProvider(provider string) error {
	if provider == "" {
		return ErrMissingField
	}
	if !ProviderValidator.MatchString(provider) {
		return ErrInvalidProvider
	}
	return nil
}
