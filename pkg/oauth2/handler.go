package oauth2

import (
	"context"
	"errors"
	"net/http"
	"time"

	"pkcegen/pkg/validator"

	"github.com/gin-gonic/gin"
)

// HandlerConfig controls the cookie and timeout behaviour of the handlers
type HandlerConfig struct {
	SecureCookies  bool
	CookieName     string
	CookiePath     string
	RequestTimeout time.Duration
}

func (c *HandlerConfig) withDefaults() *HandlerConfig {
	out := HandlerConfig{CookieName: "access_token", CookiePath: "/", RequestTimeout: 30 * time.Second}
	if c == nil {
		return &out
	}
	out.SecureCookies = c.SecureCookies
	if c.CookieName != "" {
		out.CookieName = c.CookieName
	}
	if c.CookiePath != "" {
		out.CookiePath = c.CookiePath
	}
	if c.RequestTimeout > 0 {
		out.RequestTimeout = c.RequestTimeout
	}
	return &out
}

// AuthHandler starts the authorization-code flow
// @Summary Start OAuth2 login
// @Description Redirects to the provider with state and an S256 code challenge
// @Tags oauth2
// @Param provider path string true "Provider name"
// @Success 307 {string} string "Redirect"
// @Failure 404 {object} map[string]string "Unknown provider"
// @Router /auth/{provider} [get]
func AuthHandler(manager *Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := validator.ValidateProvider(c.Param("provider")); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		authURL, err := manager.GetAuthURL(c.Request.Context(), c.Param("provider"))
		if err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, ErrProviderNotFound) {
				status = http.StatusNotFound
			}
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}
		c.Redirect(http.StatusTemporaryRedirect, authURL)
	}
}

// CallbackHandler completes the flow and stores the access token in an
// HttpOnly cookie
// @Summary OAuth2 callback
// @Tags oauth2
// @Produce json
// @Param provider path string true "Provider name"
// @Param code query string true "Authorization code"
// @Param state query string true "State"
// @Success 200 {object} map[string]interface{} "Authenticated"
// @Failure 400 {object} map[string]string "Bad request"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 502 {object} map[string]string "Token endpoint unavailable"
// @Router /auth/{provider}/callback [get]
func CallbackHandler(manager *Manager, config *HandlerConfig) gin.HandlerFunc {
	config = config.withDefaults()

	return func(c *gin.Context) {
		if err := validator.ValidateProvider(c.Param("provider")); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if errCode := c.Query("error"); errCode != "" {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":             errCode,
				"error_description": c.Query("error_description"),
			})
			return
		}

		code := c.Query("code")
		state := c.Query("state")
		if code == "" || state == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing code or state"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), config.RequestTimeout)
		defer cancel()

		tokenSet, err := manager.HandleCallback(ctx, c.Param("provider"), code, state)
		if err != nil {
			status := http.StatusInternalServerError
			switch {
			case errors.Is(err, ErrProviderNotFound):
				status = http.StatusNotFound
			case errors.Is(err, ErrInvalidState):
				status = http.StatusBadRequest
			case errors.Is(err, ErrTokenEndpoint):
				status = http.StatusBadGateway
			case errors.Is(err, ErrOAuth2Callback):
				status = http.StatusUnauthorized
			}
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}

		maxAge := 0
		if !tokenSet.ExpiresAt.IsZero() {
			maxAge = int(time.Until(tokenSet.ExpiresAt).Seconds())
		}

		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(config.CookieName, tokenSet.AccessToken, maxAge, config.CookiePath, "", config.SecureCookies, true)

		c.JSON(http.StatusOK, gin.H{
			"provider":          c.Param("provider"),
			"token_type":        tokenSet.TokenType,
			"expires_at":        tokenSet.ExpiresAt,
			"has_refresh_token": tokenSet.RefreshToken != "",
			"has_id_token":      tokenSet.IDToken != "",
		})
	}
}

// CodesHandler returns a freshly generated PKCE pair for client tooling
// @Summary Generate PKCE pair
// @Tags pkce
// @Produce json
// @Success 200 {object} map[string]string "verifier, challenge and method"
// @Failure 500 {object} map[string]string "Generation failed"
// @Router /pkce [get]
func CodesHandler(generator CodeGenerator) gin.HandlerFunc {
	return func(c *gin.Context) {
		codes, err := generator.GenerateCodes(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.Header("Cache-Control", "no-store")
		c.JSON(http.StatusOK, gin.H{
			"code_verifier":         codes.Verifier(),
			"code_challenge":        codes.Challenge(),
			"code_challenge_method": codes.Method(),
		})
	}
}
