package cfg

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setEnv(t *testing.T, envVars map[string]string) {
	t.Helper()
	for key, value := range envVars {
		t.Setenv(key, value)
	}
}

func baseEnv() map[string]string {
	return map[string]string{
		"APP_ENV":             "development",
		"OAUTH2_PROVIDER":     "keycloak",
		"OAUTH2_AUTH_URL":     "http://localhost:9000/authorize",
		"OAUTH2_TOKEN_URL":    "http://localhost:9000/token",
		"OAUTH2_CLIENT_ID":    "test-client-id",
		"OAUTH2_REDIRECT_URL": "http://localhost:8080/auth/keycloak/callback",
	}
}

func TestLoad_Success(t *testing.T) {
	setEnv(t, baseEnv())
	setEnv(t, map[string]string{
		"REDIS_HOST":     "localhost",
		"REDIS_PORT":     "6380",
		"OAUTH2_SCOPES":  "openid, profile email",
		"STATE_TIMEOUT":  "5m",
		"HTTP_PORT":      "9090",
		"RATE_LIMIT_RPS": "2.5",
	})

	config, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "development", config.AppEnv)
	require.NotNil(t, config.Redis)
	assert.Equal(t, "localhost:6380", config.Redis.Addr())
	assert.Equal(t, "keycloak", config.OAuth2.Provider)
	assert.Equal(t, []string{"openid", "profile", "email"}, config.OAuth2.Scopes)
	assert.Equal(t, 5*time.Minute, config.OAuth2.StateTimeout)
	assert.False(t, config.OAuth2.UseDiscovery())
	assert.Equal(t, "9090", config.HTTPServer.Port)
	assert.Equal(t, 2.5, config.HTTPServer.RateLimitRPS)
	assert.Equal(t, 100, config.HTTPServer.RateLimitBurst)
	assert.Equal(t, 10*time.Second, config.ShutdownTimeout)
}

func TestLoad_Defaults(t *testing.T) {
	setEnv(t, baseEnv())
	t.Setenv("REDIS_HOST", "")

	config, err := Load()
	require.NoError(t, err)
	assert.Nil(t, config.Redis)
	assert.Equal(t, 10*time.Minute, config.OAuth2.StateTimeout)
	assert.Equal(t, "8080", config.HTTPServer.Port)
	assert.Equal(t, 10*time.Second, config.HTTPServer.ReadTimeout)
}

func TestLoad_Discovery(t *testing.T) {
	env := baseEnv()
	delete(env, "OAUTH2_AUTH_URL")
	delete(env, "OAUTH2_TOKEN_URL")
	env["OAUTH2_ISSUER"] = "https://accounts.example.com"
	setEnv(t, env)
	t.Setenv("OAUTH2_AUTH_URL", "")
	t.Setenv("OAUTH2_TOKEN_URL", "")

	config, err := Load()
	require.NoError(t, err)
	assert.True(t, config.OAuth2.UseDiscovery())
}

func TestLoad_MissingRequiredEnv(t *testing.T) {
	for _, key := range []string{
		"APP_ENV",
		"OAUTH2_PROVIDER",
		"OAUTH2_CLIENT_ID",
		"OAUTH2_REDIRECT_URL",
	} {
		t.Setenv(key, "")
	}

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing env: OAUTH2_CLIENT_ID")
}

func TestLoad_MissingEndpoints(t *testing.T) {
	setEnv(t, baseEnv())
	t.Setenv("OAUTH2_TOKEN_URL", "")
	t.Setenv("OAUTH2_ISSUER", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OAUTH2_ISSUER")
}

func TestLoad_InvalidDuration(t *testing.T) {
	setEnv(t, baseEnv())
	t.Setenv("STATE_TIMEOUT", "ten minutes")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid duration for STATE_TIMEOUT")
}

func TestLoad_InvalidRateLimit(t *testing.T) {
	setEnv(t, baseEnv())
	t.Setenv("RATE_LIMIT_BURST", "lots")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid int for RATE_LIMIT_BURST")
}

func TestLoadVaultSecrets(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "oauth.env"), []byte("# comment\nPKCEGEN_TEST_SECRET=from-vault\nPKCEGEN_TEST_KEEP=from-vault\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ignored.txt"), []byte("PKCEGEN_TEST_IGNORED=x\n"), 0o600))

	t.Setenv("PKCEGEN_TEST_KEEP", "from-env")
	t.Setenv("PKCEGEN_TEST_SECRET", "")
	os.Unsetenv("PKCEGEN_TEST_SECRET")
	t.Cleanup(func() {
		os.Unsetenv("PKCEGEN_TEST_IGNORED")
	})

	loadVaultSecrets(dir)

	assert.Equal(t, "from-vault", os.Getenv("PKCEGEN_TEST_SECRET"))
	assert.Equal(t, "from-env", os.Getenv("PKCEGEN_TEST_KEEP"))
	assert.Empty(t, os.Getenv("PKCEGEN_TEST_IGNORED"))
}
