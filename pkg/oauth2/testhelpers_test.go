package oauth2

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"pkcegen/pkg/pkce"

	"github.com/stretchr/testify/require"
)

// fakeAuthServer is a minimal authorization server: it issues codes for
// challenges it has seen and checks the verifier at the token endpoint
type fakeAuthServer struct {
	*httptest.Server

	mu         sync.Mutex
	challenges map[string]string // code -> challenge
	lastForm   url.Values
}

func newFakeAuthServer(t *testing.T) *fakeAuthServer {
	t.Helper()

	s := &fakeAuthServer{challenges: make(map[string]string)}
	mux := http.NewServeMux()
	mux.HandleFunc("/token", s.token)
	mux.HandleFunc("/.well-known/openid-configuration", s.discovery)
	s.Server = httptest.NewServer(mux)
	t.Cleanup(s.Close)

	return s
}

// authorize simulates the user approving the request behind authURL
func (s *fakeAuthServer) authorize(t *testing.T, authURL string) (code, state string) {
	t.Helper()

	u, err := url.Parse(authURL)
	require.NoError(t, err)
	q := u.Query()
	require.Equal(t, "S256", q.Get("code_challenge_method"))

	code = "code-" + q.Get("state")
	s.mu.Lock()
	s.challenges[code] = q.Get("code_challenge")
	s.mu.Unlock()

	return code, q.Get("state")
}

func (s *fakeAuthServer) token(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	s.lastForm = r.PostForm
	challenge, ok := s.challenges[r.PostForm.Get("code")]
	delete(s.challenges, r.PostForm.Get("code"))
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if !ok || !pkce.Verify(challenge, pkce.MethodS256, r.PostForm.Get("code_verifier")) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid_grant"})
		return
	}

	_ = json.NewEncoder(w).Encode(map[string]any{
		"access_token":  "access-123",
		"token_type":    "Bearer",
		"expires_in":    3600,
		"refresh_token": "refresh-456",
		"id_token":      "header.payload.signature",
	})
}

func (s *fakeAuthServer) discovery(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"issuer":                                s.URL,
		"authorization_endpoint":                s.URL + "/authorize",
		"token_endpoint":                        s.URL + "/token",
		"jwks_uri":                              s.URL + "/jwks",
		"id_token_signing_alg_values_supported": []string{"RS256"},
	})
}

func (s *fakeAuthServer) providerConfig() ProviderConfig {
	return ProviderConfig{
		Name:         "fake",
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		RedirectURL:  "http://localhost:8080/auth/fake/callback",
		AuthURL:      s.URL + "/authorize",
		TokenURL:     s.URL + "/token",
		Scopes:       []string{"openid"},
	}
}

// MockProvider is a test double for Provider interface
type MockProvider struct {
	name     string
	authURL  string
	exchange func(ctx context.Context, code, codeVerifier string) (*TokenSet, error)

	mu        sync.Mutex
	lastCodes pkce.Codes
}

func (m *MockProvider) Name() string {
	return m.name
}

func (m *MockProvider) AuthCodeURL(state string, codes pkce.Codes) string {
	m.mu.Lock()
	m.lastCodes = codes
	m.mu.Unlock()

	q := codes.AuthParams()
	q.Set("state", state)
	return m.authURL + "?" + q.Encode()
}

func (m *MockProvider) Exchange(ctx context.Context, code, codeVerifier string) (*TokenSet, error) {
	if m.exchange != nil {
		return m.exchange(ctx, code, codeVerifier)
	}
	return &TokenSet{AccessToken: "token", TokenType: "Bearer"}, nil
}

type failingRandom struct{}

func (failingRandom) Fill(buf []byte) error {
	return errors.New("secure random unavailable")
}
