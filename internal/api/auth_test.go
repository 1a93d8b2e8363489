package api

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/go-jose/go-jose/v4"
	"github.com/go-jose/go-jose/v4/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finops-claw-gang/pairdiff/internal/domain"
)

// testOIDCServer creates a fake OIDC issuer serving JWKS.
func testOIDCServer(t *testing.T, key *rsa.PrivateKey) *httptest.Server {
	t.Helper()
	jwk := jose.JSONWebKey{Key: &key.PublicKey, KeyID: "test-kid", Algorithm: "RS256", Use: "sig"}
	jwks := jose.JSONWebKeySet{Keys: []jose.JSONWebKey{jwk}}

	mux := http.NewServeMux()
	var issuerURL string

	mux.HandleFunc("/.well-known/openid-configuration", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(map[string]string{
			"issuer":   issuerURL,
			"jwks_uri": issuerURL + "/jwks",
		}); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})
	mux.HandleFunc("/jwks", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(jwks); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})

	ts := httptest.NewServer(mux)
	issuerURL = ts.URL
	return ts
}

// signJWT creates a signed JWT with the given claims.
func signJWT(t *testing.T, key *rsa.PrivateKey, claims map[string]any) string {
	t.Helper()
	sig, err := jose.NewSigner(
		jose.SigningKey{Algorithm: jose.RS256, Key: key},
		(&jose.SignerOptions{}).WithHeader("kid", "test-kid"),
	)
	require.NoError(t, err)

	raw, err := jwt.Signed(sig).Claims(claims).Serialize()
	require.NoError(t, err)
	return raw
}

type authTestEnv struct {
	key        *rsa.PrivateKey
	middleware func(http.Handler) http.Handler
	issuerURL  string
}

func setupAuthMiddleware(t *testing.T) authTestEnv {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	issuerServer := testOIDCServer(t, key)
	t.Cleanup(issuerServer.Close)

	oidcCtx := oidc.InsecureIssuerURLContext(t.Context(), issuerServer.URL)
	provider, err := oidc.NewProvider(oidcCtx, issuerServer.URL)
	require.NoError(t, err)

	middleware := oidcAuth(provider, "test-audience")
	return authTestEnv{key: key, middleware: middleware, issuerURL: issuerServer.URL}
}

// echoHandler returns a handler that writes the user from context.
func echoHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewEncoder(w).Encode(map[string]string{
			"user_id": UserFromContext(r.Context()),
		}); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})
}

func TestOIDCAuth(t *testing.T) {
	env := setupAuthMiddleware(t)
	handler := env.middleware(echoHandler())

	now := time.Now()
	validToken := signJWT(t, env.key, map[string]any{
		"iss": env.issuerURL, "aud": "test-audience", "sub": "user-123",
		"exp": now.Add(time.Hour).Unix(), "iat": now.Unix(),
	})
	emailOnlyToken := signJWT(t, env.key, map[string]any{
		"iss": env.issuerURL, "aud": "test-audience", "email": "qa@example.com",
		"exp": now.Add(time.Hour).Unix(), "iat": now.Unix(),
	})
	expiredToken := signJWT(t, env.key, map[string]any{
		"iss": env.issuerURL, "aud": "test-audience", "sub": "user-123",
		"exp": now.Add(-time.Hour).Unix(), "iat": now.Add(-2 * time.Hour).Unix(),
	})
	wrongAudienceToken := signJWT(t, env.key, map[string]any{
		"iss": env.issuerURL, "aud": "wrong-audience", "sub": "user-123",
		"exp": now.Add(time.Hour).Unix(), "iat": now.Unix(),
	})

	tests := []struct {
		name       string
		path       string
		authHeader string
		wantStatus int
		wantBody   map[string]string // nil = don't check body
	}{
		{
			name:       "valid token",
			path:       "/api/v1/comparisons",
			authHeader: "Bearer " + validToken,
			wantStatus: http.StatusOK,
			wantBody:   map[string]string{"user_id": "user-123"},
		},
		{
			name:       "email fallback",
			path:       "/api/v1/comparisons",
			authHeader: "Bearer " + emailOnlyToken,
			wantStatus: http.StatusOK,
			wantBody:   map[string]string{"user_id": "qa@example.com"},
		},
		{
			name:       "metrics bypasses auth",
			path:       "/metrics",
			authHeader: "",
			wantStatus: http.StatusOK,
		},
		{
			name:       "missing header",
			path:       "/api/v1/comparisons",
			authHeader: "",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "expired token",
			path:       "/api/v1/comparisons",
			authHeader: "Bearer " + expiredToken,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "wrong audience",
			path:       "/api/v1/comparisons",
			authHeader: "Bearer " + wrongAudienceToken,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "health bypasses auth",
			path:       "/api/v1/health",
			authHeader: "",
			wantStatus: http.StatusOK,
		},
		{
			name:       "invalid format (Basic auth)",
			path:       "/api/v1/comparisons",
			authHeader: "Basic dXNlcjpwYXNz",
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.path, nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)

			if tt.wantBody != nil {
				var body map[string]string
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
				for k, v := range tt.wantBody {
					assert.Equal(t, v, body[k], "body[%s]", k)
				}
			}
		})
	}
}

type nopRunner struct{}

func (nopRunner) Run(context.Context, []domain.URLPair, int) (domain.RunResult, error) {
	return domain.RunResult{Lines: []string{}}, nil
}

func TestNew_OIDCEnabled(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	issuer := testOIDCServer(t, key)
	t.Cleanup(issuer.Close)

	srv, err := New(t.Context(), Options{
		Orchestrator:     nopRunner{},
		DefaultLimit:     10,
		DefaultBatchSize: 1,
		OIDC:             OIDCConfig{IssuerURL: issuer.URL, Audience: "pairdiff", Enabled: true},
	})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	srv.ServeHTTP(w, httptest.NewRequest("POST", "/api/v1/comparisons", strings.NewReader(`{"urls_a":[],"urls_b":[]}`)))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	now := time.Now()
	token := signJWT(t, key, map[string]any{
		"iss": issuer.URL, "aud": "pairdiff", "sub": "ci",
		"exp": now.Add(time.Hour).Unix(), "iat": now.Unix(),
	})
	req := httptest.NewRequest("POST", "/api/v1/comparisons", strings.NewReader(`{"urls_a":[],"urls_b":[]}`))
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	srv.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestNew_OIDCDiscoveryFails(t *testing.T) {
	dead := httptest.NewServer(http.NotFoundHandler())
	dead.Close()

	_, err := New(t.Context(), Options{
		Orchestrator: nopRunner{},
		OIDC:         OIDCConfig{IssuerURL: dead.URL, Audience: "pairdiff", Enabled: true},
	})
	assert.ErrorContains(t, err, "oidc discovery")
}
