package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/coreos/go-oidc/v3/oidc"
)

// OIDCConfig holds OIDC authentication settings.
type OIDCConfig struct {
	IssuerURL string
	Audience  string
	Enabled   bool
}

type contextKey string

const ctxUserID contextKey = "user_id"

// UserFromContext extracts the authenticated user from the request context.
// Comparison requests are logged with it so a run can be traced to its caller.
func UserFromContext(ctx context.Context) string {
	v, _ := ctx.Value(ctxUserID).(string)
	return v
}

// unauthenticated paths stay reachable for probes and scrapers.
var unauthenticated = map[string]bool{
	"/api/v1/health": true,
	"/metrics":       true,
}

// oidcAuth returns middleware that verifies JWT Bearer tokens using OIDC discovery.
func oidcAuth(provider *oidc.Provider, audience string) func(http.Handler) http.Handler {
	verifier := provider.Verifier(&oidc.Config{ClientID: audience})

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if unauthenticated[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeError(w, http.StatusUnauthorized, "missing Authorization header")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				writeError(w, http.StatusUnauthorized, "invalid Authorization header format")
				return
			}

			token, err := verifier.Verify(r.Context(), parts[1])
			if err != nil {
				writeError(w, http.StatusUnauthorized, "invalid token: "+err.Error())
				return
			}

			var claims struct {
				Sub   string `json:"sub"`
				Email string `json:"email"`
			}
			if err := token.Claims(&claims); err != nil {
				writeError(w, http.StatusUnauthorized, "invalid token claims")
				return
			}

			userID := claims.Sub
			if userID == "" {
				userID = claims.Email
			}
			ctx := r.Context()
			if userID != "" {
				ctx = context.WithValue(ctx, ctxUserID, userID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
