package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

type contextKey string

const claimsContextKey contextKey = "admin_claims"

// HTTPMiddleware enforces a valid session token on write endpoints.
// Reads stay public: the map itself needs no credentials.
func HTTPMiddleware(next http.Handler, jwtSecret string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !isProtectedRequest(r) {
			next.ServeHTTP(w, r)
			return
		}

		tokenString, err := extractTokenFromHeader(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}

		claims, err := ValidateToken(tokenString, jwtSecret)
		if err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), claimsContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func extractTokenFromHeader(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", fmt.Errorf("authorization header required")
	}

	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	if tokenString == "" {
		return "", fmt.Errorf("invalid authorization format")
	}

	return tokenString, nil
}

func isProtectedRequest(r *http.Request) bool {
	// Snapshot overwrites are the only mutation the gateway accepts.
	return r.Method == http.MethodPost && strings.HasPrefix(r.URL.Path, "/api/companies")
}
