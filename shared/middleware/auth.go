package middleware

import (
	"context"
	"net/http"
	"strings"

	jwt_internal "github.com/previewer-dev/previewer/shared/jwt"
	"github.com/previewer-dev/previewer/shared/utils"
)

// Key to store the handshake claims in the request context
type key int

const HandshakeClaimsKey key = 0

// Handshake holds dependencies for the host handshake middleware
type Handshake struct {
	service jwt_internal.HandshakeService
}

func NewHandshake(service jwt_internal.HandshakeService) *Handshake {
	return &Handshake{service: service}
}

// extractToken reads the handshake token from the query string (first mount inside the
// host iframe) or from the Authorization header (API clients).
func extractToken(r *http.Request) string {
	if token := r.URL.Query().Get("token"); token != "" {
		return token
	}
	if token, found := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); found {
		return token
	}
	return ""
}

// NeedHandshake rejects requests without a valid handshake token.
func (h *Handshake) NeedHandshake() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := extractToken(r)
			if tokenString == "" {
				http.Error(w, "Missing host handshake", http.StatusUnauthorized)
				return
			}

			claims, err := h.service.DecodeToken(tokenString)
			if err != nil {
				utils.WriteErrorAndStatusCode(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), HandshakeClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetHandshakeFromContext retrieves the verified claims from the context
func GetHandshakeFromContext(r *http.Request) *jwt_internal.HandshakeClaims {
	claims, ok := r.Context().Value(HandshakeClaimsKey).(*jwt_internal.HandshakeClaims)
	if !ok {
		return nil
	}
	return claims
}
