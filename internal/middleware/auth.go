package middleware

import (
	"net/http"
	"strings"

	"drivebox/internal/domain/services"
	"drivebox/internal/httputil"
)

// AuthMiddleware verifies the bearer token on every request and stores the
// resulting user id in the request context. Downstream code only ever sees
// the already-verified integer actor id.
func AuthMiddleware(verifier services.JWTVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/health" {
				next.ServeHTTP(w, r)
				return
			}

			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				httputil.RespondError(w, http.StatusUnauthorized, "missing bearer token")
				return
			}

			claims, err := verifier.VerifyToken(token)
			if err != nil {
				httputil.RespondError(w, http.StatusUnauthorized, "invalid token")
				return
			}

			userID, _ := claims.UserID() // shape validated by the verifier

			next.ServeHTTP(w, httputil.WithUserID(r, userID))
		})
	}
}
