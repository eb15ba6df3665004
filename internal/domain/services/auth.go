package services

import "drivebox/internal/domain/models"

// JWTVerifier validates bearer tokens at the HTTP boundary. The core never
// sees tokens, only the verified integer user id.
type JWTVerifier interface {
	// VerifyToken validates a JWT token string and returns the parsed
	// claims. Returns an error if the token is invalid, expired, or has an
	// invalid signature.
	VerifyToken(tokenString string) (*models.AccessClaims, error)

	// Close releases any resources held by the verifier (e.g. HTTP
	// connections for JWKS refresh).
	Close() error
}
