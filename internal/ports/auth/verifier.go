package auth

import "context"

// TokenVerifier verifica un bearer token y devuelve claims o error.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (Claims, error)
}

// TokenIssuer firma un token de sesión para un usuario.
type TokenIssuer interface {
	Sign(ctx context.Context, userID string) (string, error)
}
