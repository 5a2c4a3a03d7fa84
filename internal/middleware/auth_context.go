package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"pet-clinic-platform/internal/ports/auth"
)

type ctxKey string

const principalKey ctxKey = "principal"

// PrincipalResolver resuelve un bearer token a un principal con rol y
// perfil ya cargados desde el store.
type PrincipalResolver interface {
	Authenticate(ctx context.Context, token string) (auth.Principal, error)
}

// AuthContext:
// - Si viene Bearer token => intenta resolver el principal y lo setea.
// - Distingue "token inválido" de "la cuenta ya no existe" vía AuthError.
// - Si no hay token, el request sigue igual; los handlers decidirán si exigen auth.
func AuthContext(resolver PrincipalResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r.Header.Get("Authorization"))
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			p, err := resolver.Authenticate(r.Context(), token)
			if err != nil {
				// No cortamos aquí para no acoplar. El handler decide 401/403.
				ctx := context.WithValue(r.Context(), principalKey, authResult{err: err})
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			ctx := context.WithValue(r.Context(), principalKey, authResult{principal: p, ok: true})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

type authResult struct {
	principal auth.Principal
	err       error
	ok        bool
}

// GetPrincipal devuelve el principal autenticado del request, si lo hay.
func GetPrincipal(ctx context.Context) (auth.Principal, bool) {
	v := ctx.Value(principalKey)
	if v == nil {
		return auth.Principal{}, false
	}
	res, _ := v.(authResult)
	return res.principal, res.ok
}

// AuthError devuelve el error de autenticación del request: token presente
// pero inválido, vencido o de una cuenta borrada. nil si no vino token o si
// la autenticación anduvo.
func AuthError(ctx context.Context) error {
	v := ctx.Value(principalKey)
	if v == nil {
		return nil
	}
	res, _ := v.(authResult)
	return res.err
}

// ErrNoToken marca un request sin Authorization.
var ErrNoToken = errors.New("missing bearer token")

// RequirePrincipal es el chequeo común de los handlers protegidos: devuelve
// el principal o el motivo por el que no lo hay.
func RequirePrincipal(ctx context.Context) (auth.Principal, error) {
	if p, ok := GetPrincipal(ctx); ok {
		return p, nil
	}
	if err := AuthError(ctx); err != nil {
		return auth.Principal{}, err
	}
	return auth.Principal{}, ErrNoToken
}

func bearerToken(authHeader string) string {
	if strings.TrimSpace(authHeader) == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 {
		return ""
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
