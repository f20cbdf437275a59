package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"gotasks/internal/domain"
	apperror "gotasks/internal/errors"
)

// ContextKey é o tipo das chaves de contexto deste pacote. Um tipo próprio
// garante que a chave não colida com chaves string de outros pacotes.
type ContextKey int

const (
	// PrincipalKey é a chave usada para armazenar o Principal no contexto.
	PrincipalKey ContextKey = iota
)

// IdentityResolver é o contrato do Contexto de Identidade: resolve a
// credencial extraída do header em um Principal.
type IdentityResolver interface {
	Resolve(ctx context.Context, credential string) (domain.Principal, error)
}

// NewAuthMiddleware cria o middleware de autenticação: extrai o token do
// header Authorization (Bearer), resolve o principal e o anexa ao contexto
// da requisição. Toda falha vira 401, antes de qualquer acesso a dados.
func NewAuthMiddleware(resolver IdentityResolver) func(next http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			credential := bearerToken(r)
			if credential == "" {
				writeAuthError(w, apperror.NewUnauthorizedError("Token de autorização ausente ou malformado."))
				return
			}

			principal, err := resolver.Resolve(r.Context(), credential)
			if err != nil {
				writeAuthError(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), PrincipalKey, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		}
	}
}

// GetPrincipalFromContext extrai o principal anexado pelo middleware.
func GetPrincipalFromContext(ctx context.Context) (domain.Principal, bool) {
	p, ok := ctx.Value(PrincipalKey).(domain.Principal)
	return p, ok
}

// bearerToken extrai o token do header Authorization: Bearer <token>.
func bearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(authHeader, "Bearer ")
}

// writeAuthError devolve o erro de autenticação no mesmo envelope JSON dos
// handlers ({code, category, message}).
func writeAuthError(w http.ResponseWriter, err error) {
	status, category, message := apperror.MapToHTTPStatus(err)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(domain.ErrorResponse{
		Code:     status,
		Category: category,
		Message:  message,
	})
}
