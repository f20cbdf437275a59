package identity

import (
	"context"
	"errors"

	"gotasks/internal/domain"
	apperror "gotasks/internal/errors"
	"gotasks/internal/pkg/logger"
	"gotasks/internal/pkg/token"
)

// UserFinder é o recorte do repositório de usuários que o contexto de
// identidade precisa para materializar o principal.
type UserFinder interface {
	FindByID(ctx context.Context, id string) (domain.User, error)
}

// TokenValidator é o contrato de validação de credencial (JWT).
type TokenValidator interface {
	ValidateToken(tokenString string) (*token.CustomClaims, error)
}

// Service resolve uma credencial opaca (JWT) em um Principal: id + papel.
// O principal é uma visão do registro de User, nunca uma entidade própria:
// um token válido de um usuário já removido não autentica.
type Service struct {
	tokens TokenValidator
	users  UserFinder
	logger logger.Logger
}

// NewService cria o contexto de identidade, injetando o validador de token
// e o repositório de usuários.
func NewService(tokens TokenValidator, users UserFinder, log logger.Logger) *Service {
	return &Service{tokens: tokens, users: users, logger: log}
}

// Resolve valida a credencial e carrega o usuário correspondente.
// Qualquer falha (token ausente/expirado/inválido, usuário inexistente)
// resulta em UnauthorizedError, antes de qualquer checagem de política.
func (s *Service) Resolve(ctx context.Context, credential string) (domain.Principal, error) {
	if credential == "" {
		return domain.Principal{}, apperror.NewUnauthorizedError("Credencial de autenticação ausente.")
	}

	claims, err := s.tokens.ValidateToken(credential)
	if err != nil {
		s.logger.Debug("Credencial rejeitada pelo validador de token.", map[string]interface{}{"error": err.Error()})
		return domain.Principal{}, apperror.NewUnauthorizedError("Token inválido ou expirado.")
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		var notFound *apperror.NotFoundError
		if errors.As(err, &notFound) {
			// O usuário do token foi removido depois da emissão.
			return domain.Principal{}, apperror.NewUnauthorizedError("Usuário da credencial não existe mais.")
		}
		s.logger.Error("Falha ao carregar usuário do principal.", err)
		return domain.Principal{}, err
	}

	return domain.Principal{ID: user.ID, Role: user.Role}, nil
}
