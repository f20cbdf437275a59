package userservice

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"gotasks/internal/domain"
	apperror "gotasks/internal/errors"
	"gotasks/internal/pkg/logger"
	"gotasks/internal/policy"
)

// TaskCascader é o recorte do repositório de tarefas que o serviço de
// usuários usa para a exclusão em cascata.
type TaskCascader interface {
	DeleteByAssignee(ctx context.Context, userID string) (int64, error)
}

// Service é a camada de lógica de negócio dos usuários. Permissões são
// delegadas à Access Policy.
type Service struct {
	repo   domain.UserRepository
	tasks  TaskCascader
	policy *policy.Policy
	logger logger.Logger
}

// NewService cria uma nova instância do serviço de usuários.
func NewService(repo domain.UserRepository, tasks TaskCascader, pol *policy.Policy, log logger.Logger) *Service {
	return &Service{repo: repo, tasks: tasks, policy: pol, logger: log}
}

// GetUsers lista todos os usuários (somente admin), na projeção pública.
func (s *Service) GetUsers(ctx context.Context, p domain.Principal) ([]domain.PublicUser, error) {
	if err := s.policy.AuthorizeUserRead(p); err != nil {
		return nil, err
	}

	users, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	public := make([]domain.PublicUser, 0, len(users))
	for _, u := range users {
		public = append(public, u.Public())
	}
	return public, nil
}

// GetUser busca um usuário pelo ID (somente admin).
func (s *Service) GetUser(ctx context.Context, p domain.Principal, id string) (domain.PublicUser, error) {
	if _, err := uuid.Parse(id); err != nil {
		return domain.PublicUser{}, apperror.NewValidationError("O ID do usuário é inválido.")
	}
	if err := s.policy.AuthorizeUserRead(p); err != nil {
		return domain.PublicUser{}, err
	}

	found, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.PublicUser{}, err
	}
	return found.Public(), nil
}

// UpdateUser aplica uma atualização parcial de usuário. Admin altera
// name/email/role de qualquer um; não-admin altera apenas name/email do
// próprio perfil. A troca de e-mail exige unicidade entre os demais
// usuários.
func (s *Service) UpdateUser(ctx context.Context, p domain.Principal, id string, update domain.UserUpdate) (domain.PublicUser, error) {
	if _, err := uuid.Parse(id); err != nil {
		return domain.PublicUser{}, apperror.NewValidationError("O ID do usuário é inválido.")
	}

	if err := s.policy.AuthorizeUserUpdate(p, id, update); err != nil {
		return domain.PublicUser{}, err
	}

	if update.Empty() {
		return domain.PublicUser{}, apperror.NewValidationError("Pelo menos um campo (name, email, role) é obrigatório.")
	}

	if update.Email != nil {
		if !domain.IsValidEmail(*update.Email) {
			return domain.PublicUser{}, apperror.NewValidationError("Formato de email inválido.")
		}

		// Unicidade excluindo o próprio usuário. A checagem e a escrita não
		// são transacionais: duas trocas concorrentes podem passar ambas na
		// checagem; a constraint única do banco segura a segunda.
		existing, err := s.repo.FindByEmail(ctx, *update.Email)
		switch {
		case err == nil:
			if existing.ID != id {
				return domain.PublicUser{}, apperror.NewValidationError("Este email já está em uso.")
			}
		default:
			var notFound *apperror.NotFoundError
			if !errors.As(err, &notFound) {
				return domain.PublicUser{}, err
			}
		}
	}

	if update.Role != nil && !domain.UserRole(*update.Role).IsValid() {
		return domain.PublicUser{}, apperror.NewValidationError(`Role deve ser "admin" ou "user".`)
	}

	if err := s.repo.UpdateByID(ctx, id, update); err != nil {
		return domain.PublicUser{}, err
	}

	updated, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.PublicUser{}, err
	}

	s.logger.Info("Usuário atualizado.", map[string]interface{}{"user_id": id, "by": p.ID})
	return updated.Public(), nil
}

// DeleteUser remove um usuário (somente admin, nunca a própria conta) com
// cascata: primeiro todas as tarefas atribuídas a ele, depois o registro.
// Se o usuário não existe, nada é tocado. Os dois passos não são
// transacionais: se a exclusão do usuário falhar depois da cascata, as
// tarefas permanecem excluídas — janela de inconsistência aceita e
// documentada, sem rollback parcial.
func (s *Service) DeleteUser(ctx context.Context, p domain.Principal, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperror.NewValidationError("O ID do usuário é inválido.")
	}

	if err := s.policy.AuthorizeUserDelete(p, id); err != nil {
		return err
	}

	// Existência antes da cascata: um ID inexistente retorna 404 sem ter
	// excluído tarefa alguma.
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}

	deleted, err := s.tasks.DeleteByAssignee(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteByID(ctx, id); err != nil {
		return err
	}

	s.logger.Info("Usuário excluído com cascata de tarefas.", map[string]interface{}{
		"user_id":       id,
		"deleted_tasks": deleted,
		"by":            p.ID,
	})
	return nil
}
