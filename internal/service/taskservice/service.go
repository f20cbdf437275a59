package taskservice

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"gotasks/internal/domain"
	apperror "gotasks/internal/errors"
	"gotasks/internal/pkg/logger"
	"gotasks/internal/policy"
)

// UserFinder é o recorte do repositório de usuários que o serviço de
// tarefas usa para checar a existência do destinatário na escrita (a
// referência assigned_to -> users.id é mantida proceduralmente, não há
// constraint no banco).
type UserFinder interface {
	FindByID(ctx context.Context, id string) (domain.User, error)
}

// Service é a camada de lógica de negócio das tarefas. Toda decisão de
// permissão é delegada à Access Policy; o serviço nunca ramifica sobre o
// papel do principal diretamente.
type Service struct {
	repo   domain.TaskRepository
	users  UserFinder
	policy *policy.Policy
	logger logger.Logger
}

// NewService cria uma nova instância do serviço de tarefas.
func NewService(repo domain.TaskRepository, users UserFinder, pol *policy.Policy, log logger.Logger) *Service {
	return &Service{repo: repo, users: users, policy: pol, logger: log}
}

// CreateTask cria uma tarefa (somente admin). Exige title, description e
// assigned_to; o destinatário precisa existir no momento da atribuição.
// A tarefa nasce sempre em pending, com created_by apontando para o admin.
func (s *Service) CreateTask(ctx context.Context, p domain.Principal, in domain.TaskCreation) (domain.Task, error) {
	if err := s.policy.AuthorizeTaskCreate(p); err != nil {
		return domain.Task{}, err
	}

	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Description) == "" || in.AssignedTo == "" {
		return domain.Task{}, apperror.NewValidationError("Título, descrição e destinatário são obrigatórios.")
	}

	if _, err := uuid.Parse(in.AssignedTo); err != nil {
		return domain.Task{}, apperror.NewValidationError("O ID do usuário destinatário é inválido.")
	}

	assignee, err := s.users.FindByID(ctx, in.AssignedTo)
	if err != nil {
		// NotFoundError do repositório já carrega o 404 correto.
		return domain.Task{}, err
	}

	task := domain.Task{
		Title:       in.Title,
		Description: in.Description,
		Status:      domain.StatusPending,
		AssignedTo: domain.Assignee{
			ID:       assignee.ID,
			Name:     assignee.Name,
			Email:    assignee.Email,
			Resolved: true,
		},
		CreatedBy: p.ID,
		DueDate:   in.DueDate,
	}

	created, err := s.repo.Create(ctx, task)
	if err != nil {
		return domain.Task{}, err
	}

	s.logger.Info("Tarefa criada.", map[string]interface{}{
		"task_id":     created.ID,
		"created_by":  p.ID,
		"assigned_to": assignee.ID,
	})
	return created, nil
}

// ListTasks executa a listagem com o escopo da política aplicado sobre os
// critérios do cliente. O filtro assigned_to de um não-admin é sempre
// forçado para ele mesmo, seja qual for o parâmetro enviado.
func (s *Service) ListTasks(ctx context.Context, p domain.Principal, query domain.TaskQuery) (domain.TaskPage, error) {
	query = query.Normalize()

	if p.IsAdmin() && query.AssignedTo != "" {
		if _, err := uuid.Parse(query.AssignedTo); err != nil {
			return domain.TaskPage{}, apperror.NewValidationError("O ID do filtro de destinatário é inválido.")
		}
	}

	query.Scope = s.policy.TaskListScope(p, query.AssignedTo)

	tasks, total, err := s.repo.List(ctx, query)
	if err != nil {
		return domain.TaskPage{}, err
	}

	return domain.TaskPage{
		Tasks:      tasks,
		Pagination: domain.NewPagination(query.Page, query.Limit, total),
		Filters: domain.TaskFilters{
			Status:     orAll(query.Status),
			AssignedTo: orAll(query.AssignedTo),
			SortBy:     query.SortField,
			Order:      query.SortOrder,
		},
	}, nil
}

// GetTaskByID busca uma tarefa única: admin lê qualquer uma, não-admin só
// lê tarefa atribuída a ele.
func (s *Service) GetTaskByID(ctx context.Context, p domain.Principal, id string) (domain.Task, error) {
	if _, err := uuid.Parse(id); err != nil {
		return domain.Task{}, apperror.NewValidationError("O ID da tarefa é inválido.")
	}

	task, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Task{}, err
	}

	if err := s.policy.AuthorizeTaskRead(p, task); err != nil {
		return domain.Task{}, err
	}

	return task, nil
}

// UpdateTask aplica uma atualização parcial. A política decide o conjunto
// de campos permitido: admin altera tudo; não-admin só status, só em tarefa
// própria, e qualquer campo extra nega a atualização por inteiro.
func (s *Service) UpdateTask(ctx context.Context, p domain.Principal, id string, update domain.TaskUpdate) (domain.Task, error) {
	if _, err := uuid.Parse(id); err != nil {
		return domain.Task{}, apperror.NewValidationError("O ID da tarefa é inválido.")
	}

	task, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Task{}, err
	}

	if err := s.policy.AuthorizeTaskUpdate(p, task, update); err != nil {
		return domain.Task{}, err
	}

	if update.Status != nil && !domain.TaskStatus(*update.Status).IsValid() {
		return domain.Task{}, apperror.NewValidationError("Status deve ser pending, in_progress ou completed.")
	}

	// Destinatário em branco é tratado como ausente, não como remoção.
	if update.AssignedTo != nil && strings.TrimSpace(*update.AssignedTo) == "" {
		update.AssignedTo = nil
	}

	if update.AssignedTo != nil {
		if _, err := uuid.Parse(*update.AssignedTo); err != nil {
			return domain.Task{}, apperror.NewValidationError("O ID do usuário destinatário é inválido.")
		}
		if _, err := s.users.FindByID(ctx, *update.AssignedTo); err != nil {
			return domain.Task{}, err
		}
	}

	if err := s.repo.UpdateByID(ctx, id, update); err != nil {
		return domain.Task{}, err
	}

	updated, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Task{}, err
	}

	s.logger.Info("Tarefa atualizada.", map[string]interface{}{"task_id": id, "by": p.ID})
	return updated, nil
}

// DeleteTask remove uma tarefa (somente admin).
func (s *Service) DeleteTask(ctx context.Context, p domain.Principal, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperror.NewValidationError("O ID da tarefa é inválido.")
	}

	if err := s.policy.AuthorizeTaskDelete(p); err != nil {
		return err
	}

	if err := s.repo.DeleteByID(ctx, id); err != nil {
		return err
	}

	s.logger.Info("Tarefa excluída.", map[string]interface{}{"task_id": id, "by": p.ID})
	return nil
}

// orAll devolve o valor ou o marcador "all" para filtro ausente.
func orAll(v string) string {
	if v == "" {
		return "all"
	}
	return v
}
