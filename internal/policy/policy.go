package policy

import (
	"gotasks/internal/domain"
	apperror "gotasks/internal/errors"
)

// Policy centraliza as regras de autorização do sistema: para um dado
// principal e ação, decide permitir/negar e, em leituras de coleção, produz
// o filtro de escopo. Os serviços consultam a política e nunca ramificam
// sobre o papel diretamente; este componente não faz mutação nem acessa o
// banco de dados.
//
// Negações são devolvidas como AppError tipado (ForbiddenError ou
// ValidationError), que o handler traduz para 403/400.
type Policy struct{}

// New cria a política. Sem estado: uma instância serve o processo inteiro.
func New() *Policy {
	return &Policy{}
}

// taskUpdateUserFields são os únicos campos que um não-admin pode tocar em
// uma atualização de tarefa.
var taskUpdateUserFields = map[string]bool{
	"status": true,
}

// TaskListScope produz o filtro de escopo da listagem de tarefas.
// Admin enxerga tudo e pode restringir por um destinatário arbitrário;
// o filtro de destinatário de um não-admin é sempre forçado para ele mesmo,
// independentemente do que a requisição pediu.
func (Policy) TaskListScope(p domain.Principal, requestedAssignee string) domain.TaskScope {
	if p.IsAdmin() {
		return domain.TaskScope{AssignedTo: requestedAssignee}
	}
	return domain.TaskScope{AssignedTo: p.ID}
}

// AuthorizeTaskRead decide a leitura de uma tarefa específica: admin lê
// qualquer uma; não-admin só lê tarefa atribuída a ele.
func (Policy) AuthorizeTaskRead(p domain.Principal, task domain.Task) error {
	if p.IsAdmin() || task.AssignedTo.ID == p.ID {
		return nil
	}
	return apperror.NewForbiddenError("Você só pode visualizar tarefas atribuídas a você.")
}

// AuthorizeTaskCreate decide a criação de tarefas: somente admin.
func (Policy) AuthorizeTaskCreate(p domain.Principal) error {
	if p.IsAdmin() {
		return nil
	}
	return apperror.NewForbiddenError("Somente administradores podem criar tarefas.")
}

// AuthorizeTaskUpdate decide uma atualização parcial de tarefa.
// Admin pode alterar title, description, status, assigned_to e due_date em
// qualquer tarefa. Não-admin só pode atualizar tarefa atribuída a ele e só
// pode tocar em status: a presença de qualquer outra chave no payload nega a
// atualização por inteiro, nada é filtrado silenciosamente.
func (Policy) AuthorizeTaskUpdate(p domain.Principal, task domain.Task, update domain.TaskUpdate) error {
	if p.IsAdmin() {
		return nil
	}

	if task.AssignedTo.ID != p.ID {
		return apperror.NewForbiddenError("Você só pode atualizar suas próprias tarefas.")
	}

	for _, field := range update.Fields {
		if !taskUpdateUserFields[field] {
			return apperror.NewForbiddenError("Usuários só podem atualizar o status da tarefa.")
		}
	}

	return nil
}

// AuthorizeTaskDelete decide a exclusão de tarefas: somente admin.
func (Policy) AuthorizeTaskDelete(p domain.Principal) error {
	if p.IsAdmin() {
		return nil
	}
	return apperror.NewForbiddenError("Somente administradores podem excluir tarefas.")
}

// AuthorizeUserRead decide a leitura de usuários (lista ou único): somente admin.
func (Policy) AuthorizeUserRead(p domain.Principal) error {
	if p.IsAdmin() {
		return nil
	}
	return apperror.NewForbiddenError("Somente administradores podem visualizar usuários.")
}

// AuthorizeUserUpdate decide uma atualização de usuário. Admin altera
// name/email/role de qualquer usuário; não-admin altera apenas name/email
// do próprio perfil e nunca role.
func (Policy) AuthorizeUserUpdate(p domain.Principal, targetID string, update domain.UserUpdate) error {
	if p.IsAdmin() {
		return nil
	}

	if targetID != p.ID {
		return apperror.NewForbiddenError("Você só pode atualizar o seu próprio perfil.")
	}

	// A presença da chave já nega, mesmo com valor nulo: nada é filtrado
	// silenciosamente.
	if update.Role != nil || update.HasField("role") {
		return apperror.NewForbiddenError("Somente administradores podem alterar papéis de usuário.")
	}

	return nil
}

// AuthorizeUserDelete decide a exclusão de usuários: somente admin, e nunca
// a própria conta (vale inclusive para admins; a autoexclusão é um erro de
// validação, não de permissão).
func (Policy) AuthorizeUserDelete(p domain.Principal, targetID string) error {
	if !p.IsAdmin() {
		return apperror.NewForbiddenError("Somente administradores podem excluir usuários.")
	}
	if targetID == p.ID {
		return apperror.NewValidationError("Você não pode excluir a sua própria conta.")
	}
	return nil
}
