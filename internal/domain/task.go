package domain

import (
	"context"
	"encoding/json"
	"time"
)

// TaskStatus é o ciclo de vida de uma tarefa.
type TaskStatus string

const (
	StatusPending    TaskStatus = "pending"
	StatusInProgress TaskStatus = "in_progress"
	StatusCompleted  TaskStatus = "completed"
)

// IsValid indica se o status informado é um dos três status conhecidos.
func (s TaskStatus) IsValid() bool {
	return s == StatusPending || s == StatusInProgress || s == StatusCompleted
}

// Task representa a entidade de tarefa.
// AssignedTo é uma referência a um User mantida proceduralmente: a
// existência do destinatário é checada na escrita e a exclusão do usuário
// referenciado remove as tarefas dele em cascata (não há constraint no DB).
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      TaskStatus `json:"status"`
	AssignedTo  Assignee   `json:"assigned_to"`
	CreatedBy   string     `json:"created_by"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Assignee é a referência populada ao usuário destinatário da tarefa.
// Quando o usuário referenciado ainda existe, serializa como objeto
// {id, name, email}; quando a referência ficou pendurada (usuário removido
// entre a leitura e o populate), serializa como o ID bruto, sem erro.
type Assignee struct {
	ID       string
	Name     string
	Email    string
	Resolved bool
}

type assigneeJSON struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// MarshalJSON implementa a serialização condicional descrita acima.
func (a Assignee) MarshalJSON() ([]byte, error) {
	if !a.Resolved {
		return json.Marshal(a.ID)
	}
	return json.Marshal(assigneeJSON{ID: a.ID, Name: a.Name, Email: a.Email})
}

// UnmarshalJSON aceita tanto a forma objeto quanto o ID bruto.
func (a *Assignee) UnmarshalJSON(data []byte) error {
	var id string
	if err := json.Unmarshal(data, &id); err == nil {
		*a = Assignee{ID: id}
		return nil
	}
	var obj assigneeJSON
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	*a = Assignee{ID: obj.ID, Name: obj.Name, Email: obj.Email, Resolved: true}
	return nil
}

// TaskCreation representa o payload de criação de tarefa (somente admin).
type TaskCreation struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	AssignedTo  string     `json:"assigned_to"`
	DueDate     *time.Time `json:"due_date,omitempty"`
}

// TaskUpdate representa uma atualização parcial de tarefa.
// Fields lista as chaves presentes no JSON original; a Access Policy usa a
// lista para rejeitar por inteiro atualizações de não-admin que toquem algo
// além de status (nada é filtrado silenciosamente).
type TaskUpdate struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Status      *string    `json:"status"`
	AssignedTo  *string    `json:"assigned_to"`
	DueDate     *time.Time `json:"due_date"`

	Fields []string `json:"-"`
}

// Empty indica se nenhum campo atualizável foi informado.
func (u TaskUpdate) Empty() bool {
	return u.Title == nil && u.Description == nil && u.Status == nil &&
		u.AssignedTo == nil && u.DueDate == nil
}

// TaskRepository define o contrato de persistência para a entidade Task.
type TaskRepository interface {
	Create(ctx context.Context, task Task) (Task, error)
	FindByID(ctx context.Context, id string) (Task, error)
	List(ctx context.Context, query TaskQuery) ([]Task, int, error)
	UpdateByID(ctx context.Context, id string, update TaskUpdate) error
	DeleteByID(ctx context.Context, id string) error
	DeleteByAssignee(ctx context.Context, userID string) (int64, error)
}
