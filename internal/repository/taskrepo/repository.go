package taskrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"gotasks/internal/domain"
	apperror "gotasks/internal/errors"
	"gotasks/internal/pkg/logger"
)

// TaskRepository implementa a interface domain.TaskRepository sobre o
// PostgreSQL. Todas as leituras populam a referência do destinatário via
// LEFT JOIN: se o usuário referenciado não existe mais, a tarefa volta com o
// ID bruto em vez de erro.
type TaskRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewTaskRepository cria uma nova instância do TaskRepository, injetando o DB.
func NewTaskRepository(db *sql.DB, dbTimeout time.Duration, log logger.Logger) *TaskRepository {
	return &TaskRepository{
		DB:        db,
		DBTimeout: dbTimeout,
		logger:    log,
	}
}

// selectTaskSQL é a projeção base: a tarefa mais os campos de exibição do
// destinatário (nunca o hash de senha).
const selectTaskSQL = `
	SELECT t.id, t.title, t.description, t.status, t.assigned_to,
	       u.id, u.name, u.email,
	       t.created_by, t.due_date, t.created_at, t.updated_at
	FROM tasks t
	LEFT JOIN users u ON u.id = t.assigned_to`

// Create insere uma nova tarefa. ID e timestamps são atribuídos aqui; o
// status inicial e o criador já vêm decididos pela camada de serviço.
func (r *TaskRepository) Create(ctx context.Context, task domain.Task) (domain.Task, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	task.ID = uuid.NewString()
	task.CreatedAt = time.Now()
	task.UpdatedAt = task.CreatedAt

	const insertSQL = `INSERT INTO tasks (id, title, description, status, assigned_to, created_by, due_date, created_at, updated_at)
	                   VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.DB.ExecContext(
		ctxTimeout,
		insertSQL,
		task.ID,
		task.Title,
		task.Description,
		task.Status,
		task.AssignedTo.ID,
		task.CreatedBy,
		task.DueDate,
		task.CreatedAt,
		task.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Falha ao inserir tarefa no DB.", err)
		return domain.Task{}, apperror.NewDBError("failed to insert task", err)
	}

	r.logger.Info("Tarefa criada no repositório.", map[string]interface{}{"task_id": task.ID})
	return task, nil
}

// FindByID busca uma tarefa pelo ID com o destinatário populado.
func (r *TaskRepository) FindByID(ctx context.Context, id string) (domain.Task, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	row := r.DB.QueryRowContext(ctxTimeout, selectTaskSQL+` WHERE t.id = $1`, id)

	task, err := scanTask(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Task{}, apperror.NewNotFoundError(fmt.Sprintf("Tarefa com ID %s não existe.", id))
		}
		r.logger.Error("Falha ao buscar tarefa por ID no DB.", err)
		return domain.Task{}, apperror.NewDBError("failed to find task by id", err)
	}

	return task, nil
}

// List executa a consulta com escopo, filtros, ordenação e paginação, e
// retorna a página mais o total de documentos correspondentes antes da
// paginação (para os metadados de paginação).
func (r *TaskRepository) List(ctx context.Context, query domain.TaskQuery) ([]domain.Task, int, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	where, args := whereClause(query)

	// Total pré-paginação com o mesmo WHERE.
	var total int
	countSQL := `SELECT COUNT(*) FROM tasks t` + where
	if err := r.DB.QueryRowContext(ctxTimeout, countSQL, args...).Scan(&total); err != nil {
		r.logger.Error("Falha ao contar tarefas no DB.", err)
		return nil, 0, apperror.NewDBError("failed to count tasks", err)
	}

	offset := (query.Page - 1) * query.Limit
	pageSQL := fmt.Sprintf("%s%s%s LIMIT $%d OFFSET $%d",
		selectTaskSQL, where, orderBy(query), len(args)+1, len(args)+2)
	args = append(args, query.Limit, offset)

	rows, err := r.DB.QueryContext(ctxTimeout, pageSQL, args...)
	if err != nil {
		r.logger.Error("Falha ao listar tarefas no DB.", err)
		return nil, 0, apperror.NewDBError("failed to list tasks", err)
	}
	defer rows.Close()

	tasks := make([]domain.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, 0, apperror.NewDBError("failed to scan task row", err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, apperror.NewDBError("failed to iterate task rows", err)
	}

	return tasks, total, nil
}

// UpdateByID aplica uma atualização parcial e sempre carimba updated_at.
// Retorna NotFoundError quando o ID não corresponde a nenhuma tarefa.
func (r *TaskRepository) UpdateByID(ctx context.Context, id string, update domain.TaskUpdate) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	var sets []string
	var args []interface{}

	set := func(col string, val interface{}) {
		args = append(args, val)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if update.Title != nil {
		set("title", *update.Title)
	}
	if update.Description != nil {
		set("description", *update.Description)
	}
	if update.Status != nil {
		set("status", *update.Status)
	}
	if update.AssignedTo != nil {
		set("assigned_to", *update.AssignedTo)
	}
	if update.DueDate != nil {
		set("due_date", *update.DueDate)
	}
	set("updated_at", time.Now())

	args = append(args, id)
	updateSQL := fmt.Sprintf("UPDATE tasks SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args))

	result, err := r.DB.ExecContext(ctxTimeout, updateSQL, args...)
	if err != nil {
		r.logger.Error("Falha ao atualizar tarefa no DB.", err)
		return apperror.NewDBError("failed to update task", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apperror.NewDBError("failed to read update result", err)
	}
	if affected == 0 {
		return apperror.NewNotFoundError(fmt.Sprintf("Tarefa com ID %s não existe.", id))
	}

	return nil
}

// DeleteByID remove definitivamente uma tarefa.
func (r *TaskRepository) DeleteByID(ctx context.Context, id string) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	result, err := r.DB.ExecContext(ctxTimeout, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Falha ao excluir tarefa no DB.", err)
		return apperror.NewDBError("failed to delete task", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apperror.NewDBError("failed to read delete result", err)
	}
	if affected == 0 {
		return apperror.NewNotFoundError(fmt.Sprintf("Tarefa com ID %s não existe.", id))
	}

	r.logger.Info("Tarefa excluída do repositório.", map[string]interface{}{"task_id": id})
	return nil
}

// DeleteByAssignee remove todas as tarefas atribuídas ao usuário informado.
// É o passo de cascata da exclusão de usuário; zero tarefas removidas não é
// erro (idempotente sobre um destinatário sem tarefas).
func (r *TaskRepository) DeleteByAssignee(ctx context.Context, userID string) (int64, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	result, err := r.DB.ExecContext(ctxTimeout, `DELETE FROM tasks WHERE assigned_to = $1`, userID)
	if err != nil {
		r.logger.Error("Falha ao excluir tarefas do usuário no DB.", err)
		return 0, apperror.NewDBError("failed to delete tasks by assignee", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, apperror.NewDBError("failed to read cascade delete result", err)
	}

	r.logger.Info("Tarefas do usuário excluídas em cascata.", map[string]interface{}{
		"user_id": userID,
		"deleted": deleted,
	})
	return deleted, nil
}

// rowScanner cobre *sql.Row e *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanTask mapeia uma linha da projeção base para a entidade, resolvendo o
// destinatário quando o LEFT JOIN encontrou o usuário.
func scanTask(row rowScanner) (domain.Task, error) {
	var task domain.Task
	var assigneeID string
	var joinedID, joinedName, joinedEmail sql.NullString
	var dueDate sql.NullTime

	err := row.Scan(
		&task.ID,
		&task.Title,
		&task.Description,
		&task.Status,
		&assigneeID,
		&joinedID,
		&joinedName,
		&joinedEmail,
		&task.CreatedBy,
		&dueDate,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		return domain.Task{}, err
	}

	task.AssignedTo = domain.Assignee{ID: assigneeID}
	if joinedID.Valid {
		task.AssignedTo = domain.Assignee{
			ID:       joinedID.String,
			Name:     joinedName.String,
			Email:    joinedEmail.String,
			Resolved: true,
		}
	}

	if dueDate.Valid {
		due := dueDate.Time
		task.DueDate = &due
	}

	return task, nil
}
