package userrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"gotasks/internal/domain"
	apperror "gotasks/internal/errors"
	"gotasks/internal/pkg/logger"
)

// uniqueViolation é o código do PostgreSQL para violação de chave única.
const uniqueViolation = "23505"

// UserRepository implementa a interface domain.UserRepository sobre o
// PostgreSQL.
type UserRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewUserRepository cria uma nova instância do UserRepository, injetando o DB.
func NewUserRepository(db *sql.DB, dbTimeout time.Duration, log logger.Logger) *UserRepository {
	return &UserRepository{
		DB:        db,
		DBTimeout: dbTimeout,
		logger:    log,
	}
}

// Save insere um novo usuário no banco de dados. ID e timestamps são
// atribuídos aqui; e-mail duplicado vira ConflictError.
func (r *UserRepository) Save(ctx context.Context, user domain.User) (domain.User, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	user.ID = uuid.NewString()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt

	const insertSQL = `INSERT INTO users (id, name, email, password_hash, role, created_at, updated_at)
	                   VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.DB.ExecContext(
		ctxTimeout,
		insertSQL,
		user.ID,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return domain.User{}, apperror.NewConflictError(
				fmt.Sprintf("O email '%s' já está cadastrado.", user.Email))
		}
		r.logger.Error("Falha ao inserir usuário no DB.", err)
		return domain.User{}, apperror.NewDBError("failed to insert user", err)
	}

	r.logger.Info("Usuário salvo no repositório.", map[string]interface{}{"user_id": user.ID})
	return user, nil
}

// FindByID busca um usuário pelo ID.
func (r *UserRepository) FindByID(ctx context.Context, id string) (domain.User, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	const query = `SELECT id, name, email, password_hash, role, created_at, updated_at
	               FROM users WHERE id = $1`

	user, err := scanUser(r.DB.QueryRowContext(ctxTimeout, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, apperror.NewNotFoundError(fmt.Sprintf("Usuário com ID %s não existe.", id))
		}
		r.logger.Error("Falha ao buscar usuário por ID no DB.", err)
		return domain.User{}, apperror.NewDBError("failed to find user by id", err)
	}

	return user, nil
}

// FindByEmail busca um usuário pelo endereço de e-mail (inclui o hash de
// senha; usado por login e pela checagem de unicidade).
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	const query = `SELECT id, name, email, password_hash, role, created_at, updated_at
	               FROM users WHERE email = $1`

	user, err := scanUser(r.DB.QueryRowContext(ctxTimeout, query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, apperror.NewNotFoundError(fmt.Sprintf("Usuário com email '%s' não encontrado.", email))
		}
		r.logger.Error("Falha ao buscar usuário por email no DB.", err)
		return domain.User{}, apperror.NewDBError("failed to find user by email", err)
	}

	return user, nil
}

// FindAll lista todos os usuários (visão de admin).
func (r *UserRepository) FindAll(ctx context.Context) ([]domain.User, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	const query = `SELECT id, name, email, password_hash, role, created_at, updated_at
	               FROM users ORDER BY created_at ASC`

	rows, err := r.DB.QueryContext(ctxTimeout, query)
	if err != nil {
		r.logger.Error("Falha ao listar usuários no DB.", err)
		return nil, apperror.NewDBError("failed to list users", err)
	}
	defer rows.Close()

	users := make([]domain.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, apperror.NewDBError("failed to scan user row", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDBError("failed to iterate user rows", err)
	}

	return users, nil
}

// UpdateByID aplica uma atualização parcial (name/email/role) e carimba
// updated_at. E-mail duplicado vira ConflictError; ID sem correspondência,
// NotFoundError.
func (r *UserRepository) UpdateByID(ctx context.Context, id string, update domain.UserUpdate) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	var sets []string
	var args []interface{}

	set := func(col string, val interface{}) {
		args = append(args, val)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if update.Name != nil {
		set("name", *update.Name)
	}
	if update.Email != nil {
		set("email", *update.Email)
	}
	if update.Role != nil {
		set("role", *update.Role)
	}
	set("updated_at", time.Now())

	args = append(args, id)
	updateSQL := fmt.Sprintf("UPDATE users SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args))

	result, err := r.DB.ExecContext(ctxTimeout, updateSQL, args...)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return apperror.NewValidationError("Este email já está em uso.")
		}
		r.logger.Error("Falha ao atualizar usuário no DB.", err)
		return apperror.NewDBError("failed to update user", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apperror.NewDBError("failed to read update result", err)
	}
	if affected == 0 {
		return apperror.NewNotFoundError(fmt.Sprintf("Usuário com ID %s não existe.", id))
	}

	return nil
}

// DeleteByID remove o registro do usuário. A remoção em cascata das tarefas
// é orquestrada pela camada de serviço antes desta chamada.
func (r *UserRepository) DeleteByID(ctx context.Context, id string) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	result, err := r.DB.ExecContext(ctxTimeout, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Falha ao excluir usuário no DB.", err)
		return apperror.NewDBError("failed to delete user", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apperror.NewDBError("failed to read delete result", err)
	}
	if affected == 0 {
		return apperror.NewNotFoundError(fmt.Sprintf("Usuário com ID %s não existe.", id))
	}

	r.logger.Info("Usuário excluído do repositório.", map[string]interface{}{"user_id": id})
	return nil
}

// FindByResetToken busca o usuário dono de um token de redefinição ainda
// válido (expiração no futuro).
func (r *UserRepository) FindByResetToken(ctx context.Context, tokenValue string) (domain.User, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	const query = `SELECT id, name, email, password_hash, role, created_at, updated_at
	               FROM users WHERE reset_token = $1 AND reset_token_expiry > NOW()`

	user, err := scanUser(r.DB.QueryRowContext(ctxTimeout, query, tokenValue))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, apperror.NewNotFoundError("Token de redefinição inválido ou expirado.")
		}
		r.logger.Error("Falha ao buscar usuário por reset token no DB.", err)
		return domain.User{}, apperror.NewDBError("failed to find user by reset token", err)
	}

	return user, nil
}

// SetResetToken grava o token de redefinição e a expiração no usuário.
func (r *UserRepository) SetResetToken(ctx context.Context, userID, tokenValue string, expiry time.Time) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	const updateSQL = `UPDATE users SET reset_token = $1, reset_token_expiry = $2 WHERE id = $3`

	result, err := r.DB.ExecContext(ctxTimeout, updateSQL, tokenValue, expiry, userID)
	if err != nil {
		r.logger.Error("Falha ao gravar reset token no DB.", err)
		return apperror.NewDBError("failed to set reset token", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apperror.NewDBError("failed to read reset token result", err)
	}
	if affected == 0 {
		return apperror.NewNotFoundError(fmt.Sprintf("Usuário com ID %s não existe.", userID))
	}

	return nil
}

// UpdatePassword troca o hash de senha e limpa o token de redefinição na
// mesma instrução (atômica no nível de documento único).
func (r *UserRepository) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	const updateSQL = `UPDATE users
	                   SET password_hash = $1, reset_token = NULL, reset_token_expiry = NULL, updated_at = $2
	                   WHERE id = $3`

	result, err := r.DB.ExecContext(ctxTimeout, updateSQL, passwordHash, time.Now(), userID)
	if err != nil {
		r.logger.Error("Falha ao atualizar senha no DB.", err)
		return apperror.NewDBError("failed to update password", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apperror.NewDBError("failed to read password update result", err)
	}
	if affected == 0 {
		return apperror.NewNotFoundError(fmt.Sprintf("Usuário com ID %s não existe.", userID))
	}

	return nil
}

// rowScanner cobre *sql.Row e *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanUser(row rowScanner) (domain.User, error) {
	var user domain.User
	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return domain.User{}, err
	}
	return user, nil
}
