package statsrepo

import (
	"context"
	"database/sql"
	"time"

	"gotasks/internal/domain"
	apperror "gotasks/internal/errors"
	"gotasks/internal/pkg/logger"
)

// StatsRepository produz contagens, nunca registros completos. Cada bloco
// de estatísticas é um conjunto de COUNTs independentes, sem isolamento de
// snapshot entre eles: sob escrita concorrente os totais são apenas
// aproximadamente consistentes, por desenho.
type StatsRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewStatsRepository cria uma nova instância do StatsRepository.
func NewStatsRepository(db *sql.DB, dbTimeout time.Duration, log logger.Logger) *StatsRepository {
	return &StatsRepository{
		DB:        db,
		DBTimeout: dbTimeout,
		logger:    log,
	}
}

// TaskStats conta as tarefas por status dentro do escopo informado
// (scope.AssignedTo vazio = coleção inteira, visão de admin).
func (r *StatsRepository) TaskStats(ctx context.Context, scope domain.TaskScope) (domain.TaskStats, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	var stats domain.TaskStats
	var err error

	if stats.Total, err = r.countTasks(ctxTimeout, scope, ""); err != nil {
		return domain.TaskStats{}, err
	}
	if stats.Pending, err = r.countTasks(ctxTimeout, scope, domain.StatusPending); err != nil {
		return domain.TaskStats{}, err
	}
	if stats.InProgress, err = r.countTasks(ctxTimeout, scope, domain.StatusInProgress); err != nil {
		return domain.TaskStats{}, err
	}
	if stats.Completed, err = r.countTasks(ctxTimeout, scope, domain.StatusCompleted); err != nil {
		return domain.TaskStats{}, err
	}

	return stats, nil
}

// UserStats conta os usuários por papel sobre a coleção inteira.
func (r *StatsRepository) UserStats(ctx context.Context) (domain.UserStats, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	var stats domain.UserStats
	var err error

	if stats.Total, err = r.countUsers(ctxTimeout, ""); err != nil {
		return domain.UserStats{}, err
	}
	if stats.Admins, err = r.countUsers(ctxTimeout, domain.RoleAdmin); err != nil {
		return domain.UserStats{}, err
	}
	if stats.RegularUsers, err = r.countUsers(ctxTimeout, domain.RoleUser); err != nil {
		return domain.UserStats{}, err
	}

	return stats, nil
}

func (r *StatsRepository) countTasks(ctx context.Context, scope domain.TaskScope, status domain.TaskStatus) (int, error) {
	query := `SELECT COUNT(*) FROM tasks WHERE 1=1`
	var args []interface{}

	if scope.AssignedTo != "" {
		args = append(args, scope.AssignedTo)
		query += ` AND assigned_to = $1`
	}
	if status != "" {
		args = append(args, status)
		if len(args) == 1 {
			query += ` AND status = $1`
		} else {
			query += ` AND status = $2`
		}
	}

	var count int
	if err := r.DB.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		r.logger.Error("Falha ao contar tarefas para estatísticas.", err)
		return 0, apperror.NewDBError("failed to count tasks", err)
	}
	return count, nil
}

func (r *StatsRepository) countUsers(ctx context.Context, role domain.UserRole) (int, error) {
	query := `SELECT COUNT(*) FROM users`
	var args []interface{}

	if role != "" {
		args = append(args, role)
		query += ` WHERE role = $1`
	}

	var count int
	if err := r.DB.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		r.logger.Error("Falha ao contar usuários para estatísticas.", err)
		return 0, apperror.NewDBError("failed to count users", err)
	}
	return count, nil
}
