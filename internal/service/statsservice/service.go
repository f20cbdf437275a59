package statsservice

import (
	"context"
	"encoding/json"
	"time"

	"gotasks/internal/domain"
	"gotasks/internal/pkg/cache"
	"gotasks/internal/pkg/logger"
	"gotasks/internal/policy"
)

// StatsProvider é o contrato do agregador de contagens.
type StatsProvider interface {
	TaskStats(ctx context.Context, scope domain.TaskScope) (domain.TaskStats, error)
	UserStats(ctx context.Context) (domain.UserStats, error)
}

// Service produz a visão de estatísticas dependente do papel: admin recebe
// contagens de tarefas e de usuários sobre as coleções inteiras; não-admin
// recebe só as contagens das próprias tarefas. O resultado fica em cache
// (Redis, TTL curto, cache-aside): as contagens já são aproximadas sob
// escrita concorrente, então um TTL pequeno não muda a garantia.
type Service struct {
	stats    StatsProvider
	cache    cache.Client
	policy   *policy.Policy
	logger   logger.Logger
	cacheTTL time.Duration
}

// NewService cria uma nova instância do serviço de estatísticas.
func NewService(stats StatsProvider, cacheClient cache.Client, pol *policy.Policy, log logger.Logger, cacheTTL time.Duration) *Service {
	return &Service{
		stats:    stats,
		cache:    cacheClient,
		policy:   pol,
		logger:   log,
		cacheTTL: cacheTTL,
	}
}

// GetStats calcula (ou recupera do cache) as estatísticas do principal.
func (s *Service) GetStats(ctx context.Context, p domain.Principal) (domain.Stats, error) {
	key := cacheKey(p)

	// Cache-aside (READ): erro de cache é tratado como miss.
	if cached, err := s.cache.Get(ctx, key); err == nil {
		var stats domain.Stats
		if json.Unmarshal([]byte(cached), &stats) == nil {
			return stats, nil
		}
	} else if err != cache.ErrCacheMiss {
		s.logger.Warn("Falha ao ler estatísticas do cache.", map[string]interface{}{"error": err.Error()})
	}

	scope := s.policy.TaskListScope(p, "")

	taskStats, err := s.stats.TaskStats(ctx, scope)
	if err != nil {
		return domain.Stats{}, err
	}

	stats := domain.Stats{Tasks: taskStats}

	if p.IsAdmin() {
		userStats, err := s.stats.UserStats(ctx)
		if err != nil {
			return domain.Stats{}, err
		}
		stats.Users = &userStats
	}

	// Cache-aside (WRITE): melhor esforço.
	if payload, err := json.Marshal(stats); err == nil {
		if err := s.cache.Set(ctx, key, payload, s.cacheTTL); err != nil {
			s.logger.Warn("Falha ao gravar estatísticas no cache.", map[string]interface{}{"error": err.Error()})
		}
	}

	return stats, nil
}

// cacheKey separa a visão global de admin das visões por usuário.
func cacheKey(p domain.Principal) string {
	if p.IsAdmin() {
		return "stats:admin"
	}
	return "stats:user:" + p.ID
}
