package stats

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"gotasks/internal/domain"
	apperror "gotasks/internal/errors"
	"gotasks/internal/pkg/logger"
	"gotasks/internal/pkg/middleware"
)

// StatsService define o contrato que o Handler espera da camada de Serviço.
type StatsService interface {
	GetStats(ctx context.Context, p domain.Principal) (domain.Stats, error)
}

// Handler agrupa os métodos de Handler de estatísticas.
type Handler struct {
	Service StatsService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc StatsService, log logger.Logger) *Handler {
	return &Handler{
		Service: svc,
		Logger:  log,
	}
}

func (h *Handler) handleServiceResponse(w http.ResponseWriter, r *http.Request, data interface{}, err error, successStatus int) {
	if err == nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(successStatus)
		if data != nil {
			if jsonErr := json.NewEncoder(w).Encode(data); jsonErr != nil {
				h.Logger.Error("Falha ao codificar JSON de resposta", jsonErr)
			}
		}
		return
	}

	status, category, message := apperror.MapToHTTPStatus(err)

	if status >= 500 {
		h.Logger.Error(fmt.Sprintf("Erro de Servidor: %s", category), err)
	} else {
		h.Logger.Debug(fmt.Sprintf("Requisição rejeitada com status %d. Categoria: %s", status, category),
			map[string]interface{}{"path": r.URL.Path})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(domain.ErrorResponse{Code: status, Category: category, Message: message})
}

// statsResponse é o envelope das estatísticas. O bloco de usuários só
// aparece para administradores.
type statsResponse struct {
	Message string `json:"message"`
	domain.Stats
}

// GetStatsHandler lida com a requisição GET /v1/stats.
// @Summary Estatísticas agregadas de tarefas (e usuários, para admin)
// @Description Admin recebe contagens globais de tarefas e de usuários; usuário comum recebe apenas as contagens das próprias tarefas.
// @Tags stats
// @Produce json
// @Success 200 {object} statsResponse
// @Failure 401 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /stats [get]
func (h *Handler) GetStatsHandler(w http.ResponseWriter, r *http.Request) {
	p, ok := middleware.GetPrincipalFromContext(r.Context())
	if !ok {
		h.handleServiceResponse(w, r, nil, apperror.NewUnauthorizedError("Autorização necessária."), http.StatusOK)
		return
	}

	result, err := h.Service.GetStats(r.Context(), p)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}

	h.handleServiceResponse(w, r, statsResponse{
		Message: "Estatísticas recuperadas com sucesso.",
		Stats:   result,
	}, nil, http.StatusOK)
}
