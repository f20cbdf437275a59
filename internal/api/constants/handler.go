package constants

import (
	"encoding/json"
	"net/http"

	"gotasks/internal/domain"
	"gotasks/internal/pkg/logger"
)

// statusInfo descreve um status de tarefa para consumo da interface.
type statusInfo struct {
	Value domain.TaskStatus `json:"value"`
	Label string            `json:"label"`
	Color string            `json:"color"`
}

// Handler expõe o catálogo de constantes compartilhadas com os clientes.
type Handler struct {
	Logger logger.Logger
}

// NewHandler cria uma nova instância do Handler.
func NewHandler(log logger.Logger) *Handler {
	return &Handler{Logger: log}
}

// GetConstantsHandler lida com a requisição GET /v1/constants.
// O catálogo é estático: status de tarefa com rótulos e cores, papéis de
// usuário, campos de ordenação aceitos e padrões de paginação.
// @Summary Catálogo de constantes da aplicação
// @Tags constants
// @Produce json
// @Success 200 {object} map[string]interface{} "Constantes"
// @Router /constants [get]
func (h *Handler) GetConstantsHandler(w http.ResponseWriter, r *http.Request) {
	payload := map[string]interface{}{
		"task_statuses": []statusInfo{
			{Value: domain.StatusPending, Label: "Pendente", Color: "yellow"},
			{Value: domain.StatusInProgress, Label: "Em andamento", Color: "blue"},
			{Value: domain.StatusCompleted, Label: "Concluída", Color: "green"},
		},
		"user_roles": []domain.UserRole{domain.RoleAdmin, domain.RoleUser},
		"sort_fields": []string{
			"created_at", "updated_at", "due_date", "title", "status",
		},
		"pagination": map[string]int{
			"default_page":  domain.DefaultPage,
			"default_limit": domain.DefaultLimit,
		},
		"empty_messages": map[string]string{
			"tasks": "Nenhuma tarefa encontrada.",
			"users": "Nenhum usuário encontrado.",
		},
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.Logger.Error("Falha ao codificar JSON de resposta", err)
	}
}
