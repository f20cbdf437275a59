package task

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"gotasks/internal/domain"
	apperror "gotasks/internal/errors"
	"gotasks/internal/pkg/logger"
	"gotasks/internal/pkg/middleware"
)

// TaskService define o contrato que o Handler espera da camada de Serviço.
type TaskService interface {
	CreateTask(ctx context.Context, p domain.Principal, in domain.TaskCreation) (domain.Task, error)
	ListTasks(ctx context.Context, p domain.Principal, query domain.TaskQuery) (domain.TaskPage, error)
	GetTaskByID(ctx context.Context, p domain.Principal, id string) (domain.Task, error)
	UpdateTask(ctx context.Context, p domain.Principal, id string, update domain.TaskUpdate) (domain.Task, error)
	DeleteTask(ctx context.Context, p domain.Principal, id string) error
}

// Handler agrupa todos os métodos de Handler de tarefas.
type Handler struct {
	Service TaskService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc TaskService, log logger.Logger) *Handler {
	return &Handler{
		Service: svc,
		Logger:  log,
	}
}

// handleServiceResponse processa erros de serviço e envia respostas padronizadas ao cliente.
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

// principal extrai o principal anexado pelo middleware de autenticação.
func (h *Handler) principal(w http.ResponseWriter, r *http.Request) (domain.Principal, bool) {
	p, ok := middleware.GetPrincipalFromContext(r.Context())
	if !ok {
		h.handleServiceResponse(w, r, nil, apperror.NewUnauthorizedError("Autorização necessária."), http.StatusOK)
	}
	return p, ok
}

// listResponse é o envelope da listagem de tarefas.
type listResponse struct {
	Message    string             `json:"message"`
	Count      int                `json:"count"`
	Tasks      []domain.Task      `json:"tasks"`
	Pagination domain.Pagination  `json:"pagination"`
	Filters    domain.TaskFilters `json:"filters"`
}

// ListTasksHandler lida com a requisição GET /v1/tasks.
// @Summary Lista tarefas com filtros, ordenação e paginação
// @Description Admin enxerga todas as tarefas; usuário comum enxerga apenas as atribuídas a ele.
// @Tags tasks
// @Produce json
// @Param status query string false "Filtro por status (pending|in_progress|completed)"
// @Param search query string false "Busca textual em título e descrição"
// @Param assigned_to query string false "Filtro por destinatário (somente admin)"
// @Param sort query string false "Campo de ordenação" default(created_at)
// @Param order query string false "Direção (asc|desc)" default(asc)
// @Param page query int false "Página" default(1)
// @Param limit query int false "Itens por página" default(10)
// @Success 200 {object} listResponse
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /tasks [get]
func (h *Handler) ListTasksHandler(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}

	query := domain.TaskQuery{
		AssignedTo: r.URL.Query().Get("assigned_to"),
		Status:     r.URL.Query().Get("status"),
		Search:     r.URL.Query().Get("search"),
		SortField:  r.URL.Query().Get("sort"),
		SortOrder:  r.URL.Query().Get("order"),
		Page:       intParam(r, "page"),
		Limit:      intParam(r, "limit"),
	}

	page, err := h.Service.ListTasks(r.Context(), p, query)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}

	h.handleServiceResponse(w, r, listResponse{
		Message:    "Tarefas recuperadas com sucesso.",
		Count:      len(page.Tasks),
		Tasks:      page.Tasks,
		Pagination: page.Pagination,
		Filters:    page.Filters,
	}, nil, http.StatusOK)
}

// CreateTaskHandler lida com a requisição POST /v1/tasks (somente admin).
// @Summary Cria uma tarefa
// @Tags tasks
// @Accept json
// @Produce json
// @Param task body domain.TaskCreation true "Dados da tarefa"
// @Success 201 {object} map[string]interface{} "Tarefa criada"
// @Failure 400 {object} domain.ErrorResponse
// @Failure 403 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse "Destinatário inexistente"
// @Security BearerAuth
// @Router /tasks [post]
func (h *Handler) CreateTaskHandler(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}

	var in domain.TaskCreation
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Payload JSON inválido."), http.StatusCreated)
		return
	}

	created, err := h.Service.CreateTask(r.Context(), p, in)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusCreated)
		return
	}

	h.handleServiceResponse(w, r, map[string]interface{}{
		"message": "Tarefa criada com sucesso.",
		"task_id": created.ID,
		"task":    created,
	}, nil, http.StatusCreated)
}

// GetTaskHandler lida com a requisição GET /v1/tasks/{id}.
func (h *Handler) GetTaskHandler(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}

	taskFound, err := h.Service.GetTaskByID(r.Context(), p, r.PathValue("id"))
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}

	h.handleServiceResponse(w, r, map[string]interface{}{
		"message": "Tarefa recuperada com sucesso.",
		"task":    taskFound,
	}, nil, http.StatusOK)
}

// UpdateTaskHandler lida com a requisição PUT /v1/tasks/{id}.
// Decodifica o corpo duas vezes: primeiro o conjunto de chaves presentes
// (a política rejeita por inteiro atualizações de não-admin com campos além
// de status), depois os valores tipados.
// @Summary Atualiza uma tarefa
// @Description Admin altera qualquer campo; usuário comum altera apenas o status das próprias tarefas.
// @Tags tasks
// @Accept json
// @Produce json
// @Param id path string true "ID da tarefa"
// @Param update body domain.TaskUpdate true "Campos a atualizar"
// @Success 200 {object} map[string]interface{} "Tarefa atualizada"
// @Failure 400 {object} domain.ErrorResponse
// @Failure 403 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /tasks/{id} [put]
func (h *Handler) UpdateTaskHandler(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}

	var raw map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Payload JSON inválido."), http.StatusOK)
		return
	}

	var update domain.TaskUpdate
	body, _ := json.Marshal(raw)
	if err := json.Unmarshal(body, &update); err != nil {
		h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Payload JSON inválido."), http.StatusOK)
		return
	}
	for field := range raw {
		update.Fields = append(update.Fields, field)
	}

	updated, err := h.Service.UpdateTask(r.Context(), p, r.PathValue("id"), update)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}

	h.handleServiceResponse(w, r, map[string]interface{}{
		"message": "Tarefa atualizada com sucesso.",
		"task":    updated,
	}, nil, http.StatusOK)
}

// DeleteTaskHandler lida com a requisição DELETE /v1/tasks/{id} (somente admin).
// @Summary Exclui uma tarefa
// @Tags tasks
// @Produce json
// @Param id path string true "ID da tarefa"
// @Success 200 {object} map[string]string "ID da tarefa excluída"
// @Failure 403 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /tasks/{id} [delete]
func (h *Handler) DeleteTaskHandler(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}

	id := r.PathValue("id")
	if err := h.Service.DeleteTask(r.Context(), p, id); err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}

	h.handleServiceResponse(w, r, map[string]string{
		"message":         "Tarefa excluída com sucesso.",
		"deleted_task_id": id,
	}, nil, http.StatusOK)
}

// intParam lê um parâmetro inteiro da query string (0 quando ausente ou
// inválido; os padrões são aplicados pelo serviço).
func intParam(r *http.Request, name string) int {
	value, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil {
		return 0
	}
	return value
}
