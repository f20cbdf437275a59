package user

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

// UserService define o contrato que o Handler espera da camada de Serviço.
type UserService interface {
	GetUsers(ctx context.Context, p domain.Principal) ([]domain.PublicUser, error)
	GetUser(ctx context.Context, p domain.Principal, id string) (domain.PublicUser, error)
	UpdateUser(ctx context.Context, p domain.Principal, id string, update domain.UserUpdate) (domain.PublicUser, error)
	DeleteUser(ctx context.Context, p domain.Principal, id string) error
}

// Handler agrupa todos os métodos de Handler de usuários.
type Handler struct {
	Service UserService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc UserService, log logger.Logger) *Handler {
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

func (h *Handler) principal(w http.ResponseWriter, r *http.Request) (domain.Principal, bool) {
	p, ok := middleware.GetPrincipalFromContext(r.Context())
	if !ok {
		h.handleServiceResponse(w, r, nil, apperror.NewUnauthorizedError("Autorização necessária."), http.StatusOK)
	}
	return p, ok
}

// ListUsersHandler lida com a requisição GET /v1/users (somente admin).
// @Summary Lista todos os usuários
// @Tags users
// @Produce json
// @Success 200 {object} map[string]interface{} "Lista de usuários"
// @Failure 403 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /users [get]
func (h *Handler) ListUsersHandler(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}

	users, err := h.Service.GetUsers(r.Context(), p)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}

	h.handleServiceResponse(w, r, map[string]interface{}{
		"message": "Usuários recuperados com sucesso.",
		"count":   len(users),
		"users":   users,
	}, nil, http.StatusOK)
}

// GetUserHandler lida com a requisição GET /v1/users/{id} (somente admin).
func (h *Handler) GetUserHandler(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}

	userFound, err := h.Service.GetUser(r.Context(), p, r.PathValue("id"))
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}

	h.handleServiceResponse(w, r, map[string]interface{}{
		"message": "Usuário recuperado com sucesso.",
		"user":    userFound,
	}, nil, http.StatusOK)
}

// UpdateUserHandler lida com a requisição PUT /v1/users/{id}.
// Como no Handler de tarefas, o conjunto de chaves presentes no corpo é
// capturado antes da decodificação tipada, para a checagem de campos
// permitidos na política.
// @Summary Atualiza um usuário
// @Description Admin altera qualquer usuário; usuário comum altera apenas o próprio perfil (sem papel).
// @Tags users
// @Accept json
// @Produce json
// @Param id path string true "ID do usuário"
// @Param update body domain.UserUpdate true "Campos a atualizar"
// @Success 200 {object} map[string]interface{} "Usuário atualizado"
// @Failure 400 {object} domain.ErrorResponse
// @Failure 403 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /users/{id} [put]
func (h *Handler) UpdateUserHandler(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}

	var raw map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Payload JSON inválido."), http.StatusOK)
		return
	}

	var update domain.UserUpdate
	body, _ := json.Marshal(raw)
	if err := json.Unmarshal(body, &update); err != nil {
		h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Payload JSON inválido."), http.StatusOK)
		return
	}
	for field := range raw {
		update.Fields = append(update.Fields, field)
	}

	updated, err := h.Service.UpdateUser(r.Context(), p, r.PathValue("id"), update)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}

	h.handleServiceResponse(w, r, map[string]interface{}{
		"message": "Usuário atualizado com sucesso.",
		"user":    updated,
	}, nil, http.StatusOK)
}

// DeleteUserHandler lida com a requisição DELETE /v1/users/{id} (somente admin).
// A exclusão remove também, em cascata, todas as tarefas atribuídas ao usuário.
// @Summary Exclui um usuário e suas tarefas
// @Tags users
// @Produce json
// @Param id path string true "ID do usuário"
// @Success 200 {object} map[string]string "ID do usuário excluído"
// @Failure 400 {object} domain.ErrorResponse "Tentativa de auto-exclusão"
// @Failure 403 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /users/{id} [delete]
func (h *Handler) DeleteUserHandler(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}

	id := r.PathValue("id")
	if err := h.Service.DeleteUser(r.Context(), p, id); err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}

	h.handleServiceResponse(w, r, map[string]string{
		"message":         "Usuário excluído com sucesso.",
		"deleted_user_id": id,
	}, nil, http.StatusOK)
}
