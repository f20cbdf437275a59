package auth

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

// AuthService define o contrato que o Handler espera da camada de Serviço.
type AuthService interface {
	Register(ctx context.Context, in domain.UserRegistration) (domain.PublicUser, error)
	Login(ctx context.Context, email, password string) (string, domain.PublicUser, error)
	CurrentUser(ctx context.Context, p domain.Principal) (domain.PublicUser, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
}

// Handler agrupa os métodos de Handler de autenticação.
type Handler struct {
	Service AuthService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc AuthService, log logger.Logger) *Handler {
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

// loginRequest é o corpo esperado pelo login.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterHandler lida com a requisição POST /v1/auth/register.
// @Summary Registra um novo usuário
// @Tags auth
// @Accept json
// @Produce json
// @Param user body domain.UserRegistration true "Dados do usuário"
// @Success 201 {object} map[string]interface{} "Usuário criado"
// @Failure 400 {object} domain.ErrorResponse
// @Failure 409 {object} domain.ErrorResponse "Email já cadastrado"
// @Router /auth/register [post]
func (h *Handler) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var in domain.UserRegistration
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Payload JSON inválido."), http.StatusCreated)
		return
	}

	created, err := h.Service.Register(r.Context(), in)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusCreated)
		return
	}

	h.handleServiceResponse(w, r, map[string]interface{}{
		"message": "Usuário registrado com sucesso.",
		"user":    created,
	}, nil, http.StatusCreated)
}

// LoginHandler lida com a requisição POST /v1/auth/login.
// @Summary Autentica um usuário e emite um token JWT
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body loginRequest true "Credenciais"
// @Success 200 {object} map[string]interface{} "Token e usuário"
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse "Credenciais inválidas"
// @Router /auth/login [post]
func (h *Handler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var in loginRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Payload JSON inválido."), http.StatusOK)
		return
	}

	token, loggedUser, err := h.Service.Login(r.Context(), in.Email, in.Password)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}

	h.handleServiceResponse(w, r, map[string]interface{}{
		"message": "Login realizado com sucesso.",
		"token":   token,
		"user":    loggedUser,
	}, nil, http.StatusOK)
}

// LogoutHandler lida com a requisição POST /v1/auth/logout.
// A sessão é puramente stateless: o cliente descarta o token.
func (h *Handler) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	h.handleServiceResponse(w, r, map[string]string{
		"message": "Logout realizado com sucesso.",
	}, nil, http.StatusOK)
}

// CurrentUserHandler lida com a requisição GET /v1/auth/current-user.
// @Summary Retorna o usuário autenticado
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]interface{} "Usuário autenticado"
// @Failure 401 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /auth/current-user [get]
func (h *Handler) CurrentUserHandler(w http.ResponseWriter, r *http.Request) {
	p, ok := middleware.GetPrincipalFromContext(r.Context())
	if !ok {
		h.handleServiceResponse(w, r, nil, apperror.NewUnauthorizedError("Autorização necessária."), http.StatusOK)
		return
	}

	me, err := h.Service.CurrentUser(r.Context(), p)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}

	h.handleServiceResponse(w, r, map[string]interface{}{
		"user": me,
	}, nil, http.StatusOK)
}

// ForgotPasswordHandler lida com a requisição POST /v1/auth/forgot-password.
// Responde sempre com a mesma mensagem, exista o email ou não.
func (h *Handler) ForgotPasswordHandler(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Payload JSON inválido."), http.StatusOK)
		return
	}

	if err := h.Service.ForgotPassword(r.Context(), in.Email); err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}

	h.handleServiceResponse(w, r, map[string]string{
		"message": "Se o email estiver cadastrado, um link de redefinição foi enviado.",
	}, nil, http.StatusOK)
}

// ResetPasswordHandler lida com a requisição POST /v1/auth/reset-password.
func (h *Handler) ResetPasswordHandler(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Token    string `json:"token"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Payload JSON inválido."), http.StatusOK)
		return
	}

	if err := h.Service.ResetPassword(r.Context(), in.Token, in.Password); err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}

	h.handleServiceResponse(w, r, map[string]string{
		"message": "Senha redefinida com sucesso.",
	}, nil, http.StatusOK)
}
