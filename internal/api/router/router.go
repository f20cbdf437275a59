package router

import (
	"net/http"
	"time"

	httpSwagger "github.com/swaggo/http-swagger/v2"

	"gotasks/internal/api/auth"
	"gotasks/internal/api/constants"
	"gotasks/internal/api/stats"
	"gotasks/internal/api/task"
	"gotasks/internal/api/user"
	"gotasks/internal/pkg/cache"
	"gotasks/internal/pkg/middleware"
)

// Deps agrupa as dependências do roteador, já inicializadas por injeção
// de dependências no main.
type Deps struct {
	AuthHandler      *auth.Handler
	TaskHandler      *task.Handler
	UserHandler      *user.Handler
	StatsHandler     *stats.Handler
	ConstantsHandler *constants.Handler

	IdentityResolver middleware.IdentityResolver
	Cache            cache.Client
	RateLimitMax     int
	RateLimitPeriod  time.Duration
}

// NewRouter configura e retorna o roteador HTTP principal.
func NewRouter(deps Deps) http.Handler {
	mux := http.NewServeMux()

	// Middleware de autenticação aplicado por rota: as rotas públicas
	// (register, login, forgot/reset, ping, constants, swagger) ficam fora.
	authRequired := middleware.NewAuthMiddleware(deps.IdentityResolver)

	// --- 1. Health Check ---
	mux.HandleFunc("GET /ping", PingHandler)

	// --- 2. Autenticação (v1) ---
	mux.HandleFunc("POST /v1/auth/register", deps.AuthHandler.RegisterHandler)
	mux.HandleFunc("POST /v1/auth/login", deps.AuthHandler.LoginHandler)
	mux.HandleFunc("POST /v1/auth/logout", deps.AuthHandler.LogoutHandler)
	mux.HandleFunc("GET /v1/auth/current-user", authRequired(deps.AuthHandler.CurrentUserHandler))
	mux.HandleFunc("POST /v1/auth/forgot-password", deps.AuthHandler.ForgotPasswordHandler)
	mux.HandleFunc("POST /v1/auth/reset-password", deps.AuthHandler.ResetPasswordHandler)

	// --- 3. Tarefas (v1) ---
	mux.HandleFunc("GET /v1/tasks", authRequired(deps.TaskHandler.ListTasksHandler))
	mux.HandleFunc("POST /v1/tasks", authRequired(deps.TaskHandler.CreateTaskHandler))
	mux.HandleFunc("GET /v1/tasks/{id}", authRequired(deps.TaskHandler.GetTaskHandler))
	mux.HandleFunc("PUT /v1/tasks/{id}", authRequired(deps.TaskHandler.UpdateTaskHandler))
	mux.HandleFunc("DELETE /v1/tasks/{id}", authRequired(deps.TaskHandler.DeleteTaskHandler))

	// --- 4. Usuários (v1) ---
	mux.HandleFunc("GET /v1/users", authRequired(deps.UserHandler.ListUsersHandler))
	mux.HandleFunc("GET /v1/users/{id}", authRequired(deps.UserHandler.GetUserHandler))
	mux.HandleFunc("PUT /v1/users/{id}", authRequired(deps.UserHandler.UpdateUserHandler))
	mux.HandleFunc("DELETE /v1/users/{id}", authRequired(deps.UserHandler.DeleteUserHandler))

	// --- 5. Estatísticas e Constantes (v1) ---
	mux.HandleFunc("GET /v1/stats", authRequired(deps.StatsHandler.GetStatsHandler))
	mux.HandleFunc("GET /v1/constants", deps.ConstantsHandler.GetConstantsHandler)

	// --- 6. Documentação Swagger ---
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	// --- 7. Middlewares globais ---
	rateLimited := middleware.RateLimiter(deps.Cache, deps.RateLimitMax, deps.RateLimitPeriod)

	return rateLimited(mux)
}

// PingHandler é uma função utilitária para o health check.
func PingHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("pong"))
}
