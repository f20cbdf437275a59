package main

import (
	"context"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	// Pacotes de infraestrutura e utilitários
	"gotasks/config"
	_ "gotasks/docs" // Registro da documentação Swagger gerada
	"gotasks/internal/pkg/cache"
	"gotasks/internal/pkg/database"
	"gotasks/internal/pkg/logger"
	"gotasks/internal/pkg/mailer"
	"gotasks/internal/pkg/token"

	// Camadas da aplicação para Injeção de Dependências
	"gotasks/internal/api/auth"
	"gotasks/internal/api/constants"
	"gotasks/internal/api/router"
	"gotasks/internal/api/stats"
	"gotasks/internal/api/task"
	"gotasks/internal/api/user"
	"gotasks/internal/policy"
	"gotasks/internal/repository/statsrepo"
	"gotasks/internal/repository/taskrepo"
	"gotasks/internal/repository/userrepo"
	"gotasks/internal/service/authservice"
	"gotasks/internal/service/identity"
	"gotasks/internal/service/statsservice"
	"gotasks/internal/service/taskservice"
	"gotasks/internal/service/userservice"
)

// @title GoTasks API
// @version 1.0
// @description API de atribuição e acompanhamento de tarefas com papéis de administrador e usuário.
// @BasePath /v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// 1. Configuração e Inicialização
	stdlog.Println("⚡ Inicializando serviço GoTasks...")

	// O godotenv.Load() procura por um arquivo .env na raiz. Se não houver,
	// seguimos apenas com o ambiente do sistema (ex: Docker).
	if err := godotenv.Load(); err != nil {
		stdlog.Println("⚠️ Aviso: Arquivo .env não encontrado ou erro de leitura. Carregando configs apenas do ambiente do sistema.")
	}

	cfg := config.LoadConfig()
	log := logger.NewLogger(cfg.LogLevel)
	log.Info("Configurações carregadas.", nil)

	// 2. Conexão com Recursos de Infraestrutura

	// A. Banco de Dados (PostgreSQL)
	db, err := database.NewPostgresDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Falha ao conectar ao banco de dados.", err)
	}
	defer db.Close()
	log.Info("Conexão PostgreSQL estabelecida.", nil)

	// B. Cache (Redis)
	cacheClient := cache.NewRedisClient(cfg.RedisAddr)
	log.Info("Conexão Redis estabelecida.", nil)

	// C. Serviço de Tokens (JWT) e Mailer (SMTP)
	tokenSvc := token.NewService(cfg.JWTSecretKey, cfg.TokenExpiry)
	mailSvc := mailer.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPFrom)
	log.Debug("Serviço de Tokens JWT e Mailer inicializados.", nil)

	// 3. INJEÇÃO DE DEPENDÊNCIAS (Repository -> Service -> Handler)

	// A. Repositórios (Camada de Acesso a Dados)
	userRepo := userrepo.NewUserRepository(db, cfg.DBTimeout, log)
	taskRepo := taskrepo.NewTaskRepository(db, cfg.DBTimeout, log)
	statsRepo := statsrepo.NewStatsRepository(db, cfg.DBTimeout, log)
	log.Debug("Repositórios inicializados.", nil)

	// B. Política de Acesso e Contexto de Identidade
	accessPolicy := policy.New()
	identitySvc := identity.NewService(tokenSvc, userRepo, log)

	// C. Serviços (Camada de Lógica de Negócio)
	authSvc := authservice.NewService(userRepo, tokenSvc, mailSvc, log, cfg.ResetURLBase)
	taskSvc := taskservice.NewService(taskRepo, userRepo, accessPolicy, log)
	userSvc := userservice.NewService(userRepo, taskRepo, accessPolicy, log)
	statsSvc := statsservice.NewService(statsRepo, cacheClient, accessPolicy, log, cfg.StatsCacheTTL)
	log.Debug("Serviços inicializados.", nil)

	// D. Handlers (Camada de Apresentação)
	authHandler := auth.NewHandler(authSvc, log)
	taskHandler := task.NewHandler(taskSvc, log)
	userHandler := user.NewHandler(userSvc, log)
	statsHandler := stats.NewHandler(statsSvc, log)
	constantsHandler := constants.NewHandler(log)
	log.Debug("Handlers inicializados.", nil)

	// 4. Configuração e Início do Roteador/Servidor
	r := router.NewRouter(router.Deps{
		AuthHandler:      authHandler,
		TaskHandler:      taskHandler,
		UserHandler:      userHandler,
		StatsHandler:     statsHandler,
		ConstantsHandler: constantsHandler,
		IdentityResolver: identitySvc,
		Cache:            cacheClient,
		RateLimitMax:     cfg.RateLimitMaxRequests,
		RateLimitPeriod:  cfg.RateLimitPeriod,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// 5. Execução e Graceful Shutdown
	go func() {
		log.Info("Servidor GoTasks ouvindo na porta", map[string]interface{}{"port": cfg.Port})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Servidor falhou.", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	log.Info("Sinal de encerramento recebido. Desligando servidor...", nil)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("Desligamento do servidor forçado.", err)
	}

	log.Info("Servidor encerrado com sucesso.", nil)
}
