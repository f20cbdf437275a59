package authservice

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"gotasks/internal/domain"
	apperror "gotasks/internal/errors"
	"gotasks/internal/pkg/logger"
	"gotasks/internal/pkg/mailer"
)

// resetTokenTTL é a validade do token de redefinição de senha.
const resetTokenTTL = 30 * time.Minute

// TokenIssuer é o contrato de emissão de credencial (JWT).
type TokenIssuer interface {
	GenerateToken(userID string, userRole string) (string, error)
}

// Service concentra registro, login e o fluxo de redefinição de senha.
type Service struct {
	repo         domain.UserRepository
	tokens       TokenIssuer
	mail         mailer.Mailer
	logger       logger.Logger
	resetURLBase string
}

// NewService cria uma nova instância do serviço de autenticação.
func NewService(repo domain.UserRepository, tokens TokenIssuer, mail mailer.Mailer, log logger.Logger, resetURLBase string) *Service {
	return &Service{
		repo:         repo,
		tokens:       tokens,
		mail:         mail,
		logger:       log,
		resetURLBase: resetURLBase,
	}
}

// Register registra um novo usuário. Exige name, email e senha (mínimo 6
// caracteres); e-mail duplicado vira ConflictError; o papel padrão é user.
func (s *Service) Register(ctx context.Context, reg domain.UserRegistration) (domain.PublicUser, error) {
	if reg.Name == "" || reg.Email == "" || reg.Password == "" {
		return domain.PublicUser{}, apperror.NewValidationError("Nome, email e senha são obrigatórios.")
	}

	if len(reg.Password) < 6 {
		return domain.PublicUser{}, apperror.NewValidationError("A senha deve ter pelo menos 6 caracteres.")
	}

	if !domain.IsValidEmail(reg.Email) {
		return domain.PublicUser{}, apperror.NewValidationError("Formato de email inválido.")
	}

	role := domain.RoleUser
	if reg.Role != "" {
		role = domain.UserRole(reg.Role)
		if !role.IsValid() {
			return domain.PublicUser{}, apperror.NewValidationError(`Role deve ser "admin" ou "user".`)
		}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(reg.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.PublicUser{}, apperror.NewInternalError("Falha ao gerar hash da senha.", err)
	}

	user, err := s.repo.Save(ctx, domain.User{
		Name:         reg.Name,
		Email:        reg.Email,
		PasswordHash: string(hashed),
		Role:         role,
	})
	if err != nil {
		// ConflictError (email duplicado) e DBError já vêm tipados.
		return domain.PublicUser{}, err
	}

	s.logger.Info("Usuário registrado.", map[string]interface{}{"user_id": user.ID})
	return user.Public(), nil
}

// Login autentica por e-mail e senha e emite o JWT. Credenciais erradas e
// e-mail desconhecido respondem igual, para não dar dicas a invasores.
func (s *Service) Login(ctx context.Context, email, password string) (string, domain.PublicUser, error) {
	if email == "" || password == "" {
		return "", domain.PublicUser{}, apperror.NewValidationError("Email e senha são obrigatórios.")
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		var notFound *apperror.NotFoundError
		if errors.As(err, &notFound) {
			return "", domain.PublicUser{}, apperror.NewUnauthorizedError("Credenciais inválidas.")
		}
		return "", domain.PublicUser{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", domain.PublicUser{}, apperror.NewUnauthorizedError("Credenciais inválidas.")
	}

	tokenString, err := s.tokens.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return "", domain.PublicUser{}, apperror.NewInternalError("Falha ao gerar token de autenticação.", err)
	}

	return tokenString, user.Public(), nil
}

// CurrentUser devolve a projeção pública do principal autenticado.
func (s *Service) CurrentUser(ctx context.Context, p domain.Principal) (domain.PublicUser, error) {
	user, err := s.repo.FindByID(ctx, p.ID)
	if err != nil {
		return domain.PublicUser{}, err
	}
	return user.Public(), nil
}

// ForgotPassword grava um token de redefinição com validade de 30 minutos e
// envia o link por e-mail. E-mail desconhecido responde sucesso mesmo assim,
// para não vazar quais endereços existem.
func (s *Service) ForgotPassword(ctx context.Context, email string) error {
	if email == "" || !domain.IsValidEmail(email) {
		return apperror.NewValidationError("Informe um endereço de email válido.")
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		var notFound *apperror.NotFoundError
		if errors.As(err, &notFound) {
			s.logger.Debug("Redefinição solicitada para email desconhecido.", map[string]interface{}{"email": email})
			return nil
		}
		return err
	}

	resetToken := uuid.NewString()
	expiry := time.Now().Add(resetTokenTTL)

	if err := s.repo.SetResetToken(ctx, user.ID, resetToken, expiry); err != nil {
		return err
	}

	resetLink := fmt.Sprintf("%s?token=%s", s.resetURLBase, resetToken)
	if err := s.mail.SendMail(user.Email, "Redefinição de Senha", mailer.ResetPasswordHTML(resetLink)); err != nil {
		s.logger.Error("Falha ao enviar email de redefinição.", err)
		return apperror.NewInternalError("Falha ao enviar o email de redefinição.", err)
	}

	s.logger.Info("Email de redefinição enviado.", map[string]interface{}{"user_id": user.ID})
	return nil
}

// ResetPassword valida o token de redefinição e troca a senha, limpando o
// token. Token desconhecido ou vencido vira erro de validação.
func (s *Service) ResetPassword(ctx context.Context, tokenValue, newPassword string) error {
	if tokenValue == "" || newPassword == "" {
		return apperror.NewValidationError("Token e nova senha são obrigatórios.")
	}

	if len(newPassword) < 6 {
		return apperror.NewValidationError("A senha deve ter pelo menos 6 caracteres.")
	}

	user, err := s.repo.FindByResetToken(ctx, tokenValue)
	if err != nil {
		var notFound *apperror.NotFoundError
		if errors.As(err, &notFound) {
			return apperror.NewValidationError("Token de redefinição inválido ou expirado.")
		}
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return apperror.NewInternalError("Falha ao gerar hash da senha.", err)
	}

	if err := s.repo.UpdatePassword(ctx, user.ID, string(hashed)); err != nil {
		return err
	}

	s.logger.Info("Senha redefinida.", map[string]interface{}{"user_id": user.ID})
	return nil
}
