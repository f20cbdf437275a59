package authservice_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"

	"gotasks/internal/domain"
	apperror "gotasks/internal/errors"
	"gotasks/internal/pkg/logger"
	"gotasks/internal/service/authservice"
)

// MockUserRepository é uma implementação mock da interface UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Save(ctx context.Context, user domain.User) (domain.User, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(domain.User), args.Error(1)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id string) (domain.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(domain.User), args.Error(1)
}

func (m *MockUserRepository) FindAll(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *MockUserRepository) UpdateByID(ctx context.Context, id string, update domain.UserUpdate) error {
	args := m.Called(ctx, id, update)
	return args.Error(0)
}

func (m *MockUserRepository) DeleteByID(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepository) FindByResetToken(ctx context.Context, token string) (domain.User, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(domain.User), args.Error(1)
}

func (m *MockUserRepository) SetResetToken(ctx context.Context, userID, token string, expiry time.Time) error {
	args := m.Called(ctx, userID, token, expiry)
	return args.Error(0)
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	args := m.Called(ctx, userID, passwordHash)
	return args.Error(0)
}

// MockTokenIssuer é o mock do emissor de JWT
type MockTokenIssuer struct {
	mock.Mock
}

func (m *MockTokenIssuer) GenerateToken(userID string, userRole string) (string, error) {
	args := m.Called(userID, userRole)
	return args.String(0), args.Error(1)
}

// MockMailer é o mock do serviço de email
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) SendMail(to, subject, htmlBody string) error {
	args := m.Called(to, subject, htmlBody)
	return args.Error(0)
}

func newService(repo *MockUserRepository, tokens *MockTokenIssuer, mail *MockMailer) *authservice.Service {
	return authservice.NewService(repo, tokens, mail, logger.NewLogger("debug"), "http://localhost:3000/reset-password")
}

// TestRegister_Success testa o registro com papel padrão user.
func TestRegister_Success(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockTokens := new(MockTokenIssuer)
	mockMail := new(MockMailer)
	svc := newService(mockRepo, mockTokens, mockMail)

	mockRepo.On("Save", mock.Anything, mock.MatchedBy(func(u domain.User) bool {
		return u.Role == domain.RoleUser && u.PasswordHash != "" && u.PasswordHash != "senha-secreta"
	})).Return(domain.User{
		ID: uuid.New().String(), Name: "Carla", Email: "carla@example.com", Role: domain.RoleUser,
	}, nil)

	created, err := svc.Register(context.Background(), domain.UserRegistration{
		Name:     "Carla",
		Email:    "carla@example.com",
		Password: "senha-secreta",
	})

	assert.NoError(t, err)
	assert.Equal(t, "carla@example.com", created.Email)
	mockRepo.AssertExpectations(t)
}

// TestRegister_Fail_ShortPassword testa o tamanho mínimo da senha.
func TestRegister_Fail_ShortPassword(t *testing.T) {
	mockRepo := new(MockUserRepository)
	svc := newService(mockRepo, new(MockTokenIssuer), new(MockMailer))

	_, err := svc.Register(context.Background(), domain.UserRegistration{
		Name:     "Carla",
		Email:    "carla@example.com",
		Password: "12345",
	})

	var validation *apperror.ValidationError
	assert.ErrorAs(t, err, &validation)
	mockRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

// TestRegister_Fail_DuplicateEmail propaga o conflito do repositório.
func TestRegister_Fail_DuplicateEmail(t *testing.T) {
	mockRepo := new(MockUserRepository)
	svc := newService(mockRepo, new(MockTokenIssuer), new(MockMailer))

	mockRepo.On("Save", mock.Anything, mock.Anything).
		Return(domain.User{}, apperror.NewConflictError("Este email já está cadastrado."))

	_, err := svc.Register(context.Background(), domain.UserRegistration{
		Name:     "Carla",
		Email:    "carla@example.com",
		Password: "senha-secreta",
	})

	var conflict *apperror.ConflictError
	assert.ErrorAs(t, err, &conflict)
}

// TestLogin_Success testa o login com emissão de token.
func TestLogin_Success(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockTokens := new(MockTokenIssuer)
	svc := newService(mockRepo, mockTokens, new(MockMailer))

	hash, _ := bcrypt.GenerateFromPassword([]byte("senha-secreta"), bcrypt.DefaultCost)
	stored := domain.User{
		ID: uuid.New().String(), Email: "carla@example.com", PasswordHash: string(hash), Role: domain.RoleUser,
	}

	mockRepo.On("FindByEmail", mock.Anything, stored.Email).Return(stored, nil)
	mockTokens.On("GenerateToken", stored.ID, "user").Return("token-jwt", nil)

	token, logged, err := svc.Login(context.Background(), stored.Email, "senha-secreta")

	assert.NoError(t, err)
	assert.Equal(t, "token-jwt", token)
	assert.Equal(t, stored.ID, logged.ID)
}

// TestLogin_Fail_WrongPassword testa que senha errada e email desconhecido
// respondem com o mesmo erro.
func TestLogin_Fail_WrongPassword(t *testing.T) {
	mockRepo := new(MockUserRepository)
	svc := newService(mockRepo, new(MockTokenIssuer), new(MockMailer))

	hash, _ := bcrypt.GenerateFromPassword([]byte("senha-secreta"), bcrypt.DefaultCost)
	mockRepo.On("FindByEmail", mock.Anything, "carla@example.com").Return(domain.User{
		ID: uuid.New().String(), Email: "carla@example.com", PasswordHash: string(hash),
	}, nil)

	_, _, err := svc.Login(context.Background(), "carla@example.com", "senha-errada")

	var unauthorized *apperror.UnauthorizedError
	assert.ErrorAs(t, err, &unauthorized)
}

func TestLogin_Fail_UnknownEmail(t *testing.T) {
	mockRepo := new(MockUserRepository)
	svc := newService(mockRepo, new(MockTokenIssuer), new(MockMailer))

	mockRepo.On("FindByEmail", mock.Anything, "ninguem@example.com").
		Return(domain.User{}, apperror.NewNotFoundError("Usuário não encontrado."))

	_, _, err := svc.Login(context.Background(), "ninguem@example.com", "qualquer")

	var unauthorized *apperror.UnauthorizedError
	assert.ErrorAs(t, err, &unauthorized)
}

// TestForgotPassword_Success testa a gravação do token e o envio do link.
func TestForgotPassword_Success(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockMail := new(MockMailer)
	svc := newService(mockRepo, new(MockTokenIssuer), mockMail)

	stored := domain.User{ID: uuid.New().String(), Email: "carla@example.com"}
	mockRepo.On("FindByEmail", mock.Anything, stored.Email).Return(stored, nil)
	mockRepo.On("SetResetToken", mock.Anything, stored.ID, mock.Anything, mock.Anything).Return(nil)
	mockMail.On("SendMail", stored.Email, "Redefinição de Senha", mock.Anything).Return(nil)

	err := svc.ForgotPassword(context.Background(), stored.Email)

	assert.NoError(t, err)
	mockMail.AssertExpectations(t)
}

// TestForgotPassword_UnknownEmail_SilentSuccess testa que email desconhecido
// não vaza a informação: sucesso sem envio.
func TestForgotPassword_UnknownEmail_SilentSuccess(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockMail := new(MockMailer)
	svc := newService(mockRepo, new(MockTokenIssuer), mockMail)

	mockRepo.On("FindByEmail", mock.Anything, "ninguem@example.com").
		Return(domain.User{}, apperror.NewNotFoundError("Usuário não encontrado."))

	err := svc.ForgotPassword(context.Background(), "ninguem@example.com")

	assert.NoError(t, err)
	mockMail.AssertNotCalled(t, "SendMail", mock.Anything, mock.Anything, mock.Anything)
}

// TestResetPassword_Success testa a troca de senha com token válido.
func TestResetPassword_Success(t *testing.T) {
	mockRepo := new(MockUserRepository)
	svc := newService(mockRepo, new(MockTokenIssuer), new(MockMailer))

	stored := domain.User{ID: uuid.New().String(), Email: "carla@example.com"}
	mockRepo.On("FindByResetToken", mock.Anything, "token-valido").Return(stored, nil)
	mockRepo.On("UpdatePassword", mock.Anything, stored.ID, mock.MatchedBy(func(hash string) bool {
		return bcrypt.CompareHashAndPassword([]byte(hash), []byte("nova-senha")) == nil
	})).Return(nil)

	err := svc.ResetPassword(context.Background(), "token-valido", "nova-senha")

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

// TestResetPassword_Fail_ExpiredToken testa o token desconhecido ou vencido.
func TestResetPassword_Fail_ExpiredToken(t *testing.T) {
	mockRepo := new(MockUserRepository)
	svc := newService(mockRepo, new(MockTokenIssuer), new(MockMailer))

	mockRepo.On("FindByResetToken", mock.Anything, "token-vencido").
		Return(domain.User{}, apperror.NewNotFoundError("Token não encontrado."))

	err := svc.ResetPassword(context.Background(), "token-vencido", "nova-senha")

	var validation *apperror.ValidationError
	assert.ErrorAs(t, err, &validation)
	mockRepo.AssertNotCalled(t, "UpdatePassword", mock.Anything, mock.Anything, mock.Anything)
}
