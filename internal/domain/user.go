package domain

import (
	"context"
	"regexp"
	"time"
)

// emailPattern é o formato mínimo aceito para endereços de e-mail.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// IsValidEmail valida o formato de um endereço de e-mail.
func IsValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// User representa a entidade do usuário no sistema.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Oculta o hash da senha no JSON de resposta
	Role         UserRole  `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Campos do fluxo de redefinição de senha. Nunca expostos na API.
	ResetToken       string     `json:"-"`
	ResetTokenExpiry *time.Time `json:"-"`
}

// UserRole é um tipo string para representar o papel do usuário no sistema.
type UserRole string

// Constantes para os papéis de usuário
const (
	RoleAdmin UserRole = "admin"
	RoleUser  UserRole = "user"
)

// IsValid indica se o papel informado é um dos papéis conhecidos.
func (r UserRole) IsValid() bool {
	return r == RoleAdmin || r == RoleUser
}

// UserRegistration representa o payload de entrada para o registro.
type UserRegistration struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

// UserUpdate representa uma atualização parcial de usuário.
// Ponteiros distinguem "campo ausente" de "campo com valor vazio".
// Fields guarda as chaves presentes no JSON original: a Access Policy
// rejeita a atualização inteira quando um campo não permitido aparece.
type UserUpdate struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
	Role  *string `json:"role"`

	Fields []string `json:"-"`
}

// Empty indica se nenhum dos campos atualizáveis foi informado.
func (u UserUpdate) Empty() bool {
	return u.Name == nil && u.Email == nil && u.Role == nil
}

// HasField informa se a chave apareceu no payload original.
func (u UserUpdate) HasField(name string) bool {
	for _, f := range u.Fields {
		if f == name {
			return true
		}
	}
	return false
}

// PublicUser é a projeção do usuário devolvida pelos endpoints de
// autenticação (sem hash de senha, sem token de redefinição).
type PublicUser struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Email string   `json:"email"`
	Role  UserRole `json:"role"`
}

// Public converte a entidade na projeção pública.
func (u User) Public() PublicUser {
	return PublicUser{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

// UserRepository define o contrato de persistência para a entidade User.
type UserRepository interface {
	Save(ctx context.Context, user User) (User, error)
	FindByID(ctx context.Context, id string) (User, error)
	FindByEmail(ctx context.Context, email string) (User, error)
	FindAll(ctx context.Context) ([]User, error)
	UpdateByID(ctx context.Context, id string, update UserUpdate) error
	DeleteByID(ctx context.Context, id string) error
	FindByResetToken(ctx context.Context, token string) (User, error)
	SetResetToken(ctx context.Context, userID, token string, expiry time.Time) error
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
}
