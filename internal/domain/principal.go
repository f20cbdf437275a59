package domain

// Principal é a identidade autenticada que faz a requisição.
// É derivada por requisição de uma credencial verificada (JWT) e do registro
// do usuário correspondente; nunca é persistida como entidade própria.
type Principal struct {
	ID   string
	Role UserRole
}

// IsAdmin indica se o principal tem papel administrativo.
func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}
