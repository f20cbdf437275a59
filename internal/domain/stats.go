package domain

// TaskStats são as contagens de tarefas por status para um dado escopo.
// As contagens vêm de consultas independentes, sem isolamento de snapshot:
// sob escrita concorrente os totais são apenas aproximadamente consistentes.
type TaskStats struct {
	Total      int `json:"total"`
	Pending    int `json:"pending"`
	InProgress int `json:"in_progress"`
	Completed  int `json:"completed"`
}

// UserStats são as contagens de usuários por papel (visão de admin).
type UserStats struct {
	Total        int `json:"total"`
	Admins       int `json:"admins"`
	RegularUsers int `json:"regular_users"`
}

// Stats é a resposta do endpoint de estatísticas. Users só é preenchido na
// visão de admin (omitido no JSON para não-admin).
type Stats struct {
	Tasks TaskStats  `json:"tasks"`
	Users *UserStats `json:"users,omitempty"`
}
