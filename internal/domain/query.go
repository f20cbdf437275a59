package domain

import "math"

// Valores padrão de paginação e ordenação das listagens de tarefas.
const (
	DefaultPage      = 1
	DefaultLimit     = 10
	DefaultSortField = "created_at"
	OrderAsc         = "asc"
	OrderDesc        = "desc"
)

// TaskScope é o filtro de escopo produzido pela Access Policy para leituras
// de coleção. AssignedTo vazio significa escopo irrestrito (admin).
type TaskScope struct {
	AssignedTo string
}

// TaskQuery é o descritor efêmero de consulta de tarefas: o escopo derivado
// da política combinado com os critérios fornecidos pelo cliente. Os
// critérios compõem por E lógico; o escopo é aplicado antes dos critérios,
// então o filtro assigned_to de um não-admin nunca sobrepõe o escopo.
type TaskQuery struct {
	// Scope é o escopo resolvido pela Access Policy; só ele entra no WHERE.
	Scope TaskScope
	// AssignedTo é o filtro de destinatário pedido pelo cliente, antes da
	// política. Admin o promove ao escopo; não-admin o tem ignorado.
	AssignedTo string
	Status     string
	Search     string
	SortField  string
	SortOrder  string
	Page       int
	Limit      int
}

// Normalize aplica os valores padrão do descritor.
func (q TaskQuery) Normalize() TaskQuery {
	if q.Page < 1 {
		q.Page = DefaultPage
	}
	if q.Limit < 1 {
		q.Limit = DefaultLimit
	}
	if q.SortField == "" {
		q.SortField = DefaultSortField
	}
	if q.SortOrder != OrderDesc {
		q.SortOrder = OrderAsc
	}
	return q
}

// Pagination é o bloco de metadados de paginação devolvido nas listagens.
type Pagination struct {
	CurrentPage int  `json:"current_page"`
	TotalPages  int  `json:"total_pages"`
	TotalTasks  int  `json:"total_tasks"`
	HasNextPage bool `json:"has_next_page"`
	HasPrevPage bool `json:"has_prev_page"`
}

// NewPagination calcula os metadados a partir do total pré-paginação.
func NewPagination(page, limit, total int) Pagination {
	totalPages := int(math.Ceil(float64(total) / float64(limit)))
	return Pagination{
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalTasks:  total,
		HasNextPage: page < totalPages,
		HasPrevPage: page > 1,
	}
}

// TaskFilters ecoa os filtros aplicados na resposta de listagem, com "all"
// como marcador de filtro ausente.
type TaskFilters struct {
	Status     string `json:"status"`
	AssignedTo string `json:"assigned_to"`
	SortBy     string `json:"sort_by"`
	Order      string `json:"order"`
}

// TaskPage é o resultado de uma listagem: a página ordenada, os metadados de
// paginação e o eco dos filtros.
type TaskPage struct {
	Tasks      []Task      `json:"tasks"`
	Pagination Pagination  `json:"pagination"`
	Filters    TaskFilters `json:"filters"`
}
