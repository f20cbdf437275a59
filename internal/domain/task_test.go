package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	"gotasks/internal/domain"
)

// TestAssignee_Marshal_Resolved testa a serialização como objeto quando o
// destinatário ainda existe.
func TestAssignee_Marshal_Resolved(t *testing.T) {
	a := domain.Assignee{ID: "abc", Name: "Maria", Email: "maria@example.com", Resolved: true}

	data, err := json.Marshal(a)

	assert.NoError(t, err)
	assert.JSONEq(t, `{"id":"abc","name":"Maria","email":"maria@example.com"}`, string(data))
}

// TestAssignee_Marshal_Dangling testa a referência pendurada: serializa o ID
// bruto, sem erro.
func TestAssignee_Marshal_Dangling(t *testing.T) {
	a := domain.Assignee{ID: "abc", Resolved: false}

	data, err := json.Marshal(a)

	assert.NoError(t, err)
	assert.Equal(t, `"abc"`, string(data))
}

// TestTaskQuery_Normalize testa os padrões de paginação e ordenação.
func TestTaskQuery_Normalize(t *testing.T) {
	q := domain.TaskQuery{}.Normalize()

	assert.Equal(t, 1, q.Page)
	assert.Equal(t, 10, q.Limit)
	assert.Equal(t, "created_at", q.SortField)
	assert.Equal(t, "asc", q.SortOrder)

	q = domain.TaskQuery{Page: -3, Limit: 0, SortOrder: "sideways"}.Normalize()
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, 10, q.Limit)
	assert.Equal(t, "asc", q.SortOrder)

	q = domain.TaskQuery{SortOrder: "desc"}.Normalize()
	assert.Equal(t, "desc", q.SortOrder)
}

// TestNewPagination testa os metadados calculados a partir do total.
func TestNewPagination(t *testing.T) {
	p := domain.NewPagination(2, 10, 25)
	assert.Equal(t, 2, p.CurrentPage)
	assert.Equal(t, 3, p.TotalPages)
	assert.Equal(t, 25, p.TotalTasks)
	assert.True(t, p.HasNextPage)
	assert.True(t, p.HasPrevPage)

	// Página além do fim: lista vazia, metadados consistentes.
	p = domain.NewPagination(5, 10, 25)
	assert.False(t, p.HasNextPage)
	assert.True(t, p.HasPrevPage)

	p = domain.NewPagination(1, 10, 0)
	assert.Equal(t, 0, p.TotalPages)
	assert.False(t, p.HasNextPage)
	assert.False(t, p.HasPrevPage)
}
