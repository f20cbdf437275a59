package taskrepo

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"gotasks/internal/domain"
)

// TestWhereClause_Empty testa o descritor sem escopo nem critérios.
func TestWhereClause_Empty(t *testing.T) {
	clause, args := whereClause(domain.TaskQuery{})

	assert.Empty(t, clause)
	assert.Empty(t, args)
}

// TestWhereClause_ScopeOnly testa o escopo de não-admin isolado.
func TestWhereClause_ScopeOnly(t *testing.T) {
	clause, args := whereClause(domain.TaskQuery{
		Scope: domain.TaskScope{AssignedTo: "user-1"},
	})

	assert.Equal(t, " WHERE t.assigned_to = $1", clause)
	assert.Equal(t, []interface{}{"user-1"}, args)
}

// TestWhereClause_AllCriteria testa a composição por E lógico: escopo,
// status e busca textual.
func TestWhereClause_AllCriteria(t *testing.T) {
	clause, args := whereClause(domain.TaskQuery{
		Scope:  domain.TaskScope{AssignedTo: "user-1"},
		Status: "pending",
		Search: "relatório",
	})

	assert.Equal(t,
		" WHERE t.assigned_to = $1 AND t.status = $2 AND (t.title ILIKE $3 OR t.description ILIKE $4)",
		clause)
	assert.Equal(t, []interface{}{"user-1", "pending", "%relatório%", "%relatório%"}, args)
}

// TestWhereClause_ClientAssigneeIgnored testa que o assigned_to pedido pelo
// cliente não entra no WHERE: só o escopo resolvido pela política filtra.
func TestWhereClause_ClientAssigneeIgnored(t *testing.T) {
	clause, args := whereClause(domain.TaskQuery{
		AssignedTo: "outro-usuario",
		Scope:      domain.TaskScope{AssignedTo: "user-1"},
	})

	assert.Equal(t, " WHERE t.assigned_to = $1", clause)
	assert.Equal(t, []interface{}{"user-1"}, args)
}

// TestWhereClause_SearchEscapesLikeMeta testa a neutralização de % e _ no
// termo de busca.
func TestWhereClause_SearchEscapesLikeMeta(t *testing.T) {
	_, args := whereClause(domain.TaskQuery{Search: "100%_done"})

	assert.Equal(t, `%100\%\_done%`, args[0])
}

// TestOrderBy_Whitelist testa a whitelist de colunas de ordenação.
func TestOrderBy_Whitelist(t *testing.T) {
	assert.Equal(t, " ORDER BY t.due_date DESC", orderBy(domain.TaskQuery{
		SortField: "due_date",
		SortOrder: domain.OrderDesc,
	}))

	assert.Equal(t, " ORDER BY t.title ASC", orderBy(domain.TaskQuery{
		SortField: "title",
		SortOrder: domain.OrderAsc,
	}))
}

// TestOrderBy_UnknownField_FallsBackToDefault testa que campo fora da lista
// cai no padrão created_at, nunca na query.
func TestOrderBy_UnknownField_FallsBackToDefault(t *testing.T) {
	clause := orderBy(domain.TaskQuery{SortField: "password_hash; DROP TABLE tasks"})

	assert.Equal(t, " ORDER BY t.created_at ASC", clause)
}
