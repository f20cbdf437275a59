package taskrepo

import (
	"fmt"
	"strings"

	"gotasks/internal/domain"
)

// sortColumns é a lista fechada de campos de ordenação aceitos. Qualquer
// campo fora da lista cai no padrão created_at: o nome da coluna entra na
// query por concatenação, então nunca pode vir do cliente sem passar aqui.
var sortColumns = map[string]string{
	"created_at": "t.created_at",
	"updated_at": "t.updated_at",
	"due_date":   "t.due_date",
	"title":      "t.title",
	"status":     "t.status",
}

// whereClause compõe a cláusula WHERE do descritor de consulta: o escopo
// derivado da política e os critérios do cliente combinados por E lógico.
// O escopo entra como a primeira condição; como ele já foi resolvido pela
// Access Policy antes do filtro ser montado, o assigned_to do cliente nunca
// o sobrepõe. Retorna a cláusula (com prefixo " WHERE", ou vazia) e os
// argumentos posicionais.
func whereClause(q domain.TaskQuery) (string, []interface{}) {
	var conds []string
	var args []interface{}

	add := func(cond string, vals ...interface{}) {
		for _, v := range vals {
			args = append(args, v)
			cond = strings.Replace(cond, "?", fmt.Sprintf("$%d", len(args)), 1)
		}
		conds = append(conds, cond)
	}

	if q.Scope.AssignedTo != "" {
		add("t.assigned_to = ?", q.Scope.AssignedTo)
	}

	if q.Status != "" {
		add("t.status = ?", q.Status)
	}

	if q.Search != "" {
		// Busca textual: substring sem distinção de maiúsculas sobre título
		// OU descrição, combinada por E com os demais critérios.
		pattern := "%" + escapeLike(q.Search) + "%"
		add(`(t.title ILIKE ? OR t.description ILIKE ?)`, pattern, pattern)
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// orderBy monta a cláusula ORDER BY a partir da whitelist de colunas.
func orderBy(q domain.TaskQuery) string {
	col, ok := sortColumns[q.SortField]
	if !ok {
		col = sortColumns[domain.DefaultSortField]
	}
	dir := "ASC"
	if q.SortOrder == domain.OrderDesc {
		dir = "DESC"
	}
	return fmt.Sprintf(" ORDER BY %s %s", col, dir)
}

// escapeLike neutraliza os metacaracteres de LIKE no termo de busca.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}
