package postgres

import (
	"fmt"
	"strings"
)

// updateBuilder collects "col = $n" assignments for the fields present in a patch.
type updateBuilder struct {
	sets []string
	args []any
}

func (b *updateBuilder) set(column string, value any) {
	b.args = append(b.args, value)
	b.sets = append(b.sets, fmt.Sprintf("%s = $%d", column, len(b.args)))
}

func (b *updateBuilder) empty() bool {
	return len(b.sets) == 0
}

// build renders UPDATE ... SET ..., updated_at = NOW() WHERE id = $n RETURNING columns.
func (b *updateBuilder) build(table string, id int64, returning string) (string, []any) {
	args := append(b.args, id)
	query := fmt.Sprintf(
		"UPDATE %s SET %s, updated_at = NOW() WHERE id = $%d RETURNING %s",
		table, strings.Join(b.sets, ", "), len(args), returning,
	)
	return query, args
}
