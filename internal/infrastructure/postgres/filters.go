package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ortholink/ortholink-api/internal/domain/repository"
)

// whereClause assembles a WHERE fragment and its args. Column names come
// from code, never from the request; sort columns are allowlisted upstream
// in pagination.FromQuery.
type whereClause struct {
	conds []string
	args  []any
}

func (w *whereClause) add(cond string, args ...any) {
	n := len(w.args)
	for i := range args {
		cond = strings.Replace(cond, "?", fmt.Sprintf("$%d", n+i+1), 1)
	}
	w.conds = append(w.conds, cond)
	w.args = append(w.args, args...)
}

func (w *whereClause) sql() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}

// contentWhere translates the shared content filter into SQL. textCols are
// the type's searchable fields, OR-combined with case-insensitive substring
// match.
func contentWhere(f repository.ContentFilter, textCols ...string) *whereClause {
	w := &whereClause{}
	if q := strings.TrimSpace(f.Query); q != "" {
		like := "%" + q + "%"
		ors := make([]string, 0, len(textCols))
		for _, col := range textCols {
			ors = append(ors, col+" ILIKE ?")
		}
		args := make([]any, len(ors))
		for i := range args {
			args[i] = like
		}
		w.add("("+strings.Join(ors, " OR ")+")", args...)
	}
	if f.Status != nil {
		w.add("status = ?", string(*f.Status))
	}
	if f.Category != "" {
		w.add("category = ?", f.Category)
	}
	if f.OwnerID != "" {
		w.add("owner_id = ?", f.OwnerID)
	}
	return w
}

// slugExists checks slug uniqueness within a table. excludeID keeps an
// entity's own row out of the check on update.
func slugExists(ctx context.Context, pool *pgxpool.Pool, table, slug, excludeID string) (bool, error) {
	var exists bool
	err := pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM `+table+` WHERE slug = $1 AND id::text <> $2)`,
		slug, excludeID).Scan(&exists)
	if err != nil {
		return false, mapError(err)
	}
	return exists, nil
}
