package store

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/user/carcatalog-go/query"
)

// likeEscaper escapes the LIKE metacharacters so a filter value matches literally.
// Backslash is Postgres' default LIKE escape character.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func ident(name string) string {
	return pgx.Identifier{name}.Sanitize()
}

func selectList(columns []string) string {
	if len(columns) == 0 {
		return "*"
	}
	quoted := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = ident(c)
	}
	return strings.Join(quoted, ", ")
}

// buildWhere renders filters as a WHERE clause. Placeholders start after
// the first `offset` arguments already bound by the caller.
func buildWhere(filters []query.Filter, offset int) (string, []any) {
	if len(filters) == 0 {
		return "", nil
	}
	parts := make([]string, 0, len(filters))
	args := make([]any, 0, len(filters))
	for _, f := range filters {
		n := offset + len(args) + 1
		switch f.Kind {
		case query.String:
			parts = append(parts, fmt.Sprintf("%s ILIKE $%d", ident(f.Field), n))
			args = append(args, "%"+likeEscaper.Replace(fmt.Sprint(f.Value))+"%")
		default:
			parts = append(parts, fmt.Sprintf("%s = $%d", ident(f.Field), n))
			args = append(args, f.Value)
		}
	}
	return " WHERE " + strings.Join(parts, " AND "), args
}

func buildCount(table string, filters []query.Filter) (string, []any) {
	where, args := buildWhere(filters, 0)
	return fmt.Sprintf("SELECT COUNT(*) FROM %s%s", ident(table), where), args
}

func buildList(table string, columns []string, d *query.Descriptor) (string, []any) {
	where, args := buildWhere(d.Filters, 0)
	order := "ASC"
	if d.SortOrder == query.Desc {
		order = "DESC"
	}
	n := len(args)
	sql := fmt.Sprintf("SELECT %s FROM %s%s ORDER BY %s %s, %s %s LIMIT $%d OFFSET $%d",
		selectList(columns), ident(table), where,
		ident(d.SortField), order, ident("id"), order,
		n+1, n+2)
	return sql, append(args, d.Limit, d.Offset)
}

func buildTaken(table, column string, value any, exceptID int) (string, []any) {
	if exceptID > 0 {
		return fmt.Sprintf("SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1 AND id <> $2)", ident(table), ident(column)),
			[]any{value, exceptID}
	}
	return fmt.Sprintf("SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1)", ident(table), ident(column)),
		[]any{value}
}

// sortedKeys gives a stable column order so the generated SQL is deterministic.
func sortedKeys(values map[string]any) []string {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func buildInsert(table string, returning []string, values map[string]any) (string, []any) {
	keys := sortedKeys(values)
	cols := make([]string, len(keys))
	marks := make([]string, len(keys))
	args := make([]any, len(keys))
	for i, k := range keys {
		cols[i] = ident(k)
		marks[i] = fmt.Sprintf("$%d", i+1)
		args[i] = values[k]
	}
	sql := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING %s",
		ident(table), strings.Join(cols, ", "), strings.Join(marks, ", "), selectList(returning))
	return sql, args
}

// buildUpdate renders an UPDATE matching column = match. A nil returning list
// omits the RETURNING clause.
func buildUpdate(table string, returning []string, column string, match any, values map[string]any) (string, []any) {
	keys := sortedKeys(values)
	sets := make([]string, 0, len(keys)+1)
	args := make([]any, 0, len(keys)+1)
	for _, k := range keys {
		if k == "updated_at" {
			continue
		}
		args = append(args, values[k])
		sets = append(sets, fmt.Sprintf("%s = $%d", ident(k), len(args)))
	}
	sets = append(sets, ident("updated_at")+" = now()")
	args = append(args, match)

	sql := fmt.Sprintf("UPDATE %s SET %s WHERE %s = $%d",
		ident(table), strings.Join(sets, ", "), ident(column), len(args))
	if returning != nil {
		sql += " RETURNING " + selectList(returning)
	}
	return sql, args
}
