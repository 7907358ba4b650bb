package repository

import (
	"fmt"
	"strings"

	"taskflow/backend/internal/policy/engine"
)

const taskColumns = `id, title, description, status, priority, created_by, assigned_to, team_id,
	visibility, shared_with, due_date, created_at, updated_at, deleted_at, deleted_by`

// args collects positional parameters and returns their placeholders.
type args []any

func (a *args) add(v any) string {
	*a = append(*a, v)
	return fmt.Sprintf("$%d", len(*a))
}

// buildListQuery renders q as a SELECT with positional parameters.
func buildListQuery(q ListQuery) (string, []any) {
	var a args
	where := []string{"deleted_at IS NULL"}
	if auth := readFilterSQL(q.Filter, &a); auth != "" {
		where = append(where, auth)
	}
	if q.Status != "" {
		where = append(where, "status = "+a.add(string(q.Status)))
	}
	if q.Priority != "" {
		where = append(where, "priority = "+a.add(string(q.Priority)))
	}
	if s := strings.TrimSpace(q.Search); s != "" {
		p := a.add("%" + escapeLike(s) + "%")
		where = append(where, fmt.Sprintf("(title ILIKE %s OR description ILIKE %s)", p, p))
	}

	var b strings.Builder
	b.WriteString("SELECT " + taskColumns + " FROM tasks WHERE ")
	b.WriteString(strings.Join(where, " AND "))
	b.WriteString(" ORDER BY created_at DESC, id DESC")
	if q.Limit > 0 {
		b.WriteString(" LIMIT " + a.add(q.Limit))
	}
	if q.Offset > 0 {
		b.WriteString(" OFFSET " + a.add(q.Offset))
	}
	return b.String(), a
}

// readFilterSQL compiles f into a parenthesised OR clause. It returns "" for an unrestricted filter.
// The clauses mirror engine.ReadFilter.Match.
func readFilterSQL(f engine.ReadFilter, a *args) string {
	if f.Unrestricted {
		return ""
	}
	p := a.add(f.PrincipalID.Normalized())
	ors := []string{"created_by = " + p, "assigned_to = " + p}
	if f.IncludeShared {
		ors = append(ors, p+" = ANY(shared_with)")
	}
	if f.IncludePublic {
		ors = append(ors, "visibility = 'public'")
	}
	if !f.TeamID.IsZero() {
		team := "team_id = " + a.add(f.TeamID.Normalized())
		if f.TeamVisibilities != nil {
			vis := make([]string, 0, len(f.TeamVisibilities))
			for _, v := range f.TeamVisibilities {
				vis = append(vis, string(v))
			}
			team += " AND visibility = ANY(" + a.add(vis) + ")"
		}
		ors = append(ors, "("+team+")")
	}
	return "(" + strings.Join(ors, " OR ") + ")"
}

// escapeLike escapes LIKE wildcards so search input matches literally.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
