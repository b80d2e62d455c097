package sqlite

import (
	"strings"
	"time"

	"github.com/fwojciec/howto"
)

// guideWhere builds the WHERE clause for a howto.GuideFilter. Unset
// filter fields add no condition.
func guideWhere(filter howto.GuideFilter) (string, []any) {
	var conds []string
	var args []any
	for _, f := range []struct {
		column string
		value  *string
	}{
		{"id", filter.ID},
		{"url", filter.URL},
		{"author", filter.Author},
	} {
		if f.value != nil {
			conds = append(conds, f.column+" = ?")
			args = append(args, *f.value)
		}
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// appendPagination appends LIMIT and OFFSET clauses when they are set.
// SQLite only accepts OFFSET after LIMIT, so an offset alone is paired
// with LIMIT -1.
func appendPagination(query *strings.Builder, args *[]any, limit, offset int) {
	switch {
	case limit > 0:
		query.WriteString(" LIMIT ?")
		*args = append(*args, limit)
	case offset > 0:
		query.WriteString(" LIMIT -1")
	}
	if offset > 0 {
		query.WriteString(" OFFSET ?")
		*args = append(*args, offset)
	}
}

// parseFetchedAt reads a stored fetch time. A value that does not parse
// means the row was written by something other than this package.
func parseFetchedAt(value, id string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, howto.Errorf(howto.EINTERNAL, "guide %s has invalid fetched_at %q", id, value)
	}
	return t.UTC(), nil
}
