package database

import (
	"strconv"
	"strings"

	"github.com/yasinhessnawi1/PhotoAlbum_Backend/internal/constants"
)

// Dialect is the SQL flavour of the connected server.
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectMySQL    Dialect = "mysql"
)

// DialectFor maps a driver name to its dialect. Both lib/pq and pgx speak PostgreSQL.
func DialectFor(driver string) Dialect {
	if strings.EqualFold(driver, constants.DriverMySQL) {
		return DialectMySQL
	}
	return DialectPostgres
}

// SupportsReturning reports whether INSERT ... RETURNING is available.
func (d Dialect) SupportsReturning() bool {
	return d != DialectMySQL
}

// CaseInsensitiveLike returns the operator for case insensitive pattern matching.
// MySQL's default collations already compare case insensitively.
func (d Dialect) CaseInsensitiveLike() string {
	if d == DialectMySQL {
		return "LIKE"
	}
	return "ILIKE"
}

// UpsertClause returns the clause that turns an INSERT into an update of
// columns when a row with the same conflict key already exists.
func (d Dialect) UpsertClause(conflict string, columns ...string) string {
	sets := make([]string, len(columns))
	if d == DialectMySQL {
		for i, c := range columns {
			sets[i] = c + " = VALUES(" + c + ")"
		}
		return " ON DUPLICATE KEY UPDATE " + strings.Join(sets, ", ")
	}
	for i, c := range columns {
		sets[i] = c + " = EXCLUDED." + c
	}
	return " ON CONFLICT (" + conflict + ") DO UPDATE SET " + strings.Join(sets, ", ")
}

// GooseDialect is the dialect name understood by goose.
func (d Dialect) GooseDialect() string {
	if d == DialectMySQL {
		return "mysql"
	}
	return "postgres"
}

// Rebind rewrites "?" placeholders to "$1".."$n" for PostgreSQL.
// Question marks inside single quoted literals are left alone.
func (d Dialect) Rebind(query string) string {
	if d == DialectMySQL || !strings.Contains(query, "?") {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)

	n := 0
	inQuote := false
	for i := 0; i < len(query); i++ {
		c := query[i]
		switch {
		case c == '\'':
			inQuote = !inQuote
			b.WriteByte(c)
		case c == '?' && !inQuote:
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}
