package sqlstore

import (
	"strconv"
	"strings"
)

// Dialect captures the SQL differences between the supported servers.
type Dialect struct {
	Name string
	// Numbered placeholders ($1, $2, ...) instead of '?'.
	Numbered bool
	// ReturningID makes Insert read the new id from INSERT ... RETURNING id
	// instead of sql.Result.LastInsertId.
	ReturningID bool
	CreateTable string
}

// MySQL matches the original deployment target.
var MySQL = Dialect{
	Name: "mysql",
	CreateTable: `CREATE TABLE IF NOT EXISTS recipients (
		id INT AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		address VARCHAR(255) NOT NULL,
		family_size INT NOT NULL,
		added_date TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
}

// Postgres is used through the pgx stdlib driver.
var Postgres = Dialect{
	Name:        "postgres",
	Numbered:    true,
	ReturningID: true,
	CreateTable: `CREATE TABLE IF NOT EXISTS recipients (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		address TEXT NOT NULL,
		family_size INTEGER NOT NULL,
		added_date TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
}

// SQLite uses AUTOINCREMENT so that ids of deleted rows are never reused.
var SQLite = Dialect{
	Name: "sqlite",
	CreateTable: `CREATE TABLE IF NOT EXISTS recipients (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		address TEXT NOT NULL,
		family_size INTEGER NOT NULL,
		added_date TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
}

// Rebind rewrites '?' placeholders for dialects using numbered parameters.
func (d Dialect) Rebind(query string) string {
	if !d.Numbered {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
