package postgres

import "github.com/lib/pq"

// TableNames holds dynamically prefixed, quoted table names
type TableNames struct {
	Prefix       string
	Users        string
	Projects     string
	Tasks        string
	Leads        string
	Notes        string
	Requirements string
}

// NewTableNames creates table names with the given prefix
func NewTableNames(prefix string) *TableNames {
	return &TableNames{
		Prefix:       prefix,
		Users:        pq.QuoteIdentifier(prefix + "users"),
		Projects:     pq.QuoteIdentifier(prefix + "projects"),
		Tasks:        pq.QuoteIdentifier(prefix + "tasks"),
		Leads:        pq.QuoteIdentifier(prefix + "leads"),
		Notes:        pq.QuoteIdentifier(prefix + "notes"),
		Requirements: pq.QuoteIdentifier(prefix + "requirements"),
	}
}

// Index returns a quoted, prefixed index or constraint name.
func (t *TableNames) Index(name string) string {
	return pq.QuoteIdentifier(t.Prefix + name)
}

// all lists the tables in dependency order (referenced tables first).
func (t *TableNames) all() []string {
	return []string{t.Users, t.Projects, t.Tasks, t.Leads, t.Notes, t.Requirements}
}
