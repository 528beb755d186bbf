package store

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"regexp"
	"sort"
	"strings"
	"text/template"
)

//go:embed migrations/*/*.sql
var migrationsFS embed.FS

// identifier accepts lower-case names only. Migrations create tables
// unquoted, which PostgreSQL folds to lower case, while COPY quotes them.
var identifier = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// Tables names the listings and statistics tables a sink writes to.
type Tables struct {
	Listings   string
	Statistics string
}

func (t Tables) validate() error {
	for _, name := range []string{t.Listings, t.Statistics} {
		if !identifier.MatchString(name) {
			return fmt.Errorf("invalid table name %q: want lower-case letters, digits and underscores", name)
		}
	}
	if t.Listings == t.Statistics {
		return fmt.Errorf("listings and statistics tables must differ, both are %q", t.Listings)
	}
	return nil
}

// migrationStatements renders the embedded migrations for dialect, in
// lexical file order, and splits them into single statements.
//
// The splitter cuts on every ';', so migration files must not carry one
// inside a string literal or comment.
func migrationStatements(dialect string, tables Tables) ([]string, error) {
	if err := tables.validate(); err != nil {
		return nil, err
	}

	dir := "migrations/" + dialect
	entries, err := fs.ReadDir(migrationsFS, dir)
	if err != nil {
		return nil, fmt.Errorf("reading embedded %s migrations: %w", dialect, err)
	}

	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".sql") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)

	var stmts []string
	for _, file := range files {
		tmpl, err := template.ParseFS(migrationsFS, dir+"/"+file)
		if err != nil {
			return nil, fmt.Errorf("parsing migration %s: %w", file, err)
		}
		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, tables); err != nil {
			return nil, fmt.Errorf("rendering migration %s: %w", file, err)
		}
		stmts = append(stmts, splitStatements(buf.String())...)
	}
	return stmts, nil
}

func splitStatements(input string) []string {
	var kept []string
	for _, line := range strings.Split(input, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "--") {
			continue
		}
		kept = append(kept, line)
	}

	var stmts []string
	for _, part := range strings.Split(strings.Join(kept, "\n"), ";") {
		if stmt := strings.TrimSpace(part); stmt != "" {
			stmts = append(stmts, stmt)
		}
	}
	return stmts
}
