package migration

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"text/template"
	"time"
)

// versionWidth is the zero padded width of migration versions (000001_...)
const versionWidth = 6

// A name of the form create_<table> scaffolds a tracked table: the audit
// columns every tenant-owned row carries plus its tenant and trash indexes.
var templates = template.Must(template.New("migration").Parse(`
{{- define "up" -}}
-- Migration: {{.Name}}
-- Created: {{.Timestamp}}
{{- with .Description}}
-- {{.}}
{{- end}}
{{if .Table}}
CREATE TABLE IF NOT EXISTS {{.Table}} (
    id          UUID PRIMARY KEY,
    tenant_id   UUID        NOT NULL,
    created_by  UUID,
    version     INTEGER     NOT NULL DEFAULT 1,
    created_at  TIMESTAMPTZ NOT NULL,
    updated_at  TIMESTAMPTZ NOT NULL,
    is_deleted  BOOLEAN     NOT NULL DEFAULT FALSE,
    deleted_at  TIMESTAMPTZ
);
CREATE INDEX IF NOT EXISTS idx_{{.Table}}_tenant ON {{.Table}} (tenant_id);
CREATE INDEX IF NOT EXISTS idx_{{.Table}}_deleted_at ON {{.Table}} (deleted_at);
{{else}}
-- Tracked tables need tenant_id, is_deleted and deleted_at; unique keys on
-- document numbers are scoped by tenant_id.
{{end}}
{{- end}}

{{- define "down" -}}
-- Rollback: {{.Name}}
{{if .Table}}
DROP TABLE IF EXISTS {{.Table}};
{{end}}
{{- end}}
`))

// MigrationFile describes a created up/down pair
type MigrationFile struct {
	Version     string
	Name        string
	Description string
	Timestamp   string
	// Table is set when the pair scaffolds a tracked table
	Table    string
	UpPath   string
	DownPath string
}

// CreateMigration writes the next numbered up/down pair into dir.
func CreateMigration(dir, name, description string) (*MigrationFile, error) {
	base := sanitizeName(name)
	if base == "" {
		return nil, fmt.Errorf("migration name %q has no usable characters", name)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create migrations directory: %w", err)
	}
	next, err := nextVersion(dir)
	if err != nil {
		return nil, err
	}

	version := fmt.Sprintf("%0*d", versionWidth, next)
	mf := &MigrationFile{
		Version:     version,
		Name:        name,
		Description: description,
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
		UpPath:      filepath.Join(dir, version+"_"+base+".up.sql"),
		DownPath:    filepath.Join(dir, version+"_"+base+".down.sql"),
	}
	if table, ok := strings.CutPrefix(base, "create_"); ok {
		mf.Table = table
	}

	if err := render(mf.UpPath, "up", mf); err != nil {
		return nil, err
	}
	if err := render(mf.DownPath, "down", mf); err != nil {
		_ = os.Remove(mf.UpPath)
		return nil, err
	}
	return mf, nil
}

// render refuses to overwrite an existing file
func render(path, tmpl string, mf *MigrationFile) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("create %s: %w", filepath.Base(path), err)
	}
	if err := templates.ExecuteTemplate(f, tmpl, mf); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return f.Close()
}

func nextVersion(dir string) (int, error) {
	names, err := ListMigrations(dir)
	if err != nil {
		return 0, err
	}
	highest := 0
	for _, name := range names {
		prefix, _, _ := strings.Cut(name, "_")
		if v, err := strconv.Atoi(prefix); err == nil {
			highest = max(highest, v)
		}
	}
	return highest + 1, nil
}

// sanitizeName lower-cases name and keeps [a-z0-9], folding runs of
// spaces, dashes and underscores into one underscore.
func sanitizeName(name string) string {
	words := strings.FieldsFunc(strings.ToLower(name), func(r rune) bool {
		return r == ' ' || r == '-' || r == '_'
	})
	kept := words[:0]
	for _, w := range words {
		w = strings.Map(func(r rune) rune {
			if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
				return r
			}
			return -1
		}, w)
		if w != "" {
			kept = append(kept, w)
		}
	}
	return strings.Join(kept, "_")
}

// ListMigrations returns the sorted base names of the up migrations in dir.
// A missing dir has none.
func ListMigrations(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read migrations directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if base, ok := strings.CutSuffix(entry.Name(), ".up.sql"); ok && !entry.IsDir() {
			names = append(names, base)
		}
	}
	slices.Sort(names)
	return names, nil
}
