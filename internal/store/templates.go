// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/resume-engine/internal/latex"
	"github.com/pdiddy/resume-engine/pkg/types"
)

// ErrNoTemplates is returned by RepairTemplates when the store is empty.
var ErrNoTemplates = errors.New("no templates found")

// reasonNoContent marks a template skipped by RepairTemplates.
const reasonNoContent = "No valid content"

// SeedBuiltins inserts the built-in templates that are not yet stored and
// returns how many were added. Existing rows are left untouched.
func (s *Store) SeedBuiltins(ctx context.Context) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	now := formatTime(s.now())
	added := 0
	for _, t := range latex.Builtins() {
		res, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO templates (id, name, description, content, updated_at)
			 VALUES (?, ?, ?, ?, ?)`,
			t.ID, t.Name, t.Description, t.Content, now,
		)
		if err != nil {
			return 0, fmt.Errorf("seeding template %s: %w", t.ID, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			added++
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing seed: %w", err)
	}
	return added, nil
}

// Template returns the template with the given id.
func (s *Store) Template(ctx context.Context, id string) (types.Template, error) {
	var t types.Template
	var desc, updated sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, description, content, updated_at FROM templates WHERE id = ?`, id,
	).Scan(&t.ID, &t.Name, &desc, &t.Content, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return types.Template{}, fmt.Errorf("template %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return types.Template{}, fmt.Errorf("querying template %s: %w", id, err)
	}
	t.Description = desc.String
	t.UpdatedAt = parseTime(updated)
	return t, nil
}

// Templates returns every stored template ordered by name.
func (s *Store) Templates(ctx context.Context) ([]types.Template, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, description, content, updated_at FROM templates ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("querying templates: %w", err)
	}
	defer rows.Close()

	var out []types.Template
	for rows.Next() {
		var t types.Template
		var desc, updated sql.NullString
		if err := rows.Scan(&t.ID, &t.Name, &desc, &t.Content, &updated); err != nil {
			return nil, fmt.Errorf("scanning template: %w", err)
		}
		t.Description = desc.String
		t.UpdatedAt = parseTime(updated)
		out = append(out, t)
	}
	return out, rows.Err()
}

// PutTemplate inserts or replaces t. A template without an ID gets a new
// UUID. The stored record is returned.
func (s *Store) PutTemplate(ctx context.Context, t types.Template) (types.Template, error) {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	t.UpdatedAt = s.now()
	if err := upsertTemplate(ctx, s.db, t); err != nil {
		return types.Template{}, err
	}
	return t, nil
}

// DeleteTemplate removes the template with the given id.
func (s *Store) DeleteTemplate(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM templates WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting template %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("template %s: %w", id, ErrNotFound)
	}
	return nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func upsertTemplate(ctx context.Context, db execer, t types.Template) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO templates (id, name, description, content, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			name=excluded.name, description=excluded.description,
			content=excluded.content, updated_at=excluded.updated_at`,
		t.ID, t.Name, t.Description, t.Content, formatTime(t.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("upserting template %s: %w", t.ID, err)
	}
	return nil
}

// TemplateFix is the per-template outcome of RepairTemplates.
type TemplateFix struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Fixed    bool     `json:"fixed"`
	Reason   string   `json:"reason,omitempty"`
	Fixes    []string `json:"fixes,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// RepairTemplates runs the template repair over every stored template and
// writes changed content back in one transaction. Templates with blank
// content are reported with a reason and left alone. Progress lines go to
// w.
func (s *Store) RepairTemplates(ctx context.Context, w io.Writer) ([]TemplateFix, error) {
	templates, err := s.Templates(ctx)
	if err != nil {
		return nil, err
	}
	if len(templates) == 0 {
		return nil, ErrNoTemplates
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	fixes := make([]TemplateFix, 0, len(templates))
	for _, t := range templates {
		fix := TemplateFix{ID: t.ID, Name: t.Name}
		if strings.TrimSpace(t.Content) == "" {
			fix.Reason = reasonNoContent
			fmt.Fprintf(w, "skipped  %s: %s\n", t.ID, reasonNoContent)
			fixes = append(fixes, fix)
			continue
		}

		rep := latex.RepairReport(t.Content)
		fix.Fixes = rep.Fixes
		fix.Warnings = rep.Warnings
		if rep.Changed() {
			t.Content = rep.Content
			t.UpdatedAt = s.now()
			if err := upsertTemplate(ctx, tx, t); err != nil {
				return nil, err
			}
			fix.Fixed = true
			fmt.Fprintf(w, "repaired %s (%d fixes)\n", t.ID, len(rep.Fixes))
		} else {
			fmt.Fprintf(w, "ok       %s\n", t.ID)
		}
		for _, warn := range rep.Warnings {
			fmt.Fprintf(w, "  warning: %s\n", warn)
		}
		fixes = append(fixes, fix)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing repairs: %w", err)
	}
	return fixes, nil
}

// templateFile is the YAML document written by ExportTemplates.
type templateFile struct {
	Templates []types.Template `yaml:"templates"`
}

// ExportTemplates writes every stored template to w as YAML.
func (s *Store) ExportTemplates(ctx context.Context, w io.Writer) error {
	templates, err := s.Templates(ctx)
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(templateFile{Templates: templates}); err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return enc.Close()
}

// ImportTemplates reads a YAML document produced by ExportTemplates and
// upserts every template in it, returning the number written. Templates
// without an ID get a new UUID.
func (s *Store) ImportTemplates(ctx context.Context, r io.Reader) (int, error) {
	var f templateFile
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return 0, nil
		}
		return 0, fmt.Errorf("parsing YAML: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, t := range f.Templates {
		if t.ID == "" {
			t.ID = uuid.NewString()
		}
		if t.UpdatedAt.IsZero() {
			t.UpdatedAt = s.now()
		}
		if err := upsertTemplate(ctx, tx, t); err != nil {
			return 0, err
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing import: %w", err)
	}
	return len(f.Templates), nil
}
