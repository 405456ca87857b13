// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/resume-engine/internal/latex"
	"github.com/pdiddy/resume-engine/pkg/types"
)

func testStore(t *testing.T, seed bool) *Store {
	t.Helper()
	s, err := Open(context.Background(), types.StoreConfig{
		DataDir:       filepath.Join(t.TempDir(), "data"),
		SeedTemplates: seed,
	})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenCreatesDatabase(t *testing.T) {
	s := testStore(t, false)
	_, err := os.Stat(s.Path())
	require.NoError(t, err)
	require.NoError(t, s.Ping(context.Background()))
}

func TestSeedBuiltins(t *testing.T) {
	ctx := context.Background()
	s := testStore(t, true)

	got, err := s.Templates(ctx)
	require.NoError(t, err)
	require.Len(t, got, len(latex.Builtins()))

	// Seeding again adds nothing and keeps edits.
	edited := got[0]
	edited.Content = "edited"
	_, err = s.PutTemplate(ctx, edited)
	require.NoError(t, err)

	n, err := s.SeedBuiltins(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	back, err := s.Template(ctx, edited.ID)
	require.NoError(t, err)
	assert.Equal(t, "edited", back.Content)
}

func TestTemplateCRUD(t *testing.T) {
	ctx := context.Background()
	s := testStore(t, false)

	put, err := s.PutTemplate(ctx, types.Template{Name: "Mine", Content: "x {{RESUME_CONTENT}}"})
	require.NoError(t, err)
	assert.Len(t, put.ID, 36)
	assert.False(t, put.UpdatedAt.IsZero())

	got, err := s.Template(ctx, put.ID)
	require.NoError(t, err)
	assert.Equal(t, "Mine", got.Name)
	assert.Equal(t, "x {{RESUME_CONTENT}}", got.Content)
	assert.True(t, put.UpdatedAt.Equal(got.UpdatedAt))

	require.NoError(t, s.DeleteTemplate(ctx, put.ID))
	_, err = s.Template(ctx, put.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.DeleteTemplate(ctx, put.ID), ErrNotFound)
}

func TestRepairTemplates(t *testing.T) {
	ctx := context.Background()
	s := testStore(t, false)

	broken := `documentclass{article}\n\begin{document}\n{{RESUME_CONTENT}}\n\end{document}`
	_, err := s.PutTemplate(ctx, types.Template{ID: "a-broken", Name: "Broken", Content: broken})
	require.NoError(t, err)
	_, err = s.PutTemplate(ctx, types.Template{ID: "b-empty", Name: "Empty", Content: "  "})
	require.NoError(t, err)
	clean := latex.DefaultTemplate
	_, err = s.PutTemplate(ctx, clean)
	require.NoError(t, err)

	var progress bytes.Buffer
	fixes, err := s.RepairTemplates(ctx, &progress)
	require.NoError(t, err)
	require.Len(t, fixes, 3)

	byID := map[string]TemplateFix{}
	for _, f := range fixes {
		byID[f.ID] = f
	}

	assert.True(t, byID["a-broken"].Fixed)
	assert.NotEmpty(t, byID["a-broken"].Fixes)
	assert.False(t, byID["b-empty"].Fixed)
	assert.Equal(t, "No valid content", byID["b-empty"].Reason)
	assert.False(t, byID[clean.ID].Fixed)

	got, err := s.Template(ctx, "a-broken")
	require.NoError(t, err)
	assert.Equal(t, latex.Repair(broken), got.Content)
	assert.True(t, strings.HasPrefix(got.Content, `\documentclass{article}`+"\n"))
	assert.Contains(t, progress.String(), "repaired a-broken")

	// A second pass has nothing left to fix.
	fixes, err = s.RepairTemplates(ctx, io.Discard)
	require.NoError(t, err)
	for _, f := range fixes {
		assert.False(t, f.Fixed, f.ID)
	}
}

func TestRepairTemplatesEmptyStore(t *testing.T) {
	s := testStore(t, false)
	_, err := s.RepairTemplates(context.Background(), io.Discard)
	assert.ErrorIs(t, err, ErrNoTemplates)
}

func TestExportImportTemplates(t *testing.T) {
	ctx := context.Background()
	src := testStore(t, true)
	_, err := src.PutTemplate(ctx, types.Template{ID: "custom", Name: "Custom", Content: "a\n{{skills}}\nb"})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, src.ExportTemplates(ctx, &buf))
	assert.Contains(t, buf.String(), "templates:")

	dst := testStore(t, false)
	n, err := dst.ImportTemplates(ctx, &buf)
	require.NoError(t, err)
	assert.Equal(t, len(latex.Builtins())+1, n)

	want, err := src.Templates(ctx)
	require.NoError(t, err)
	got, err := dst.Templates(ctx)
	require.NoError(t, err)
	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].ID, got[i].ID)
		assert.Equal(t, want[i].Content, got[i].Content)
	}
}

func TestImportTemplatesAssignsIDs(t *testing.T) {
	ctx := context.Background()
	s := testStore(t, false)

	doc := "templates:\n  - name: Loose\n    content: \"{{RESUME_CONTENT}}\"\n"
	n, err := s.ImportTemplates(ctx, strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := s.Templates(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Len(t, got[0].ID, 36)

	_, err = s.ImportTemplates(ctx, strings.NewReader("templates: [unclosed"))
	assert.Error(t, err)
}

func TestResumes(t *testing.T) {
	ctx := context.Background()
	s := testStore(t, false)

	r, err := s.PutResume(ctx, types.StoredResume{UserID: "u1", Body: []byte(`{"skills":["Go"]}`)})
	require.NoError(t, err)
	require.NotEmpty(t, r.ID)

	got, err := s.Resume(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, "u1", got.UserID)
	assert.JSONEq(t, `{"skills":["Go"]}`, string(got.Body))

	_, err = s.PutResume(ctx, types.StoredResume{UserID: "u2", Body: []byte(`"text"`)})
	require.NoError(t, err)

	list, err := s.ResumesByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, r.ID, list[0].ID)

	_, err = s.Resume(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStatus(t *testing.T) {
	ctx := context.Background()
	s := testStore(t, false)

	st, err := s.Status(ctx, "u1", "job1")
	require.NoError(t, err)
	assert.Equal(t, types.GenerationIdle, st.State)

	require.NoError(t, s.SetStatus(ctx, types.GenerationStatus{
		UserID: "u1", JobAdID: "job1", State: types.GenerationProcessing,
	}))
	st, err = s.Status(ctx, "u1", "job1")
	require.NoError(t, err)
	assert.Equal(t, types.GenerationProcessing, st.State)
	assert.Empty(t, st.Resume)

	require.NoError(t, s.SetStatus(ctx, types.GenerationStatus{
		UserID: "u1", JobAdID: "job1", State: types.GenerationCompleted, Resume: "RESUME",
	}))
	st, err = s.Status(ctx, "u1", "job1")
	require.NoError(t, err)
	assert.Equal(t, types.GenerationCompleted, st.State)
	assert.Equal(t, "RESUME", st.Resume)
	assert.False(t, st.UpdatedAt.IsZero())

	// Other pairs are independent.
	st, err = s.Status(ctx, "u1", "job2")
	require.NoError(t, err)
	assert.Equal(t, types.GenerationIdle, st.State)

	assert.Error(t, s.SetStatus(ctx, types.GenerationStatus{UserID: "u1"}))
}
