// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package resume

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/resume-engine/pkg/types"
)

func TestDecodeFreeform(t *testing.T) {
	got, err := Decode([]byte(`"JANE DOE\nSKILLS\nGo"`))
	require.NoError(t, err)
	assert.Equal(t, types.FreeformResume{Text: "JANE DOE\nSKILLS\nGo"}, got)
}

func TestDecodeStructured(t *testing.T) {
	raw := `{
		"emails": ["user@example.com"],
		"skills": ["Go", "SQL"],
		"education": [{"school": "NJIT", "degree": "B.S.", "years": "2021-2025"}],
		"jobHistory": [{"company": "Acme", "title": "Intern", "responsibilities": ["Built things"]}],
		"bio": "Developer",
		"links": ["a", "b"]
	}`
	got, err := Decode([]byte(raw))
	require.NoError(t, err)

	r, ok := got.(types.StructuredResume)
	require.True(t, ok, "got %T", got)
	assert.Equal(t, []string{"user@example.com"}, r.Emails)
	assert.Equal(t, []string{"Go", "SQL"}, r.Skills)
	assert.Equal(t, "2021-2025", r.Education[0].Years)
	assert.Equal(t, []string{"Built things"}, r.JobHistory[0].Responsibilities)
	assert.Equal(t, map[string]any{"bio": "Developer", "links": []any{"a", "b"}}, r.Extra)
}

func TestDecodeMissing(t *testing.T) {
	for _, raw := range []string{"", "  ", "null", `""`, `"   "`} {
		got, err := Decode([]byte(raw))
		require.NoError(t, err, "input %q", raw)
		assert.Nil(t, got, "input %q", raw)
	}
}

func TestDecodeInvalid(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"number", `42`},
		{"array", `["a"]`},
		{"boolean", `true`},
		{"broken object", `{"emails":`},
		{"empty object", `{}`},
		{"emails not array", `{"emails": "a@b.c"}`},
		{"skill not string", `{"skills": [1, 2]}`},
		{"education not objects", `{"education": ["NJIT"]}`},
		{"responsibilities not array", `{"jobHistory": [{"responsibilities": "x"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.raw))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidResume), "got %v", err)
		})
	}
}

func TestValidateReportsEveryProblem(t *testing.T) {
	err := Validate(map[string]any{"emails": "x", "objective": 3.0})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Len(t, ve.Problems, 2)
	assert.Contains(t, err.Error(), "emails")
	assert.Contains(t, err.Error(), "objective")
}

func TestEncodeRoundTrip(t *testing.T) {
	in := []types.ResumeContent{
		types.FreeformResume{Text: "NAME\nEXPERIENCE"},
		types.StructuredResume{
			Objective: "Build",
			Skills:    []string{"Go"},
			Extra:     map[string]any{"bio": "Dev"},
		},
	}
	for _, r := range in {
		b, err := Encode(r)
		require.NoError(t, err)
		got, err := Decode(b)
		require.NoError(t, err)
		assert.Equal(t, r, got)
	}
}

func TestEncodeKnownFieldsWin(t *testing.T) {
	b, err := Encode(&types.StructuredResume{
		Objective: "real",
		Extra:     map[string]any{"objective": "shadow", "name": "Jane"},
	})
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))
	assert.Equal(t, "real", m["objective"])
	assert.Equal(t, "Jane", m["name"])
}

func TestEncodeUnsupported(t *testing.T) {
	_, err := Encode(nil)
	assert.ErrorIs(t, err, ErrInvalidResume)
}
