// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package latex

import (
	"errors"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/resume-engine/pkg/types"
)

var anyToken = regexp.MustCompile(`\{\{[^}]*\}\}`)

func sampleResume() types.StructuredResume {
	return types.StructuredResume{
		Emails:    []string{"user@example.com"},
		Phones:    []string{"555-1234"},
		Objective: "Seeking a Software Engineering role at R&D_Lab for 100% growth",
		Skills:    []string{"JavaScript", "React", "Node.js"},
		Education: []types.EducationEntry{
			{School: "NJIT", Degree: "B.S. Computer Science", Years: "2021-2025"},
		},
		JobHistory: []types.JobEntry{
			{
				Company:          "Best Buy",
				Title:            "Geek Squad Lead",
				Dates:            "2023-Present",
				Responsibilities: []string{"Managed team", "Improved sales"},
			},
			{Company: "Acme", Title: "Intern"},
		},
		Extra: map[string]any{
			"bio":   "Experienced developer",
			"links": []any{"github.com/x", "x_y"},
			"meta":  map[string]any{"k": "v"},
			"years": float64(3),
		},
	}
}

const perFieldTemplate = `\documentclass{article}
\begin{document}
{{emails}} | {{phones}}
{{objective}}
{{skills}}
{{education}}
{{jobHistory}}
{{bio}} {{links}} {{meta}} {{years}} {{unknown}}
\end{document}`

func TestMergeStructuredPerField(t *testing.T) {
	out, err := Merge(sampleResume(), types.Template{Name: "fields", Content: perFieldTemplate})
	require.NoError(t, err)

	assert.Empty(t, anyToken.FindAllString(out, -1))
	assert.Contains(t, out, "user@example.com | 555-1234")
	assert.Contains(t, out, `Seeking a Software Engineering role at R\&D\_Lab for 100\% growth`)
	assert.Contains(t, out, "JavaScript, React, Node.js")
	assert.Contains(t, out, "B.S. Computer Science - NJIT (2021-2025)")
	assert.Contains(t, out, "Geek Squad Lead at Best Buy (2023-Present) \\\\\nIntern at Acme")
	assert.Contains(t, out, `Experienced developer github.com/x, x\_y \{"k":"v"\} 3`)
}

func TestMergeLooseTokens(t *testing.T) {
	r := types.StructuredResume{Skills: []string{"Go"}, Objective: "Ship it"}

	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "unknown and spaced tokens",
			content: "\\begin{document}\n{{skills}} {{first-name}} {{ objective }}\n\\end{document}",
			want:    "\\begin{document}\nGo  Ship it\n\\end{document}",
		},
		{
			name:    "only spaced tokens",
			content: "\\begin{document}\n{{ skills }}\n\\end{document}",
			want:    "\\begin{document}\nGo\n\\end{document}",
		},
		{
			name:    "empty and punctuated tokens",
			content: "\\begin{document}\n{{skills}}{{}}{{ x.y }}\n\\end{document}",
			want:    "\\begin{document}\nGo\n\\end{document}",
		},
		{
			name:    "latex groups survive",
			content: "\\begin{document}\n\\textbf{{\\Large {{skills}}}}\n\\end{document}",
			want:    "\\begin{document}\n\\textbf{{\\Large Go}}\n\\end{document}",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Merge(r, types.Template{Name: "loose", Content: tt.content})
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestMergeSpacedAggregate(t *testing.T) {
	tpl := types.Template{Content: "\\begin{document}\n{{ RESUME_CONTENT }}\n\\end{document}"}
	out, err := Merge(types.FreeformResume{Text: "SKILLS\nGo"}, tpl)
	require.NoError(t, err)
	assert.Contains(t, out, `\section*{SKILLS}`)
	assert.NotContains(t, out, "{{")
}

func TestMergeStructuredAggregate(t *testing.T) {
	out, err := Merge(sampleResume(), DefaultTemplate)
	require.NoError(t, err)

	assert.Empty(t, anyToken.FindAllString(out, -1))
	for _, want := range []string{
		`\section*{Contact}`,
		`\section*{Objective}`,
		`\section*{Summary}`,
		`\section*{Skills}`,
		`\section*{Education}`,
		`\section*{Experience}`,
		`\textbf{Geek Squad Lead at Best Buy (2023-Present)}`,
		`\item Managed team`,
		`\section*{links}`,
	} {
		assert.Contains(t, out, want)
	}
	assert.Equal(t, 1, strings.Count(out, `\begin{itemize}`))
	assert.Empty(t, Validate(out))
}

func TestMergeSidebarContact(t *testing.T) {
	tpl, ok := LookupBuiltin("sidebar")
	require.True(t, ok)

	out, err := Merge(sampleResume(), tpl)
	require.NoError(t, err)
	assert.Contains(t, out, "user@example.com \\\\\n555-1234")
	assert.Empty(t, anyToken.FindAllString(out, -1))
}

func TestMergeFreeform(t *testing.T) {
	resume := types.FreeformResume{Text: "JANE ROE\njane@x.com\nEXPERIENCE\nACME\nBuilt {{things}}"}

	out, err := Merge(resume, DefaultTemplate)
	require.NoError(t, err)
	assert.Contains(t, out, `\section*{EXPERIENCE}`)
	assert.Contains(t, out, `\item Built \{\{things\}\}`)
	assert.Empty(t, anyToken.FindAllString(out, -1))
}

func TestMergeErrors(t *testing.T) {
	noPlaceholder := types.Template{Name: "bare", Content: "\\documentclass{article}\n\\begin{document}\nhi\n\\end{document}"}
	perField := types.Template{Name: "fields", Content: perFieldTemplate}

	tests := []struct {
		name       string
		resume     types.ResumeContent
		tpl        types.Template
		wantIs     error
		wantConfig bool
	}{
		{"nil resume", nil, DefaultTemplate, ErrMissingResume, false},
		{"nil structured pointer", (*types.StructuredResume)(nil), DefaultTemplate, ErrMissingResume, false},
		{"nil freeform pointer", (*types.FreeformResume)(nil), DefaultTemplate, ErrMissingResume, false},
		{"empty template", types.FreeformResume{Text: "x"}, types.Template{Content: "  \n"}, ErrMissingTemplate, false},
		{"structured without placeholder", sampleResume(), noPlaceholder, ErrConfig, true},
		{"freeform without aggregate", types.FreeformResume{Text: "x"}, perField, ErrConfig, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Merge(tt.resume, tt.tpl)
			require.Error(t, err)
			assert.Empty(t, out)
			assert.ErrorIs(t, err, tt.wantIs)

			var cfgErr *ConfigError
			assert.Equal(t, tt.wantConfig, errors.As(err, &cfgErr))
			if tt.wantConfig {
				assert.Equal(t, tt.tpl.Name, cfgErr.Template)
				assert.Contains(t, err.Error(), ContentPlaceholder)
			}
		})
	}

	assert.ErrorIs(t, ErrMissingTemplate, ErrConfig)
}

func TestMergeAcceptsPointers(t *testing.T) {
	r := sampleResume()
	out, err := Merge(&r, DefaultTemplate)
	require.NoError(t, err)
	assert.Contains(t, out, `\section*{Experience}`)
}

func TestMergeDropsDuplicateMarkers(t *testing.T) {
	tpl := types.Template{Content: "\\documentclass{article}\n\\begin{document}\n{{RESUME_CONTENT}}\n\\end{document}\n\\begin{document}\n\\end{document}"}

	out, err := Merge(types.FreeformResume{Text: "OBJECTIVE\nShip it"}, tpl)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(out, `\begin{document}`))
	assert.Equal(t, 1, strings.Count(out, `\end{document}`))
}

func TestMergeRepairsTemplate(t *testing.T) {
	tpl := types.Template{Content: `documentclass{article}\n\begin{document}\n{{RESUME_CONTENT}}\n\end{document}`}

	out, err := Merge(types.FreeformResume{Text: "OBJECTIVE\nShip it"}, tpl)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "\\documentclass{article}\n\\begin{document}\n"))
	assert.Contains(t, out, "Ship it \\\\")
	assert.True(t, strings.HasSuffix(out, "\n\\end{document}"))
}
