// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package latex builds compilable LaTeX documents from resume content and
// stored templates. It escapes untrusted text, repairs templates that were
// corrupted by repeated re-serialization, and substitutes resume content
// into the template's placeholders.
package latex

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/pdiddy/resume-engine/pkg/types"
)

// ContentPlaceholder is the aggregate placeholder replaced by the whole
// rendered resume body.
const ContentPlaceholder = "{{RESUME_CONTENT}}"

const (
	beginDocument = `\begin{document}`
	endDocument   = `\end{document}`

	// lineBreak separates rendered education and job entries.
	lineBreak = " \\\\\n"
)

var (
	// tokenPattern matches a field token such as {{skills}} or {{ skills }}.
	tokenPattern = regexp.MustCompile(`\{\{\s*([A-Za-z][A-Za-z0-9_]*)\s*\}\}`)

	// anyTokenPattern matches every {{...}} token, known or not. Groups
	// holding a command, such as {{\bf x}}, are LaTeX and left alone.
	anyTokenPattern = regexp.MustCompile(`\{\{[^{}\\]*\}\}`)
)

// Merge produces a complete document from resume and tpl. The template is
// repaired first and duplicate document markers are dropped.
//
// A structured resume is substituted field by field into {{field}} tokens
// and, when the template carries ContentPlaceholder, rendered as a full
// body there. A freeform resume requires ContentPlaceholder. Tokens left
// without a value are deleted.
func Merge(resume types.ResumeContent, tpl types.Template) (string, error) {
	resume, err := deref(resume)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(tpl.Content) == "" {
		return "", ErrMissingTemplate
	}

	content := dropDuplicateMarkers(Repair(tpl.Content))
	hasAggregate := hasToken(content, placeholderName)

	var fields map[string]string
	switch r := resume.(type) {
	case types.StructuredResume:
		if !hasAggregate && !tokenPattern.MatchString(content) {
			return "", &ConfigError{Template: tpl.Name, Placeholder: ContentPlaceholder + " or {{field}}"}
		}
		fields = structuredFields(r)
		if hasAggregate {
			fields[placeholderName] = RenderStructured(r)
		}
	case types.FreeformResume:
		if !hasAggregate {
			return "", &ConfigError{Template: tpl.Name, Placeholder: ContentPlaceholder}
		}
		fields = map[string]string{placeholderName: RenderFreeform(r.Text)}
	}

	return substitute(content, fields), nil
}

// placeholderName is the token name inside ContentPlaceholder.
var placeholderName = strings.Trim(ContentPlaceholder, "{}")

// deref normalizes pointer variants and rejects missing resumes.
func deref(resume types.ResumeContent) (types.ResumeContent, error) {
	switch r := resume.(type) {
	case nil:
		return nil, ErrMissingResume
	case *types.StructuredResume:
		if r == nil {
			return nil, ErrMissingResume
		}
		return *r, nil
	case *types.FreeformResume:
		if r == nil {
			return nil, ErrMissingResume
		}
		return *r, nil
	}
	return resume, nil
}

// substitute replaces every token in the template with its field value.
// Unknown and malformed tokens are deleted. Substituted values are not
// rescanned.
func substitute(content string, fields map[string]string) string {
	return anyTokenPattern.ReplaceAllStringFunc(content, func(tok string) string {
		m := tokenPattern.FindStringSubmatch(tok)
		if m == nil || m[0] != tok {
			return ""
		}
		return fields[m[1]]
	})
}

// hasToken reports whether content carries the field token name, spaced
// or not.
func hasToken(content, name string) bool {
	for _, m := range tokenPattern.FindAllStringSubmatch(content, -1) {
		if m[1] == name {
			return true
		}
	}
	return false
}

// dropDuplicateMarkers keeps only the first \begin{document} and the first
// \end{document} after it.
func dropDuplicateMarkers(s string) string {
	s = keepFirst(s, beginDocument)
	return keepFirst(s, endDocument)
}

func keepFirst(s, marker string) string {
	i := strings.Index(s, marker)
	if i < 0 {
		return s
	}
	head := s[:i+len(marker)]
	return head + strings.ReplaceAll(s[i+len(marker):], marker, "")
}

// structuredFields renders each resume field into its token value.
func structuredFields(r types.StructuredResume) map[string]string {
	fields := make(map[string]string, len(r.Extra)+8)
	for k, v := range r.Extra {
		fields[k] = renderExtra(v)
	}
	fields["emails"] = joinSanitized(r.Emails, ", ")
	fields["phones"] = joinSanitized(r.Phones, ", ")
	fields["skills"] = joinSanitized(r.Skills, ", ")
	fields["objective"] = Sanitize(r.Objective)
	fields["education"] = strings.Join(educationLines(r.Education), lineBreak)
	fields["jobHistory"] = strings.Join(jobLines(r.JobHistory), lineBreak)
	fields["contact"] = strings.Join(contactLines(r), lineBreak)
	return fields
}

func joinSanitized(items []string, sep string) string {
	out := make([]string, 0, len(items))
	for _, s := range items {
		if s = Sanitize(strings.TrimSpace(s)); s != "" {
			out = append(out, s)
		}
	}
	return strings.Join(out, sep)
}

func educationLines(entries []types.EducationEntry) []string {
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		line := Sanitize(e.Degree) + " - " + Sanitize(e.School)
		if e.Years != "" {
			line += " (" + Sanitize(e.Years) + ")"
		}
		lines = append(lines, line)
	}
	return lines
}

func jobLines(entries []types.JobEntry) []string {
	lines := make([]string, 0, len(entries))
	for _, j := range entries {
		lines = append(lines, jobHeading(j))
	}
	return lines
}

func jobHeading(j types.JobEntry) string {
	line := Sanitize(j.Title) + " at " + Sanitize(j.Company)
	if j.Dates != "" {
		line += " (" + Sanitize(j.Dates) + ")"
	}
	return line
}

func contactLines(r types.StructuredResume) []string {
	var lines []string
	if s := joinSanitized(r.Emails, ", "); s != "" {
		lines = append(lines, s)
	}
	if s := joinSanitized(r.Phones, ", "); s != "" {
		lines = append(lines, s)
	}
	return lines
}

// renderExtra renders a field outside the known set. Strings and other
// scalars are sanitized, sequences are joined with ", ", and objects are
// serialized to JSON.
func renderExtra(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return Sanitize(x)
	case []any:
		parts := make([]string, 0, len(x))
		for _, el := range x {
			if s := renderExtra(el); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	case []string:
		return joinSanitized(x, ", ")
	case map[string]any:
		b, err := json.Marshal(x)
		if err != nil {
			return ""
		}
		return Sanitize(string(b))
	default:
		return Sanitize(fmt.Sprint(x))
	}
}

// RenderStructured renders a structured resume as a complete document body
// for the aggregate placeholder.
func RenderStructured(r types.StructuredResume) string {
	var b strings.Builder

	if name, ok := r.Extra["name"].(string); ok && strings.TrimSpace(name) != "" {
		b.WriteString("\\begin{center}\n{\\Large \\textbf{" + Sanitize(name) + "}}\n\\end{center}\n\n")
	}

	if lines := contactLines(r); len(lines) > 0 {
		section(&b, "Contact")
		b.WriteString(strings.Join(lines, lineBreak) + "\n\n")
	}
	if r.Objective != "" {
		section(&b, "Objective")
		b.WriteString(Sanitize(r.Objective) + "\n\n")
	}
	if bio, ok := r.Extra["bio"].(string); ok && strings.TrimSpace(bio) != "" {
		section(&b, "Summary")
		b.WriteString(Sanitize(bio) + "\n\n")
	}
	if s := joinSanitized(r.Skills, ", "); s != "" {
		section(&b, "Skills")
		b.WriteString(s + "\n\n")
	}
	if len(r.Education) > 0 {
		section(&b, "Education")
		b.WriteString(strings.Join(educationLines(r.Education), lineBreak) + "\n\n")
	}
	if len(r.JobHistory) > 0 {
		section(&b, "Experience")
		for _, j := range r.JobHistory {
			b.WriteString("\\textbf{" + jobHeading(j) + "}\n")
			var items []string
			for _, resp := range j.Responsibilities {
				if s := Sanitize(strings.TrimSpace(resp)); s != "" {
					items = append(items, s)
				}
			}
			if len(items) > 0 {
				b.WriteString("\\begin{itemize}\n")
				for _, it := range items {
					b.WriteString("\\item " + it + "\n")
				}
				b.WriteString("\\end{itemize}\n")
			}
			b.WriteString("\n")
		}
	}

	for _, k := range extraSections(r.Extra) {
		if s := renderExtra(r.Extra[k]); s != "" {
			section(&b, Sanitize(k))
			b.WriteString(s + "\n\n")
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

// extraSections returns the extra keys rendered as their own sections in
// the aggregate body, in sorted order.
func extraSections(extra map[string]any) []string {
	keys := make([]string, 0, len(extra))
	for k := range extra {
		if k == "name" || k == "bio" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func section(b *strings.Builder, title string) {
	b.WriteString("\\section*{" + title + "}\n")
}
