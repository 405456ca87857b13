// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rewrite

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"text/template"
)

// plainPromptTmpl asks for a plain-text resume with all-caps section
// headers, which the freeform renderer understands.
var plainPromptTmpl = template.Must(template.New("plain").Parse(`You are an expert resume writer. Rewrite the resume below as a plain text resume tailored to the job description, focused on achievements and friendly to applicant tracking systems.

Output rules:
- Plain text only. No JSON, markdown, code blocks, backticks, bold, italics, or links.
- No bullet symbols. Use line breaks and spacing for structure.
- Section headers in ALL CAPS, for example OBJECTIVE, SKILLS, EDUCATION, EXPERIENCE.
- The whole resume must be under {{.MaxChars}} characters including spaces and line breaks. Summarize or drop less relevant details to fit.

Content rules:
- Open with a summary that names the company and role.
- Prefer skills, experience, and keywords from the job description.
- Use action verbs and quantify results where possible.
- Put the most relevant experience first.

Original resume:
{{.Resume}}

Job description:
{{.JobText}}
`))

// jsonPromptTmpl asks for a structured resume as a single JSON object.
var jsonPromptTmpl = template.Must(template.New("json").Parse(`You are a resume generator. Rewrite and improve the resume below for the job description.

Return only a JSON object of this shape:
{
  "emails": [...],
  "phones": [...],
  "objective": "...",
  "skills": [...],
  "education": [{"school": "...", "degree": "...", "years": "..."}],
  "jobHistory": [{"company": "...", "title": "...", "dates": "...", "responsibilities": [...]}]
}

Requirements:
- Tailor the content to the job description and fix grammar.
- Write the objective for this specific job.
- Give every job at least one responsibility; write a short role summary from the company and title when none exists.
- Keep exactly the structure above. No markdown, backticks, or text outside the JSON.

Original resume:
{{.Resume}}

Job description:
{{.JobText}}
`))

type promptData struct {
	Resume   string
	JobText  string
	MaxChars int
}

func buildPrompt(req Request, maxChars int) (string, error) {
	tmpl := jsonPromptTmpl
	if req.Unformatted {
		tmpl = plainPromptTmpl
	}

	resume := string(req.Resume)
	var indented bytes.Buffer
	if err := json.Indent(&indented, req.Resume, "", "  "); err == nil {
		resume = indented.String()
	}

	var buf bytes.Buffer
	err := tmpl.Execute(&buf, promptData{
		Resume:   resume,
		JobText:  strings.TrimSpace(req.JobText),
		MaxChars: maxChars,
	})
	if err != nil {
		return "", fmt.Errorf("rendering prompt: %w", err)
	}
	return buf.String(), nil
}

var fencePattern = regexp.MustCompile("```(?:json)?")

// CleanOutput removes code fences the model wraps around its answer and
// trims surrounding whitespace.
func CleanOutput(raw string) string {
	return strings.TrimSpace(fencePattern.ReplaceAllString(raw, ""))
}
