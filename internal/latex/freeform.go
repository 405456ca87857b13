// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package latex

import (
	"regexp"
	"strings"
)

// SectionKeywords are the words that make an all-caps line a section header.
var SectionKeywords = []string{
	"SUMMARY", "SKILLS", "EDUCATION", "EXPERIENCE", "OBJECTIVE", "CONTACT",
	"PROGRAMMING", "LANGUAGES", "TECHNOLOGIES", "COMPETENCIES",
	"CERTIFICATIONS", "PROJECTS",
}

const (
	headerScanLines = 5
	maxContactLines = 3

	// shortLine is the longest line treated as a label or heading inside a
	// section.
	shortLine = 60
)

var (
	headerPattern  = regexp.MustCompile(`^[A-Z\s&-]+$`)
	phonePattern   = regexp.MustCompile(`\+?\d[\d\s().-]{6,}\d`)
	digitToken     = regexp.MustCompile(`(^|\s)\d`)
	yearPattern    = regexp.MustCompile(`\b\d{4}\b`)
	bulletPrefixes = []string{"- ", "* ", "+ "}
)

type sectionKind int

const (
	sectionNone sectionKind = iota
	sectionSkills
	sectionExperience
	sectionEducation
)

// RenderFreeform turns plain resume text into LaTeX body markup.
//
// The text is sanitized and split into lines. A name and up to three
// contact lines near the top become a centered header. All-caps lines that
// contain a section keyword become section headings, and the lines under
// each heading are rendered according to the kind of section.
func RenderFreeform(text string) string {
	lines := strings.Split(Sanitize(text), "\n")
	for i := range lines {
		lines[i] = strings.TrimSpace(lines[i])
	}

	header, body := splitHeader(lines)

	r := &freeformRenderer{}
	r.header(header)
	for _, line := range body {
		r.line(line)
	}
	r.closeList()
	return strings.TrimRight(r.b.String(), "\n")
}

type headerBlock struct {
	name    string
	contact []string
}

// splitHeader extracts the name and contact block from the top of the text
// and returns the remaining lines.
func splitHeader(lines []string) (headerBlock, []string) {
	var h headerBlock
	nameIdx := -1
	for i := 0; i < len(lines) && i < headerScanLines; i++ {
		l := lines[i]
		if l == "" {
			continue
		}
		if isSectionHeader(l) {
			break
		}
		if isNameLine(l) {
			nameIdx = i
			h.name = l
			break
		}
	}
	if nameIdx < 0 {
		return h, lines
	}

	consumed := make([]bool, len(lines))
	consumed[nameIdx] = true
	// Contact lines printed above the name belong to the header too.
	for i := 0; i < nameIdx; i++ {
		if isContactLine(lines[i]) {
			h.contact = append(h.contact, lines[i])
			consumed[i] = true
		}
	}
	// Lines such as a job title may sit between the name and the contact
	// block; the block ends at the first non-contact line after it starts.
	end := min(len(lines), nameIdx+1+headerScanLines)
	for i := nameIdx + 1; i < end && len(h.contact) < maxContactLines; i++ {
		l := lines[i]
		if l == "" {
			continue
		}
		if isSectionHeader(l) {
			break
		}
		if !isContactLine(l) {
			if len(h.contact) > 0 {
				break
			}
			continue
		}
		h.contact = append(h.contact, l)
		consumed[i] = true
	}

	rest := make([]string, 0, len(lines))
	for i, l := range lines {
		if !consumed[i] {
			rest = append(rest, l)
		}
	}
	return h, rest
}

func isNameLine(l string) bool {
	return !strings.Contains(l, "@") &&
		!strings.ContainsAny(l, "()") &&
		!digitToken.MatchString(l)
}

func isContactLine(l string) bool {
	return strings.Contains(l, "@") ||
		strings.ContainsAny(l, "()") ||
		phonePattern.MatchString(l)
}

// plain undoes the escapes of characters allowed in section headers so
// classification sees the text as written.
func plain(l string) string {
	return strings.ReplaceAll(l, `\&`, "&")
}

// isSectionHeader reports whether l is an all-caps line naming a known
// section.
func isSectionHeader(l string) bool {
	p := plain(l)
	if len(p) <= 2 || !headerPattern.MatchString(p) {
		return false
	}
	for _, kw := range SectionKeywords {
		if strings.Contains(p, kw) {
			return true
		}
	}
	return false
}

func classifySection(header string) sectionKind {
	p := plain(header)
	switch {
	case containsAny(p, "EXPERIENCE", "PROJECTS"):
		return sectionExperience
	case strings.Contains(p, "EDUCATION"):
		return sectionEducation
	case containsAny(p, "SKILLS", "TECHNOLOGIES", "PROGRAMMING", "LANGUAGES", "COMPETENCIES"):
		return sectionSkills
	}
	return sectionNone
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// isShortCaps reports whether l is a short line with letters, all upper case.
func isShortCaps(l string) bool {
	p := plain(l)
	return len(p) <= shortLine && strings.ToUpper(p) == p && strings.ToLower(p) != p
}

func isDateLine(l string) bool {
	if !strings.Contains(l, ",") {
		return false
	}
	return yearPattern.MatchString(l) || strings.Contains(l, "Current") || strings.Contains(l, "Present")
}

type freeformRenderer struct {
	b       strings.Builder
	section sectionKind
	inList  bool
}

func (r *freeformRenderer) header(h headerBlock) {
	if h.name == "" && len(h.contact) == 0 {
		return
	}
	r.b.WriteString("\\begin{center}\n")
	if h.name != "" {
		r.b.WriteString("{\\Large \\textbf{" + h.name + "}}")
		if len(h.contact) > 0 {
			r.b.WriteString(" \\\\[4pt]")
		}
		r.b.WriteString("\n")
	}
	if len(h.contact) > 0 {
		r.b.WriteString(strings.Join(h.contact, " $|$ ") + "\n")
	}
	r.b.WriteString("\\end{center}\n\n")
}

func (r *freeformRenderer) line(l string) {
	if l == "" {
		return
	}
	if isSectionHeader(l) {
		r.closeList()
		r.section = classifySection(l)
		r.b.WriteString("\\section*{" + l + "}\n")
		return
	}

	switch r.section {
	case sectionSkills:
		if isShortCaps(l) && strings.HasSuffix(l, ":") {
			r.label(l)
			return
		}
		r.item(l)
	case sectionExperience:
		switch {
		case isShortCaps(l):
			r.label(l)
		case isDateLine(l):
			r.closeList()
			r.b.WriteString("\\textit{" + l + "} \\\\\n")
		default:
			r.item(l)
		}
	case sectionEducation:
		if isShortCaps(l) {
			r.label(l)
			return
		}
		r.text(l)
	default:
		r.text(l)
	}
}

func (r *freeformRenderer) label(l string) {
	r.closeList()
	r.b.WriteString("\\textbf{" + l + "} \\\\\n")
}

func (r *freeformRenderer) text(l string) {
	r.closeList()
	r.b.WriteString(l + " \\\\\n")
}

func (r *freeformRenderer) item(l string) {
	if !r.inList {
		r.b.WriteString("\\begin{itemize}\n")
		r.inList = true
	}
	for _, p := range bulletPrefixes {
		l = strings.TrimPrefix(l, p)
	}
	r.b.WriteString("\\item " + l + "\n")
}

func (r *freeformRenderer) closeList() {
	if r.inList {
		r.b.WriteString("\\end{itemize}\n")
		r.inList = false
	}
}
