// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package latex

import (
	"fmt"
	"regexp"
	"strings"
)

// maxCollapsePasses bounds the backslash collapse loop. Each pass halves
// every run of four or more backslashes, so the bound covers runs far
// longer than any stored template carries.
const maxCollapsePasses = 64

// Commands is the vocabulary of control sequences whose leading backslash
// is restored when it has been lost. A name is repaired only when it is
// directly followed by "{" and is not part of a longer word.
var Commands = []string{
	"documentclass", "usepackage", "begin", "end", "section", "subsection",
	"item", "textbf", "textit", "Large", "large", "vspace", "hspace",
	"newline", "pagebreak", "pagestyle", "setstretch", "setlength", "parskip",
	"hypersetup", "definecolor",
}

// TitleCommands are titlesec commands. They are repaired only when they
// stand alone after whitespace or at the start of the text, with an
// optional "*" before the opening brace.
var TitleCommands = []string{"titleformat", "titlespacing", "titlerule"}

// RepairOptions extends the built-in vocabularies.
type RepairOptions struct {
	ExtraCommands      []string
	ExtraTitleCommands []string
}

// Report is the outcome of a repair: the repaired content plus what was
// changed and what still looks wrong.
type Report struct {
	Content  string   `json:"content"`
	Fixes    []string `json:"fixes,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// Changed reports whether any fix was applied.
func (r Report) Changed() bool { return len(r.Fixes) > 0 }

// Repair returns raw with common storage corruption undone. It is
// idempotent: Repair(Repair(t)) == Repair(t).
func Repair(raw string) string {
	return RepairReport(raw).Content
}

// RepairReport repairs raw with the built-in vocabularies and reports the
// fixes applied and the structural warnings left.
func RepairReport(raw string) Report {
	return RepairWith(raw, RepairOptions{})
}

// RepairWith repairs raw using the built-in vocabularies extended by opts.
//
// The repair is regex-driven and best effort. A vocabulary word used in
// prose directly before "{" (for example "the begin{" in a comment) is
// rewritten as a command.
func RepairWith(raw string, opts RepairOptions) Report {
	var rep Report
	s := raw

	s, n := collapseBackslashes(s)
	if n > 0 {
		rep.Fixes = append(rep.Fixes, fmt.Sprintf("collapsed over-escaped backslashes (%d passes)", n))
	}

	s, n = unescapeNewlines(s)
	if n > 0 {
		rep.Fixes = append(rep.Fixes, fmt.Sprintf("converted %d escaped newlines", n))
	}

	for _, cmd := range append(append([]string{}, Commands...), opts.ExtraCommands...) {
		s, n = restoreCommand(s, cmd, false)
		if n > 0 {
			rep.Fixes = append(rep.Fixes, fmt.Sprintf(`restored \%s (%d)`, cmd, n))
		}
	}
	for _, cmd := range append(append([]string{}, TitleCommands...), opts.ExtraTitleCommands...) {
		s, n = restoreCommand(s, cmd, true)
		if n > 0 {
			rep.Fixes = append(rep.Fixes, fmt.Sprintf(`restored \%s (%d)`, cmd, n))
		}
	}

	rep.Content = s
	rep.Warnings = Validate(s)
	return rep
}

// collapseBackslashes replaces "\\\\" with "\\" until no run of four
// backslashes remains, returning the number of passes that changed s.
func collapseBackslashes(s string) (string, int) {
	passes := 0
	for passes < maxCollapsePasses && strings.Contains(s, `\\\\`) {
		s = strings.ReplaceAll(s, `\\\\`, `\\`)
		passes++
	}
	return s, passes
}

// unescapeNewlines turns the two characters `\n` into a newline. The
// sequence is left alone when it starts a command name (`\newline`,
// `\noindent`) or when its backslash is itself escaped (`\\n` is a line
// break followed by the letter n).
func unescapeNewlines(s string) (string, int) {
	if !strings.Contains(s, `\n`) {
		return s, 0
	}
	var b strings.Builder
	b.Grow(len(s))
	count := 0
	run := 0 // length of the backslash run ending at the previous byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '\\' && i+1 < len(s) && s[i+1] == 'n' && run%2 == 0 &&
			(i+2 >= len(s) || !isLetter(s[i+2])) {
			b.WriteByte('\n')
			i++
			count++
			run = 0
			continue
		}
		if c == '\\' {
			run++
		} else {
			run = 0
		}
		b.WriteByte(c)
	}
	return b.String(), count
}

var commandPatterns = map[string]*regexp.Regexp{}

func commandPattern(cmd string, title bool) *regexp.Regexp {
	key := cmd
	if title {
		key = "*" + cmd
	}
	if re, ok := commandPatterns[key]; ok {
		return re
	}
	expr := regexp.QuoteMeta(cmd) + `\{`
	if title {
		expr = regexp.QuoteMeta(cmd) + `\*?\{`
	}
	return regexp.MustCompile(expr)
}

func init() {
	for _, cmd := range Commands {
		commandPatterns[cmd] = commandPattern(cmd, false)
	}
	for _, cmd := range TitleCommands {
		commandPatterns["*"+cmd] = commandPattern(cmd, true)
	}
}

// restoreCommand inserts a backslash before each bare occurrence of cmd.
// The preceding byte is checked outside the regexp so adjacent matches
// are all found in one pass.
func restoreCommand(s, cmd string, title bool) (string, int) {
	matches := commandPattern(cmd, title).FindAllStringIndex(s, -1)
	if len(matches) == 0 {
		return s, 0
	}
	var b strings.Builder
	b.Grow(len(s) + len(matches))
	last, count := 0, 0
	for _, m := range matches {
		start := m[0]
		if start > 0 {
			prev := s[start-1]
			if title && !isSpace(prev) {
				continue
			}
			if !title && (prev == '\\' || isLetter(prev)) {
				continue
			}
		}
		b.WriteString(s[last:start])
		b.WriteByte('\\')
		last = start
		count++
	}
	b.WriteString(s[last:])
	return b.String(), count
}

// Validate checks the structural invariants of a template and returns a
// warning for each one that fails. An empty result means the template is
// plausible; it does not mean it compiles.
func Validate(s string) []string {
	var warnings []string
	if !strings.Contains(s, `\documentclass`) {
		warnings = append(warnings, `missing \documentclass declaration`)
	}
	if n := strings.Count(s, beginDocument); n != 1 {
		warnings = append(warnings, fmt.Sprintf(`expected one \begin{document}, found %d`, n))
	}
	if n := strings.Count(s, endDocument); n != 1 {
		warnings = append(warnings, fmt.Sprintf(`expected one \end{document}, found %d`, n))
	}
	if d := braceDepth(s); d != 0 {
		warnings = append(warnings, fmt.Sprintf("unbalanced braces (depth %+d at end)", d))
	}
	return append(warnings, placeholderWarnings(s)...)
}

// placeholderWarnings checks that a template using the aggregate
// placeholder carries exactly one, inside the document body.
func placeholderWarnings(s string) []string {
	var at []int
	for _, loc := range tokenPattern.FindAllStringSubmatchIndex(s, -1) {
		if s[loc[2]:loc[3]] == placeholderName {
			at = append(at, loc[0])
		}
	}
	if len(at) == 0 {
		return nil
	}

	var warnings []string
	if len(at) > 1 {
		warnings = append(warnings, fmt.Sprintf("expected one %s, found %d", ContentPlaceholder, len(at)))
	}
	begin := strings.Index(s, beginDocument)
	if begin < 0 {
		return warnings
	}
	end := strings.Index(s[begin:], endDocument)
	if end < 0 {
		return warnings
	}
	end += begin
	for _, i := range at {
		if i < begin || i > end {
			warnings = append(warnings, fmt.Sprintf(`%s outside \begin{document}...\end{document}`, ContentPlaceholder))
			break
		}
	}
	return warnings
}

// braceDepth returns the final nesting depth of unescaped braces, ignoring
// comments. A negative value means a closing brace had no opener.
func braceDepth(s string) int {
	depth, run := 0, 0
	inComment := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inComment {
			if c == '\n' {
				inComment = false
			}
			continue
		}
		escaped := run%2 == 1
		switch {
		case c == '\\':
			run++
			continue
		case c == '%' && !escaped:
			inComment = true
		case c == '{' && !escaped:
			depth++
		case c == '}' && !escaped:
			depth--
		}
		run = 0
	}
	return depth
}

func isLetter(c byte) bool { return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }

func isSpace(c byte) bool { return c == ' ' || c == '\t' || c == '\n' || c == '\r' }
