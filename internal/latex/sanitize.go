// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package latex

import (
	"strings"
)

// escapes maps each LaTeX-reserved character to its canonical escape.
var escapes = map[rune]string{
	'\\': `\textbackslash{}`,
	'{':  `\{`,
	'}':  `\}`,
	'$':  `\$`,
	'&':  `\&`,
	'%':  `\%`,
	'#':  `\#`,
	'^':  `\textasciicircum{}`,
	'_':  `\_`,
	'~':  `\textasciitilde{}`,
}

// lineEndings normalizes CRLF and lone CR to LF.
var lineEndings = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// Sanitize escapes untrusted text for embedding in a LaTeX document.
//
// Reserved characters are escaped in a single pass, so the backslashes and
// braces introduced by an escape are never escaped again. Characters outside
// printable ASCII are dropped except newline and tab, line endings become
// "\n", and runs of spaces and tabs collapse to a single space.
func Sanitize(s string) string {
	if s == "" {
		return ""
	}
	s = lineEndings.Replace(s)

	var b strings.Builder
	b.Grow(len(s))
	inSpace := false
	for _, r := range s {
		if r == ' ' || r == '\t' {
			if !inSpace {
				b.WriteByte(' ')
				inSpace = true
			}
			continue
		}
		if r != '\n' && (r < 0x20 || r > 0x7e) {
			continue
		}
		inSpace = false
		if esc, ok := escapes[r]; ok {
			b.WriteString(esc)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// SanitizeValue sanitizes v when it is a string and returns "" otherwise.
func SanitizeValue(v any) string {
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return Sanitize(s)
}
