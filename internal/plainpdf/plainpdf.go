// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package plainpdf draws a resume straight into a PDF page with the core
// fonts, without a typesetting engine. It backs the "pdf" output format.
package plainpdf

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/pdiddy/resume-engine/pkg/types"
)

// ErrNoResume is returned when there is nothing to draw.
var ErrNoResume = errors.New("no resume to render")

const (
	fontFamily  = "Helvetica"
	titleSize   = 18
	headingSize = 13
	bodySize    = 11
	lineHeight  = 6
	margin      = 20
)

// LineKind classifies a drawn line.
type LineKind int

const (
	KindTitle LineKind = iota
	KindHeading
	KindText
	KindBullet
)

// Line is one entry of the page layout.
type Line struct {
	Kind LineKind
	Text string
}

// Lines lays out a resume as the sequence of lines Render draws. Empty
// sections are omitted.
func Lines(r types.ResumeContent) ([]Line, error) {
	switch v := r.(type) {
	case types.StructuredResume:
		return structuredLines(v), nil
	case *types.StructuredResume:
		if v != nil {
			return structuredLines(*v), nil
		}
	case types.FreeformResume:
		return freeformLines(v.Text), nil
	case *types.FreeformResume:
		if v != nil {
			return freeformLines(v.Text), nil
		}
	}
	return nil, ErrNoResume
}

func structuredLines(r types.StructuredResume) []Line {
	lines := []Line{{KindTitle, "Resume"}}
	if len(r.Emails) > 0 {
		lines = append(lines, Line{KindText, "Emails: " + strings.Join(r.Emails, ", ")})
	}
	if len(r.Phones) > 0 {
		lines = append(lines, Line{KindText, "Phones: " + strings.Join(r.Phones, ", ")})
	}
	if r.Objective != "" {
		lines = append(lines, Line{KindHeading, "Objective:"}, Line{KindText, r.Objective})
	}
	if len(r.Skills) > 0 {
		lines = append(lines, Line{KindHeading, "Skills:"}, Line{KindText, strings.Join(r.Skills, ", ")})
	}
	if len(r.Education) > 0 {
		lines = append(lines, Line{KindHeading, "Education:"})
		for _, e := range r.Education {
			lines = append(lines, Line{KindText, fmt.Sprintf("%s - %s (%s)", e.Degree, e.School, e.Years)})
		}
	}
	if len(r.JobHistory) > 0 {
		lines = append(lines, Line{KindHeading, "Job History:"})
		for _, j := range r.JobHistory {
			lines = append(lines, Line{KindText, fmt.Sprintf("%s at %s (%s)", j.Title, j.Company, j.Dates)})
			for _, resp := range j.Responsibilities {
				lines = append(lines, Line{KindBullet, " - " + resp})
			}
		}
	}
	if bio, ok := r.Extra["bio"].(string); ok && bio != "" {
		lines = append(lines, Line{KindHeading, "Bio:"}, Line{KindText, bio})
	}
	return lines
}

func freeformLines(text string) []Line {
	lines := []Line{{KindTitle, "Resume"}}
	for _, l := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		l = strings.TrimSpace(l)
		if l == "" {
			continue
		}
		kind := KindText
		if strings.ToUpper(l) == l && strings.ToLower(l) != l {
			kind = KindHeading
		}
		lines = append(lines, Line{kind, l})
	}
	return lines
}

// Render draws r onto A4 pages and returns the PDF bytes. Text outside
// the core font encoding is transliterated where possible.
func Render(r types.ResumeContent) ([]byte, error) {
	lines, err := Lines(r)
	if err != nil {
		return nil, err
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(true, margin)
	pdf.SetCreator("resume-engine", true)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	for _, l := range lines {
		switch l.Kind {
		case KindTitle:
			pdf.SetFont(fontFamily, "B", titleSize)
			pdf.CellFormat(0, lineHeight*2, tr(l.Text), "", 1, "C", false, 0, "")
			pdf.Ln(lineHeight / 2)
		case KindHeading:
			pdf.Ln(lineHeight / 2)
			pdf.SetFont(fontFamily, "B", headingSize)
			pdf.MultiCell(0, lineHeight, tr(l.Text), "", "L", false)
		case KindBullet:
			pdf.SetFont(fontFamily, "", bodySize)
			pdf.SetX(margin + 5)
			pdf.MultiCell(0, lineHeight, tr(l.Text), "", "L", false)
		default:
			pdf.SetFont(fontFamily, "", bodySize)
			pdf.MultiCell(0, lineHeight, tr(l.Text), "", "L", false)
		}
	}

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("drawing resume: %w", err)
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("writing PDF: %w", err)
	}
	return buf.Bytes(), nil
}
