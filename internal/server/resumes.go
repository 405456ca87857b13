// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/pdiddy/resume-engine/internal/latex"
	"github.com/pdiddy/resume-engine/internal/plainpdf"
	"github.com/pdiddy/resume-engine/internal/preview"
	"github.com/pdiddy/resume-engine/internal/resume"
	"github.com/pdiddy/resume-engine/pkg/types"
)

const (
	formatLatexPDF = "latex-pdf"
	formatPDF      = "pdf"
)

var unsafeFilename = regexp.MustCompile(`[^A-Za-z0-9._-]`)

type createResumeRequest struct {
	ID     string          `json:"id"`
	UserID string          `json:"userId"`
	Resume json.RawMessage `json:"resume"`
}

func (s *Server) createResume(c *fiber.Ctx) error {
	var req createResumeRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(fiber.StatusBadRequest, "Invalid request body", err)
	}
	content, err := resume.Decode(req.Resume)
	if err != nil {
		return fail(fiber.StatusBadRequest, "Invalid resume data", err)
	}
	if content == nil {
		return fail(fiber.StatusBadRequest, "Missing resume data", nil)
	}

	r, err := s.deps.Store.PutResume(c.UserContext(), types.StoredResume{
		ID:     req.ID,
		UserID: req.UserID,
		Body:   bytes.TrimSpace(req.Resume),
	})
	if err != nil {
		return fail(fiber.StatusInternalServerError, "Failed to save resume", err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": r.ID})
}

func (s *Server) getResume(c *fiber.Ctx) error {
	r, err := s.deps.Store.Resume(c.UserContext(), c.Params("id"))
	if err != nil {
		return fail(StatusFor(err), "Resume not found", err)
	}
	return c.JSON(fiber.Map{
		"id":        r.ID,
		"userId":    r.UserID,
		"resume":    json.RawMessage(r.Body),
		"updatedAt": r.UpdatedAt,
	})
}

type formatRequest struct {
	UserID        string          `json:"userId"`
	ResumeID      string          `json:"resumeId"`
	Format        string          `json:"format"`
	Resume        json.RawMessage `json:"resume"`
	LatexTemplate string          `json:"latexTemplate"`
	TemplateID    string          `json:"templateId"`
}

// formatResume renders a resume as a LaTeX-compiled PDF (degrading to the
// .tex source when compilation is unavailable) or as a plain drawn PDF.
func (s *Server) formatResume(c *fiber.Ctx) error {
	var req formatRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(fiber.StatusBadRequest, "Invalid request body", err)
	}
	if req.ResumeID == "" || req.Format == "" {
		return fail(fiber.StatusBadRequest, "Missing required parameters", nil)
	}

	switch req.Format {
	case formatLatexPDF:
		return s.formatLatex(c, req)
	case formatPDF:
		return s.formatPlain(c, req)
	}
	return fail(fiber.StatusBadRequest, "Only PDF and LaTeX-PDF formats are supported", nil)
}

func (s *Server) formatLatex(c *fiber.Ctx, req formatRequest) error {
	ctx := c.UserContext()
	content, err := resume.Decode(req.Resume)
	if err != nil {
		return fail(fiber.StatusBadRequest, "Invalid resume data", err)
	}
	if content == nil {
		return fail(fiber.StatusBadRequest, "Missing resume data", nil)
	}

	tpl := latex.DefaultTemplate
	switch {
	case strings.TrimSpace(req.LatexTemplate) != "":
		tpl = types.Template{Name: "request", Content: req.LatexTemplate}
	case req.TemplateID != "":
		tpl, err = s.deps.Store.Template(ctx, req.TemplateID)
		if err != nil {
			return fail(StatusFor(err), "Template not found", err)
		}
	}

	doc, err := latex.Merge(content, tpl)
	if err != nil {
		return fail(StatusFor(err), "Invalid template", err)
	}

	res, err := s.deps.Compiler.CompileOrSource(ctx, doc)
	if err != nil {
		return fail(fiber.StatusInternalServerError, "LaTeX compilation failed", err)
	}
	return sendAttachment(c, res.Data, res.ContentType(), "resume_"+req.ResumeID+res.Extension())
}

func (s *Server) formatPlain(c *fiber.Ctx, req formatRequest) error {
	stored, err := s.deps.Store.Resume(c.UserContext(), req.ResumeID)
	if err != nil {
		return fail(StatusFor(err), "Resume not found", err)
	}
	content, err := resume.Decode(stored.Body)
	if err != nil {
		return fail(fiber.StatusInternalServerError, "Stored resume is invalid", err)
	}
	pdf, err := plainpdf.Render(content)
	if err != nil {
		return fail(fiber.StatusInternalServerError, "Failed to generate PDF", err)
	}
	return sendAttachment(c, pdf, preview.TypePDF, "resume_"+req.ResumeID+".pdf")
}

type compileRequest struct {
	LatexContent    string          `json:"latexContent"`
	TemplateContent string          `json:"templateContent"`
	ResumeContent   json.RawMessage `json:"resumeContent"`
}

// compileResume compiles a complete document, or merges a template with a
// resume first, and always answers with a PDF or an error.
func (s *Server) compileResume(c *fiber.Ctx) error {
	var req compileRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(fiber.StatusBadRequest, "Invalid request body", err)
	}

	doc := req.LatexContent
	if strings.TrimSpace(doc) == "" {
		content, err := resume.Decode(req.ResumeContent)
		if err != nil || content == nil || strings.TrimSpace(req.TemplateContent) == "" {
			return fail(fiber.StatusBadRequest, "Missing or invalid LaTeX content.", err)
		}
		doc, err = latex.Merge(content, types.Template{Name: "request", Content: req.TemplateContent})
		if err != nil {
			return fail(StatusFor(err), "Invalid template", err)
		}
	}

	res, err := s.deps.Compiler.Compile(c.UserContext(), doc)
	if err != nil {
		return fail(fiber.StatusInternalServerError, "LaTeX compilation failed", err)
	}
	return sendAttachment(c, res.Data, res.ContentType(), "resume.pdf")
}

// previewResume merges a stored resume with a stored template, compiles it,
// and answers with a PNG of the first page, or the PDF when rasterizing
// fails.
func (s *Server) previewResume(c *fiber.Ctx) error {
	ctx := c.UserContext()
	resumeID, templateID := c.Query("resumeId"), c.Query("templateId")
	if resumeID == "" || templateID == "" {
		return fail(fiber.StatusBadRequest, "Missing resumeId or templateId", nil)
	}

	stored, err := s.deps.Store.Resume(ctx, resumeID)
	if err != nil {
		return fail(StatusFor(err), "Resume or template not found", err)
	}
	tpl, err := s.deps.Store.Template(ctx, templateID)
	if err != nil {
		return fail(StatusFor(err), "Resume or template not found", err)
	}

	content, err := resume.Decode(stored.Body)
	if err != nil {
		return fail(fiber.StatusInternalServerError, "Stored resume is invalid", err)
	}
	doc, err := latex.Merge(content, tpl)
	if err != nil {
		return fail(StatusFor(err), "Invalid template", err)
	}
	res, err := s.deps.Compiler.Compile(ctx, doc)
	if err != nil {
		return fail(fiber.StatusInternalServerError, "Failed to generate preview", err)
	}

	out := res.Data
	if s.deps.Preview != nil {
		out = s.deps.Preview.ToRaster(ctx, res.Data)
	}
	c.Set(fiber.HeaderContentType, preview.ContentType(out))
	return c.Send(out)
}

type downloadRequest struct {
	LatexSource string `json:"latexSource"`
	UserID      string `json:"userId"`
}

// downloadResume compiles a document and uploads the PDF to artifact
// storage, answering with a download URL.
func (s *Server) downloadResume(c *fiber.Ctx) error {
	var req downloadRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(fiber.StatusBadRequest, "Invalid request body", err)
	}
	if strings.TrimSpace(req.LatexSource) == "" || req.UserID == "" {
		return fail(fiber.StatusBadRequest, "Missing latexSource or userId", nil)
	}
	if s.deps.Artifacts == nil {
		return fail(fiber.StatusServiceUnavailable, "Artifact storage is not configured", nil)
	}

	ctx := c.UserContext()
	res, err := s.deps.Compiler.Compile(ctx, req.LatexSource)
	if err != nil {
		return fail(fiber.StatusInternalServerError, "Failed to generate or upload PDF", err)
	}
	a, err := s.deps.Artifacts.UploadPDF(ctx, req.UserID, res.Data)
	if err != nil {
		return fail(fiber.StatusInternalServerError, "Failed to generate or upload PDF", err)
	}
	return c.JSON(fiber.Map{"downloadUrl": a.URL, "key": a.Key})
}

func sendAttachment(c *fiber.Ctx, data []byte, contentType, filename string) error {
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, "attachment; filename="+unsafeFilename.ReplaceAllString(filename, "_"))
	return c.Send(data)
}
