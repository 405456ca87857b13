// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/pdiddy/resume-engine/internal/resume"
	"github.com/pdiddy/resume-engine/internal/rewrite"
)

type generateRequest struct {
	JobText        string          `json:"jobText"`
	EditableResume json.RawMessage `json:"editableResume"`
	JobAdID        string          `json:"jobAdId"`
	UserID         string          `json:"userId"`
}

// generate tailors a resume to a job ad. With ?unformatted=true the answer
// is plain text, otherwise a structured resume object.
func (s *Server) generate(c *fiber.Ctx) error {
	var req generateRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(fiber.StatusBadRequest, "Invalid request body", err)
	}
	if s.deps.Generator == nil {
		return fail(fiber.StatusServiceUnavailable, "Resume generation is not configured", nil)
	}

	unformatted := c.Query("unformatted") == "true"
	res, err := s.deps.Generator.Generate(c.UserContext(), rewrite.Request{
		JobText:     req.JobText,
		Resume:      req.EditableResume,
		UserID:      req.UserID,
		JobAdID:     req.JobAdID,
		Unformatted: unformatted,
	})
	switch {
	case errors.Is(err, rewrite.ErrMissingInput):
		return fail(fiber.StatusBadRequest, "Missing input data", nil)
	case errors.Is(err, rewrite.ErrUnparseable):
		return fail(fiber.StatusInternalServerError, "Failed to parse AI response", err)
	case err != nil:
		return fail(fiber.StatusInternalServerError, "Internal Server Error", err)
	}

	if unformatted {
		return c.JSON(fiber.Map{"resume": res.Text})
	}
	body, err := resume.Encode(res.Resume)
	if err != nil {
		return fail(fiber.StatusInternalServerError, "Failed to parse AI response", err)
	}
	return c.JSON(fiber.Map{"resume": json.RawMessage(body)})
}

// generationStatus reports progress for (userId, jobAdId). With
// ?unformatted=true it returns the generated text, or "" when none exists.
func (s *Server) generationStatus(c *fiber.Ctx) error {
	jobAdID, userID := c.Query("jobAdId"), c.Query("userId")
	if jobAdID == "" || userID == "" {
		return fail(fiber.StatusBadRequest, "Missing jobAdId or userId", nil)
	}

	st, err := s.deps.Store.Status(c.UserContext(), userID, jobAdID)
	if err != nil {
		return fail(fiber.StatusInternalServerError, "Internal Server Error", err)
	}

	if c.Query("unformatted") == "true" {
		text := st.Resume
		if strings.TrimSpace(text) == "" {
			text = ""
		}
		return c.JSON(fiber.Map{"resume": text})
	}
	return c.JSON(fiber.Map{"status": st.State})
}
