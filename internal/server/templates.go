// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"errors"
	"io"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/pdiddy/resume-engine/internal/store"
	"github.com/pdiddy/resume-engine/pkg/types"
)

func (s *Server) listTemplates(c *fiber.Ctx) error {
	templates, err := s.deps.Store.Templates(c.UserContext())
	if err != nil {
		return fail(fiber.StatusInternalServerError, "Failed to load templates.", err)
	}
	if templates == nil {
		templates = []types.Template{}
	}
	return c.JSON(fiber.Map{"templates": templates})
}

func (s *Server) getTemplate(c *fiber.Ctx) error {
	t, err := s.deps.Store.Template(c.UserContext(), c.Params("id"))
	if err != nil {
		return fail(StatusFor(err), "Template not found", err)
	}
	return c.JSON(t)
}

func (s *Server) createTemplate(c *fiber.Ctx) error {
	var req types.Template
	if err := c.BodyParser(&req); err != nil {
		return fail(fiber.StatusBadRequest, "Invalid request body", err)
	}
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Content) == "" {
		return fail(fiber.StatusBadRequest, "Missing template name or content", nil)
	}
	t, err := s.deps.Store.PutTemplate(c.UserContext(), req)
	if err != nil {
		return fail(fiber.StatusInternalServerError, "Failed to save template", err)
	}
	return c.Status(fiber.StatusCreated).JSON(t)
}

func (s *Server) repairTemplates(c *fiber.Ctx) error {
	fixes, err := s.deps.Store.RepairTemplates(c.UserContext(), io.Discard)
	if errors.Is(err, store.ErrNoTemplates) {
		return fail(fiber.StatusNotFound, "No templates found", nil)
	}
	if err != nil {
		return fail(fiber.StatusInternalServerError, "Failed to fix templates", err)
	}
	return c.JSON(fiber.Map{
		"message": "Templates fixed successfully",
		"fixes":   fixes,
	})
}
