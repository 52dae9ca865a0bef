package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/AttentiveContabilidade/attentive-intranet-api/internal/api/dto"
	"github.com/AttentiveContabilidade/attentive-intranet-api/internal/service"
	apperrors "github.com/AttentiveContabilidade/attentive-intranet-api/pkg/util"
)

// DepartmentsHandler exposes the organizational taxonomy.
type DepartmentsHandler struct {
	departments *service.DepartmentService
}

// NewDepartmentsHandler constructs handler.
func NewDepartmentsHandler(departments *service.DepartmentService) *DepartmentsHandler {
	return &DepartmentsHandler{departments: departments}
}

// Create handles POST /departamentos.
func (h *DepartmentsHandler) Create(c *fiber.Ctx) error {
	var req dto.DepartmentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("payload inválido", nil)
	}
	dept, err := h.departments.Create(c.UserContext(), req.ToInput())
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.FromDepartment(*dept))
}

// BulkUpsert handles POST /departamentos/bulk.
func (h *DepartmentsHandler) BulkUpsert(c *fiber.Ctx) error {
	var reqs []dto.DepartmentRequest
	if err := c.BodyParser(&reqs); err != nil {
		return apperrors.NewValidationError("payload inválido", nil)
	}
	inputs := make([]service.DepartmentInput, 0, len(reqs))
	for _, r := range reqs {
		inputs = append(inputs, r.ToInput())
	}
	depts, err := h.departments.BulkUpsert(c.UserContext(), inputs)
	if err != nil {
		return err
	}
	return c.JSON(dto.FromDepartments(depts))
}

// List handles GET /departamentos.
func (h *DepartmentsHandler) List(c *fiber.Ctx) error {
	depts, err := h.departments.ListAll(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(dto.FromDepartments(depts))
}

// Get handles GET /departamentos/:slug.
func (h *DepartmentsHandler) Get(c *fiber.Ctx) error {
	dept, err := h.departments.Get(c.UserContext(), c.Params("slug"))
	if err != nil {
		return err
	}
	return c.JSON(dto.FromDepartment(*dept))
}

// Update handles PUT /departamentos/:slug.
func (h *DepartmentsHandler) Update(c *fiber.Ctx) error {
	var req dto.DepartmentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("payload inválido", nil)
	}
	dept, err := h.departments.Update(c.UserContext(), c.Params("slug"), req.ToInput())
	if err != nil {
		return err
	}
	return c.JSON(dto.FromDepartment(*dept))
}

// Delete handles DELETE /departamentos/:slug.
func (h *DepartmentsHandler) Delete(c *fiber.Ctx) error {
	if err := h.departments.Delete(c.UserContext(), c.Params("slug")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
