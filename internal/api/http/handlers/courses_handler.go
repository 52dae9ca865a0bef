package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/AttentiveContabilidade/attentive-intranet-api/internal/api/dto"
	"github.com/AttentiveContabilidade/attentive-intranet-api/internal/auth"
	"github.com/AttentiveContabilidade/attentive-intranet-api/internal/service"
	apperrors "github.com/AttentiveContabilidade/attentive-intranet-api/pkg/util"
)

// CoursesHandler exposes the training catalog.
type CoursesHandler struct {
	courses *service.CourseService
}

// NewCoursesHandler constructs handler.
func NewCoursesHandler(courses *service.CourseService) *CoursesHandler {
	return &CoursesHandler{courses: courses}
}

// Create handles POST /cursos.
func (h *CoursesHandler) Create(c *fiber.Ctx) error {
	var req dto.CourseRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("payload inválido", nil)
	}
	course, err := h.courses.Create(c.UserContext(), req.ToInput())
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.FromCourse(*course))
}

// BulkUpsert handles POST /cursos/bulk.
func (h *CoursesHandler) BulkUpsert(c *fiber.Ctx) error {
	var reqs []dto.CourseRequest
	if err := c.BodyParser(&reqs); err != nil {
		return apperrors.NewValidationError("payload inválido", nil)
	}
	inputs := make([]service.CourseInput, 0, len(reqs))
	for _, r := range reqs {
		inputs = append(inputs, r.ToInput())
	}
	result, err := h.courses.BulkUpsert(c.UserContext(), inputs)
	if err != nil {
		return err
	}
	return c.JSON(result)
}

// List handles GET /cursos.
func (h *CoursesHandler) List(c *fiber.Ctx) error {
	departamento := c.Query("departamento")
	onlyActive := c.QueryBool("ativo", false)

	courses, err := h.courses.List(c.UserContext(), departamento, onlyActive)
	if err != nil {
		return err
	}
	return c.JSON(dto.FromCourses(courses))
}

// Mine handles GET /cursos/me: the caller's department catalog merged with
// their progress.
func (h *CoursesHandler) Mine(c *fiber.Ctx) error {
	subject, ok := auth.SubjectFromContext(c)
	if !ok {
		c.Set(fiber.HeaderWWWAuthenticate, "Bearer")
		return apperrors.NewUnauthorized("token inválido ou expirado")
	}
	items, err := h.courses.CoursesForUser(c.UserContext(), subject)
	if err != nil {
		return err
	}
	return c.JSON(dto.FromCoursesWithProgress(items))
}

// Get handles GET /cursos/:slug.
func (h *CoursesHandler) Get(c *fiber.Ctx) error {
	course, err := h.courses.Get(c.UserContext(), c.Params("slug"))
	if err != nil {
		return err
	}
	return c.JSON(dto.FromCourse(*course))
}

// Update handles PUT /cursos/:slug.
func (h *CoursesHandler) Update(c *fiber.Ctx) error {
	var req dto.CourseRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("payload inválido", nil)
	}
	course, err := h.courses.Update(c.UserContext(), c.Params("slug"), req.ToInput())
	if err != nil {
		return err
	}
	return c.JSON(dto.FromCourse(*course))
}

// Delete handles DELETE /cursos/:slug.
func (h *CoursesHandler) Delete(c *fiber.Ctx) error {
	if err := h.courses.Delete(c.UserContext(), c.Params("slug")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
