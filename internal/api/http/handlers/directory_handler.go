package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/AttentiveContabilidade/attentive-intranet-api/internal/api/dto"
	"github.com/AttentiveContabilidade/attentive-intranet-api/internal/service"
)

// DirectoryHandler exposes the public colaboradores directory.
type DirectoryHandler struct {
	users   *service.UserService
	courses *service.CourseService
}

// NewDirectoryHandler constructs handler.
func NewDirectoryHandler(users *service.UserService, courses *service.CourseService) *DirectoryHandler {
	return &DirectoryHandler{users: users, courses: courses}
}

// Search handles GET /colaboradores.
func (h *DirectoryHandler) Search(c *fiber.Ctx) error {
	query := c.Query("q")
	departamento := c.Query("departamento")
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 20)

	users, total, err := h.users.SearchDirectory(c.UserContext(), query, departamento, page, limit)
	if err != nil {
		return err
	}
	return c.JSON(dto.DirectoryResponse{
		Items: dto.FromUsers(users),
		Total: total,
		Page:  page,
		Limit: limit,
	})
}

// Profile handles GET /colaboradores/:id. Feedbacks stay off the public
// profile; the active courses of the colaborador's department come along.
func (h *DirectoryHandler) Profile(c *fiber.Ctx) error {
	user, err := h.users.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	user.Feedbacks = nil

	courses, err := h.courses.List(c.UserContext(), user.Departamento, true)
	if err != nil {
		return err
	}
	return c.JSON(dto.ProfileResponse{
		UserResponse:       dto.FromUser(*user),
		CursosDepartamento: dto.FromCourses(courses),
	})
}
