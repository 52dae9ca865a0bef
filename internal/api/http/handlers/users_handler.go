package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/AttentiveContabilidade/attentive-intranet-api/internal/api/dto"
	"github.com/AttentiveContabilidade/attentive-intranet-api/internal/service"
	apperrors "github.com/AttentiveContabilidade/attentive-intranet-api/pkg/util"
)

// UsersHandler exposes colaborador account management.
type UsersHandler struct {
	users *service.UserService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(users *service.UserService) *UsersHandler {
	return &UsersHandler{users: users}
}

// Create handles POST /usuarios.
func (h *UsersHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("payload inválido", nil)
	}

	user, err := h.users.Create(c.UserContext(), service.CreateUserInput{
		Nome:           req.Nome,
		Sobrenome:      req.Sobrenome,
		Email:          req.Email,
		Senha:          req.Senha,
		Departamento:   req.Departamento,
		BioPublica:     req.BioPublica,
		AvatarURL:      req.AvatarURL,
		FotoBoasVindas: req.FotoBoasVindas,
		WelcomeNotes:   req.WelcomeNotes,
		Roles:          req.Roles,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.FromUser(*user))
}

// List handles GET /usuarios.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	skip := c.QueryInt("skip", 0)
	limit := c.QueryInt("limit", 50)

	users, err := h.users.List(c.UserContext(), skip, limit)
	if err != nil {
		return err
	}
	return c.JSON(dto.FromUsers(users))
}

// Get handles GET /usuarios/:id.
func (h *UsersHandler) Get(c *fiber.Ctx) error {
	user, err := h.users.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.FromUser(*user))
}

// Update handles PATCH /usuarios/:id.
func (h *UsersHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("payload inválido", nil)
	}

	user, err := h.users.Update(c.UserContext(), c.Params("id"), service.UpdateUserInput{
		Nome:         req.Nome,
		Sobrenome:    req.Sobrenome,
		Email:        req.Email,
		Senha:        req.Senha,
		Departamento: req.Departamento,
		BioPublica:   req.BioPublica,
		Ativo:        req.Ativo,
		Roles:        req.Roles,
	})
	if err != nil {
		return err
	}
	return c.JSON(dto.FromUser(*user))
}

// Delete handles DELETE /usuarios/:id.
func (h *UsersHandler) Delete(c *fiber.Ctx) error {
	if err := h.users.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// SetAvatar handles PUT /usuarios/:id/avatar.
func (h *UsersHandler) SetAvatar(c *fiber.Ctx) error {
	var req dto.AvatarRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("payload inválido", nil)
	}
	user, err := h.users.SetAvatar(c.UserContext(), c.Params("id"), req.AvatarURL)
	if err != nil {
		return err
	}
	return c.JSON(dto.FromUser(*user))
}

// SetDescricao handles PUT /usuarios/:id/descricao.
func (h *UsersHandler) SetDescricao(c *fiber.Ctx) error {
	var req dto.DescricaoRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("payload inválido", nil)
	}
	user, err := h.users.SetDescricao(c.UserContext(), c.Params("id"), req.DescricaoHTML)
	if err != nil {
		return err
	}
	return c.JSON(dto.FromUser(*user))
}

// AddFeedback handles POST /usuarios/:id/feedbacks.
func (h *UsersHandler) AddFeedback(c *fiber.Ctx) error {
	var req dto.FeedbackRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("payload inválido", nil)
	}
	fb, err := h.users.AddFeedback(c.UserContext(), c.Params("id"), req.Msg, req.Autor)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.FeedbackResponse{
		ID:        fb.ID,
		Msg:       fb.Msg,
		Autor:     fb.Autor,
		CreatedAt: fb.CreatedAt,
	})
}

// ToggleCourse handles POST /usuarios/:id/cursos/:cursoId/toggle. The stored
// state decides the direction of the flip; the body only names the course.
func (h *UsersHandler) ToggleCourse(c *fiber.Ctx) error {
	var req dto.ToggleCourseRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return apperrors.NewValidationError("payload inválido", nil)
		}
	}
	user, err := h.users.ToggleCourse(c.UserContext(), c.Params("id"), c.Params("cursoId"), req.Nome)
	if err != nil {
		return err
	}
	return c.JSON(dto.FromUser(*user))
}
