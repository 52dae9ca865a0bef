package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/AttentiveContabilidade/attentive-intranet-api/internal/api/dto"
	"github.com/AttentiveContabilidade/attentive-intranet-api/internal/auth"
	"github.com/AttentiveContabilidade/attentive-intranet-api/internal/service"
	apperrors "github.com/AttentiveContabilidade/attentive-intranet-api/pkg/util"
)

// AnnouncementsHandler exposes the comunicados feed.
type AnnouncementsHandler struct {
	announcements *service.AnnouncementService
	users         *service.UserService
	tokens        *auth.TokenManager
}

// NewAnnouncementsHandler constructs handler.
func NewAnnouncementsHandler(
	announcements *service.AnnouncementService,
	users *service.UserService,
	tokens *auth.TokenManager,
) *AnnouncementsHandler {
	return &AnnouncementsHandler{announcements: announcements, users: users, tokens: tokens}
}

// Create handles POST /comunicados. The author is the authenticated caller.
func (h *AnnouncementsHandler) Create(c *fiber.Ctx) error {
	var req dto.AnnouncementRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("payload inválido", nil)
	}

	subject, _ := auth.SubjectFromContext(c)
	announcement, err := h.announcements.Create(c.UserContext(), service.AnnouncementInput{
		Tipo:         req.Tipo,
		Titulo:       req.Titulo,
		ConteudoHTML: req.ConteudoHTML,
		Conteudo:     req.Conteudo,
		Imagem:       req.Imagem,
		Visibilidade: req.Visibilidade,
		Tags:         req.Tags,
		Status:       req.Status,
		AutorID:      subject,
		TargetUserID: req.TargetUserID,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.FromAnnouncement(*announcement))
}

// List handles GET /comunicados.
func (h *AnnouncementsHandler) List(c *fiber.Ctx) error {
	filter := service.ListFilter{
		Tipo:         c.Query("tipo"),
		Status:       c.Query("status", "published"),
		Visibilidade: c.Query("visibilidade"),
		AutorID:      c.Query("autor_id"),
		TargetUserID: c.Query("target_user_id"),
		Query:        c.Query("q"),
		Skip:         c.QueryInt("skip", 0),
		Limit:        c.QueryInt("limit", 20),
	}

	items, err := h.announcements.List(c.UserContext(), filter)
	if err != nil {
		return err
	}
	return c.JSON(dto.FromAnnouncementsExpanded(items))
}

// Get handles GET /comunicados/:id.
func (h *AnnouncementsHandler) Get(c *fiber.Ctx) error {
	item, err := h.announcements.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.FromAnnouncementExpanded(*item))
}

// UpdateStatus handles PATCH /comunicados/:id/status.
func (h *AnnouncementsHandler) UpdateStatus(c *fiber.Ctx) error {
	var req dto.AnnouncementStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("payload inválido", nil)
	}
	announcement, err := h.announcements.UpdateStatus(c.UserContext(), c.Params("id"), req.Status)
	if err != nil {
		return err
	}
	return c.JSON(dto.FromAnnouncement(*announcement))
}

// AddComment handles POST /comunicados/:id/comentarios. Authentication is
// optional: a valid bearer token attributes the comment, otherwise the
// provided name (or the fallback) is used.
func (h *AnnouncementsHandler) AddComment(c *fiber.Ctx) error {
	var req dto.CommentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("payload inválido", nil)
	}

	autorID := ""
	autorNome := req.AutorNome
	if subject, ok := auth.OptionalSubject(c, h.tokens); ok {
		autorID = subject
		if user, err := h.users.Get(c.UserContext(), subject); err == nil {
			autorNome = user.Nome
		}
	}

	comment, err := h.announcements.AddComment(c.UserContext(), c.Params("id"), req.Texto, autorID, autorNome)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.CommentFromDomain(*comment))
}
