package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/AttentiveContabilidade/attentive-intranet-api/internal/api/dto"
	"github.com/AttentiveContabilidade/attentive-intranet-api/internal/service"
	apperrors "github.com/AttentiveContabilidade/attentive-intranet-api/pkg/util"
)

// BookkeepingHandler exposes escrituracao records.
type BookkeepingHandler struct {
	records *service.BookkeepingService
}

// NewBookkeepingHandler constructs handler.
func NewBookkeepingHandler(records *service.BookkeepingService) *BookkeepingHandler {
	return &BookkeepingHandler{records: records}
}

// Create handles POST /escrituracao.
func (h *BookkeepingHandler) Create(c *fiber.Ctx) error {
	var req dto.BookkeepingRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("payload inválido", nil)
	}
	rec, err := h.records.Create(c.UserContext(), req.ToInput())
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.FromBookkeeping(*rec))
}

// BulkCreate handles POST /escrituracao/bulk.
func (h *BookkeepingHandler) BulkCreate(c *fiber.Ctx) error {
	var req dto.BulkBookkeepingRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("payload inválido", nil)
	}
	inputs := make([]service.BookkeepingInput, 0, len(req.Items))
	for _, r := range req.Items {
		inputs = append(inputs, r.ToInput())
	}
	result, err := h.records.BulkCreate(c.UserContext(), inputs, req.SkipDuplicates)
	if err != nil {
		return err
	}
	return c.JSON(result)
}

// List handles GET /escrituracao.
func (h *BookkeepingHandler) List(c *fiber.Ctx) error {
	skip := c.QueryInt("skip", 0)
	limit := c.QueryInt("limit", 50)

	records, total, err := h.records.List(c.UserContext(), skip, limit)
	if err != nil {
		return err
	}
	return c.JSON(dto.BookkeepingListResponse{
		Items: dto.FromBookkeepings(records),
		Total: total,
		Skip:  skip,
		Limit: limit,
	})
}

// Get handles GET /escrituracao/:id.
func (h *BookkeepingHandler) Get(c *fiber.Ctx) error {
	rec, err := h.records.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.FromBookkeeping(*rec))
}

// GetByCNPJ handles GET /escrituracao/cnpj/:cnpj.
func (h *BookkeepingHandler) GetByCNPJ(c *fiber.Ctx) error {
	rec, err := h.records.GetByCNPJ(c.UserContext(), c.Params("cnpj"))
	if err != nil {
		return err
	}
	return c.JSON(dto.FromBookkeeping(*rec))
}

// Update handles PUT /escrituracao/:id.
func (h *BookkeepingHandler) Update(c *fiber.Ctx) error {
	var req dto.BookkeepingRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("payload inválido", nil)
	}
	rec, err := h.records.Update(c.UserContext(), c.Params("id"), req.ToInput())
	if err != nil {
		return err
	}
	return c.JSON(dto.FromBookkeeping(*rec))
}

// Delete handles DELETE /escrituracao/:id.
func (h *BookkeepingHandler) Delete(c *fiber.Ctx) error {
	if err := h.records.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
