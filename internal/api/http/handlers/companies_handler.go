package handlers

import (
	"crypto/subtle"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/AttentiveContabilidade/attentive-intranet-api/internal/api/dto"
	"github.com/AttentiveContabilidade/attentive-intranet-api/internal/service"
	apperrors "github.com/AttentiveContabilidade/attentive-intranet-api/pkg/util"
)

// CompaniesHandler exposes empresas management and the crawler credentials
// endpoint.
type CompaniesHandler struct {
	companies     *service.CompanyService
	crawlerAPIKey string
}

// NewCompaniesHandler constructs handler.
func NewCompaniesHandler(companies *service.CompanyService, crawlerAPIKey string) *CompaniesHandler {
	return &CompaniesHandler{companies: companies, crawlerAPIKey: crawlerAPIKey}
}

// Create handles POST /empresas.
func (h *CompaniesHandler) Create(c *fiber.Ctx) error {
	var req dto.CompanyRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("payload inválido", nil)
	}
	company, err := h.companies.Create(c.UserContext(), req.ToInput())
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.FromCompany(*company))
}

// BulkCreate handles POST /empresas/bulk.
func (h *CompaniesHandler) BulkCreate(c *fiber.Ctx) error {
	var reqs []dto.CompanyRequest
	if err := c.BodyParser(&reqs); err != nil {
		return apperrors.NewValidationError("payload inválido", nil)
	}
	inputs := make([]service.CompanyInput, 0, len(reqs))
	for _, r := range reqs {
		inputs = append(inputs, r.ToInput())
	}
	result, err := h.companies.BulkCreate(c.UserContext(), inputs)
	if err != nil {
		return err
	}
	return c.JSON(result)
}

// List handles GET /empresas.
func (h *CompaniesHandler) List(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 50)

	companies, total, err := h.companies.List(c.UserContext(), page, limit)
	if err != nil {
		return err
	}
	return c.JSON(dto.CompanyListResponse{
		Items: dto.FromCompanies(companies),
		Total: total,
		Page:  page,
		Limit: limit,
	})
}

// Get handles GET /empresas/:id.
func (h *CompaniesHandler) Get(c *fiber.Ctx) error {
	company, err := h.companies.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.FromCompany(*company))
}

// Update handles PUT /empresas/:id.
func (h *CompaniesHandler) Update(c *fiber.Ctx) error {
	var req dto.CompanyRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("payload inválido", nil)
	}
	company, err := h.companies.Update(c.UserContext(), c.Params("id"), req.ToInput())
	if err != nil {
		return err
	}
	return c.JSON(dto.FromCompany(*company))
}

// Delete handles DELETE /empresas/:id.
func (h *CompaniesHandler) Delete(c *fiber.Ctx) error {
	if err := h.companies.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// Credentials handles GET /empresas/:cnpj/credenciais. Reserved for the tax
// crawler, gated by a static API key instead of a user token.
func (h *CompaniesHandler) Credentials(c *fiber.Ctx) error {
	key := c.Get("X-API-Key")
	if h.crawlerAPIKey == "" || subtle.ConstantTimeCompare([]byte(key), []byte(h.crawlerAPIKey)) != 1 {
		return apperrors.NewUnauthorized("API key inválida")
	}

	creds, err := h.companies.Credentials(c.UserContext(), c.Params("cnpj"))
	if err != nil {
		return err
	}
	return c.JSON(dto.CredentialsResponse{
		LoginMuni: creds.LoginMuni,
		SenhaMuni: creds.SenhaMuni,
		LoginEst:  creds.LoginEst,
		SenhaEst:  creds.SenhaEst,
	})
}
