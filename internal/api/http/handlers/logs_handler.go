package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/AttentiveContabilidade/attentive-intranet-api/internal/api/dto"
	"github.com/AttentiveContabilidade/attentive-intranet-api/internal/domain"
	"github.com/AttentiveContabilidade/attentive-intranet-api/internal/service"
	apperrors "github.com/AttentiveContabilidade/attentive-intranet-api/pkg/util"
)

// LogsHandler exposes the free-form activity log.
type LogsHandler struct {
	logs *service.LogService
}

// NewLogsHandler constructs handler.
func NewLogsHandler(logs *service.LogService) *LogsHandler {
	return &LogsHandler{logs: logs}
}

// Create handles POST /logs.
func (h *LogsHandler) Create(c *fiber.Ctx) error {
	var req dto.LogRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("payload inválido", nil)
	}

	ok := true
	if req.OK != nil {
		ok = *req.OK
	}
	entry, err := h.logs.Record(c.UserContext(), req.Source, req.Action, ok, req.Meta)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.FromActivityLog(*entry))
}

// BulkCreate handles POST /logs/bulk. The crawler flushes its buffered
// entries in one request.
func (h *LogsHandler) BulkCreate(c *fiber.Ctx) error {
	var reqs []dto.LogRequest
	if err := c.BodyParser(&reqs); err != nil {
		return apperrors.NewValidationError("payload inválido", nil)
	}

	entries := make([]domain.ActivityLog, 0, len(reqs))
	for _, r := range reqs {
		ok := true
		if r.OK != nil {
			ok = *r.OK
		}
		entries = append(entries, domain.ActivityLog{
			Source: r.Source,
			Action: r.Action,
			OK:     ok,
			Meta:   r.Meta,
		})
	}
	if err := h.logs.RecordBatch(c.UserContext(), entries); err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"inserted": len(entries)})
}

// List handles GET /logs.
func (h *LogsHandler) List(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 100)
	entries, err := h.logs.Recent(c.UserContext(), limit)
	if err != nil {
		return err
	}
	return c.JSON(dto.FromActivityLogs(entries))
}
