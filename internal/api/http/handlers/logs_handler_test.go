package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AttentiveContabilidade/attentive-intranet-api/internal/domain"
	"github.com/AttentiveContabilidade/attentive-intranet-api/internal/service"
	apperrors "github.com/AttentiveContabilidade/attentive-intranet-api/pkg/util"
)

// memLogRepo keeps activity entries in insertion order.
type memLogRepo struct {
	entries []domain.ActivityLog
}

func (r *memLogRepo) Insert(_ context.Context, entry *domain.ActivityLog) error {
	entry.ID = "log-1"
	entry.TS = time.Now()
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *memLogRepo) InsertMany(_ context.Context, entries []domain.ActivityLog) error {
	r.entries = append(r.entries, entries...)
	return nil
}

func (r *memLogRepo) Recent(_ context.Context, limit int) ([]domain.ActivityLog, error) {
	if limit > len(r.entries) {
		limit = len(r.entries)
	}
	return r.entries[:limit], nil
}

func logsTestApp(repo *memLogRepo) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if err := c.Next(); err != nil {
			domainErr := apperrors.ToDomainError(err)
			return c.Status(domainErr.HTTPStatus).JSON(fiber.Map{"code": domainErr.Code})
		}
		return nil
	})
	handler := NewLogsHandler(service.NewLogService(repo))
	app.Post("/logs", handler.Create)
	app.Post("/logs/bulk", handler.BulkCreate)
	app.Get("/logs", handler.List)
	return app
}

func TestLogsBulkCreate(t *testing.T) {
	repo := &memLogRepo{}
	app := logsTestApp(repo)

	resp := postJSON(t, app, "/logs/bulk", `[
		{"source":"crawler","action":"nota_baixada","meta":{"cnpj":"12345678000195"}},
		{"source":"crawler","action":"login_prefeitura","ok":false}
	]`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var body struct {
		Inserted int `json:"inserted"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, 2, body.Inserted)

	require.Len(t, repo.entries, 2)
	assert.Equal(t, "nota_baixada", repo.entries[0].Action)
	assert.True(t, repo.entries[0].OK)
	assert.False(t, repo.entries[1].OK)
	assert.NotNil(t, repo.entries[1].Meta)
}

func TestLogsBulkCreateRejectsMissingAction(t *testing.T) {
	repo := &memLogRepo{}
	app := logsTestApp(repo)

	resp := postJSON(t, app, "/logs/bulk", `[{"source":"crawler","action":"ok"},{"source":"crawler"}]`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Empty(t, repo.entries)
}

func TestLogsBulkCreateRejectsNonArrayPayload(t *testing.T) {
	app := logsTestApp(&memLogRepo{})

	resp := postJSON(t, app, "/logs/bulk", `{"source":"crawler","action":"ok"}`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
