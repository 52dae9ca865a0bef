package service

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AttentiveContabilidade/attentive-intranet-api/internal/domain"
	"github.com/AttentiveContabilidade/attentive-intranet-api/internal/repository"
	apperrors "github.com/AttentiveContabilidade/attentive-intranet-api/pkg/util"
)

// fakeBookkeepingRepo is an in-memory repository.BookkeepingRepository with
// the same CNPJ uniqueness rule as the real table.
type fakeBookkeepingRepo struct {
	byID   map[string]*domain.BookkeepingRecord
	byCNPJ map[string]*domain.BookkeepingRecord
	nextID int
}

func newFakeBookkeepingRepo() *fakeBookkeepingRepo {
	return &fakeBookkeepingRepo{
		byID:   make(map[string]*domain.BookkeepingRecord),
		byCNPJ: make(map[string]*domain.BookkeepingRecord),
	}
}

func (f *fakeBookkeepingRepo) Create(_ context.Context, rec *domain.BookkeepingRecord) error {
	if _, ok := f.byCNPJ[rec.CNPJ]; ok {
		return repository.ErrDuplicateCNPJ
	}
	f.nextID++
	rec.ID = "esc-" + strconv.Itoa(f.nextID)
	rec.CreatedAt = time.Now()
	rec.UpdatedAt = rec.CreatedAt
	clone := *rec
	f.byID[rec.ID] = &clone
	f.byCNPJ[rec.CNPJ] = &clone
	return nil
}

func (f *fakeBookkeepingRepo) Update(_ context.Context, rec *domain.BookkeepingRecord) error {
	existing, ok := f.byID[rec.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	if other, ok := f.byCNPJ[rec.CNPJ]; ok && other.ID != rec.ID {
		return repository.ErrDuplicateCNPJ
	}
	delete(f.byCNPJ, existing.CNPJ)
	rec.CreatedAt = existing.CreatedAt
	rec.UpdatedAt = time.Now()
	clone := *rec
	f.byID[rec.ID] = &clone
	f.byCNPJ[rec.CNPJ] = &clone
	return nil
}

func (f *fakeBookkeepingRepo) GetByID(_ context.Context, id string) (*domain.BookkeepingRecord, error) {
	rec, ok := f.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *rec
	return &clone, nil
}

func (f *fakeBookkeepingRepo) GetByCNPJ(_ context.Context, cnpj string) (*domain.BookkeepingRecord, error) {
	rec, ok := f.byCNPJ[cnpj]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *rec
	return &clone, nil
}

func (f *fakeBookkeepingRepo) Delete(_ context.Context, id string) error {
	rec, ok := f.byID[id]
	if !ok {
		return pgx.ErrNoRows
	}
	delete(f.byCNPJ, rec.CNPJ)
	delete(f.byID, id)
	return nil
}

func (f *fakeBookkeepingRepo) List(_ context.Context, _, _ int) ([]domain.BookkeepingRecord, int, error) {
	out := make([]domain.BookkeepingRecord, 0, len(f.byID))
	for _, rec := range f.byID {
		out = append(out, *rec)
	}
	return out, len(out), nil
}

func (f *fakeBookkeepingRepo) ExistingCNPJs(_ context.Context, cnpjs []string) (map[string]bool, error) {
	out := make(map[string]bool)
	for _, cnpj := range cnpjs {
		if _, ok := f.byCNPJ[cnpj]; ok {
			out[cnpj] = true
		}
	}
	return out, nil
}

func TestBookkeepingCreateNormalizesCNPJ(t *testing.T) {
	svc := NewBookkeepingService(newFakeBookkeepingRepo())

	rec, err := svc.Create(context.Background(), BookkeepingInput{
		CodEmpresa:      "042",
		NomeRazaoSocial: "Empresa Exemplo LTDA",
		CNPJ:            "12.345.678/0001-95",
		Login:           "exemplo",
		Senha:           "s3nha",
	})
	require.NoError(t, err)
	assert.Equal(t, "12345678000195", rec.CNPJ)
	assert.NotEmpty(t, rec.ID)

	_, err = svc.Create(context.Background(), BookkeepingInput{
		NomeRazaoSocial: "Outra", CNPJ: "123",
	})
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)
}

func TestBookkeepingCreateDuplicateCNPJ(t *testing.T) {
	svc := NewBookkeepingService(newFakeBookkeepingRepo())
	ctx := context.Background()

	_, err := svc.Create(ctx, BookkeepingInput{NomeRazaoSocial: "A", CNPJ: "12345678000195"})
	require.NoError(t, err)

	// same CNPJ, different punctuation
	_, err = svc.Create(ctx, BookkeepingInput{NomeRazaoSocial: "B", CNPJ: "12.345.678/0001-95"})
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", apperrors.ToDomainError(err).Code)
}

func TestBookkeepingBulkCreateSkipsDuplicates(t *testing.T) {
	repo := newFakeBookkeepingRepo()
	svc := NewBookkeepingService(repo)
	ctx := context.Background()

	_, err := svc.Create(ctx, BookkeepingInput{NomeRazaoSocial: "Já existe", CNPJ: "11111111000111"})
	require.NoError(t, err)

	result, err := svc.BulkCreate(ctx, []BookkeepingInput{
		{NomeRazaoSocial: "Nova", CNPJ: "22222222000122"},
		{NomeRazaoSocial: "Repete banco", CNPJ: "11111111000111"},
		{NomeRazaoSocial: "Repete lote", CNPJ: "22222222000122"},
		{NomeRazaoSocial: "Inválida", CNPJ: "999"},
	}, true)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Created)
	assert.Equal(t, 2, result.Duplicates)
	assert.Equal(t, 1, result.Errors)
}

func TestBookkeepingBulkCreateFailsFastWithoutSkip(t *testing.T) {
	svc := NewBookkeepingService(newFakeBookkeepingRepo())
	ctx := context.Background()

	_, err := svc.Create(ctx, BookkeepingInput{NomeRazaoSocial: "Já existe", CNPJ: "11111111000111"})
	require.NoError(t, err)

	_, err = svc.BulkCreate(ctx, []BookkeepingInput{
		{NomeRazaoSocial: "Repete", CNPJ: "11111111000111"},
	}, false)
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", apperrors.ToDomainError(err).Code)
}

func TestBookkeepingUpdateKeepsStoredSenhaWhenBlank(t *testing.T) {
	svc := NewBookkeepingService(newFakeBookkeepingRepo())
	ctx := context.Background()

	created, err := svc.Create(ctx, BookkeepingInput{
		NomeRazaoSocial: "Empresa", CNPJ: "12345678000195", Senha: "original",
	})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, created.ID, BookkeepingInput{
		NomeRazaoSocial: "Empresa Renomeada", CNPJ: "12345678000195", Senha: "",
	})
	require.NoError(t, err)
	assert.Equal(t, "Empresa Renomeada", updated.NomeRazaoSocial)
	assert.Equal(t, "original", updated.Senha)
}
