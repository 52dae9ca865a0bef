package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/AttentiveContabilidade/attentive-intranet-api/internal/crypto"
	"github.com/AttentiveContabilidade/attentive-intranet-api/internal/domain"
	apperrors "github.com/AttentiveContabilidade/attentive-intranet-api/pkg/util"
)

// fakeCompanyRepo is an in-memory repository.CompanyRepository.
type fakeCompanyRepo struct {
	byID   map[string]*domain.Company
	byCNPJ map[string]*domain.Company
	nextID int
}

func newFakeCompanyRepo() *fakeCompanyRepo {
	return &fakeCompanyRepo{
		byID:   make(map[string]*domain.Company),
		byCNPJ: make(map[string]*domain.Company),
	}
}

func (f *fakeCompanyRepo) Create(_ context.Context, company *domain.Company) error {
	f.nextID++
	company.ID = "emp-" + strconv.Itoa(f.nextID)
	company.CreatedAt = time.Now()
	company.UpdatedAt = company.CreatedAt
	clone := *company
	f.byID[company.ID] = &clone
	f.byCNPJ[company.CNPJ] = &clone
	return nil
}

func (f *fakeCompanyRepo) Update(_ context.Context, company *domain.Company) error {
	existing, ok := f.byID[company.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	delete(f.byCNPJ, existing.CNPJ)
	company.UpdatedAt = time.Now()
	clone := *company
	f.byID[company.ID] = &clone
	f.byCNPJ[company.CNPJ] = &clone
	return nil
}

func (f *fakeCompanyRepo) GetByID(_ context.Context, id string) (*domain.Company, error) {
	company, ok := f.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *company
	return &clone, nil
}

func (f *fakeCompanyRepo) GetByCNPJ(_ context.Context, cnpj string) (*domain.Company, error) {
	company, ok := f.byCNPJ[cnpj]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *company
	return &clone, nil
}

func (f *fakeCompanyRepo) Delete(_ context.Context, id string) error {
	company, ok := f.byID[id]
	if !ok {
		return pgx.ErrNoRows
	}
	delete(f.byCNPJ, company.CNPJ)
	delete(f.byID, id)
	return nil
}

func (f *fakeCompanyRepo) List(_ context.Context, _, _ int) ([]domain.Company, int, error) {
	out := make([]domain.Company, 0, len(f.byID))
	for _, c := range f.byID {
		out = append(out, *c)
	}
	return out, len(out), nil
}

func newCompanyService(t *testing.T, repo *fakeCompanyRepo) *CompanyService {
	t.Helper()
	raw := make([]byte, 32)
	_, err := rand.Read(raw)
	require.NoError(t, err)
	cipher, err := crypto.NewCredentialCipher(base64.URLEncoding.EncodeToString(raw))
	require.NoError(t, err)
	return NewCompanyService(repo, cipher, zap.NewNop())
}

func TestCompanyCreateEncryptsPasswords(t *testing.T) {
	repo := newFakeCompanyRepo()
	svc := newCompanyService(t, repo)

	company, err := svc.Create(context.Background(), CompanyInput{
		NomeRazaoSocial: "Empresa Exemplo LTDA",
		CNPJ:            "12.345.678/0001-95",
		LoginMuni:       "prefeitura",
		SenhaMuni:       "senha-muni",
		LoginEst:        "sefaz",
		SenhaEst:        "senha-est",
	})
	require.NoError(t, err)
	assert.Equal(t, "12345678000195", company.CNPJ)
	assert.True(t, strings.HasPrefix(company.SenhaMuni, "$cred.v1$"))
	assert.True(t, strings.HasPrefix(company.SenhaEst, "$cred.v1$"))
	assert.NotContains(t, company.SenhaMuni, "senha-muni")
}

func TestCompanyCreateDuplicateCNPJ(t *testing.T) {
	svc := newCompanyService(t, newFakeCompanyRepo())
	ctx := context.Background()

	_, err := svc.Create(ctx, CompanyInput{NomeRazaoSocial: "A", CNPJ: "12345678000195"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, CompanyInput{NomeRazaoSocial: "B", CNPJ: "12.345.678/0001-95"})
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", apperrors.ToDomainError(err).Code)
}

func TestCompanyBulkCreateCountsOutcomes(t *testing.T) {
	svc := newCompanyService(t, newFakeCompanyRepo())
	ctx := context.Background()

	_, err := svc.Create(ctx, CompanyInput{NomeRazaoSocial: "Já existe", CNPJ: "11111111000111"})
	require.NoError(t, err)

	result, err := svc.BulkCreate(ctx, []CompanyInput{
		{NomeRazaoSocial: "Nova", CNPJ: "22222222000122"},
		{NomeRazaoSocial: "Repete", CNPJ: "11111111000111"},
		{NomeRazaoSocial: "", CNPJ: "33333333000133"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Created)
	assert.Equal(t, 1, result.Duplicates)
	assert.Equal(t, 1, result.Errors)
	assert.Len(t, result.Details, 2)
}

func TestCompanyUpdateKeepsStoredPasswordsWhenBlank(t *testing.T) {
	repo := newFakeCompanyRepo()
	svc := newCompanyService(t, repo)
	ctx := context.Background()

	created, err := svc.Create(ctx, CompanyInput{
		NomeRazaoSocial: "Empresa", CNPJ: "12345678000195", SenhaMuni: "original",
	})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, created.ID, CompanyInput{
		NomeRazaoSocial: "Empresa Renomeada", CNPJ: "12345678000195",
	})
	require.NoError(t, err)
	assert.Equal(t, created.SenhaMuni, updated.SenhaMuni)
}

func TestCompanyCredentialsRoundTrip(t *testing.T) {
	repo := newFakeCompanyRepo()
	svc := newCompanyService(t, repo)
	ctx := context.Background()

	_, err := svc.Create(ctx, CompanyInput{
		NomeRazaoSocial: "Empresa",
		CNPJ:            "12345678000195",
		LoginMuni:       "prefeitura",
		SenhaMuni:       "senha-muni",
		LoginEst:        "sefaz",
		SenhaEst:        "senha-est",
	})
	require.NoError(t, err)

	creds, err := svc.Credentials(ctx, "12.345.678/0001-95")
	require.NoError(t, err)
	assert.Equal(t, "prefeitura", creds.LoginMuni)
	assert.Equal(t, "senha-muni", creds.SenhaMuni)
	assert.Equal(t, "sefaz", creds.LoginEst)
	assert.Equal(t, "senha-est", creds.SenhaEst)

	_, err = svc.Credentials(ctx, "99999999000199")
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperrors.ToDomainError(err).Code)
}

func TestCompanyCredentialsLegacyPlaintext(t *testing.T) {
	repo := newFakeCompanyRepo()
	svc := newCompanyService(t, repo)
	ctx := context.Background()

	// row written before encryption at rest existed
	legacy := &domain.Company{
		NomeRazaoSocial: "Antiga",
		CNPJ:            "44444444000144",
		SenhaMuni:       "texto-puro",
	}
	require.NoError(t, repo.Create(ctx, legacy))

	creds, err := svc.Credentials(ctx, "44444444000144")
	require.NoError(t, err)
	assert.Equal(t, "texto-puro", creds.SenhaMuni)
	assert.Empty(t, creds.SenhaEst)
}
