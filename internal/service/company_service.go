package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/AttentiveContabilidade/attentive-intranet-api/internal/crypto"
	"github.com/AttentiveContabilidade/attentive-intranet-api/internal/domain"
	"github.com/AttentiveContabilidade/attentive-intranet-api/internal/repository"
	apperrors "github.com/AttentiveContabilidade/attentive-intranet-api/pkg/util"
)

// bulkDetailCap bounds how many per-item details a bulk response carries.
const bulkDetailCap = 20

// CompanyInput carries the fields accepted for an empresa.
type CompanyInput struct {
	CodEmpresa         string
	NomeRazaoSocial    string
	CNPJ               string
	Municipio          string
	UF                 string
	InscricaoMunicipal string
	InscricaoEstadual  string
	LoginMuni          string
	SenhaMuni          string
	LoginEst           string
	SenhaEst           string
}

// BulkResult summarizes a batch import.
type BulkResult struct {
	Created    int      `json:"created"`
	Duplicates int      `json:"duplicates"`
	Errors     int      `json:"errors"`
	Details    []string `json:"details,omitempty"`
}

func (r *BulkResult) addDetail(detail string) {
	if len(r.Details) < bulkDetailCap {
		r.Details = append(r.Details, detail)
	}
}

// CompanyService manages empresas and their encrypted portal credentials.
type CompanyService struct {
	companies repository.CompanyRepository
	cipher    *crypto.CredentialCipher
	logger    *zap.Logger
}

// NewCompanyService builds the service.
func NewCompanyService(companies repository.CompanyRepository, cipher *crypto.CredentialCipher, logger *zap.Logger) *CompanyService {
	return &CompanyService{companies: companies, cipher: cipher, logger: logger}
}

func (s *CompanyService) fromInput(input CompanyInput) (*domain.Company, error) {
	cnpj, err := domain.NormalizeCNPJ(input.CNPJ)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error(), map[string]any{"cnpj": input.CNPJ})
	}
	if input.NomeRazaoSocial == "" {
		return nil, apperrors.NewValidationError("nome_razao_social é obrigatório", nil)
	}

	senhaMuni, err := s.cipher.Encrypt(input.SenhaMuni)
	if err != nil {
		return nil, err
	}
	senhaEst, err := s.cipher.Encrypt(input.SenhaEst)
	if err != nil {
		return nil, err
	}

	return &domain.Company{
		CodEmpresa:         input.CodEmpresa,
		NomeRazaoSocial:    input.NomeRazaoSocial,
		CNPJ:               cnpj,
		Municipio:          input.Municipio,
		UF:                 input.UF,
		InscricaoMunicipal: input.InscricaoMunicipal,
		InscricaoEstadual:  input.InscricaoEstadual,
		LoginMuni:          input.LoginMuni,
		SenhaMuni:          senhaMuni,
		LoginEst:           input.LoginEst,
		SenhaEst:           senhaEst,
	}, nil
}

// Create registers a new empresa; the CNPJ must be unique.
func (s *CompanyService) Create(ctx context.Context, input CompanyInput) (*domain.Company, error) {
	company, err := s.fromInput(input)
	if err != nil {
		return nil, err
	}

	if _, err := s.companies.GetByCNPJ(ctx, company.CNPJ); err == nil {
		return nil, apperrors.NewConflict("CNPJ já cadastrado", map[string]any{"cnpj": company.CNPJ})
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	if err := s.companies.Create(ctx, company); err != nil {
		return nil, err
	}
	return company, nil
}

// BulkCreate imports a batch, skipping CNPJs already registered.
func (s *CompanyService) BulkCreate(ctx context.Context, inputs []CompanyInput) (*BulkResult, error) {
	result := &BulkResult{}
	for i, input := range inputs {
		company, err := s.fromInput(input)
		if err != nil {
			result.Errors++
			result.addDetail(fmt.Sprintf("item %d: %v", i, err))
			continue
		}
		if _, err := s.companies.GetByCNPJ(ctx, company.CNPJ); err == nil {
			result.Duplicates++
			result.addDetail(fmt.Sprintf("item %d: CNPJ %s já cadastrado", i, company.CNPJ))
			continue
		} else if !errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		if err := s.companies.Create(ctx, company); err != nil {
			result.Errors++
			result.addDetail(fmt.Sprintf("item %d: %v", i, err))
			continue
		}
		result.Created++
	}
	return result, nil
}

// Get loads one empresa by id.
func (s *CompanyService) Get(ctx context.Context, id string) (*domain.Company, error) {
	return s.companies.GetByID(ctx, id)
}

// List pages over empresas.
func (s *CompanyService) List(ctx context.Context, page, limit int) ([]domain.Company, int, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.companies.List(ctx, page, limit)
}

// Update replaces an empresa's fields.
func (s *CompanyService) Update(ctx context.Context, id string, input CompanyInput) (*domain.Company, error) {
	existing, err := s.companies.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	company, err := s.fromInput(input)
	if err != nil {
		return nil, err
	}
	company.ID = existing.ID

	if company.CNPJ != existing.CNPJ {
		if _, err := s.companies.GetByCNPJ(ctx, company.CNPJ); err == nil {
			return nil, apperrors.NewConflict("CNPJ já cadastrado", map[string]any{"cnpj": company.CNPJ})
		} else if !errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
	}

	// blank passwords keep the stored ciphertext
	if input.SenhaMuni == "" {
		company.SenhaMuni = existing.SenhaMuni
	}
	if input.SenhaEst == "" {
		company.SenhaEst = existing.SenhaEst
	}

	if err := s.companies.Update(ctx, company); err != nil {
		return nil, err
	}
	return company, nil
}

// Delete removes an empresa.
func (s *CompanyService) Delete(ctx context.Context, id string) error {
	return s.companies.Delete(ctx, id)
}

// Credentials decrypts the portal passwords for the crawler. A value stored
// before encryption at rest was introduced comes back as-is and is flagged
// in the server log.
func (s *CompanyService) Credentials(ctx context.Context, cnpj string) (*domain.CompanyCredentials, error) {
	normalized, err := domain.NormalizeCNPJ(cnpj)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error(), map[string]any{"cnpj": cnpj})
	}
	company, err := s.companies.GetByCNPJ(ctx, normalized)
	if err != nil {
		return nil, err
	}

	senhaMuni, legacyMuni, err := s.cipher.Decrypt(company.SenhaMuni)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	senhaEst, legacyEst, err := s.cipher.Decrypt(company.SenhaEst)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if legacyMuni || legacyEst {
		s.logger.Warn("company credentials stored in plaintext",
			zap.String("cnpj", company.CNPJ))
	}

	return &domain.CompanyCredentials{
		LoginMuni: company.LoginMuni,
		SenhaMuni: senhaMuni,
		LoginEst:  company.LoginEst,
		SenhaEst:  senhaEst,
	}, nil
}
