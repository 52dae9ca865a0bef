package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/AttentiveContabilidade/attentive-intranet-api/internal/domain"
	"github.com/AttentiveContabilidade/attentive-intranet-api/internal/repository"
	apperrors "github.com/AttentiveContabilidade/attentive-intranet-api/pkg/util"
)

// BookkeepingInput carries the fields accepted for an escrituracao record.
type BookkeepingInput struct {
	CodEmpresa      string
	NomeRazaoSocial string
	CNPJ            string
	Login           string
	Senha           string
}

// BookkeepingService manages escrituracao records for the external system.
type BookkeepingService struct {
	records repository.BookkeepingRepository
}

// NewBookkeepingService builds the service.
func NewBookkeepingService(records repository.BookkeepingRepository) *BookkeepingService {
	return &BookkeepingService{records: records}
}

func fromBookkeepingInput(input BookkeepingInput) (*domain.BookkeepingRecord, error) {
	cnpj, err := domain.NormalizeCNPJ(input.CNPJ)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error(), map[string]any{"cnpj": input.CNPJ})
	}
	if input.NomeRazaoSocial == "" {
		return nil, apperrors.NewValidationError("nome_razao_social é obrigatório", nil)
	}
	return &domain.BookkeepingRecord{
		CodEmpresa:      input.CodEmpresa,
		NomeRazaoSocial: input.NomeRazaoSocial,
		CNPJ:            cnpj,
		Login:           input.Login,
		Senha:           input.Senha,
	}, nil
}

// Create registers one record; the CNPJ must be unique.
func (s *BookkeepingService) Create(ctx context.Context, input BookkeepingInput) (*domain.BookkeepingRecord, error) {
	rec, err := fromBookkeepingInput(input)
	if err != nil {
		return nil, err
	}
	if err := s.records.Create(ctx, rec); err != nil {
		if errors.Is(err, repository.ErrDuplicateCNPJ) {
			return nil, apperrors.NewConflict("CNPJ já cadastrado", map[string]any{"cnpj": rec.CNPJ})
		}
		return nil, err
	}
	return rec, nil
}

// BulkCreate imports a batch. With skipDuplicates, CNPJs already registered
// are counted and skipped instead of failing the batch.
func (s *BookkeepingService) BulkCreate(ctx context.Context, inputs []BookkeepingInput, skipDuplicates bool) (*BulkResult, error) {
	records := make([]*domain.BookkeepingRecord, 0, len(inputs))
	cnpjs := make([]string, 0, len(inputs))
	result := &BulkResult{}

	for i, input := range inputs {
		rec, err := fromBookkeepingInput(input)
		if err != nil {
			result.Errors++
			result.addDetail(fmt.Sprintf("item %d: %v", i, err))
			records = append(records, nil)
			continue
		}
		records = append(records, rec)
		cnpjs = append(cnpjs, rec.CNPJ)
	}

	existing, err := s.records.ExistingCNPJs(ctx, cnpjs)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(cnpjs))
	for i, rec := range records {
		if rec == nil {
			continue
		}
		if existing[rec.CNPJ] || seen[rec.CNPJ] {
			if !skipDuplicates {
				return nil, apperrors.NewConflict("CNPJ já cadastrado",
					map[string]any{"cnpj": rec.CNPJ})
			}
			result.Duplicates++
			result.addDetail(fmt.Sprintf("item %d: CNPJ %s já cadastrado", i, rec.CNPJ))
			continue
		}
		seen[rec.CNPJ] = true

		if err := s.records.Create(ctx, rec); err != nil {
			if errors.Is(err, repository.ErrDuplicateCNPJ) && skipDuplicates {
				result.Duplicates++
				result.addDetail(fmt.Sprintf("item %d: CNPJ %s já cadastrado", i, rec.CNPJ))
				continue
			}
			result.Errors++
			result.addDetail(fmt.Sprintf("item %d: %v", i, err))
			continue
		}
		result.Created++
	}
	return result, nil
}

// Get loads one record by id.
func (s *BookkeepingService) Get(ctx context.Context, id string) (*domain.BookkeepingRecord, error) {
	return s.records.GetByID(ctx, id)
}

// GetByCNPJ loads one record by normalized CNPJ.
func (s *BookkeepingService) GetByCNPJ(ctx context.Context, cnpj string) (*domain.BookkeepingRecord, error) {
	normalized, err := domain.NormalizeCNPJ(cnpj)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error(), map[string]any{"cnpj": cnpj})
	}
	return s.records.GetByCNPJ(ctx, normalized)
}

// List pages over records, newest first.
func (s *BookkeepingService) List(ctx context.Context, skip, limit int) ([]domain.BookkeepingRecord, int, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if skip < 0 {
		skip = 0
	}
	return s.records.List(ctx, skip, limit)
}

// Update rewrites one record.
func (s *BookkeepingService) Update(ctx context.Context, id string, input BookkeepingInput) (*domain.BookkeepingRecord, error) {
	existing, err := s.records.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	rec, err := fromBookkeepingInput(input)
	if err != nil {
		return nil, err
	}
	rec.ID = existing.ID
	if input.Senha == "" {
		rec.Senha = existing.Senha
	}

	if err := s.records.Update(ctx, rec); err != nil {
		if errors.Is(err, repository.ErrDuplicateCNPJ) {
			return nil, apperrors.NewConflict("CNPJ já cadastrado", map[string]any{"cnpj": rec.CNPJ})
		}
		return nil, err
	}
	return rec, nil
}

// Delete removes one record.
func (s *BookkeepingService) Delete(ctx context.Context, id string) error {
	return s.records.Delete(ctx, id)
}
