package dto

import (
	"time"

	"github.com/AttentiveContabilidade/attentive-intranet-api/internal/domain"
	"github.com/AttentiveContabilidade/attentive-intranet-api/internal/service"
)

// BookkeepingRequest payload for an escrituracao record.
type BookkeepingRequest struct {
	CodEmpresa      string `json:"cod_empresa"`
	NomeRazaoSocial string `json:"nome_razao_social"`
	CNPJ            string `json:"cnpj"`
	Login           string `json:"login"`
	Senha           string `json:"senha"`
}

// ToInput converts the request to the service input.
func (r BookkeepingRequest) ToInput() service.BookkeepingInput {
	return service.BookkeepingInput{
		CodEmpresa:      r.CodEmpresa,
		NomeRazaoSocial: r.NomeRazaoSocial,
		CNPJ:            r.CNPJ,
		Login:           r.Login,
		Senha:           r.Senha,
	}
}

// BulkBookkeepingRequest batch import payload.
type BulkBookkeepingRequest struct {
	Items          []BookkeepingRequest `json:"items"`
	SkipDuplicates bool                 `json:"skip_duplicates"`
}

// BookkeepingResponse never carries the stored password.
type BookkeepingResponse struct {
	ID              string    `json:"id"`
	CodEmpresa      string    `json:"cod_empresa"`
	NomeRazaoSocial string    `json:"nome_razao_social"`
	CNPJ            string    `json:"cnpj"`
	Login           string    `json:"login"`
	TemSenha        bool      `json:"tem_senha"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// BookkeepingListResponse paged listing.
type BookkeepingListResponse struct {
	Items []BookkeepingResponse `json:"items"`
	Total int                   `json:"total"`
	Skip  int                   `json:"skip"`
	Limit int                   `json:"limit"`
}

// FromBookkeeping maps a domain record to the response shape.
func FromBookkeeping(b domain.BookkeepingRecord) BookkeepingResponse {
	return BookkeepingResponse{
		ID:              b.ID,
		CodEmpresa:      b.CodEmpresa,
		NomeRazaoSocial: b.NomeRazaoSocial,
		CNPJ:            b.CNPJ,
		Login:           b.Login,
		TemSenha:        b.Senha != "",
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}

// FromBookkeepings maps a slice of domain records.
func FromBookkeepings(records []domain.BookkeepingRecord) []BookkeepingResponse {
	out := make([]BookkeepingResponse, 0, len(records))
	for _, b := range records {
		out = append(out, FromBookkeeping(b))
	}
	return out
}
