package dto

import (
	"time"

	"github.com/AttentiveContabilidade/attentive-intranet-api/internal/domain"
	"github.com/AttentiveContabilidade/attentive-intranet-api/internal/service"
)

// CompanyRequest payload for an empresa.
type CompanyRequest struct {
	CodEmpresa         string `json:"cod_empresa"`
	NomeRazaoSocial    string `json:"nome_razao_social"`
	CNPJ               string `json:"cnpj"`
	Municipio          string `json:"municipio"`
	UF                 string `json:"uf"`
	InscricaoMunicipal string `json:"inscricao_municipal"`
	InscricaoEstadual  string `json:"inscricao_estadual"`
	LoginMuni          string `json:"login_muni"`
	SenhaMuni          string `json:"senha_muni"`
	LoginEst           string `json:"login_est"`
	SenhaEst           string `json:"senha_est"`
}

// ToInput converts the request to the service input.
func (r CompanyRequest) ToInput() service.CompanyInput {
	return service.CompanyInput{
		CodEmpresa:         r.CodEmpresa,
		NomeRazaoSocial:    r.NomeRazaoSocial,
		CNPJ:               r.CNPJ,
		Municipio:          r.Municipio,
		UF:                 r.UF,
		InscricaoMunicipal: r.InscricaoMunicipal,
		InscricaoEstadual:  r.InscricaoEstadual,
		LoginMuni:          r.LoginMuni,
		SenhaMuni:          r.SenhaMuni,
		LoginEst:           r.LoginEst,
		SenhaEst:           r.SenhaEst,
	}
}

// CompanyResponse never carries the stored passwords, only whether each one
// is set.
type CompanyResponse struct {
	ID                 string    `json:"id"`
	CodEmpresa         string    `json:"cod_empresa"`
	NomeRazaoSocial    string    `json:"nome_razao_social"`
	CNPJ               string    `json:"cnpj"`
	Municipio          string    `json:"municipio"`
	UF                 string    `json:"uf"`
	InscricaoMunicipal string    `json:"inscricao_municipal"`
	InscricaoEstadual  string    `json:"inscricao_estadual"`
	LoginMuni          string    `json:"login_muni"`
	TemSenhaMuni       bool      `json:"tem_senha_muni"`
	LoginEst           string    `json:"login_est"`
	TemSenhaEst        bool      `json:"tem_senha_est"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// CredentialsResponse is the decrypted credential set for the crawler.
type CredentialsResponse struct {
	LoginMuni string `json:"login_muni"`
	SenhaMuni string `json:"senha_muni"`
	LoginEst  string `json:"login_est"`
	SenhaEst  string `json:"senha_est"`
}

// CompanyListResponse paged empresas listing.
type CompanyListResponse struct {
	Items []CompanyResponse `json:"items"`
	Total int               `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}

// FromCompany maps a domain company to the response shape.
func FromCompany(c domain.Company) CompanyResponse {
	return CompanyResponse{
		ID:                 c.ID,
		CodEmpresa:         c.CodEmpresa,
		NomeRazaoSocial:    c.NomeRazaoSocial,
		CNPJ:               c.CNPJ,
		Municipio:          c.Municipio,
		UF:                 c.UF,
		InscricaoMunicipal: c.InscricaoMunicipal,
		InscricaoEstadual:  c.InscricaoEstadual,
		LoginMuni:          c.LoginMuni,
		TemSenhaMuni:       c.SenhaMuni != "",
		LoginEst:           c.LoginEst,
		TemSenhaEst:        c.SenhaEst != "",
		CreatedAt:          c.CreatedAt,
		UpdatedAt:          c.UpdatedAt,
	}
}

// FromCompanies maps a slice of domain companies.
func FromCompanies(companies []domain.Company) []CompanyResponse {
	out := make([]CompanyResponse, 0, len(companies))
	for _, c := range companies {
		out = append(out, FromCompany(c))
	}
	return out
}
