package domain

import "time"

// BookkeepingRecord (escrituração) mirrors the external bookkeeping system's
// company entry. Senha never appears in API responses.
type BookkeepingRecord struct {
	ID              string
	CodEmpresa      string
	NomeRazaoSocial string
	CNPJ            string
	Login           string
	Senha           string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
