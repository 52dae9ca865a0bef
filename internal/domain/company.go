package domain

import (
	"fmt"
	"strings"
	"time"
)

// Company (empresa) is a client company whose fiscal portals the crawler
// logs into. SenhaMuni/SenhaEst are stored encrypted; only the crawler
// endpoint ever sees them decrypted.
type Company struct {
	ID                  string
	CodEmpresa          string
	NomeRazaoSocial     string
	CNPJ                string
	Municipio           string
	UF                  string
	InscricaoMunicipal  string
	InscricaoEstadual   string
	LoginMuni           string
	SenhaMuni           string
	LoginEst            string
	SenhaEst            string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// NormalizeCNPJ strips punctuation and validates length. The stored form is
// always the bare 14 digits.
func NormalizeCNPJ(value string) (string, error) {
	var b strings.Builder
	for _, r := range value {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if len(digits) != 14 {
		return "", fmt.Errorf("CNPJ deve ter 14 dígitos")
	}
	return digits, nil
}

// CompanyCredentials is the decrypted credential set handed to the crawler.
type CompanyCredentials struct {
	LoginMuni string
	SenhaMuni string
	LoginEst  string
	SenhaEst  string
}
