package domain

import "time"

// Course is a training catalog entry bound to a department slug.
type Course struct {
	ID               string
	Nome             string
	Slug             string
	DepartamentoSlug string
	CargaHoraria     *float64
	Pontos           int
	Ativo            bool
	URL              string
	URLPlataforma    string
	ThumbnailURL     string
	DocURL           string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
