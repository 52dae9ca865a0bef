package domain

import (
	"strings"
	"time"
)

// Department is a node in the organizational taxonomy, keyed by slug.
// Path/PathSlugs hold the name/slug chain from the root down to the node.
type Department struct {
	ID         string
	Nome       string
	Slug       string
	ParentSlug string
	ParentID   string
	Path       []string
	PathSlugs  []string
	Ordem      int
	Ativo      bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NormalizeSlug lowers and trims a slug; slugs are compared in this form.
func NormalizeSlug(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
