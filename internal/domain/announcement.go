package domain

import "time"

// AnnouncementType is the closed set of feed post types.
type AnnouncementType string

const (
	AnnouncementGeneral   AnnouncementType = "general"
	AnnouncementHighlight AnnouncementType = "highlight"
	AnnouncementMural     AnnouncementType = "mural"
	AnnouncementCongrats  AnnouncementType = "congrats"
	AnnouncementFarewell  AnnouncementType = "farewell"
	AnnouncementNewHire   AnnouncementType = "new_hire"
)

// ValidAnnouncementType reports membership in the closed type set.
func ValidAnnouncementType(t AnnouncementType) bool {
	switch t {
	case AnnouncementGeneral, AnnouncementHighlight, AnnouncementMural,
		AnnouncementCongrats, AnnouncementFarewell, AnnouncementNewHire:
		return true
	}
	return false
}

// Announcement statuses.
const (
	AnnouncementDraft     = "draft"
	AnnouncementPublished = "published"
)

// Announcement (comunicado) is a feed post, optionally tied to an author
// and a target colaborador (e.g. a new hire).
type Announcement struct {
	ID           string
	Tipo         AnnouncementType
	Titulo       string
	ConteudoHTML string
	Conteudo     string
	Imagem       string
	Visibilidade string
	Tags         []string
	Status       string
	AutorID      string
	TargetUserID string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Comment is a reply attached to an announcement.
type Comment struct {
	ID        string
	Texto     string
	AutorID   string
	AutorNome string
	CreatedAt time.Time
}

// UserMini is the compact author/target projection joined into the feed.
type UserMini struct {
	ID           string
	Nome         string
	Sobrenome    string
	AvatarURL    string
	Departamento string
}
