package domain

import "time"

// PointsPerCourse is awarded for each completed course.
const PointsPerCourse = 10

// User is the domain model for a colaborador (employee) account.
type User struct {
	ID              string
	Nome            string
	Sobrenome       string
	Email           string
	Departamento    string
	PasswordHash    string
	AvatarURL       string
	DescricaoHTML   string
	BioPublica      string
	Pontos          int
	Ativo           bool
	Roles           []string
	Feedbacks       []Feedback
	CursosProgresso []CourseProgress
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Sanitized returns a copy safe to serialize: the password hash never
// leaves the service layer.
func (u User) Sanitized() User {
	u.PasswordHash = ""
	return u
}

// Feedback is a short note left on a colaborador's profile, newest first.
type Feedback struct {
	ID        string
	Msg       string
	Autor     string
	CreatedAt time.Time
}

// CourseProgress tracks per-employee completion of a catalog course.
type CourseProgress struct {
	CursoID     string
	Nome        string
	Concluido   bool
	ConcluidoEm *time.Time
}

// CompletedCount returns how many entries are marked done.
func CompletedCount(progress []CourseProgress) int {
	n := 0
	for _, p := range progress {
		if p.Concluido {
			n++
		}
	}
	return n
}
