package events

import (
	"time"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserCreated           EventType = "user_created"
	EventUserDeleted           EventType = "user_deleted"
	EventFeedbackAdded         EventType = "feedback_added"
	EventCourseToggled         EventType = "course_toggled"
	EventAnnouncementPublished EventType = "announcement_published"
	EventCommentAdded          EventType = "comment_added"
)

// Actor encapsulates actor metadata for an event. UserID is empty for
// anonymous or system-originated events.
type Actor struct {
	UserID string `json:"user_id,omitempty"`
	Nome   string `json:"nome,omitempty"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	SubjectID string      `json:"subject_id"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// UserCreatedPayload payload.
type UserCreatedPayload struct {
	Nome         string `json:"nome"`
	Sobrenome    string `json:"sobrenome"`
	Email        string `json:"email"`
	Departamento string `json:"departamento"`
}

// FeedbackAddedPayload payload.
type FeedbackAddedPayload struct {
	Autor   string `json:"autor"`
	Preview string `json:"preview"`
}

// CourseToggledPayload payload.
type CourseToggledPayload struct {
	CursoID   string `json:"curso_id"`
	Concluido bool   `json:"concluido"`
	Pontos    int    `json:"pontos"`
}

// AnnouncementPublishedPayload payload.
type AnnouncementPublishedPayload struct {
	Tipo   string `json:"tipo"`
	Titulo string `json:"titulo"`
	Status string `json:"status"`
}

// CommentAddedPayload payload.
type CommentAddedPayload struct {
	ComentarioID string `json:"comentario_id"`
	AutorNome    string `json:"autor_nome"`
	Preview      string `json:"preview"`
}
