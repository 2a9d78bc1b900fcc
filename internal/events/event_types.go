package events

import (
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated       EventType = "ticket_created"
	EventTicketStatusChanged EventType = "ticket_status_changed"
	EventTicketResolved      EventType = "ticket_resolved"
	EventTicketUpdated       EventType = "ticket_updated"
)

// Actor identifies the session that caused the event.
type Actor struct {
	UserID    string `json:"user_id,omitempty"`
	Attendant string `json:"atendente,omitempty"`
}

// ActorFromSession builds the actor for a session.
func ActorFromSession(session domain.Session) Actor {
	return Actor{UserID: session.UserID, Attendant: session.Attendant}
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  string      `json:"ticket_id"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	Priority  domain.TicketPriority `json:"priority"`
	Attendant string                `json:"atendente"`
}

// TicketStatusChangedPayload payload.
type TicketStatusChangedPayload struct {
	OldStatus domain.TicketStatus `json:"old_status"`
	NewStatus domain.TicketStatus `json:"new_status"`
}

// TicketResolvedPayload carries what the resolution notice needs. Notify is the
// operator's choice in the resolution dialog.
type TicketResolvedPayload struct {
	Ticket      domain.Ticket `json:"ticket"`
	Observation string        `json:"observation"`
	Notify      bool          `json:"notify"`
}

// TicketUpdatedPayload lists the fields changed by a detail edit.
type TicketUpdatedPayload struct {
	Fields []string `json:"fields"`
}
