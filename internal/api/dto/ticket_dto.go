package dto

import (
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	ClientEmail string                `json:"client_email"`
	BrokerLink  string                `json:"broker_link"`
	Attendant   string                `json:"atendente"`
	Description string                `json:"description"`
	Priority    domain.TicketPriority `json:"priority"`
}

// EditTicketRequest is a partial update from the detail view.
type EditTicketRequest struct {
	Description *string                `json:"description"`
	Priority    *domain.TicketPriority `json:"priority"`
	Status      *domain.TicketStatus   `json:"status"`
	Attendant   *string                `json:"atendente"`
}

// StatusChangeRequest moves a ticket from the detail view.
type StatusChangeRequest struct {
	Status domain.TicketStatus `json:"status"`
}

// TicketResponse is the wire form of a ticket. Draggable tells the board
// whether the card may be picked up.
type TicketResponse struct {
	ID                    string                `json:"id"`
	ShortID               string                `json:"short_id"`
	Description           string                `json:"description"`
	Priority              domain.TicketPriority `json:"priority"`
	Status                domain.TicketStatus   `json:"status"`
	ClientEmail           string                `json:"client_email"`
	BrokerLink            *string               `json:"broker_link"`
	Attendant             *string               `json:"atendente"`
	CreatedAt             time.Time             `json:"created_at"`
	UpdatedAt             time.Time             `json:"updated_at"`
	ResolvedAt            *time.Time            `json:"resolved_at"`
	ResolutionObservation *string               `json:"resolution_observation"`
	Draggable             bool                  `json:"draggable"`
}

// TicketHistoryResponse is one audit entry.
type TicketHistoryResponse struct {
	ID          string                  `json:"id"`
	ChangeType  domain.TicketChangeType `json:"change_type"`
	ChangedByID *string                 `json:"changed_by_id"`
	ChangedBy   string                  `json:"changed_by"`
	OldValue    map[string]any          `json:"old_value"`
	NewValue    map[string]any          `json:"new_value"`
	CreatedAt   time.Time               `json:"created_at"`
}
