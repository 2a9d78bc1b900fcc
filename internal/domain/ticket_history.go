package domain

import "time"

// TicketChangeType captures what changed in a history entry.
type TicketChangeType string

const (
	ChangeTypeCreated  TicketChangeType = "CREATED"
	ChangeTypeStatus   TicketChangeType = "STATUS_CHANGE"
	ChangeTypeResolved TicketChangeType = "RESOLVED"
	ChangeTypeEdited   TicketChangeType = "EDITED"
)

// TicketHistory is an immutable audit trail entry. ChangedByID is nil for
// changes made outside a user session.
type TicketHistory struct {
	ID          string
	TicketID    string
	ChangedByID *string
	ChangedBy   string
	ChangeType  TicketChangeType
	OldValue    map[string]any
	NewValue    map[string]any
	CreatedAt   time.Time
}
