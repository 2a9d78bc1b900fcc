package domain

import (
	"strings"
	"time"
)

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "aberto"
	TicketStatusInProgress TicketStatus = "em_andamento"
	TicketStatusWaiting    TicketStatus = "aguardando"
	TicketStatusResolved   TicketStatus = "resolvido"
	TicketStatusClosed     TicketStatus = "fechado"
)

// AllTicketStatuses is the canonical status vocabulary.
var AllTicketStatuses = []TicketStatus{
	TicketStatusOpen,
	TicketStatusInProgress,
	TicketStatusWaiting,
	TicketStatusResolved,
	TicketStatusClosed,
}

// BoardStatuses are the statuses that have a kanban column, in column order.
var BoardStatuses = []TicketStatus{
	TicketStatusOpen,
	TicketStatusInProgress,
	TicketStatusResolved,
}

// Valid reports whether s belongs to the canonical vocabulary.
func (s TicketStatus) Valid() bool {
	for _, candidate := range AllTicketStatuses {
		if s == candidate {
			return true
		}
	}
	return false
}

// OnBoard reports whether s has a kanban column.
func (s TicketStatus) OnBoard() bool {
	for _, candidate := range BoardStatuses {
		if s == candidate {
			return true
		}
	}
	return false
}

// IsOpen groups the statuses counted as pending work.
func (s TicketStatus) IsOpen() bool {
	return s == TicketStatusOpen || s == TicketStatusInProgress || s == TicketStatusWaiting
}

// IsDone groups the statuses counted as resolved work.
func (s TicketStatus) IsDone() bool {
	return s == TicketStatusResolved || s == TicketStatusClosed
}

// TicketPriority enumerates ticket urgency.
type TicketPriority string

const (
	TicketPriorityLow      TicketPriority = "baixa"
	TicketPriorityMedium   TicketPriority = "media"
	TicketPriorityHigh     TicketPriority = "alta"
	TicketPriorityCritical TicketPriority = "critica"
)

// AllTicketPriorities lists priorities from lowest to highest.
var AllTicketPriorities = []TicketPriority{
	TicketPriorityLow,
	TicketPriorityMedium,
	TicketPriorityHigh,
	TicketPriorityCritical,
}

// Valid reports whether p is a known priority.
func (p TicketPriority) Valid() bool {
	for _, candidate := range AllTicketPriorities {
		if p == candidate {
			return true
		}
	}
	return false
}

// Ticket is a single support request.
type Ticket struct {
	ID                    string
	Description           string
	Priority              TicketPriority
	Status                TicketStatus
	ClientEmail           string
	BrokerLink            *string
	Attendant             *string
	CreatedAt             time.Time
	UpdatedAt             time.Time
	ResolvedAt            *time.Time
	ResolutionObservation *string
}

// ShortID is the human facing identifier used in messages.
func (t *Ticket) ShortID() string {
	if len(t.ID) <= 8 {
		return t.ID
	}
	return t.ID[len(t.ID)-8:]
}

// IsResolved reports whether the ticket sits in the resolved column.
func (t *Ticket) IsResolved() bool {
	return t.Status == TicketStatusResolved
}

// AttendantName returns the attendant or an empty string when unassigned.
func (t *Ticket) AttendantName() string {
	if t.Attendant == nil {
		return ""
	}
	return strings.TrimSpace(*t.Attendant)
}

// Clone returns a deep copy so callers can mutate without touching the original.
func (t *Ticket) Clone() *Ticket {
	cp := *t
	cp.BrokerLink = cloneString(t.BrokerLink)
	cp.Attendant = cloneString(t.Attendant)
	cp.ResolutionObservation = cloneString(t.ResolutionObservation)
	if t.ResolvedAt != nil {
		resolved := *t.ResolvedAt
		cp.ResolvedAt = &resolved
	}
	return &cp
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
