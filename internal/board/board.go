// Package board projects tickets onto the three-column kanban and decides what a
// drag-and-drop gesture means. Nothing here touches storage.
package board

import "github.com/spec-kit/helpdesk-service/internal/domain"

// Column is one kanban lane.
type Column struct {
	Status  domain.TicketStatus `json:"status"`
	Title   string              `json:"title"`
	Tickets []domain.Ticket     `json:"tickets"`
}

// Columns groups tickets by board status. Input order is preserved within each column.
type Columns struct {
	Open       []domain.Ticket
	InProgress []domain.Ticket
	Resolved   []domain.Ticket
}

var columnTitles = map[domain.TicketStatus]string{
	domain.TicketStatusOpen:       "Aberto",
	domain.TicketStatusInProgress: "Em Andamento",
	domain.TicketStatusResolved:   "Resolvido",
}

// ProjectColumns splits tickets into the board columns. Statuses without a
// column (aguardando, fechado) are left out.
func ProjectColumns(tickets []domain.Ticket) Columns {
	cols := Columns{
		Open:       []domain.Ticket{},
		InProgress: []domain.Ticket{},
		Resolved:   []domain.Ticket{},
	}
	for _, t := range tickets {
		switch t.Status {
		case domain.TicketStatusOpen:
			cols.Open = append(cols.Open, t)
		case domain.TicketStatusInProgress:
			cols.InProgress = append(cols.InProgress, t)
		case domain.TicketStatusResolved:
			cols.Resolved = append(cols.Resolved, t)
		}
	}
	return cols
}

// Ordered returns the columns left to right.
func (c Columns) Ordered() []Column {
	return []Column{
		{Status: domain.TicketStatusOpen, Title: columnTitles[domain.TicketStatusOpen], Tickets: c.Open},
		{Status: domain.TicketStatusInProgress, Title: columnTitles[domain.TicketStatusInProgress], Tickets: c.InProgress},
		{Status: domain.TicketStatusResolved, Title: columnTitles[domain.TicketStatusResolved], Tickets: c.Resolved},
	}
}

// Len is the number of tickets on the board.
func (c Columns) Len() int {
	return len(c.Open) + len(c.InProgress) + len(c.Resolved)
}

// ActionKind names the outcome of a drop.
type ActionKind string

const (
	ActionNone                         ActionKind = "none"
	ActionMove                         ActionKind = "move"
	ActionRequireResolutionObservation ActionKind = "require_resolution_observation"
)

// Drop outcomes that end in ActionNone carry one of these reasons.
const (
	ReasonSameColumn    = "same_column"
	ReasonLocked        = "resolved_locked"
	ReasonUnknownColumn = "unknown_column"
)

// Action is the board's decision for a drop gesture.
type Action struct {
	Kind   ActionKind          `json:"action"`
	Target domain.TicketStatus `json:"target,omitempty"`
	Reason string              `json:"reason,omitempty"`
	// Ticket is set for ActionRequireResolutionObservation so the caller can
	// open the resolution dialog for it.
	Ticket *domain.Ticket `json:"ticket,omitempty"`
}

// HandleDrop decides what dropping ticket onto the target column means. Rules
// apply in order: same column, resolved lock, resolution interception, move.
func HandleDrop(ticket domain.Ticket, target domain.TicketStatus) Action {
	if !target.OnBoard() {
		return Action{Kind: ActionNone, Reason: ReasonUnknownColumn}
	}
	if ticket.Status == target {
		return Action{Kind: ActionNone, Reason: ReasonSameColumn}
	}
	if ticket.IsResolved() {
		return Action{Kind: ActionNone, Reason: ReasonLocked}
	}
	if target == domain.TicketStatusResolved {
		return Action{Kind: ActionRequireResolutionObservation, Target: target, Ticket: ticket.Clone()}
	}
	return Action{Kind: ActionMove, Target: target}
}

// Draggable reports whether the board lets the ticket be picked up.
func Draggable(ticket domain.Ticket) bool {
	return !ticket.IsResolved()
}
