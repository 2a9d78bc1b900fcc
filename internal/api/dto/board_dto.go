package dto

import (
	"github.com/spec-kit/helpdesk-service/internal/board"
	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// BoardColumn is one kanban lane.
type BoardColumn struct {
	Status  domain.TicketStatus `json:"status"`
	Title   string              `json:"title"`
	Count   int                 `json:"count"`
	Tickets []TicketResponse    `json:"tickets"`
}

// BoardResponse lists the columns left to right.
type BoardResponse struct {
	Columns []BoardColumn `json:"columns"`
	Total   int           `json:"total"`
}

// DropRequest payload.
type DropRequest struct {
	Target domain.TicketStatus `json:"target"`
}

// DropResponse reports the board's decision.
type DropResponse struct {
	Action            board.ActionKind    `json:"action"`
	Target            domain.TicketStatus `json:"target,omitempty"`
	Reason            string              `json:"reason,omitempty"`
	Ticket            *TicketResponse     `json:"ticket,omitempty"`
	NotificationPhone string              `json:"notification_phone,omitempty"`
}

// ResolveRequest is the second phase of a drop onto the resolved column.
type ResolveRequest struct {
	Observation      string `json:"observation"`
	SendNotification bool   `json:"send_notification"`
}
