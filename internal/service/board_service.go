package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/board"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

// BoardService backs the kanban view: it projects tickets into columns and
// turns drops into lifecycle calls.
type BoardService struct {
	tickets       *TicketService
	notifications *NotificationService
	logger        *zap.Logger
}

// BoardView is the full board with per-column counts.
type BoardView struct {
	Columns board.Columns
	Counts  map[domain.TicketStatus]int
}

// DropResult reports what a drop did. Ticket is the moved ticket for ActionMove
// and the ticket awaiting an observation for ActionRequireResolutionObservation.
type DropResult struct {
	Action board.Action
	Ticket *domain.Ticket
	// NotificationPhone is non-empty when the resolve dialog should offer the
	// WhatsApp checkbox.
	NotificationPhone string
}

// NewBoardService constructs the service.
func NewBoardService(tickets *TicketService, notifications *NotificationService, logger *zap.Logger) *BoardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BoardService{tickets: tickets, notifications: notifications, logger: logger}
}

// Board loads every ticket and projects the three columns.
func (s *BoardService) Board(ctx context.Context, session domain.Session) (*BoardView, error) {
	if !session.CanDrag() {
		return nil, apperrors.NewForbidden("board access required")
	}
	tickets, err := s.tickets.ListTickets(ctx, session, TicketListFilter{Statuses: domain.BoardStatuses})
	if err != nil {
		return nil, err
	}
	cols := board.ProjectColumns(tickets)
	return &BoardView{
		Columns: cols,
		Counts: map[domain.TicketStatus]int{
			domain.TicketStatusOpen:       len(cols.Open),
			domain.TicketStatusInProgress: len(cols.InProgress),
			domain.TicketStatusResolved:   len(cols.Resolved),
		},
	}, nil
}

// Drop interprets dropping a ticket onto a column. No-op drops and drops the
// lifecycle refuses come back as ActionNone without an error.
func (s *BoardService) Drop(ctx context.Context, session domain.Session, ticketID string, target domain.TicketStatus) (*DropResult, error) {
	if !session.CanDrag() {
		return nil, apperrors.NewForbidden("board access required")
	}
	ticket, err := s.tickets.GetTicket(ctx, session, ticketID)
	if err != nil {
		return nil, err
	}

	action := board.HandleDrop(*ticket, target)
	switch action.Kind {
	case board.ActionMove:
		moved, err := s.tickets.MoveStatus(ctx, session, ticketID, action.Target, OriginBoard)
		if err != nil {
			if ignoredDropError(err) {
				s.logger.Debug("drop ignored", zap.String("ticket_id", ticketID), zap.Error(err))
				return &DropResult{Action: board.Action{Kind: board.ActionNone, Reason: board.ReasonSameColumn}}, nil
			}
			return nil, err
		}
		return &DropResult{Action: action, Ticket: moved}, nil
	case board.ActionRequireResolutionObservation:
		phone, err := s.NotificationTarget(ctx, ticket.AttendantName())
		if err != nil {
			s.logger.Warn("attendant phone lookup failed", zap.String("ticket_id", ticketID), zap.Error(err))
		}
		return &DropResult{Action: action, Ticket: action.Ticket, NotificationPhone: phone}, nil
	default:
		return &DropResult{Action: action}, nil
	}
}

// ConfirmResolution is the second phase of a drop onto the resolved column. The
// notification, when requested, is dispatched only after the resolution is stored
// and never affects the result.
func (s *BoardService) ConfirmResolution(ctx context.Context, session domain.Session, ticketID, observation string, sendNotification bool) (*domain.Ticket, error) {
	if !session.CanDrag() {
		return nil, apperrors.NewForbidden("board access required")
	}
	return s.tickets.ResolveTicket(ctx, session, ticketID, observation, sendNotification)
}

// NotificationTarget returns the attendant's notification phone, "" when none.
func (s *BoardService) NotificationTarget(ctx context.Context, attendant string) (string, error) {
	if s.notifications == nil {
		return "", nil
	}
	return s.notifications.NotificationTarget(ctx, attendant)
}

// ignoredDropError reports lifecycle refusals the board swallows silently.
func ignoredDropError(err error) bool {
	return apperrors.IsCode(err, apperrors.CodeNoOp) ||
		apperrors.IsCode(err, apperrors.CodeIllegalTransition) ||
		apperrors.IsCode(err, apperrors.CodeResolutionRequired)
}
