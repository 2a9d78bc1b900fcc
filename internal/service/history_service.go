package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

// HistoryService keeps the ticket audit trail. Entries are written from ticket
// events after the change itself is stored, so a failed audit write never
// blocks the lifecycle.
type HistoryService struct {
	dispatcher events.Dispatcher
	history    repository.TicketHistoryRepository
	tickets    repository.TicketRepository
	logger     *zap.Logger
}

// NewHistoryService constructs the service.
func NewHistoryService(dispatcher events.Dispatcher, history repository.TicketHistoryRepository, tickets repository.TicketRepository, logger *zap.Logger) *HistoryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HistoryService{dispatcher: dispatcher, history: history, tickets: tickets, logger: logger}
}

// RegisterHandlers subscribes to every ticket event.
func (h *HistoryService) RegisterHandlers() {
	if h.dispatcher == nil {
		return
	}
	for _, et := range []events.EventType{
		events.EventTicketCreated,
		events.EventTicketStatusChanged,
		events.EventTicketResolved,
		events.EventTicketUpdated,
	} {
		h.dispatcher.Subscribe(et, h.record)
	}
}

// ListHistory returns a ticket's entries, oldest first.
func (h *HistoryService) ListHistory(ctx context.Context, session domain.Session, ticketID string) ([]domain.TicketHistory, error) {
	if !session.CanDrag() {
		return nil, apperrors.NewForbidden("board access required")
	}
	if _, err := h.tickets.GetByID(ctx, ticketID); err != nil {
		return nil, err
	}
	return h.history.ListByTicket(ctx, ticketID)
}

func (h *HistoryService) record(ctx context.Context, event events.Event) error {
	entry := &domain.TicketHistory{
		TicketID:  event.TicketID,
		ChangedBy: event.Actor.Attendant,
		CreatedAt: event.Timestamp,
	}
	if event.Actor.UserID != "" {
		id := event.Actor.UserID
		entry.ChangedByID = &id
	}

	switch p := event.Payload.(type) {
	case events.TicketCreatedPayload:
		entry.ChangeType = domain.ChangeTypeCreated
		entry.NewValue = map[string]any{"priority": p.Priority, "atendente": p.Attendant}
	case events.TicketStatusChangedPayload:
		entry.ChangeType = domain.ChangeTypeStatus
		entry.OldValue = map[string]any{"status": p.OldStatus}
		entry.NewValue = map[string]any{"status": p.NewStatus}
	case events.TicketResolvedPayload:
		entry.ChangeType = domain.ChangeTypeResolved
		entry.NewValue = map[string]any{"observation": p.Observation, "notify": p.Notify}
	case events.TicketUpdatedPayload:
		entry.ChangeType = domain.ChangeTypeEdited
		entry.NewValue = map[string]any{"fields": p.Fields}
	default:
		return fmt.Errorf("unexpected payload %T for %s", event.Payload, event.Type)
	}

	if err := h.history.Create(ctx, entry); err != nil {
		return fmt.Errorf("record %s: %w", entry.ChangeType, err)
	}
	return nil
}
