package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/config"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

// TicketService is the ticket lifecycle engine. It owns every status change and
// the timestamps that go with it.
type TicketService struct {
	tickets          repository.TicketRepository
	dispatcher       events.Dispatcher
	logger           *zap.Logger
	extendedStatuses bool
	now              func() time.Time
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo repository.TicketRepository
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
	Config     config.TicketsConfig
	// Clock defaults to time.Now.
	Clock func() time.Time
}

// TicketCreateInput describes the intake form.
type TicketCreateInput struct {
	ClientEmail string                `json:"client_email" validate:"required,email"`
	BrokerLink  string                `json:"broker_link" validate:"omitempty,url"`
	Attendant   string                `json:"attendant" validate:"required"`
	Description string                `json:"description" validate:"required"`
	Priority    domain.TicketPriority `json:"priority" validate:"required,oneof=baixa media alta critica"`
}

// TicketEditInput is the detail view form. Nil fields are left untouched.
type TicketEditInput struct {
	Description *string
	Priority    *domain.TicketPriority
	Status      *domain.TicketStatus
	// Attendant set to an empty string unassigns the ticket.
	Attendant *string
}

// TicketListFilter is the read-side filter used by the board and detail views.
type TicketListFilter struct {
	Statuses   []domain.TicketStatus
	Priorities []domain.TicketPriority
	Attendant  *string
	Unassigned bool
	Search     *string
	Limit      int
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	return &TicketService{
		tickets:          deps.TicketRepo,
		dispatcher:       deps.Dispatcher,
		logger:           logger,
		extendedStatuses: deps.Config.ExtendedStatuses,
		now:              clock,
	}
}

// CreateTicket registers a new ticket in the open column. The attendant defaults
// to the session's attendant when the form leaves it blank.
func (s *TicketService) CreateTicket(ctx context.Context, session domain.Session, input TicketCreateInput) (*domain.Ticket, error) {
	if !session.HasAccess(domain.AccessLevelIntake) {
		return nil, apperrors.NewForbidden("intake access required")
	}
	input.ClientEmail = strings.TrimSpace(input.ClientEmail)
	input.BrokerLink = strings.TrimSpace(input.BrokerLink)
	input.Description = strings.TrimSpace(input.Description)
	input.Attendant = strings.TrimSpace(input.Attendant)
	if input.Attendant == "" {
		input.Attendant = strings.TrimSpace(session.Attendant)
	}
	if err := validateInput(input); err != nil {
		return nil, err
	}

	now := s.now()
	ticket := &domain.Ticket{
		Description: input.Description,
		Priority:    input.Priority,
		Status:      domain.TicketStatusOpen,
		ClientEmail: input.ClientEmail,
		Attendant:   &input.Attendant,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if input.BrokerLink != "" {
		link := input.BrokerLink
		ticket.BrokerLink = &link
	}

	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, s.persistenceFailure("create", "", err)
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		Actor:    events.ActorFromSession(session),
		Payload: events.TicketCreatedPayload{
			Priority:  ticket.Priority,
			Attendant: ticket.AttendantName(),
		},
	})
	return ticket, nil
}

// GetTicket loads a single ticket.
func (s *TicketService) GetTicket(ctx context.Context, _ domain.Session, ticketID string) (*domain.Ticket, error) {
	if strings.TrimSpace(ticketID) == "" {
		return nil, apperrors.NewValidationError("ticket id is required", nil)
	}
	return s.tickets.GetByID(ctx, ticketID)
}

// ListTickets returns tickets newest first.
func (s *TicketService) ListTickets(ctx context.Context, _ domain.Session, filter TicketListFilter) ([]domain.Ticket, error) {
	for _, st := range filter.Statuses {
		if !st.Valid() {
			return nil, apperrors.NewValidationError("unknown status", map[string]any{"status": st})
		}
	}
	for _, p := range filter.Priorities {
		if !p.Valid() {
			return nil, apperrors.NewValidationError("unknown priority", map[string]any{"priority": p})
		}
	}
	return s.tickets.List(ctx, repository.TicketFilter{
		Statuses:   filter.Statuses,
		Priorities: filter.Priorities,
		Attendant:  filter.Attendant,
		Unassigned: filter.Unassigned,
		SearchTerm: filter.Search,
		Limit:      filter.Limit,
	})
}

// EditTicket applies a free-form edit from the detail view. Moving into the
// resolved status stamps resolved_at; moving away clears it. The resolution
// observation is never touched here.
func (s *TicketService) EditTicket(ctx context.Context, session domain.Session, ticketID string, input TicketEditInput) (*domain.Ticket, error) {
	if !session.HasAccess(domain.AccessLevelBoard) {
		return nil, apperrors.NewForbidden("board access required")
	}
	if err := s.validateEdit(input); err != nil {
		return nil, err
	}

	current, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	updated := current.Clone()
	patch := repository.TicketPatch{UpdatedAt: now}
	var fields []string

	if input.Description != nil {
		desc := strings.TrimSpace(*input.Description)
		if desc != current.Description {
			updated.Description = desc
			patch.Description = &desc
			fields = append(fields, "description")
		}
	}
	if input.Priority != nil && *input.Priority != current.Priority {
		updated.Priority = *input.Priority
		patch.Priority = input.Priority
		fields = append(fields, "priority")
	}
	if input.Attendant != nil {
		name := strings.TrimSpace(*input.Attendant)
		switch {
		case name == "" && current.Attendant != nil:
			updated.Attendant = nil
			patch.ClearAttendant = true
			fields = append(fields, "attendant")
		case name != "" && name != current.AttendantName():
			updated.Attendant = &name
			patch.Attendant = &name
			fields = append(fields, "attendant")
		}
	}
	statusChanged := input.Status != nil && *input.Status != current.Status
	if statusChanged {
		updated.Status = *input.Status
		patch.Status = input.Status
		fields = append(fields, "status")
		switch {
		case updated.IsResolved():
			resolvedAt := now
			updated.ResolvedAt = &resolvedAt
			patch.ResolvedAt = &resolvedAt
		case current.IsResolved():
			updated.ResolvedAt = nil
			patch.ClearResolvedAt = true
		}
	}

	updated.UpdatedAt = now
	if err := s.tickets.Update(ctx, ticketID, patch); err != nil {
		return nil, s.persistenceFailure("edit", ticketID, err)
	}

	actor := events.ActorFromSession(session)
	if statusChanged {
		s.publishEvent(ctx, events.Event{
			Type:     events.EventTicketStatusChanged,
			TicketID: ticketID,
			Actor:    actor,
			Payload:  events.TicketStatusChangedPayload{OldStatus: current.Status, NewStatus: updated.Status},
		})
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketUpdated,
		TicketID: ticketID,
		Actor:    actor,
		Payload:  events.TicketUpdatedPayload{Fields: fields},
	})
	return updated, nil
}

func (s *TicketService) validateEdit(input TicketEditInput) error {
	if input.Description != nil && strings.TrimSpace(*input.Description) == "" {
		return apperrors.NewValidationError("description cannot be empty", map[string]any{"description": "is required"})
	}
	if input.Priority != nil && !input.Priority.Valid() {
		return apperrors.NewValidationError("unknown priority", map[string]any{"priority": *input.Priority})
	}
	if input.Status != nil {
		return s.checkStatusAllowed(*input.Status)
	}
	return nil
}

// checkStatusAllowed enforces the configured status vocabulary.
func (s *TicketService) checkStatusAllowed(status domain.TicketStatus) error {
	if !status.Valid() {
		return apperrors.NewValidationError("unknown status", map[string]any{"status": status})
	}
	if !s.extendedStatuses && !status.OnBoard() {
		return apperrors.NewValidationError("status is not enabled", map[string]any{"status": status})
	}
	return nil
}

// persistenceFailure hides store errors behind a PersistenceError, except for
// domain errors such as NotFound that the repository already classified.
func (s *TicketService) persistenceFailure(op, ticketID string, err error) error {
	if apperrors.IsCode(err, apperrors.CodeNotFound) {
		return err
	}
	s.logger.Error("ticket store write failed",
		zap.String("op", op),
		zap.String("ticket_id", ticketID),
		zap.Error(err))
	return apperrors.NewPersistenceError(err)
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
