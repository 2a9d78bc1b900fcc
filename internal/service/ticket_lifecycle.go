package service

import (
	"context"
	"strings"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

// Origin tells the lifecycle engine which surface requested a status change.
type Origin string

const (
	OriginBoard  Origin = "board"
	OriginDetail Origin = "detail"
)

// MoveStatus changes a ticket's status without resolving it.
//
// Moving to the current status is a NoOp and writes nothing. A resolved ticket
// cannot leave the resolved column from the board. Moving into the resolved
// status is refused with RESOLUTION_REQUIRED: only ResolveTicket may do that.
func (s *TicketService) MoveStatus(ctx context.Context, session domain.Session, ticketID string, status domain.TicketStatus, origin Origin) (*domain.Ticket, error) {
	if !session.CanDrag() {
		return nil, apperrors.NewForbidden("board access required")
	}
	if err := s.checkStatusAllowed(status); err != nil {
		return nil, err
	}

	current, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	if current.Status == status {
		return nil, apperrors.NewNoOp("ticket already has this status")
	}
	if current.IsResolved() && origin == OriginBoard {
		return nil, apperrors.NewIllegalTransition("resolved tickets cannot be moved on the board",
			map[string]any{"ticket_id": ticketID, "from": current.Status, "to": status})
	}
	if status == domain.TicketStatusResolved {
		return nil, apperrors.NewResolutionRequired(ticketID)
	}

	now := s.now()
	updated := current.Clone()
	updated.Status = status
	updated.UpdatedAt = now
	patch := repository.TicketPatch{Status: &status, UpdatedAt: now}
	if current.IsResolved() {
		updated.ResolvedAt = nil
		patch.ClearResolvedAt = true
	}

	if err := s.tickets.Update(ctx, ticketID, patch); err != nil {
		return nil, s.persistenceFailure("move", ticketID, err)
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketStatusChanged,
		TicketID: ticketID,
		Actor:    events.ActorFromSession(session),
		Payload:  events.TicketStatusChangedPayload{OldStatus: current.Status, NewStatus: status},
	})
	return updated, nil
}

// ResolveTicket moves a ticket into the resolved status with the mandatory
// observation. It is the only operation that writes resolution_observation, and
// it writes it once: a ticket reopened from the detail view and resolved again
// keeps its first observation. notify records the operator's choice and travels
// with the ticket_resolved event.
func (s *TicketService) ResolveTicket(ctx context.Context, session domain.Session, ticketID, observation string, notify bool) (*domain.Ticket, error) {
	if !session.CanDrag() {
		return nil, apperrors.NewForbidden("board access required")
	}
	observation = strings.TrimSpace(observation)
	if observation == "" {
		return nil, apperrors.NewValidationError("resolution observation is required",
			map[string]any{"observation": "is required"})
	}

	current, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if current.IsResolved() {
		return nil, apperrors.NewNoOp("ticket is already resolved")
	}

	now := s.now()
	status := domain.TicketStatusResolved
	updated := current.Clone()
	updated.Status = status
	updated.ResolvedAt = &now
	updated.UpdatedAt = now

	patch := repository.TicketPatch{
		Status:     &status,
		ResolvedAt: &now,
		UpdatedAt:  now,
	}
	if current.ResolutionObservation != nil {
		observation = *current.ResolutionObservation
	} else {
		updated.ResolutionObservation = &observation
		patch.ResolutionObservation = &observation
	}
	if err := s.tickets.Update(ctx, ticketID, patch); err != nil {
		return nil, s.persistenceFailure("resolve", ticketID, err)
	}

	actor := events.ActorFromSession(session)
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketStatusChanged,
		TicketID: ticketID,
		Actor:    actor,
		Payload:  events.TicketStatusChangedPayload{OldStatus: current.Status, NewStatus: status},
	})
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketResolved,
		TicketID: ticketID,
		Actor:    actor,
		Payload: events.TicketResolvedPayload{
			Ticket:      *updated.Clone(),
			Observation: observation,
			Notify:      notify,
		},
	})
	return updated, nil
}
