package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/notify"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

// NotificationQueue accepts notices for background delivery.
type NotificationQueue interface {
	Enqueue(notice notify.ResolutionNotice) error
}

// NotificationService turns resolutions into WhatsApp notices for the attendant.
type NotificationService struct {
	dispatcher events.Dispatcher
	users      repository.UserRepository
	queue      NotificationQueue
	sender     notify.Sender
	logger     *zap.Logger
}

// NotificationDependencies bundles collaborators for the notification service.
type NotificationDependencies struct {
	Dispatcher events.Dispatcher
	UserRepo   repository.UserRepository
	Queue      NotificationQueue
	Sender     notify.Sender
	Logger     *zap.Logger
}

// ManualNoticeInput is the body of the direct send route.
type ManualNoticeInput struct {
	TicketID      string `json:"ticketId" validate:"required"`
	ClientEmail   string `json:"clientEmail" validate:"omitempty"`
	AttendantName string `json:"attendantName" validate:"required"`
	Resolution    string `json:"resolution" validate:"required"`
	PhoneNumber   string `json:"phoneNumber" validate:"required"`
}

// NewNotificationService creates the service.
func NewNotificationService(deps NotificationDependencies) *NotificationService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		dispatcher: deps.Dispatcher,
		users:      deps.UserRepo,
		queue:      deps.Queue,
		sender:     deps.Sender,
		logger:     logger,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventTicketCreated, n.logEvent)
	n.dispatcher.Subscribe(events.EventTicketStatusChanged, n.logEvent)
	n.dispatcher.Subscribe(events.EventTicketResolved, n.handleTicketResolved)
}

func (n *NotificationService) logEvent(_ context.Context, event events.Event) error {
	n.logger.Info(string(event.Type),
		zap.String("ticket_id", event.TicketID),
		zap.String("actor", event.Actor.Attendant),
		zap.Any("payload", event.Payload))
	return nil
}

// handleTicketResolved queues a notice when the operator opted in and the
// attendant can receive WhatsApp messages. It runs after the resolution has
// been stored; any failure here is logged by the dispatcher and dropped.
func (n *NotificationService) handleTicketResolved(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketResolvedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T for %s", event.Payload, event.Type)
	}
	if !payload.Notify {
		return nil
	}
	attendant := payload.Ticket.AttendantName()
	if attendant == "" {
		return nil
	}

	phone, err := n.NotificationTarget(ctx, attendant)
	if err != nil {
		return err
	}
	if phone == "" {
		n.logger.Info("attendant cannot receive whatsapp notices", zap.String("attendant", attendant))
		return nil
	}
	if n.queue == nil {
		return apperrors.NewNotificationError(fmt.Errorf("no notification queue configured"))
	}

	notice := notify.ResolutionNotice{
		Phone:         phone,
		TicketID:      payload.Ticket.ID,
		ClientEmail:   payload.Ticket.ClientEmail,
		AttendantName: attendant,
		Resolution:    payload.Observation,
	}
	if err := n.queue.Enqueue(notice); err != nil {
		return apperrors.NewNotificationError(err)
	}
	return nil
}

// NotificationTarget returns the phone to notify for an attendant, or "" when the
// attendant has no directory entry, no phone, or opted out of WhatsApp.
func (n *NotificationService) NotificationTarget(ctx context.Context, attendant string) (string, error) {
	attendant = strings.TrimSpace(attendant)
	if attendant == "" || n.users == nil {
		return "", nil
	}
	user, err := n.users.GetByAttendant(ctx, attendant)
	if err != nil {
		if apperrors.IsCode(err, apperrors.CodeNotFound) {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(user.NotificationPhone()), nil
}

// SendManual delivers a notice synchronously and reports whether the API accepted it.
func (n *NotificationService) SendManual(ctx context.Context, _ domain.Session, input ManualNoticeInput) (bool, error) {
	input.TicketID = strings.TrimSpace(input.TicketID)
	input.AttendantName = strings.TrimSpace(input.AttendantName)
	input.Resolution = strings.TrimSpace(input.Resolution)
	input.PhoneNumber = strings.TrimSpace(input.PhoneNumber)
	if err := validateInput(input); err != nil {
		return false, err
	}
	if n.sender == nil {
		return false, nil
	}
	return n.sender.SendResolutionNotification(ctx, notify.ResolutionNotice{
		Phone:         input.PhoneNumber,
		TicketID:      input.TicketID,
		ClientEmail:   strings.TrimSpace(input.ClientEmail),
		AttendantName: input.AttendantName,
		Resolution:    input.Resolution,
	}), nil
}
