package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/notify"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

func TestNotificationService_SendManual(t *testing.T) {
	t.Parallel()

	var got notify.ResolutionNotice
	sender := &fakeSender{SendFunc: func(_ context.Context, n notify.ResolutionNotice) bool {
		got = n
		return true
	}}
	svc := NewNotificationService(NotificationDependencies{Sender: sender})

	ok, err := svc.SendManual(context.Background(), boardSession, ManualNoticeInput{
		TicketID:      "abc",
		ClientEmail:   " client@acme.com ",
		AttendantName: "Thiago",
		Resolution:    "fixed cable",
		PhoneNumber:   " 11 98888-7777 ",
	})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "11 98888-7777", got.Phone)
	assert.Equal(t, "client@acme.com", got.ClientEmail)

	_, err = svc.SendManual(context.Background(), boardSession, ManualNoticeInput{TicketID: "abc", AttendantName: "Thiago", Resolution: "  "})
	require.True(t, apperrors.IsCode(err, apperrors.CodeValidation))
	details := apperrors.ToDomainError(err).Details
	assert.Contains(t, details, "resolution")
	assert.Contains(t, details, "phoneNumber")
}

func TestNotificationService_SendManualReportsRejection(t *testing.T) {
	t.Parallel()

	svc := NewNotificationService(NotificationDependencies{
		Sender: &fakeSender{SendFunc: func(context.Context, notify.ResolutionNotice) bool { return false }},
	})
	ok, err := svc.SendManual(context.Background(), boardSession, ManualNoticeInput{
		TicketID: "abc", AttendantName: "Thiago", Resolution: "ok", PhoneNumber: "11999998888",
	})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNotificationService_NotificationTarget(t *testing.T) {
	t.Parallel()

	svc := NewNotificationService(NotificationDependencies{UserRepo: &fakeUserRepo{
		GetByAttendantFunc: func(_ context.Context, name string) (*domain.User, error) {
			switch name {
			case "Thiago":
				return &domain.User{Phone: " 11988887777 ", WhatsAppEnabled: true}, nil
			case "Gabriel":
				return &domain.User{Phone: "11977776666"}, nil
			}
			return nil, apperrors.NewNotFound("user", nil)
		},
	}})

	for name, want := range map[string]string{"Thiago": "11988887777", "Gabriel": "", "Nobody": "", "  ": ""} {
		phone, err := svc.NotificationTarget(context.Background(), name)
		require.NoError(t, err)
		assert.Equal(t, want, phone, name)
	}
}

func TestNotificationService_ResolvedHandlerLogsFailures(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.WarnLevel)
	dispatcher := events.NewInMemoryDispatcher(zap.New(core))
	queue := &fakeQueue{err: assert.AnError}
	svc := NewNotificationService(NotificationDependencies{
		Dispatcher: dispatcher,
		Queue:      queue,
		UserRepo: &fakeUserRepo{GetByAttendantFunc: func(context.Context, string) (*domain.User, error) {
			return &domain.User{Phone: "11988887777", WhatsAppEnabled: true}, nil
		}},
	})
	svc.RegisterHandlers()

	ticket := seedTicket("t-1", domain.TicketStatusResolved, testStart)
	err := dispatcher.Publish(context.Background(), events.Event{
		Type:     events.EventTicketResolved,
		TicketID: ticket.ID,
		Payload:  events.TicketResolvedPayload{Ticket: ticket, Observation: "done", Notify: true},
	})
	require.NoError(t, err)
	require.Equal(t, 1, logs.FilterMessage("event handler failed").Len())
}

func TestNotificationService_ResolvedHandlerSkipsUnassigned(t *testing.T) {
	t.Parallel()

	dispatcher := events.NewInMemoryDispatcher(nil)
	queue := &fakeQueue{}
	lookups := 0
	svc := NewNotificationService(NotificationDependencies{
		Dispatcher: dispatcher,
		Queue:      queue,
		UserRepo: &fakeUserRepo{GetByAttendantFunc: func(context.Context, string) (*domain.User, error) {
			lookups++
			return &domain.User{Phone: "11988887777", WhatsAppEnabled: true}, nil
		}},
	})
	svc.RegisterHandlers()

	ticket := seedTicket("t-1", domain.TicketStatusResolved, testStart)
	ticket.Attendant = nil
	require.NoError(t, dispatcher.Publish(context.Background(), events.Event{
		Type:    events.EventTicketResolved,
		Payload: events.TicketResolvedPayload{Ticket: ticket, Observation: "done", Notify: true},
	}))
	assert.Zero(t, lookups)
	assert.Empty(t, queue.queued())
}
