package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/notify"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

// memTicketRepo is an in-memory TicketRepository. Set CreateErr/UpdateErr to
// simulate store failures.
type memTicketRepo struct {
	mu        sync.Mutex
	rows      map[string]*domain.Ticket
	order     []string
	seq       int
	updates   int
	CreateErr error
	UpdateErr error
	ListFunc  func(ctx context.Context, filter repository.TicketFilter) ([]domain.Ticket, error)
	lastList  repository.TicketFilter
}

func newMemTicketRepo(seed ...domain.Ticket) *memTicketRepo {
	r := &memTicketRepo{rows: map[string]*domain.Ticket{}}
	for _, t := range seed {
		t := t
		r.rows[t.ID] = t.Clone()
		r.order = append(r.order, t.ID)
	}
	return r
}

func (r *memTicketRepo) Create(_ context.Context, ticket *domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.CreateErr != nil {
		return r.CreateErr
	}
	r.seq++
	ticket.ID = fmt.Sprintf("00000000-0000-4000-8000-%012d", r.seq)
	r.rows[ticket.ID] = ticket.Clone()
	r.order = append(r.order, ticket.ID)
	return nil
}

func (r *memTicketRepo) Update(_ context.Context, id string, patch repository.TicketPatch) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.UpdateErr != nil {
		return r.UpdateErr
	}
	row, ok := r.rows[id]
	if !ok {
		return apperrors.NewNotFound("ticket", map[string]any{"id": id})
	}
	r.updates++
	row.UpdatedAt = patch.UpdatedAt
	if patch.Description != nil {
		row.Description = *patch.Description
	}
	if patch.Priority != nil {
		row.Priority = *patch.Priority
	}
	if patch.Status != nil {
		row.Status = *patch.Status
	}
	if patch.Attendant != nil {
		name := *patch.Attendant
		row.Attendant = &name
	} else if patch.ClearAttendant {
		row.Attendant = nil
	}
	if patch.ResolutionObservation != nil {
		obs := *patch.ResolutionObservation
		row.ResolutionObservation = &obs
	}
	if patch.ResolvedAt != nil {
		at := *patch.ResolvedAt
		row.ResolvedAt = &at
	} else if patch.ClearResolvedAt {
		row.ResolvedAt = nil
	}
	return nil
}

func (r *memTicketRepo) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok {
		return nil, apperrors.NewNotFound("ticket", map[string]any{"id": id})
	}
	return row.Clone(), nil
}

func (r *memTicketRepo) List(ctx context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	r.mu.Lock()
	r.lastList = filter
	r.mu.Unlock()
	if r.ListFunc != nil {
		return r.ListFunc(ctx, filter)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.Ticket{}
	for i := len(r.order) - 1; i >= 0; i-- {
		t := r.rows[r.order[i]]
		if filter.CreatedFrom != nil && t.CreatedAt.Before(*filter.CreatedFrom) {
			continue
		}
		if filter.CreatedTo != nil && t.CreatedAt.After(*filter.CreatedTo) {
			continue
		}
		if filter.Unassigned && t.Attendant != nil {
			continue
		}
		if filter.Attendant != nil && t.AttendantName() != *filter.Attendant {
			continue
		}
		if len(filter.Statuses) > 0 && !hasStatus(filter.Statuses, t.Status) {
			continue
		}
		if filter.SearchTerm != nil {
			term := strings.ToLower(*filter.SearchTerm)
			if !strings.Contains(strings.ToLower(t.ClientEmail), term) && !strings.Contains(strings.ToLower(t.Description), term) {
				continue
			}
		}
		out = append(out, *t.Clone())
	}
	return out, nil
}

func (r *memTicketRepo) get(id string) domain.Ticket {
	r.mu.Lock()
	defer r.mu.Unlock()
	return *r.rows[id].Clone()
}

func (r *memTicketRepo) updateCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.updates
}

func hasStatus(list []domain.TicketStatus, s domain.TicketStatus) bool {
	for _, c := range list {
		if c == s {
			return true
		}
	}
	return false
}

// fakeUserRepo follows the func-field style: unset funcs report NotFound or succeed.
type fakeUserRepo struct {
	CreateFunc         func(ctx context.Context, user *domain.User) error
	UpdateFunc         func(ctx context.Context, user *domain.User) error
	DeleteFunc         func(ctx context.Context, id string) error
	SetActiveFunc      func(ctx context.Context, id string, active bool) error
	GetByIDFunc        func(ctx context.Context, id string) (*domain.User, error)
	GetByUsernameFunc  func(ctx context.Context, username string) (*domain.User, error)
	GetByAttendantFunc func(ctx context.Context, attendant string) (*domain.User, error)
	ListFunc           func(ctx context.Context) ([]domain.User, error)
}

func (f *fakeUserRepo) Create(ctx context.Context, user *domain.User) error {
	if f.CreateFunc == nil {
		user.ID = "new-user"
		return nil
	}
	return f.CreateFunc(ctx, user)
}

func (f *fakeUserRepo) Update(ctx context.Context, user *domain.User) error {
	if f.UpdateFunc == nil {
		return nil
	}
	return f.UpdateFunc(ctx, user)
}

func (f *fakeUserRepo) Delete(ctx context.Context, id string) error {
	if f.DeleteFunc == nil {
		return nil
	}
	return f.DeleteFunc(ctx, id)
}

func (f *fakeUserRepo) SetActive(ctx context.Context, id string, active bool) error {
	if f.SetActiveFunc == nil {
		return nil
	}
	return f.SetActiveFunc(ctx, id, active)
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if f.GetByIDFunc == nil {
		return nil, apperrors.NewNotFound("user", nil)
	}
	return f.GetByIDFunc(ctx, id)
}

func (f *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	if f.GetByUsernameFunc == nil {
		return nil, apperrors.NewNotFound("user", nil)
	}
	return f.GetByUsernameFunc(ctx, username)
}

func (f *fakeUserRepo) GetByAttendant(ctx context.Context, attendant string) (*domain.User, error) {
	if f.GetByAttendantFunc == nil {
		return nil, apperrors.NewNotFound("user", nil)
	}
	return f.GetByAttendantFunc(ctx, attendant)
}

func (f *fakeUserRepo) List(ctx context.Context) ([]domain.User, error) {
	if f.ListFunc == nil {
		return []domain.User{}, nil
	}
	return f.ListFunc(ctx)
}

type fakeSessionRepo struct {
	RevokeFunc func(ctx context.Context, tokenID string, ttl time.Duration) error
}

func (f *fakeSessionRepo) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	return f.RevokeFunc(ctx, tokenID, ttl)
}

func (f *fakeSessionRepo) IsRevoked(context.Context, string) (bool, error) { return false, nil }

type fakeQueue struct {
	mu      sync.Mutex
	notices []notify.ResolutionNotice
	err     error
}

func (q *fakeQueue) Enqueue(notice notify.ResolutionNotice) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.err != nil {
		return q.err
	}
	q.notices = append(q.notices, notice)
	return nil
}

func (q *fakeQueue) queued() []notify.ResolutionNotice {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]notify.ResolutionNotice{}, q.notices...)
}

type fakeSender struct {
	SendFunc func(ctx context.Context, notice notify.ResolutionNotice) bool
}

func (f *fakeSender) SendResolutionNotification(ctx context.Context, notice notify.ResolutionNotice) bool {
	return f.SendFunc(ctx, notice)
}

// eventLog subscribes to every ticket event on a dispatcher.
type eventLog struct {
	mu     sync.Mutex
	events []events.Event
}

func recordEvents(d events.Dispatcher) *eventLog {
	l := &eventLog{}
	for _, et := range []events.EventType{
		events.EventTicketCreated,
		events.EventTicketStatusChanged,
		events.EventTicketResolved,
		events.EventTicketUpdated,
	} {
		d.Subscribe(et, func(_ context.Context, e events.Event) error {
			l.mu.Lock()
			defer l.mu.Unlock()
			l.events = append(l.events, e)
			return nil
		})
	}
	return l
}

func (l *eventLog) types() []events.EventType {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := []events.EventType{}
	for _, e := range l.events {
		out = append(out, e.Type)
	}
	return out
}

// fixedClock returns a clock that advances one minute per call.
func fixedClock(start time.Time) func() time.Time {
	var mu sync.Mutex
	current := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		now := current
		current = current.Add(time.Minute)
		return now
	}
}

const time24h = 24 * time.Hour

var (
	testStart = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	boardSession = domain.Session{
		UserID: "u-1", Username: "thiago", Attendant: "Thiago",
		Level1Access: true, Level2Access: true,
	}
	adminSession = domain.Session{
		UserID: "u-admin", Username: "admin", Attendant: "Admin",
		Level1Access: true, Level2Access: true, Level3Access: true,
	}
	intakeSession = domain.Session{UserID: "u-2", Username: "ana", Attendant: "Ana", Level1Access: true}
)

func strPtr(s string) *string { return &s }

func seedTicket(id string, status domain.TicketStatus, created time.Time) domain.Ticket {
	t := domain.Ticket{
		ID:          id,
		Description: "VPN drops every hour",
		Priority:    domain.TicketPriorityMedium,
		Status:      status,
		ClientEmail: "client@acme.com",
		Attendant:   strPtr("Thiago"),
		CreatedAt:   created,
		UpdatedAt:   created,
	}
	if status == domain.TicketStatusResolved {
		at := created.Add(3 * time.Hour)
		obs := "restarted the concentrator"
		t.ResolvedAt = &at
		t.ResolutionObservation = &obs
	}
	return t
}
