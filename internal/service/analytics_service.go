package service

import (
	"context"
	"time"

	"github.com/spec-kit/helpdesk-service/internal/analytics"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

// AnalyticsService recomputes the dashboard from the ticket store on every call.
type AnalyticsService struct {
	tickets  repository.TicketRepository
	location *time.Location
	now      func() time.Time
}

// Dashboard is the level 3 analytics payload.
type Dashboard struct {
	Filter      analytics.Filter
	GeneratedAt time.Time
	Metrics     analytics.Metrics
	Series      analytics.Series
}

// NewAnalyticsService constructs the service. loc sets calendar-day boundaries.
func NewAnalyticsService(tickets repository.TicketRepository, loc *time.Location, clock func() time.Time) *AnalyticsService {
	if loc == nil {
		loc = time.Local
	}
	if clock == nil {
		clock = time.Now
	}
	return &AnalyticsService{tickets: tickets, location: loc, now: clock}
}

// Dashboard computes metrics and chart series for the filter.
func (s *AnalyticsService) Dashboard(ctx context.Context, session domain.Session, filter analytics.Filter) (*Dashboard, error) {
	now := s.now()
	tickets, filter, err := s.load(ctx, session, filter, now)
	if err != nil {
		return nil, err
	}
	metrics := analytics.Compute(tickets, now, s.location)
	return &Dashboard{
		Filter:      filter,
		GeneratedAt: now,
		Metrics:     metrics,
		Series:      analytics.BuildSeries(metrics),
	}, nil
}

// Performance ranks attendants over the filtered tickets.
func (s *AnalyticsService) Performance(ctx context.Context, session domain.Session, filter analytics.Filter) ([]analytics.AttendantPerformance, error) {
	tickets, _, err := s.load(ctx, session, filter, s.now())
	if err != nil {
		return nil, err
	}
	return analytics.Performance(tickets), nil
}

// load pushes the window and attendant clauses down to the store, then applies
// the complete filter in memory.
func (s *AnalyticsService) load(ctx context.Context, session domain.Session, filter analytics.Filter, now time.Time) ([]domain.Ticket, analytics.Filter, error) {
	if !session.HasAccess(domain.AccessLevelAnalytics) {
		return nil, filter, apperrors.NewForbidden("analytics access required")
	}
	filter = filter.Normalize()
	if err := filter.Validate(); err != nil {
		return nil, filter, err
	}

	from, to := filter.Range(now, s.location)
	query := repository.TicketFilter{CreatedFrom: from, CreatedTo: to}
	switch filter.Attendant {
	case analytics.AttendantAll:
	case analytics.AttendantUnassigned:
		query.Unassigned = true
	default:
		name := filter.Attendant
		query.Attendant = &name
	}

	tickets, err := s.tickets.List(ctx, query)
	if err != nil {
		return nil, filter, err
	}
	return filter.Apply(tickets, now, s.location), filter, nil
}
