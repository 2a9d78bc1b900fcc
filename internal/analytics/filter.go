package analytics

import (
	"strings"
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

// Window selects the creation-date range of a dashboard query.
type Window string

const (
	Window24h    Window = "24h"
	Window7d     Window = "7d"
	Window30d    Window = "30d"
	Window90d    Window = "90d"
	WindowCustom Window = "custom"
	WindowAll    Window = "all"
)

// Attendant filter sentinels.
const (
	AttendantAll        = "all"
	AttendantUnassigned = "unassigned"
)

// UnassignedLabel is the bucket name used for tickets with no attendant.
const UnassignedLabel = "Não Atribuído"

// Filter narrows the ticket set the dashboard is computed over.
type Filter struct {
	Window Window
	// DateFrom and DateTo are calendar dates, only used with WindowCustom.
	DateFrom   *time.Time
	DateTo     *time.Time
	Attendant  string
	Priorities []domain.TicketPriority
	Statuses   []domain.TicketStatus
	Search     string
}

// DefaultFilter is the dashboard's initial state.
func DefaultFilter() Filter {
	return Filter{Window: Window7d, Attendant: AttendantAll}
}

// Normalize fills defaults and trims free text.
func (f Filter) Normalize() Filter {
	if f.Window == "" {
		f.Window = Window7d
	}
	f.Attendant = strings.TrimSpace(f.Attendant)
	if f.Attendant == "" {
		f.Attendant = AttendantAll
	}
	f.Search = strings.TrimSpace(f.Search)
	return f
}

// Validate rejects unknown windows, priorities and statuses.
func (f Filter) Validate() error {
	switch f.Window {
	case Window24h, Window7d, Window30d, Window90d, WindowCustom, WindowAll:
	default:
		return apperrors.NewValidationError("unknown time window", map[string]any{"window": f.Window})
	}
	for _, p := range f.Priorities {
		if !p.Valid() {
			return apperrors.NewValidationError("unknown priority", map[string]any{"priority": p})
		}
	}
	for _, s := range f.Statuses {
		if !s.Valid() {
			return apperrors.NewValidationError("unknown status", map[string]any{"status": s})
		}
	}
	if f.Window == WindowCustom && f.DateFrom != nil && f.DateTo != nil && f.DateTo.Before(*f.DateFrom) {
		return apperrors.NewValidationError("date_to is before date_from", nil)
	}
	return nil
}

// Range returns the inclusive created_at bounds for the window. A nil bound is open.
func (f Filter) Range(now time.Time, loc *time.Location) (from, to *time.Time) {
	if loc == nil {
		loc = time.Local
	}
	now = now.In(loc)
	var start time.Time
	switch f.Window {
	case Window24h:
		start = now.Add(-24 * time.Hour)
	case Window7d, "":
		start = now.AddDate(0, 0, -7)
	case Window30d:
		start = now.AddDate(0, 0, -30)
	case Window90d:
		start = now.AddDate(0, 0, -90)
	case WindowCustom:
		if f.DateFrom != nil {
			begin := startOfDay(*f.DateFrom, loc)
			from = &begin
		}
		if f.DateTo != nil {
			end := startOfDay(*f.DateTo, loc).AddDate(0, 0, 1).Add(-time.Nanosecond)
			to = &end
		}
		return from, to
	default:
		return nil, nil
	}
	return &start, nil
}

// Apply returns the tickets that pass every filter clause, keeping input order.
func (f Filter) Apply(tickets []domain.Ticket, now time.Time, loc *time.Location) []domain.Ticket {
	f = f.Normalize()
	from, to := f.Range(now, loc)
	search := strings.ToLower(f.Search)

	out := make([]domain.Ticket, 0, len(tickets))
	for _, t := range tickets {
		if from != nil && t.CreatedAt.Before(*from) {
			continue
		}
		if to != nil && t.CreatedAt.After(*to) {
			continue
		}
		if !f.matchAttendant(t) {
			continue
		}
		if len(f.Priorities) > 0 && !containsPriority(f.Priorities, t.Priority) {
			continue
		}
		if len(f.Statuses) > 0 && !containsStatus(f.Statuses, t.Status) {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(t.ClientEmail), search) &&
			!strings.Contains(strings.ToLower(t.Description), search) {
			continue
		}
		out = append(out, t)
	}
	return out
}

func (f Filter) matchAttendant(t domain.Ticket) bool {
	switch f.Attendant {
	case AttendantAll:
		return true
	case AttendantUnassigned:
		return t.Attendant == nil
	default:
		return t.Attendant != nil && *t.Attendant == f.Attendant
	}
}

func containsPriority(list []domain.TicketPriority, p domain.TicketPriority) bool {
	for _, candidate := range list {
		if candidate == p {
			return true
		}
	}
	return false
}

func containsStatus(list []domain.TicketStatus, s domain.TicketStatus) bool {
	for _, candidate := range list {
		if candidate == s {
			return true
		}
	}
	return false
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
