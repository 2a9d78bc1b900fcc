package analytics

import (
	"sort"
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

const (
	trendDays         = 7
	recentActivityCap = 10
)

// DailyTrend counts tickets created on one local calendar day.
type DailyTrend struct {
	Date  time.Time `json:"date"`
	Label string    `json:"label"`
	// Tickets created that day.
	Tickets int `json:"tickets"`
	// Resolved counts the day's created tickets that currently sit in a done status.
	Resolved int `json:"resolved"`
}

// Metrics is the dashboard snapshot for a filtered ticket set.
type Metrics struct {
	TotalTickets           int                           `json:"total_tickets"`
	OpenTickets            int                           `json:"open_tickets"`
	ResolvedTickets        int                           `json:"resolved_tickets"`
	ResolutionRate         float64                       `json:"resolution_rate"`
	TicketsToday           int                           `json:"tickets_today"`
	AvgResolutionTimeHours float64                       `json:"avg_resolution_time_hours"`
	TicketsByPriority      map[domain.TicketPriority]int `json:"tickets_by_priority"`
	TicketsByStatus        map[domain.TicketStatus]int   `json:"tickets_by_status"`
	TicketsByAttendant     map[string]int                `json:"tickets_by_attendant"`
	DailyTrends            []DailyTrend                  `json:"daily_trends"`
	RecentActivity         []domain.Ticket               `json:"recent_activity"`
}

// Compute derives every dashboard figure from tickets. Day boundaries use loc.
// The result is a pure function of its inputs.
func Compute(tickets []domain.Ticket, now time.Time, loc *time.Location) Metrics {
	if loc == nil {
		loc = time.Local
	}
	now = now.In(loc)
	today := startOfDay(now, loc)

	m := Metrics{
		TotalTickets:       len(tickets),
		TicketsByPriority:  map[domain.TicketPriority]int{},
		TicketsByStatus:    map[domain.TicketStatus]int{},
		TicketsByAttendant: map[string]int{},
	}

	var resolutionTotal time.Duration
	resolvedWithTime := 0

	for _, t := range tickets {
		switch {
		case t.Status.IsOpen():
			m.OpenTickets++
		case t.Status.IsDone():
			m.ResolvedTickets++
		}
		if !t.CreatedAt.Before(today) {
			m.TicketsToday++
		}
		if t.ResolvedAt != nil {
			resolutionTotal += t.ResolvedAt.Sub(t.CreatedAt)
			resolvedWithTime++
		}
		m.TicketsByPriority[t.Priority]++
		m.TicketsByStatus[t.Status]++
		m.TicketsByAttendant[attendantLabel(t)]++
	}

	if m.TotalTickets > 0 {
		m.ResolutionRate = float64(m.ResolvedTickets) * 100 / float64(m.TotalTickets)
	}
	if resolvedWithTime > 0 {
		m.AvgResolutionTimeHours = resolutionTotal.Hours() / float64(resolvedWithTime)
	}

	m.DailyTrends = dailyTrends(tickets, today, loc)
	m.RecentActivity = recentActivity(tickets)
	return m
}

func dailyTrends(tickets []domain.Ticket, today time.Time, loc *time.Location) []DailyTrend {
	trends := make([]DailyTrend, 0, trendDays)
	y, mo, d := today.Date()
	for i := trendDays - 1; i >= 0; i-- {
		day := time.Date(y, mo, d-i, 0, 0, 0, 0, loc)
		next := time.Date(y, mo, d-i+1, 0, 0, 0, 0, loc)
		trend := DailyTrend{Date: day, Label: day.Format("02/01")}
		for _, t := range tickets {
			if t.CreatedAt.Before(day) || !t.CreatedAt.Before(next) {
				continue
			}
			trend.Tickets++
			if t.Status.IsDone() {
				trend.Resolved++
			}
		}
		trends = append(trends, trend)
	}
	return trends
}

func recentActivity(tickets []domain.Ticket) []domain.Ticket {
	sorted := make([]domain.Ticket, len(tickets))
	copy(sorted, tickets)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})
	if len(sorted) > recentActivityCap {
		sorted = sorted[:recentActivityCap]
	}
	return sorted
}

func attendantLabel(t domain.Ticket) string {
	if name := t.AttendantName(); name != "" {
		return name
	}
	return UnassignedLabel
}
