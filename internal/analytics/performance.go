package analytics

import (
	"sort"
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// Trend is a coarse reading of an attendant's resolution rate.
type Trend string

const (
	TrendUp     Trend = "up"
	TrendStable Trend = "stable"
	TrendDown   Trend = "down"
)

// AttendantPerformance summarizes one attendant's tickets in the filtered set.
type AttendantPerformance struct {
	Name               string  `json:"name"`
	TotalTickets       int     `json:"total_tickets"`
	ResolvedTickets    int     `json:"resolved_tickets"`
	ResolutionRate     float64 `json:"resolution_rate"`
	AvgResolutionHours float64 `json:"avg_resolution_hours"`
	Trend              Trend   `json:"trend"`
	Rank               int     `json:"rank"`
}

// Performance ranks attendants by resolution rate, then by volume. Unassigned
// tickets are not attributed to anyone.
func Performance(tickets []domain.Ticket) []AttendantPerformance {
	type acc struct {
		total, resolved int
		resolution      time.Duration
		timed           int
	}
	byName := map[string]*acc{}
	for _, t := range tickets {
		name := t.AttendantName()
		if name == "" {
			continue
		}
		a, ok := byName[name]
		if !ok {
			a = &acc{}
			byName[name] = a
		}
		a.total++
		if t.Status.IsDone() {
			a.resolved++
		}
		if t.ResolvedAt != nil {
			a.resolution += t.ResolvedAt.Sub(t.CreatedAt)
			a.timed++
		}
	}

	out := make([]AttendantPerformance, 0, len(byName))
	for name, a := range byName {
		p := AttendantPerformance{
			Name:            name,
			TotalTickets:    a.total,
			ResolvedTickets: a.resolved,
			ResolutionRate:  percent(a.resolved, a.total),
		}
		if a.timed > 0 {
			p.AvgResolutionHours = round1(a.resolution.Hours() / float64(a.timed))
		}
		switch {
		case p.ResolutionRate > 80:
			p.Trend = TrendUp
		case p.ResolutionRate < 60:
			p.Trend = TrendDown
		default:
			p.Trend = TrendStable
		}
		out = append(out, p)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].ResolutionRate != out[j].ResolutionRate {
			return out[i].ResolutionRate > out[j].ResolutionRate
		}
		if out[i].TotalTickets != out[j].TotalTickets {
			return out[i].TotalTickets > out[j].TotalTickets
		}
		return out[i].Name < out[j].Name
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}
