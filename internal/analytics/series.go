package analytics

import (
	"math"
	"sort"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// Slice is one bar or pie segment.
type Slice struct {
	Name       string  `json:"name"`
	Value      int     `json:"value"`
	Percentage float64 `json:"percentage"`
}

// TrendPoint extends a daily trend with running totals for the line chart.
type TrendPoint struct {
	DailyTrend
	Cumulative int     `json:"cumulative"`
	Efficiency float64 `json:"efficiency"`
}

// Series holds chart-ready views of a Metrics snapshot.
type Series struct {
	Priority          []Slice      `json:"priority"`
	Status            []Slice      `json:"status"`
	Attendants        []Slice      `json:"attendants"`
	Trends            []TrendPoint `json:"trends"`
	AverageEfficiency float64      `json:"average_efficiency"`
}

// BuildSeries shapes m for the charts. Only non-empty buckets are emitted.
func BuildSeries(m Metrics) Series {
	s := Series{
		Priority:   []Slice{},
		Status:     []Slice{},
		Attendants: []Slice{},
		Trends:     make([]TrendPoint, 0, len(m.DailyTrends)),
	}

	for _, p := range domain.AllTicketPriorities {
		if n := m.TicketsByPriority[p]; n > 0 {
			s.Priority = append(s.Priority, Slice{Name: string(p), Value: n, Percentage: percent(n, m.TotalTickets)})
		}
	}
	for _, st := range domain.AllTicketStatuses {
		if n := m.TicketsByStatus[st]; n > 0 {
			s.Status = append(s.Status, Slice{Name: string(st), Value: n, Percentage: percent(n, m.TotalTickets)})
		}
	}

	for name, n := range m.TicketsByAttendant {
		s.Attendants = append(s.Attendants, Slice{Name: name, Value: n, Percentage: percent(n, m.TotalTickets)})
	}
	sort.Slice(s.Attendants, func(i, j int) bool {
		if s.Attendants[i].Value != s.Attendants[j].Value {
			return s.Attendants[i].Value > s.Attendants[j].Value
		}
		return s.Attendants[i].Name < s.Attendants[j].Name
	})

	cumulative := 0
	var efficiencySum float64
	for _, day := range m.DailyTrends {
		cumulative += day.Tickets
		point := TrendPoint{DailyTrend: day, Cumulative: cumulative, Efficiency: percent(day.Resolved, day.Tickets)}
		efficiencySum += point.Efficiency
		s.Trends = append(s.Trends, point)
	}
	if len(s.Trends) > 0 {
		s.AverageEfficiency = round1(efficiencySum / float64(len(s.Trends)))
	}
	return s
}

// percent returns part/total as a percentage with one decimal, 0 for an empty total.
func percent(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return round1(float64(part) * 100 / float64(total))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
