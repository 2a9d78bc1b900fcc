package dto

import (
	"time"

	"github.com/spec-kit/helpdesk-service/internal/analytics"
	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// FilterResponse echoes the normalized filter.
type FilterResponse struct {
	Window     analytics.Window        `json:"window"`
	DateFrom   *time.Time              `json:"date_from,omitempty"`
	DateTo     *time.Time              `json:"date_to,omitempty"`
	Attendant  string                  `json:"atendente"`
	Priorities []domain.TicketPriority `json:"priorities"`
	Statuses   []domain.TicketStatus   `json:"statuses"`
	Search     string                  `json:"search"`
}

// MetricsResponse mirrors analytics.Metrics with wire-form tickets.
type MetricsResponse struct {
	TotalTickets           int                           `json:"total_tickets"`
	OpenTickets            int                           `json:"open_tickets"`
	ResolvedTickets        int                           `json:"resolved_tickets"`
	ResolutionRate         float64                       `json:"resolution_rate"`
	TicketsToday           int                           `json:"tickets_today"`
	AvgResolutionTimeHours float64                       `json:"avg_resolution_time_hours"`
	TicketsByPriority      map[domain.TicketPriority]int `json:"tickets_by_priority"`
	TicketsByStatus        map[domain.TicketStatus]int   `json:"tickets_by_status"`
	TicketsByAttendant     map[string]int                `json:"tickets_by_attendant"`
	DailyTrends            []analytics.DailyTrend        `json:"daily_trends"`
	RecentActivity         []TicketResponse              `json:"recent_activity"`
}

// DashboardResponse is the level 3 dashboard payload.
type DashboardResponse struct {
	Filter      FilterResponse   `json:"filter"`
	GeneratedAt time.Time        `json:"generated_at"`
	Metrics     MetricsResponse  `json:"metrics"`
	Series      analytics.Series `json:"series"`
}
