package handlers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/analytics"
	"github.com/spec-kit/helpdesk-service/internal/api/dto"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/service"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

const dateLayout = "2006-01-02"

// AnalyticsHandler serves the level 3 dashboard.
type AnalyticsHandler struct {
	analytics *service.AnalyticsService
	location  *time.Location
}

// NewAnalyticsHandler constructs handler. loc interprets date-only query values.
func NewAnalyticsHandler(analyticsService *service.AnalyticsService, loc *time.Location) *AnalyticsHandler {
	if loc == nil {
		loc = time.Local
	}
	return &AnalyticsHandler{analytics: analyticsService, location: loc}
}

// Dashboard GET /analytics/dashboard.
func (h *AnalyticsHandler) Dashboard(c *fiber.Ctx) error {
	session, err := sessionFrom(c)
	if err != nil {
		return err
	}
	filter, err := h.parseFilter(c)
	if err != nil {
		return err
	}
	dash, err := h.analytics.Dashboard(c.UserContext(), session, filter)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dashboardResponse(dash)})
}

// Performance GET /analytics/performance.
func (h *AnalyticsHandler) Performance(c *fiber.Ctx) error {
	session, err := sessionFrom(c)
	if err != nil {
		return err
	}
	filter, err := h.parseFilter(c)
	if err != nil {
		return err
	}
	rows, err := h.analytics.Performance(c.UserContext(), session, filter)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": rows})
}

func (h *AnalyticsHandler) parseFilter(c *fiber.Ctx) (analytics.Filter, error) {
	filter := analytics.DefaultFilter()
	if window := strings.TrimSpace(c.Query("window")); window != "" {
		filter.Window = analytics.Window(window)
	}
	if attendant := strings.TrimSpace(c.Query("atendente")); attendant != "" {
		filter.Attendant = attendant
	}
	for _, p := range splitList(c.Query("priority")) {
		filter.Priorities = append(filter.Priorities, domain.TicketPriority(p))
	}
	for _, s := range splitList(c.Query("status")) {
		filter.Statuses = append(filter.Statuses, domain.TicketStatus(s))
	}
	filter.Search = c.Query("search")

	var err error
	if filter.DateFrom, err = h.parseDate(c, "date_from"); err != nil {
		return filter, err
	}
	if filter.DateTo, err = h.parseDate(c, "date_to"); err != nil {
		return filter, err
	}
	return filter, nil
}

func (h *AnalyticsHandler) parseDate(c *fiber.Ctx, key string) (*time.Time, error) {
	val := strings.TrimSpace(c.Query(key))
	if val == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(dateLayout, val, h.location)
	if err != nil {
		return nil, apperrors.NewValidationError("invalid date", map[string]any{key: "must be YYYY-MM-DD"})
	}
	return &t, nil
}

func dashboardResponse(d *service.Dashboard) dto.DashboardResponse {
	m := d.Metrics
	return dto.DashboardResponse{
		Filter: dto.FilterResponse{
			Window:     d.Filter.Window,
			DateFrom:   d.Filter.DateFrom,
			DateTo:     d.Filter.DateTo,
			Attendant:  d.Filter.Attendant,
			Priorities: d.Filter.Priorities,
			Statuses:   d.Filter.Statuses,
			Search:     d.Filter.Search,
		},
		GeneratedAt: d.GeneratedAt,
		Metrics: dto.MetricsResponse{
			TotalTickets:           m.TotalTickets,
			OpenTickets:            m.OpenTickets,
			ResolvedTickets:        m.ResolvedTickets,
			ResolutionRate:         m.ResolutionRate,
			TicketsToday:           m.TicketsToday,
			AvgResolutionTimeHours: m.AvgResolutionTimeHours,
			TicketsByPriority:      m.TicketsByPriority,
			TicketsByStatus:        m.TicketsByStatus,
			TicketsByAttendant:     m.TicketsByAttendant,
			DailyTrends:            m.DailyTrends,
			RecentActivity:         ticketResponses(m.RecentActivity),
		},
		Series: d.Series,
	}
}
