package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk-service/internal/analytics"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

func newAnalyticsService(repo *memTicketRepo) *AnalyticsService {
	return NewAnalyticsService(repo, time.UTC, func() time.Time { return testStart })
}

func TestAnalytics_DashboardResolutionRate(t *testing.T) {
	t.Parallel()

	var seed []domain.Ticket
	for i := 0; i < 10; i++ {
		status := domain.TicketStatusOpen
		if i < 6 {
			status = domain.TicketStatusResolved
		}
		seed = append(seed, seedTicket(string(rune('a'+i)), status, testStart.Add(-time.Duration(i+1)*time.Hour)))
	}
	svc := newAnalyticsService(newMemTicketRepo(seed...))

	dash, err := svc.Dashboard(context.Background(), adminSession, analytics.DefaultFilter())
	require.NoError(t, err)
	assert.Equal(t, 10, dash.Metrics.TotalTickets)
	assert.Equal(t, 6, dash.Metrics.ResolvedTickets)
	assert.Equal(t, 4, dash.Metrics.OpenTickets)
	assert.InDelta(t, 60.0, dash.Metrics.ResolutionRate, 0.001)
	assert.InDelta(t, 3.0, dash.Metrics.AvgResolutionTimeHours, 0.001)
	assert.Len(t, dash.Metrics.DailyTrends, 7)
	assert.Equal(t, testStart, dash.GeneratedAt)
	assert.Equal(t, analytics.Window7d, dash.Filter.Window)
}

func TestAnalytics_PushesWindowAndAttendantDown(t *testing.T) {
	t.Parallel()

	repo := newMemTicketRepo()
	svc := newAnalyticsService(repo)

	_, err := svc.Dashboard(context.Background(), adminSession, analytics.Filter{Window: analytics.Window30d, Attendant: "Thiago"})
	require.NoError(t, err)
	require.NotNil(t, repo.lastList.CreatedFrom)
	assert.Equal(t, testStart.AddDate(0, 0, -30), *repo.lastList.CreatedFrom)
	assert.Nil(t, repo.lastList.CreatedTo)
	require.NotNil(t, repo.lastList.Attendant)
	assert.Equal(t, "Thiago", *repo.lastList.Attendant)

	_, err = svc.Dashboard(context.Background(), adminSession, analytics.Filter{Window: analytics.WindowAll, Attendant: analytics.AttendantUnassigned})
	require.NoError(t, err)
	assert.Nil(t, repo.lastList.CreatedFrom)
	assert.True(t, repo.lastList.Unassigned)
	assert.Nil(t, repo.lastList.Attendant)
}

func TestAnalytics_UnassignedSearch(t *testing.T) {
	t.Parallel()

	orphan := seedTicket("orphan", domain.TicketStatusOpen, testStart.Add(-2*time.Hour))
	orphan.Attendant = nil
	orphan.Description = "Printer jammed"
	other := seedTicket("other", domain.TicketStatusOpen, testStart.Add(-3*time.Hour))
	other.Attendant = nil
	svc := newAnalyticsService(newMemTicketRepo(orphan, other, seedTicket("owned", domain.TicketStatusOpen, testStart.Add(-time.Hour))))

	dash, err := svc.Dashboard(context.Background(), adminSession, analytics.Filter{
		Window:    analytics.Window7d,
		Attendant: analytics.AttendantUnassigned,
		Search:    "printer",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, dash.Metrics.TotalTickets)
	assert.Equal(t, 1, dash.Metrics.TicketsByAttendant[analytics.UnassignedLabel])
}

func TestAnalytics_Errors(t *testing.T) {
	t.Parallel()

	repo := newMemTicketRepo()
	svc := newAnalyticsService(repo)

	_, err := svc.Dashboard(context.Background(), boardSession, analytics.DefaultFilter())
	assert.True(t, apperrors.IsCode(err, apperrors.CodeForbidden))

	_, err = svc.Dashboard(context.Background(), adminSession, analytics.Filter{Window: "1y"})
	assert.True(t, apperrors.IsCode(err, apperrors.CodeValidation))

	boom := errors.New("connection reset")
	repo.ListFunc = func(context.Context, repository.TicketFilter) ([]domain.Ticket, error) { return nil, boom }
	_, err = svc.Performance(context.Background(), adminSession, analytics.DefaultFilter())
	assert.ErrorIs(t, err, boom)
}

func TestAnalytics_Performance(t *testing.T) {
	t.Parallel()

	gabriel := seedTicket("g1", domain.TicketStatusOpen, testStart.Add(-time.Hour))
	gabriel.Attendant = strPtr("Gabriel")
	svc := newAnalyticsService(newMemTicketRepo(
		seedTicket("t1", domain.TicketStatusResolved, testStart.Add(-5*time.Hour)),
		seedTicket("t2", domain.TicketStatusResolved, testStart.Add(-4*time.Hour)),
		gabriel,
	))

	perf, err := svc.Performance(context.Background(), adminSession, analytics.DefaultFilter())
	require.NoError(t, err)
	require.Len(t, perf, 2)
	assert.Equal(t, "Thiago", perf[0].Name)
	assert.Equal(t, 1, perf[0].Rank)
	assert.InDelta(t, 100.0, perf[0].ResolutionRate, 0.001)
	assert.Equal(t, "Gabriel", perf[1].Name)
}
