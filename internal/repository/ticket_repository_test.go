package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

func newMockPool(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

func strPtr(s string) *string { return &s }

func ticketRow(id string, status domain.TicketStatus, attendant *string, created time.Time) []any {
	return []any{
		id,
		"printer offline",
		domain.TicketPriorityHigh,
		status,
		"client@example.com",
		(*string)(nil),
		attendant,
		created,
		created,
		(*time.Time)(nil),
		(*string)(nil),
	}
}

func TestTicketRepository_Create(t *testing.T) {
	mock := newMockPool(t)
	repo := NewTicketRepository(mock)

	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	ticket := &domain.Ticket{
		Description: "printer offline",
		Priority:    domain.TicketPriorityHigh,
		Status:      domain.TicketStatusOpen,
		ClientEmail: "client@example.com",
		Attendant:   strPtr("Thiago"),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	mock.ExpectQuery(`INSERT INTO tickets`).
		WithArgs(ticket.Description, ticket.Priority, ticket.Status, ticket.ClientEmail,
			ticket.BrokerLink, ticket.Attendant, now, now).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).
			AddRow("b7f1c0de-0000-4000-8000-00000000a1b2", now, now))

	require.NoError(t, repo.Create(context.Background(), ticket))
	assert.Equal(t, "b7f1c0de-0000-4000-8000-00000000a1b2", ticket.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTicketRepository_GetByID(t *testing.T) {
	created := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)

	tests := []struct {
		name     string
		setup    func(mock pgxmock.PgxPoolIface)
		wantCode string
		check    func(t *testing.T, got *domain.Ticket)
	}{
		{
			name: "found",
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`SELECT .* FROM tickets WHERE id = \$1`).
					WithArgs("t-1").
					WillReturnRows(pgxmock.NewRows(ticketColumns).
						AddRow(ticketRow("t-1", domain.TicketStatusInProgress, strPtr("Gabriel"), created)...))
			},
			check: func(t *testing.T, got *domain.Ticket) {
				assert.Equal(t, "t-1", got.ID)
				assert.Equal(t, domain.TicketStatusInProgress, got.Status)
				assert.Equal(t, "Gabriel", got.AttendantName())
				assert.Nil(t, got.ResolvedAt)
			},
		},
		{
			name: "not found",
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`SELECT .* FROM tickets`).
					WithArgs("t-1").
					WillReturnError(pgx.ErrNoRows)
			},
			wantCode: apperrors.CodeNotFound,
		},
		{
			name: "malformed id",
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`SELECT .* FROM tickets`).
					WithArgs("t-1").
					WillReturnError(&pgconn.PgError{Code: "22P02", Message: "invalid input syntax for type uuid"})
			},
			wantCode: apperrors.CodeNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := newMockPool(t)
			repo := NewTicketRepository(mock)
			tt.setup(mock)

			got, err := repo.GetByID(context.Background(), "t-1")
			if tt.wantCode != "" {
				require.Error(t, err)
				assert.True(t, apperrors.IsCode(err, tt.wantCode), "got %v", err)
			} else {
				require.NoError(t, err)
				tt.check(t, got)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestTicketRepository_UpdateResolve(t *testing.T) {
	mock := newMockPool(t)
	repo := NewTicketRepository(mock)

	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	status := domain.TicketStatusResolved
	observation := "fixed cable"

	mock.ExpectExec(`UPDATE tickets SET updated_at = \$1, status = \$2, resolution_observation = \$3, resolved_at = \$4 WHERE id = \$5`).
		WithArgs(now, status, observation, now, "t-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := repo.Update(context.Background(), "t-1", TicketPatch{
		Status:                &status,
		ResolutionObservation: &observation,
		ResolvedAt:            &now,
		UpdatedAt:             now,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTicketRepository_UpdateClearsResolvedAt(t *testing.T) {
	mock := newMockPool(t)
	repo := NewTicketRepository(mock)

	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	status := domain.TicketStatusInProgress

	mock.ExpectExec(`UPDATE tickets SET updated_at = \$1, status = \$2, resolved_at = \$3 WHERE id = \$4`).
		WithArgs(now, status, pgxmock.AnyArg(), "t-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := repo.Update(context.Background(), "t-1", TicketPatch{Status: &status, ClearResolvedAt: true, UpdatedAt: now})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTicketRepository_UpdateErrors(t *testing.T) {
	now := time.Now()

	t.Run("missing row", func(t *testing.T) {
		mock := newMockPool(t)
		repo := NewTicketRepository(mock)
		mock.ExpectExec(`UPDATE tickets`).
			WithArgs(now, "t-404").
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		err := repo.Update(context.Background(), "t-404", TicketPatch{UpdatedAt: now})
		assert.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("malformed id", func(t *testing.T) {
		mock := newMockPool(t)
		repo := NewTicketRepository(mock)
		mock.ExpectExec(`UPDATE tickets`).
			WithArgs(now, "not-a-uuid").
			WillReturnError(&pgconn.PgError{Code: "22P02"})

		err := repo.Update(context.Background(), "not-a-uuid", TicketPatch{UpdatedAt: now})
		assert.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("driver failure", func(t *testing.T) {
		mock := newMockPool(t)
		repo := NewTicketRepository(mock)
		boom := errors.New("connection reset")
		mock.ExpectExec(`UPDATE tickets`).
			WithArgs(now, "t-1").
			WillReturnError(boom)

		err := repo.Update(context.Background(), "t-1", TicketPatch{UpdatedAt: now})
		assert.ErrorIs(t, err, boom)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestTicketRepository_ListFilters(t *testing.T) {
	mock := newMockPool(t)
	repo := NewTicketRepository(mock)

	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	created := from.Add(2 * time.Hour)

	mock.ExpectQuery(`SELECT .* FROM tickets WHERE created_at >= \$1 AND attendant IS NULL AND status IN \(\$2,\$3\) AND \(LOWER\(client_email\) LIKE \$4 OR LOWER\(description\) LIKE \$5\) ORDER BY created_at DESC LIMIT 10`).
		WithArgs(from, domain.TicketStatusOpen, domain.TicketStatusInProgress, "%acme%", "%acme%").
		WillReturnRows(pgxmock.NewRows(ticketColumns).
			AddRow(ticketRow("t-1", domain.TicketStatusOpen, nil, created)...).
			AddRow(ticketRow("t-2", domain.TicketStatusInProgress, nil, created)...))

	tickets, err := repo.List(context.Background(), TicketFilter{
		CreatedFrom: &from,
		Unassigned:  true,
		Statuses:    []domain.TicketStatus{domain.TicketStatusOpen, domain.TicketStatusInProgress},
		SearchTerm:  strPtr("  ACME "),
		Limit:       10,
	})
	require.NoError(t, err)
	require.Len(t, tickets, 2)
	assert.Nil(t, tickets[0].Attendant)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTicketRepository_ListEmpty(t *testing.T) {
	mock := newMockPool(t)
	repo := NewTicketRepository(mock)

	mock.ExpectQuery(`SELECT .* FROM tickets ORDER BY created_at DESC`).
		WillReturnRows(pgxmock.NewRows(ticketColumns))

	tickets, err := repo.List(context.Background(), TicketFilter{})
	require.NoError(t, err)
	assert.NotNil(t, tickets)
	assert.Empty(t, tickets)
	assert.NoError(t, mock.ExpectationsWereMet())
}
