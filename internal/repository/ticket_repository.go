package repository

import (
	"context"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/persistence"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var ticketColumns = []string{
	"id", "description", "priority", "status", "client_email", "broker_link", "attendant",
	"created_at", "updated_at", "resolved_at", "resolution_observation",
}

// TicketFilter narrows ticket listings. Zero values mean "no constraint".
type TicketFilter struct {
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	Attendant   *string
	Unassigned  bool
	Statuses    []domain.TicketStatus
	Priorities  []domain.TicketPriority
	SearchTerm  *string
	Limit       int
}

// TicketPatch is a partial update. Nil fields are left untouched; UpdatedAt is always written.
type TicketPatch struct {
	Description           *string
	Priority              *domain.TicketPriority
	Status                *domain.TicketStatus
	Attendant             *string
	ClearAttendant        bool
	ResolutionObservation *string
	ResolvedAt            *time.Time
	ClearResolvedAt       bool
	UpdatedAt             time.Time
}

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	Update(ctx context.Context, id string, patch TicketPatch) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	List(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error)
}

type ticketRepository struct {
	db persistence.Querier
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(db persistence.Querier) TicketRepository {
	return &ticketRepository{db: db}
}

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	query, args, err := psql.Insert("tickets").
		Columns("description", "priority", "status", "client_email", "broker_link", "attendant", "created_at", "updated_at").
		Values(ticket.Description, ticket.Priority, ticket.Status, ticket.ClientEmail, ticket.BrokerLink,
			ticket.Attendant, ticket.CreatedAt, ticket.UpdatedAt).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return err
	}
	return r.db.QueryRow(ctx, query, args...).Scan(&ticket.ID, &ticket.CreatedAt, &ticket.UpdatedAt)
}

func (r *ticketRepository) Update(ctx context.Context, id string, patch TicketPatch) error {
	builder := psql.Update("tickets").Set("updated_at", patch.UpdatedAt)
	if patch.Description != nil {
		builder = builder.Set("description", *patch.Description)
	}
	if patch.Priority != nil {
		builder = builder.Set("priority", *patch.Priority)
	}
	if patch.Status != nil {
		builder = builder.Set("status", *patch.Status)
	}
	if patch.Attendant != nil {
		builder = builder.Set("attendant", *patch.Attendant)
	} else if patch.ClearAttendant {
		builder = builder.Set("attendant", nil)
	}
	if patch.ResolutionObservation != nil {
		builder = builder.Set("resolution_observation", *patch.ResolutionObservation)
	}
	if patch.ResolvedAt != nil {
		builder = builder.Set("resolved_at", *patch.ResolvedAt)
	} else if patch.ClearResolvedAt {
		builder = builder.Set("resolved_at", nil)
	}

	query, args, err := builder.Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return err
	}
	cmd, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return mapLookupError(err, "ticket", "id", id)
	}
	if cmd.RowsAffected() == 0 {
		return apperrors.NewNotFound("ticket", map[string]any{"id": id})
	}
	return nil
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	query, args, err := psql.Select(ticketColumns...).From("tickets").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, err
	}
	var ticket domain.Ticket
	if err := scanTicket(r.db.QueryRow(ctx, query, args...), &ticket); err != nil {
		return nil, mapLookupError(err, "ticket", "id", id)
	}
	return &ticket, nil
}

func (r *ticketRepository) List(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error) {
	builder := psql.Select(ticketColumns...).From("tickets")

	if filter.CreatedFrom != nil {
		builder = builder.Where(sq.GtOrEq{"created_at": *filter.CreatedFrom})
	}
	if filter.CreatedTo != nil {
		builder = builder.Where(sq.LtOrEq{"created_at": *filter.CreatedTo})
	}
	if filter.Unassigned {
		builder = builder.Where(sq.Eq{"attendant": nil})
	} else if filter.Attendant != nil {
		builder = builder.Where(sq.Eq{"attendant": *filter.Attendant})
	}
	if len(filter.Statuses) > 0 {
		builder = builder.Where(sq.Eq{"status": filter.Statuses})
	}
	if len(filter.Priorities) > 0 {
		builder = builder.Where(sq.Eq{"priority": filter.Priorities})
	}
	if filter.SearchTerm != nil && strings.TrimSpace(*filter.SearchTerm) != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(*filter.SearchTerm)) + "%"
		builder = builder.Where(sq.Expr("(LOWER(client_email) LIKE ? OR LOWER(description) LIKE ?)", search, search))
	}
	builder = builder.OrderBy("created_at DESC")
	if filter.Limit > 0 {
		builder = builder.Limit(uint64(filter.Limit))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func scanTicket(row pgx.Row, ticket *domain.Ticket) error {
	return row.Scan(
		&ticket.ID,
		&ticket.Description,
		&ticket.Priority,
		&ticket.Status,
		&ticket.ClientEmail,
		&ticket.BrokerLink,
		&ticket.Attendant,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
		&ticket.ResolvedAt,
		&ticket.ResolutionObservation,
	)
}

func scanTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	result := []domain.Ticket{}
	for rows.Next() {
		var ticket domain.Ticket
		if err := scanTicket(rows, &ticket); err != nil {
			return nil, err
		}
		result = append(result, ticket)
	}
	return result, rows.Err()
}
