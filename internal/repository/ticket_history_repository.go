package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/persistence"
)

// TicketHistoryRepository stores audit entries.
type TicketHistoryRepository interface {
	Create(ctx context.Context, history *domain.TicketHistory) error
	ListByTicket(ctx context.Context, ticketID string) ([]domain.TicketHistory, error)
}

type ticketHistoryRepository struct {
	db persistence.Querier
}

// NewTicketHistoryRepository builds repository.
func NewTicketHistoryRepository(db persistence.Querier) TicketHistoryRepository {
	return &ticketHistoryRepository{db: db}
}

func (r *ticketHistoryRepository) Create(ctx context.Context, history *domain.TicketHistory) error {
	oldValue, newValue := history.OldValue, history.NewValue
	if oldValue == nil {
		oldValue = map[string]any{}
	}
	if newValue == nil {
		newValue = map[string]any{}
	}
	query, args, err := psql.Insert("ticket_history").
		Columns("ticket_id", "changed_by_id", "changed_by", "change_type", "old_value", "new_value", "created_at").
		Values(history.TicketID, history.ChangedByID, history.ChangedBy, history.ChangeType, oldValue, newValue, history.CreatedAt).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return err
	}
	return r.db.QueryRow(ctx, query, args...).Scan(&history.ID)
}

func (r *ticketHistoryRepository) ListByTicket(ctx context.Context, ticketID string) ([]domain.TicketHistory, error) {
	query, args, err := psql.
		Select("id", "ticket_id", "changed_by_id", "changed_by", "change_type", "old_value", "new_value", "created_at").
		From("ticket_history").
		Where(sq.Eq{"ticket_id": ticketID}).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.TicketHistory{}
	for rows.Next() {
		var history domain.TicketHistory
		if err := rows.Scan(
			&history.ID,
			&history.TicketID,
			&history.ChangedByID,
			&history.ChangedBy,
			&history.ChangeType,
			&history.OldValue,
			&history.NewValue,
			&history.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, history)
	}
	return result, rows.Err()
}
