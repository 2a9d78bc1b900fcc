package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/persistence"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

var userColumns = []string{
	"id", "atendente", "telefone", "username", "password_hash",
	"level1_access", "level2_access", "level3_access", "is_active", "whatsapp_enabled",
	"created_at", "updated_at",
}

// UserRepository defines persistence access for staff accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id string) error
	SetActive(ctx context.Context, id string, active bool) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByAttendant(ctx context.Context, attendant string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
}

type userRepository struct {
	db persistence.Querier
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(db persistence.Querier) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	query, args, err := psql.Insert("users").
		Columns("atendente", "telefone", "username", "password_hash",
			"level1_access", "level2_access", "level3_access", "is_active", "whatsapp_enabled").
		Values(user.Attendant, user.Phone, user.Username, user.PasswordHash,
			user.Level1Access, user.Level2Access, user.Level3Access, user.Active, user.WhatsAppEnabled).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return err
	}
	err = r.db.QueryRow(ctx, query, args...).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	return mapUserError(err, user.Username)
}

func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	query, args, err := psql.Update("users").
		Set("atendente", user.Attendant).
		Set("telefone", user.Phone).
		Set("username", user.Username).
		Set("password_hash", user.PasswordHash).
		Set("level1_access", user.Level1Access).
		Set("level2_access", user.Level2Access).
		Set("level3_access", user.Level3Access).
		Set("is_active", user.Active).
		Set("whatsapp_enabled", user.WhatsAppEnabled).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": user.ID}).
		ToSql()
	if err != nil {
		return err
	}
	cmd, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		if hasPgCode(err, invalidTextRepresentation) {
			return mapLookupError(err, "user", "id", user.ID)
		}
		return mapUserError(err, user.Username)
	}
	if cmd.RowsAffected() == 0 {
		return apperrors.NewNotFound("user", map[string]any{"id": user.ID})
	}
	return nil
}

func (r *userRepository) Delete(ctx context.Context, id string) error {
	query, args, err := psql.Delete("users").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return err
	}
	cmd, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return mapLookupError(err, "user", "id", id)
	}
	if cmd.RowsAffected() == 0 {
		return apperrors.NewNotFound("user", map[string]any{"id": id})
	}
	return nil
}

func (r *userRepository) SetActive(ctx context.Context, id string, active bool) error {
	query, args, err := psql.Update("users").
		Set("is_active", active).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return err
	}
	cmd, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return mapLookupError(err, "user", "id", id)
	}
	if cmd.RowsAffected() == 0 {
		return apperrors.NewNotFound("user", map[string]any{"id": id})
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.fetchSingle(ctx, sq.Eq{"id": id}, "id", id)
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.fetchSingle(ctx, sq.Eq{"username": username}, "username", username)
}

func (r *userRepository) GetByAttendant(ctx context.Context, attendant string) (*domain.User, error) {
	return r.fetchSingle(ctx, sq.Eq{"atendente": attendant}, "attendant", attendant)
}

func (r *userRepository) fetchSingle(ctx context.Context, where sq.Eq, key, value string) (*domain.User, error) {
	query, args, err := psql.Select(userColumns...).From("users").Where(where).Limit(1).ToSql()
	if err != nil {
		return nil, err
	}
	var user domain.User
	if err := scanUser(r.db.QueryRow(ctx, query, args...), &user); err != nil {
		return nil, mapLookupError(err, "user", key, value)
	}
	return &user, nil
}

func (r *userRepository) List(ctx context.Context) ([]domain.User, error) {
	query, args, err := psql.Select(userColumns...).From("users").OrderBy("created_at DESC").ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []domain.User{}
	for rows.Next() {
		var user domain.User
		if err := scanUser(rows, &user); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func scanUser(row pgx.Row, user *domain.User) error {
	return row.Scan(
		&user.ID,
		&user.Attendant,
		&user.Phone,
		&user.Username,
		&user.PasswordHash,
		&user.Level1Access,
		&user.Level2Access,
		&user.Level3Access,
		&user.Active,
		&user.WhatsAppEnabled,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
}

func mapUserError(err error, username string) error {
	if hasPgCode(err, uniqueViolation) {
		return apperrors.NewConflict("username already taken", map[string]any{"username": username})
	}
	return err
}
