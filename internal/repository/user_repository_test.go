package repository

import (
	"context"
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

func userRow(id, attendant, phone string, whatsapp bool) []any {
	now := time.Date(2026, 1, 10, 8, 0, 0, 0, time.UTC)
	return []any{id, attendant, phone, "user-" + id, "$2a$12$hash", true, true, false, true, whatsapp, now, now}
}

func TestUserRepository_GetByAttendant(t *testing.T) {
	mock := newMockPool(t)
	repo := NewUserRepository(mock)

	mock.ExpectQuery(`SELECT .* FROM users WHERE atendente = \$1 LIMIT 1`).
		WithArgs("Carlos").
		WillReturnRows(pgxmock.NewRows(userColumns).AddRow(userRow("u-1", "Carlos", "11988887777", true)...))

	user, err := repo.GetByAttendant(context.Background(), "Carlos")
	require.NoError(t, err)
	assert.Equal(t, "Carlos", user.Attendant)
	assert.Equal(t, "11988887777", user.NotificationPhone())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetByUsernameNotFound(t *testing.T) {
	mock := newMockPool(t)
	repo := NewUserRepository(mock)

	mock.ExpectQuery(`SELECT .* FROM users WHERE username = \$1`).
		WithArgs("ghost").
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetByUsername(context.Background(), "ghost")
	assert.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_CreateDuplicateUsername(t *testing.T) {
	mock := newMockPool(t)
	repo := NewUserRepository(mock)

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("Vitor", "", "vitor", "hash", true, false, false, true, true).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	err := repo.Create(context.Background(), &domain.User{
		Attendant:       "Vitor",
		Username:        "vitor",
		PasswordHash:    "hash",
		Level1Access:    true,
		Active:          true,
		WhatsAppEnabled: true,
	})
	assert.True(t, apperrors.IsCode(err, apperrors.CodeConflict))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_SetActive(t *testing.T) {
	mock := newMockPool(t)
	repo := NewUserRepository(mock)

	mock.ExpectExec(`UPDATE users SET is_active = \$1, updated_at = NOW\(\) WHERE id = \$2`).
		WithArgs(false, "u-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(`UPDATE users`).
		WithArgs(true, "u-2").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	require.NoError(t, repo.SetActive(context.Background(), "u-1", false))
	err := repo.SetActive(context.Background(), "u-2", true)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_MalformedIDIsNotFound(t *testing.T) {
	mock := newMockPool(t)
	repo := NewUserRepository(mock)

	badID := &pgconn.PgError{Code: "22P02"}
	mock.ExpectQuery(`SELECT .* FROM users WHERE id = \$1`).
		WithArgs("u-admin").
		WillReturnError(badID)
	mock.ExpectExec(`DELETE FROM users WHERE id = \$1`).
		WithArgs("u-admin").
		WillReturnError(badID)

	_, err := repo.GetByID(context.Background(), "u-admin")
	assert.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))
	err = repo.Delete(context.Background(), "u-admin")
	assert.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_List(t *testing.T) {
	mock := newMockPool(t)
	repo := NewUserRepository(mock)

	mock.ExpectQuery(`SELECT .* FROM users ORDER BY created_at DESC`).
		WillReturnRows(pgxmock.NewRows(userColumns).
			AddRow(userRow("u-1", "Thiago", "", false)...).
			AddRow(userRow("u-2", "Gabriel", "11911112222", true)...))

	users, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Empty(t, users[0].NotificationPhone())
	assert.NoError(t, mock.ExpectationsWereMet())
}
