package repository

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

const (
	uniqueViolation           = "23505"
	invalidTextRepresentation = "22P02"
)

// mapLookupError turns a missing row, or an id Postgres cannot parse as a
// UUID, into NotFound for the given resource.
func mapLookupError(err error, resource, key, value string) error {
	if errors.Is(err, pgx.ErrNoRows) || hasPgCode(err, invalidTextRepresentation) {
		return apperrors.NewNotFound(resource, map[string]any{key: value})
	}
	return err
}

func hasPgCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}
