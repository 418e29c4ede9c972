package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"optistore/internal/apperr"
)

// Postgres SQLSTATE codes that reach us untranslated when gorm's
// TranslateError is off or the error comes from a raw Exec.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// translate maps store errors onto the apperr kinds. entity names the row
// being read or written and ends up in the message.
func translate(err error, entity string) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperr.NotFound(entity)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apperr.Conflict(entity + " already exists")
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return apperr.Conflict(entity + " is referenced by other records")
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return apperr.Conflict(entity + " already exists")
		case pgForeignKeyViolation:
			return apperr.Conflict(entity + " is referenced by other records")
		}
	}
	return err
}
