package postgresql

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	uniqueViolationCode     = "23505"
	foreignKeyViolationCode = "23503"
)

func isUniqueViolation(err error) bool {
	return hasPgCode(err, uniqueViolationCode)
}

func isForeignKeyViolation(err error) bool {
	return hasPgCode(err, foreignKeyViolationCode)
}

func hasPgCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}
