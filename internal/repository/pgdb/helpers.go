package pgdb

import (
	"errors"

	"github.com/DRSN-tech/catalog-backend/pkg/e"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

func pgErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

func postgresDuplicate(err error) bool {
	return pgErrorCode(err) == uniqueViolation
}

func postgresForeignKey(err error) bool {
	return pgErrorCode(err) == foreignKeyViolation
}

// mapError переводит ошибку драйвера в ошибку каталога.
// notFound возвращается для pgx.ErrNoRows, остальные ошибки считаются сбоем хранилища.
func mapError(where string, err error, notFound error) error {
	switch {
	case errors.Is(err, pgx.ErrNoRows) && notFound != nil:
		return e.Wrap(where, notFound)
	case postgresForeignKey(err):
		return e.Wrap(where, e.Invalid("category", "unknown category"))
	default:
		return e.Upstream(where, err)
	}
}
