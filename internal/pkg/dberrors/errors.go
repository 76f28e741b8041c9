package dberrors

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/yigit/alumnet/internal/pkg/apperrors"
)

// SQLSTATE classes that point at the query or schema rather than the server.
// Retrying them cannot help.
var permanentClasses = map[string]bool{
	"22": true, // data exception
	"42": true, // syntax error or access rule violation
}

// IsPermanent reports whether err is a PostgreSQL error caused by the query
// or schema itself, such as an undefined table or column.
func IsPermanent(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && len(pgErr.Code) >= 2 && permanentClasses[pgErr.Code[:2]]
}

// Wrap classifies a query failure. Schema and query errors become
// apperrors.ErrDatabase; everything else (connection loss, timeouts, server
// shutdown) becomes a retryable network error.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	if IsPermanent(err) {
		return fmt.Errorf("%s: %w: %w", op, apperrors.ErrDatabase, err)
	}
	return apperrors.NewNetworkError(op, err)
}
