package repositories

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrNotFound indicates the requested record, or one it references, does not exist.
var ErrNotFound = errors.New("record not found")

// wrapError annotates err with the failing operation. Foreign key violations are
// tagged with ErrNotFound while keeping the store's own message.
func wrapError(op string, err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23503" {
			return fmt.Errorf("%s: %w: %s", op, ErrNotFound, pgErr.Message)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
