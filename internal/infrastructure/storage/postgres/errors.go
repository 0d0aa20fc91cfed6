package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"bricostore/internal/core/apperror"
)

// connectionErrorClasses are the SQLSTATE classes that mean the backend
// itself is unavailable rather than the statement being wrong:
// 08 connection exception, 53 insufficient resources, 57 operator
// intervention, 58 system error.
var connectionErrorClasses = map[string]bool{
	"08": true,
	"53": true,
	"57": true,
	"58": true,
}

// IsConnectivityError reports whether err means the storage backend could
// not be reached, as opposed to a statement-level failure such as a
// constraint violation.
func IsConnectivityError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	if pgconn.Timeout(err) || pgconn.SafeToRetry(err) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && len(pgErr.Code) >= 2 {
		return connectionErrorClasses[pgErr.Code[:2]]
	}
	return false
}

// WrapQueryError maps backend availability failures to StorageUnavailable
// and wraps everything else with the operation name. Repositories route
// their exec/scan errors through this so a lost backend surfaces to the
// client as 503, not a generic 500.
func WrapQueryError(op string, err error) error {
	if IsConnectivityError(err) {
		return apperror.NewStorageUnavailable(fmt.Errorf("%s: %w", op, err))
	}
	return fmt.Errorf("%s: %w", op, err)
}
