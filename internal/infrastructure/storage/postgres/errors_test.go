package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"

	"bricostore/internal/core/apperror"
)

func TestIsConnectivityError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"deadline", context.DeadlineExceeded, true},
		{"wrapped deadline", fmt.Errorf("exec: %w", context.DeadlineExceeded), true},
		{"connection failure", &pgconn.PgError{Code: "08006"}, true},
		{"admin shutdown", &pgconn.PgError{Code: "57P01"}, true},
		{"too many connections", &pgconn.PgError{Code: "53300"}, true},
		{"unique violation", &pgconn.PgError{Code: "23505"}, false},
		{"check violation", &pgconn.PgError{Code: "23514"}, false},
		{"plain error", errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsConnectivityError(tt.err); got != tt.want {
				t.Errorf("IsConnectivityError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestWrapQueryError(t *testing.T) {
	err := WrapQueryError("get article", &pgconn.PgError{Code: "08006"})
	appErr, ok := apperror.AsAppError(err)
	if !ok || appErr.Code != apperror.CodeDatabase {
		t.Errorf("connectivity failure not mapped to StorageUnavailable: %v", err)
	}

	err = WrapQueryError("get article", errors.New("no rows"))
	if _, ok := apperror.AsAppError(err); ok {
		t.Errorf("statement-level error should stay a plain wrapped error: %v", err)
	}
	if err.Error() != "get article: no rows" {
		t.Errorf("unexpected wrapping: %v", err)
	}
}
