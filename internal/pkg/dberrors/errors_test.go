package dberrors

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/yigit/alumnet/internal/pkg/apperrors"
)

func TestWrap(t *testing.T) {
	tests := []struct {
		name          string
		err           error
		wantRetryable bool
	}{
		{"undefined table", &pgconn.PgError{Code: "42P01", Message: `relation "jobs" does not exist`}, false},
		{"invalid datetime", &pgconn.PgError{Code: "22007"}, false},
		{"admin shutdown", &pgconn.PgError{Code: "57P01"}, true},
		{"too many connections", &pgconn.PgError{Code: "53300"}, true},
		{"deadline", context.DeadlineExceeded, true},
		{"dial", errors.New("dial tcp 10.0.0.5:5432: connect: connection refused"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Wrap("error querying jobs", tt.err)
			assert.Error(t, err)
			assert.Equal(t, tt.wantRetryable, apperrors.Retryable(err))
			assert.Equal(t, !tt.wantRetryable, IsPermanent(tt.err))
			assert.Equal(t, !tt.wantRetryable, errors.Is(err, apperrors.ErrDatabase))
			assert.ErrorIs(t, err, tt.err)
		})
	}

	assert.NoError(t, Wrap("noop", nil))
}
