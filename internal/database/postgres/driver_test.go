package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/koustreak/cursorkit/internal/database"
	"github.com/koustreak/cursorkit/internal/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ database.DB = (*Driver)(nil)
var _ database.Rows = (*pgxRows)(nil)

func TestMapError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind errs.ErrKind
	}{
		{"deadline", context.DeadlineExceeded, errs.ErrKindTimeout},
		{"canceled wrapped", fmt.Errorf("acquire: %w", context.Canceled), errs.ErrKindTimeout},
		{"no rows", pgx.ErrNoRows, errs.ErrKindNotFound},
		{"undefined column", &pgconn.PgError{Code: "42703", Message: `column "hieght" does not exist`}, errs.ErrKindQueryFailed},
		{"syntax", &pgconn.PgError{Code: "42601", Message: "syntax error"}, errs.ErrKindQueryFailed},
		{"connection failure", &pgconn.PgError{Code: "08006"}, errs.ErrKindConnectionFailed},
		{"bad password", &pgconn.PgError{Code: "28P01"}, errs.ErrKindPermissionDenied},
		{"insufficient privilege", &pgconn.PgError{Code: "42501"}, errs.ErrKindPermissionDenied},
		{"statement timeout", &pgconn.PgError{Code: "57014"}, errs.ErrKindTimeout},
		{"numeric overflow", &pgconn.PgError{Code: "22003"}, errs.ErrKindInvalidInput},
		{"network", errors.New("dial tcp: connection refused"), errs.ErrKindConnectionFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mapError(tt.err, "query failed")
			require.NotNil(t, got)
			assert.Equal(t, tt.kind, got.Kind)
			assert.ErrorIs(t, got, tt.err)
		})
	}
}

func TestMapError_Nil(t *testing.T) {
	assert.Nil(t, mapError(nil, "unused"))
}

func TestMapError_IncludesServerMessage(t *testing.T) {
	err := mapError(&pgconn.PgError{Code: "42P01", Message: `relation "users" does not exist`}, "query failed")
	assert.Equal(t, `query failed: relation "users" does not exist`, err.Message)
}

func TestColumnNames(t *testing.T) {
	descs := []pgconn.FieldDescription{{Name: "name"}, {Name: "age"}, {Name: "photo"}}
	assert.Equal(t, []string{"name", "age", "photo"}, columnNames(descs))
	assert.Empty(t, columnNames(nil))
}

func TestNew_InvalidDSN(t *testing.T) {
	_, err := New(context.Background(), database.DefaultConfig("postgres://localhost:notaport/db"))
	require.Error(t, err)
	assert.True(t, errs.IsInvalidInput(err))
}
