package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (*PostgresDB, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return New(mock, time.Second), mock
}

func TestWithTransactionCommits(t *testing.T) {
	database, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM courses").WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectCommit()

	err := database.WithTransaction(context.Background(), func(ctx context.Context, tx pgx.Tx) error {
		_, err := tx.Exec(ctx, "DELETE FROM courses WHERE id = $1", int64(1))
		return err
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTransactionRollsBackOnError(t *testing.T) {
	database, mock := newMockDB(t)
	boom := errors.New("boom")

	mock.ExpectBegin()
	mock.ExpectRollback()

	err := database.WithTransaction(context.Background(), func(ctx context.Context, tx pgx.Tx) error {
		return boom
	})

	assert.Same(t, boom, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTransactionRollsBackOnPanic(t *testing.T) {
	database, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectRollback()

	assert.Panics(t, func() {
		_ = database.WithTransaction(context.Background(), func(ctx context.Context, tx pgx.Tx) error {
			panic("unexpected")
		})
	})
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTransactionBeginFailure(t *testing.T) {
	database, mock := newMockDB(t)

	mock.ExpectBegin().WillReturnError(errors.New("connection refused"))

	called := false
	err := database.WithTransaction(context.Background(), func(ctx context.Context, tx pgx.Tx) error {
		called = true
		return nil
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to begin transaction")
	assert.False(t, called)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNewDefaultsTimeout(t *testing.T) {
	database := New(nil, 0)
	assert.Equal(t, DefaultTxTimeout, database.TxTimeout)
}
