package repositories

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "sqlmock"), mock
}

func TestTxRunner_Commit(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectCommit()

	runner := NewTxRunner(db)

	fnCalled := false
	err := runner.WithTransaction(context.Background(), func(ctx context.Context) error {
		fnCalled = true
		assert.NotNil(t, GetTxFromContext(ctx))
		return nil
	})

	assert.NoError(t, err)
	assert.True(t, fnCalled)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTxRunner_RollbackOnError(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectRollback()

	runner := NewTxRunner(db)

	fnErr := errors.New("ledger failure")
	err := runner.WithTransaction(context.Background(), func(ctx context.Context) error {
		return fnErr
	})

	assert.ErrorIs(t, err, fnErr)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTxRunner_RollbackOnPanic(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectRollback()

	runner := NewTxRunner(db)

	assert.Panics(t, func() {
		_ = runner.WithTransaction(context.Background(), func(ctx context.Context) error {
			panic("boom")
		})
	})
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTxRunner_BeginError(t *testing.T) {
	db, mock := newMockDB(t)

	// Close the underlying pool so Begin fails
	db.Close()

	runner := NewTxRunner(db)
	err := runner.WithTransaction(context.Background(), func(ctx context.Context) error {
		t.Fatal("fn must not be called when Begin fails")
		return nil
	})

	assert.Error(t, err)
	_ = mock
}

func TestGetTxFromContext_Empty(t *testing.T) {
	assert.Nil(t, GetTxFromContext(context.Background()))
}
