package repositories

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/walletapp/digital-wallet/internal/models"
)

func TestTransactionRepositories(t *testing.T) {
	db, cleanup := setupPostgres(t)
	defer cleanup()
	ctx := context.Background()

	userID := insertUser(t, db, "alice", "alice@example.com")
	otherID := insertUser(t, db, "bob", "bob@example.com")

	writer := NewTransactionWriteRepository(db)
	reader := NewTransactionReadRepository(db)

	// 25 entries for alice, 1 for bob. Timestamps are identical within the
	// test run, so ordering falls back to descending id.
	for i := 0; i < 25; i++ {
		assert.NoError(t, writer.Save(ctx, userID, float64(i+1), models.KindDeposit, "seed"))
	}
	assert.NoError(t, writer.Save(ctx, otherID, 5.0, models.KindDeposit, "other"))

	t.Run("count is scoped to the user", func(t *testing.T) {
		count, err := reader.CountByUserID(ctx, userID)
		assert.NoError(t, err)
		assert.Equal(t, int64(25), count)

		count, err = reader.CountByUserID(ctx, otherID)
		assert.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("first page is most recent first", func(t *testing.T) {
		txns, err := reader.ListByUserID(ctx, userID, 10, 0)
		assert.NoError(t, err)
		assert.Len(t, txns, 10)
		assert.Equal(t, 25.0, txns[0].Amount)
		assert.Equal(t, 16.0, txns[9].Amount)

		for i := 1; i < len(txns); i++ {
			assert.Greater(t, txns[i-1].ID, txns[i].ID)
		}
	})

	t.Run("second page continues where the first ended", func(t *testing.T) {
		txns, err := reader.ListByUserID(ctx, userID, 10, 10)
		assert.NoError(t, err)
		assert.Len(t, txns, 10)
		assert.Equal(t, 15.0, txns[0].Amount)
		assert.Equal(t, 6.0, txns[9].Amount)
	})

	t.Run("page beyond the data is empty", func(t *testing.T) {
		txns, err := reader.ListByUserID(ctx, userID, 10, 30)
		assert.NoError(t, err)
		assert.Empty(t, txns)
	})

	t.Run("non-positive amount is rejected", func(t *testing.T) {
		assert.Error(t, writer.Save(ctx, userID, 0, models.KindDeposit, "zero"))
		assert.Error(t, writer.Save(ctx, userID, -5, models.KindWithdrawal, "negative"))
	})

	t.Run("ledger write joins the ambient transaction", func(t *testing.T) {
		runner := NewTxRunner(db)

		err := runner.WithTransaction(ctx, func(ctx context.Context) error {
			if err := writer.Save(ctx, userID, 99.0, models.KindDeposit, "rolled back"); err != nil {
				return err
			}
			return assert.AnError
		})
		assert.Error(t, err)

		count, err := reader.CountByUserID(ctx, userID)
		assert.NoError(t, err)
		assert.Equal(t, int64(25), count)
	})
}
