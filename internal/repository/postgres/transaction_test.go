package postgres

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/boostbd/smmpanel/internal/apperrors"
	"github.com/boostbd/smmpanel/internal/models"
	"github.com/boostbd/smmpanel/internal/repository"
	"github.com/boostbd/smmpanel/internal/testutil"
)

func TestTransactionRepo(t *testing.T) {
	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	inTx := func(t *testing.T, outerTx DBTX, fn func(pgx.Tx, repository.Storage)) {
		testutil.InTx(outerTx, t, func(innerTx pgx.Tx) {
			fn(innerTx, NewStorage(innerTx))
		})
	}

	newTopUp := func(t *testing.T, storage repository.Storage, user models.User, amount int64) models.Transaction {
		t.Helper()
		tr, err := storage.Transaction().Create(t.Context(), repository.CreateTransactionParams{
			UserID:    user.ID,
			UserEmail: user.Email,
			Method:    models.MethodBkash,
			Amount:    decimal.NewFromInt(amount),
			Reference: "TRX9F2K1",
		})
		require.NoError(t, err)
		return tr
	}

	t.Run("Create", func(t *testing.T) {
		inTx(t, pg.Pool, func(tx pgx.Tx, storage repository.Storage) {
			user, err := storage.User().EnsureUser(t.Context(), uuid.New(), "rahim@example.com", "Rahim")
			require.NoError(t, err)

			tr := newTopUp(t, storage, user, 50)

			require.NotZero(t, tr.ID)
			require.Equal(t, models.TransactionPending, tr.Status)
			require.False(t, tr.Applied, "new transaction must not be applied")
			require.Nil(t, tr.ReviewedAt)
			require.Equal(t, user.Email, tr.UserEmail)
			require.True(t, tr.Amount.Equal(decimal.NewFromInt(50)))
			require.WithinDuration(t, time.Now(), tr.CreatedAt, time.Second)
		})
	})

	t.Run("Listing", func(t *testing.T) {
		inTx(t, pg.Pool, func(tx pgx.Tx, storage repository.Storage) {
			user, err := storage.User().EnsureUser(t.Context(), uuid.New(), "rahim@example.com", "Rahim")
			require.NoError(t, err)
			yaUser, err := storage.User().EnsureUser(t.Context(), uuid.New(), "karim@example.com", "Karim")
			require.NoError(t, err)

			first := newTopUp(t, storage, user, 20)
			_ = newTopUp(t, storage, yaUser, 30)
			_ = newTopUp(t, storage, user, 100)

			t.Run("all newest first", func(t *testing.T) {
				trs, err := storage.Transaction().ListAll(t.Context())

				require.NoError(t, err)
				require.Len(t, trs, 3)
				require.Equal(t, first.ID, trs[len(trs)-1].ID, "oldest transaction should be last")
			})

			t.Run("by email only owner rows", func(t *testing.T) {
				trs, err := storage.Transaction().ListByEmail(t.Context(), user.Email)

				require.NoError(t, err)
				require.Len(t, trs, 2)
				for _, tr := range trs {
					require.Equal(t, user.Email, tr.UserEmail)
				}
			})
		})
	})

	t.Run("SetReviewed", func(t *testing.T) {
		inTx(t, pg.Pool, func(tx pgx.Tx, storage repository.Storage) {
			user, err := storage.User().EnsureUser(t.Context(), uuid.New(), "salma@example.com", "Salma")
			require.NoError(t, err)

			t.Run("pending to completed ok", func(t *testing.T) {
				inTx(t, tx, func(ttx pgx.Tx, storage repository.Storage) {
					tr := newTopUp(t, storage, user, 50)

					got, err := storage.Transaction().SetReviewed(t.Context(), tr.ID, models.TransactionCompleted, true)

					require.NoError(t, err)
					require.Equal(t, models.TransactionCompleted, got.Status)
					require.True(t, got.Applied)
					require.NotNil(t, got.ReviewedAt)
				})
			})

			t.Run("pending to rejected ok", func(t *testing.T) {
				inTx(t, tx, func(ttx pgx.Tx, storage repository.Storage) {
					tr := newTopUp(t, storage, user, 50)

					got, err := storage.Transaction().SetReviewed(t.Context(), tr.ID, models.TransactionRejected, false)

					require.NoError(t, err)
					require.Equal(t, models.TransactionRejected, got.Status)
					require.False(t, got.Applied)
				})
			})

			t.Run("second review is rejected", func(t *testing.T) {
				inTx(t, tx, func(ttx pgx.Tx, storage repository.Storage) {
					tr := newTopUp(t, storage, user, 50)
					_, err := storage.Transaction().SetReviewed(t.Context(), tr.ID, models.TransactionCompleted, true)
					require.NoError(t, err)

					got, err := storage.Transaction().SetReviewed(t.Context(), tr.ID, models.TransactionRejected, false)

					require.ErrorIs(t, err, apperrors.ErrTransactionAlreadyReviewed)
					require.Equal(t, models.TransactionCompleted, got.Status, "terminal state must stay as set first")
					require.True(t, got.Applied, "applied flag must survive the failed retry")
				})
			})

			t.Run("unknown id fails", func(t *testing.T) {
				inTx(t, tx, func(ttx pgx.Tx, storage repository.Storage) {
					_, err := storage.Transaction().SetReviewed(t.Context(), uuid.New(), models.TransactionCompleted, true)

					require.ErrorIs(t, err, apperrors.ErrTransactionNotFound)
				})
			})
		})
	})
}
