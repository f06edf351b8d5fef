package postgres

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/boostbd/smmpanel/internal/apperrors"
	"github.com/boostbd/smmpanel/internal/repository"
	"github.com/boostbd/smmpanel/internal/testutil"
)

func TestUserRepo(t *testing.T) {
	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	inTx := func(t *testing.T, outerTx DBTX, fn func(pgx.Tx, repository.Storage)) {
		testutil.InTx(outerTx, t, func(innerTx pgx.Tx) {
			fn(innerTx, NewStorage(innerTx))
		})
	}

	t.Run("EnsureUser", func(t *testing.T) {
		t.Run("creates profile with zero balance", func(t *testing.T) {
			inTx(t, pg.Pool, func(tx pgx.Tx, storage repository.Storage) {
				id := uuid.New()

				user, err := storage.User().EnsureUser(t.Context(), id, "rahim@example.com", "Rahim")

				require.NoError(t, err)
				require.Equal(t, id, user.ID)
				require.Equal(t, "rahim@example.com", user.Email)
				require.Equal(t, "Rahim", user.DisplayName)
				require.True(t, user.Balance.IsZero(), "new profile must start with zero balance")
				require.WithinDuration(t, time.Now(), user.CreatedAt, time.Second)
			})
		})

		t.Run("email taken by another profile", func(t *testing.T) {
			inTx(t, pg.Pool, func(tx pgx.Tx, storage repository.Storage) {
				_, err := storage.User().EnsureUser(t.Context(), uuid.New(), "rahim@example.com", "Rahim")
				require.NoError(t, err)

				_, err = storage.User().EnsureUser(t.Context(), uuid.New(), "rahim@example.com", "Impostor")

				require.ErrorIs(t, err, apperrors.ErrEmailTaken)
			})
		})

		t.Run("second call keeps balance", func(t *testing.T) {
			inTx(t, pg.Pool, func(tx pgx.Tx, storage repository.Storage) {
				id := uuid.New()
				_, err := storage.User().EnsureUser(t.Context(), id, "rahim@example.com", "Rahim")
				require.NoError(t, err)
				_, err = storage.User().AddToBalance(t.Context(), id, decimal.NewFromInt(100))
				require.NoError(t, err)

				user, err := storage.User().EnsureUser(t.Context(), id, "rahim@example.com", "Rahim Uddin")

				require.NoError(t, err)
				require.Equal(t, "Rahim Uddin", user.DisplayName, "display name should be refreshed")
				require.True(t, user.Balance.Equal(decimal.NewFromInt(100)), "ensure must never touch balance")
			})
		})
	})

	t.Run("GetByID", func(t *testing.T) {
		inTx(t, pg.Pool, func(tx pgx.Tx, storage repository.Storage) {
			user, err := storage.User().EnsureUser(t.Context(), uuid.New(), "karim@example.com", "Karim")
			require.NoError(t, err)

			t.Run("existing ok", func(t *testing.T) {
				got, err := storage.User().GetByID(t.Context(), user.ID)

				require.NoError(t, err)
				require.Equal(t, user.ID, got.ID)
			})

			t.Run("unknown id fails", func(t *testing.T) {
				_, err := storage.User().GetByID(t.Context(), uuid.New())

				require.ErrorIs(t, err, apperrors.ErrUserNotFound)
			})

			t.Run("by email ok", func(t *testing.T) {
				got, err := storage.User().GetByEmail(t.Context(), "karim@example.com")

				require.NoError(t, err)
				require.Equal(t, user.ID, got.ID)
			})
		})
	})

	t.Run("AddToBalance", func(t *testing.T) {
		inTx(t, pg.Pool, func(tx pgx.Tx, storage repository.Storage) {
			user, err := storage.User().EnsureUser(t.Context(), uuid.New(), "salma@example.com", "Salma")
			require.NoError(t, err)

			t.Run("credit ok", func(t *testing.T) {
				inTx(t, tx, func(ttx pgx.Tx, storage repository.Storage) {
					got, err := storage.User().AddToBalance(t.Context(), user.ID, decimal.NewFromInt(50))

					require.NoError(t, err)
					require.True(t, got.Balance.Equal(decimal.NewFromInt(50)))
				})
			})

			t.Run("debit within balance ok", func(t *testing.T) {
				inTx(t, tx, func(ttx pgx.Tx, storage repository.Storage) {
					_, err := storage.User().AddToBalance(t.Context(), user.ID, decimal.NewFromInt(50))
					require.NoError(t, err)

					got, err := storage.User().AddToBalance(t.Context(), user.ID, decimal.NewFromInt(-30))

					require.NoError(t, err)
					require.True(t, got.Balance.Equal(decimal.NewFromInt(20)))
				})
			})

			t.Run("overdraft rejected without mutation", func(t *testing.T) {
				inTx(t, tx, func(ttx pgx.Tx, storage repository.Storage) {
					_, err := storage.User().AddToBalance(t.Context(), user.ID, decimal.NewFromInt(10))
					require.NoError(t, err)

					_, err = storage.User().AddToBalance(t.Context(), user.ID, decimal.NewFromInt(-11))

					require.ErrorIs(t, err, apperrors.ErrInsufficientBalance)

					got, err := storage.User().GetByID(t.Context(), user.ID)
					require.NoError(t, err)
					require.True(t, got.Balance.Equal(decimal.NewFromInt(10)), "failed debit must leave balance unchanged")
				})
			})

			t.Run("unknown user fails", func(t *testing.T) {
				inTx(t, tx, func(ttx pgx.Tx, storage repository.Storage) {
					_, err := storage.User().AddToBalance(t.Context(), uuid.New(), decimal.NewFromInt(10))

					require.ErrorIs(t, err, apperrors.ErrUserNotFound)
				})
			})
		})
	})
}
