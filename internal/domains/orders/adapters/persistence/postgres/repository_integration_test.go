//go:build integration

package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/tablebite/order-service/internal/domains/orders/domain"
	"github.com/tablebite/order-service/internal/domains/orders/ports"
	"github.com/tablebite/order-service/internal/platform/migrations"
)

func setupOrdersPostgresContainer(t *testing.T) (*gorm.DB, func()) {
	ctx := context.Background()

	pgContainer, err := tcpostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcpostgres.WithDatabase("orders_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	err = migrations.Run(db)
	require.NoError(t, err)

	cleanup := func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
		pgContainer.Terminate(ctx)
	}

	return db, cleanup
}

func newGuestOrder(t *testing.T, token string) *domain.Order {
	t.Helper()
	item, err := domain.NewLineItem(1, "Burger", decimal.RequireFromString("10.00"), 2, "")
	require.NoError(t, err)
	order, err := domain.NewOrder("", token, domain.TypeDineIn, "T5", []domain.LineItem{item})
	require.NoError(t, err)
	return order
}

func saveInScope(t *testing.T, repo *Repository, order *domain.Order) *domain.Order {
	t.Helper()
	var saved *domain.Order
	err := repo.Atomically(context.Background(), func(ctx context.Context, tx ports.Tx) error {
		var txErr error
		saved, txErr = tx.Save(ctx, order)
		return txErr
	})
	require.NoError(t, err)
	return saved
}

func TestRepository_SaveAndGetByID(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupOrdersPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	saved := saveInScope(t, repo, newGuestOrder(t, "tok-abc"))
	require.NotZero(t, saved.ID)

	fetched, err := repo.GetByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, saved.ID, fetched.ID)
	assert.Equal(t, "tok-abc", fetched.GuestToken)
	assert.Equal(t, domain.StatusPending, fetched.Status)
	require.Len(t, fetched.Items, 1)
	assert.Equal(t, "Burger", fetched.Items[0].SnapshotName)
	assert.True(t, fetched.TotalPrice.Equal(decimal.RequireFromString("20.00")))
}

func TestRepository_SaveReplacesItemsInOrder(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupOrdersPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	saved := saveInScope(t, repo, newGuestOrder(t, "tok-abc"))

	err := repo.Atomically(ctx, func(ctx context.Context, tx ports.Tx) error {
		order, txErr := tx.GetByID(ctx, saved.ID)
		if txErr != nil {
			return txErr
		}
		fries, txErr := domain.NewLineItem(2, "Fries", decimal.RequireFromString("5.00"), 1, "extra ketchup")
		if txErr != nil {
			return txErr
		}
		if txErr = order.AppendItems([]domain.LineItem{fries}); txErr != nil {
			return txErr
		}
		_, txErr = tx.Save(ctx, order)
		return txErr
	})
	require.NoError(t, err)

	fetched, err := repo.GetByID(ctx, saved.ID)
	require.NoError(t, err)
	require.Len(t, fetched.Items, 2)
	assert.Equal(t, "Burger", fetched.Items[0].SnapshotName)
	assert.Equal(t, "Fries", fetched.Items[1].SnapshotName)
	assert.Equal(t, "extra ketchup", fetched.Items[1].Notes)
	assert.True(t, fetched.TotalPrice.Equal(decimal.RequireFromString("25.00")))
}

func TestRepository_AtomicallyRollsBack(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupOrdersPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	saved := saveInScope(t, repo, newGuestOrder(t, "tok-abc"))

	boom := errors.New("boom")
	var fired bool
	err := repo.Atomically(ctx, func(ctx context.Context, tx ports.Tx) error {
		order, txErr := tx.GetByID(ctx, saved.ID)
		if txErr != nil {
			return txErr
		}
		order.MarkPaid()
		if _, txErr = tx.Save(ctx, order); txErr != nil {
			return txErr
		}
		tx.AfterCommit(func(context.Context) { fired = true })
		return boom
	})
	require.ErrorIs(t, err, boom)
	assert.False(t, fired, "post-commit callbacks must not run after rollback")

	fetched, err := repo.GetByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, fetched.Status)
}

func TestRepository_AfterCommitRunsOnCommit(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupOrdersPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	var visibleAtCallback bool
	var orderID int64
	err := repo.Atomically(ctx, func(ctx context.Context, tx ports.Tx) error {
		saved, txErr := tx.Save(ctx, newGuestOrder(t, "tok-abc"))
		if txErr != nil {
			return txErr
		}
		orderID = saved.ID
		tx.AfterCommit(func(ctx context.Context) {
			// Reads through the repository, outside the transaction.
			_, getErr := repo.GetByID(ctx, orderID)
			visibleAtCallback = getErr == nil
		})
		return nil
	})
	require.NoError(t, err)
	assert.True(t, visibleAtCallback, "committed row must be visible to post-commit readers")
}

func TestRepository_ListByOwner(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupOrdersPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		item, err := domain.NewLineItem(1, "Burger", decimal.RequireFromString("10.00"), 1, "")
		require.NoError(t, err)
		order, err := domain.NewOrder("user-7", "", domain.TypeDineIn, "T5", []domain.LineItem{item})
		require.NoError(t, err)
		saveInScope(t, repo, order)
	}
	saveInScope(t, repo, newGuestOrder(t, "tok-abc"))

	list, err := repo.ListByOwner(ctx, "user-7")
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestRepository_ReassignGuestOrders(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupOrdersPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	saveInScope(t, repo, newGuestOrder(t, "tok-abc"))
	saveInScope(t, repo, newGuestOrder(t, "tok-abc"))
	other := saveInScope(t, repo, newGuestOrder(t, "tok-xyz"))

	count, err := repo.ReassignGuestOrders(ctx, "tok-abc", "user-7")
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	list, err := repo.ListByOwner(ctx, "user-7")
	require.NoError(t, err)
	assert.Len(t, list, 2)

	untouched, err := repo.GetByID(ctx, other.ID)
	require.NoError(t, err)
	assert.Empty(t, untouched.UserID)
}

func TestRepository_GetByIDNotFound(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupOrdersPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)

	_, err := repo.GetByID(context.Background(), 404)
	assert.ErrorIs(t, err, ports.ErrNotFound)
}
