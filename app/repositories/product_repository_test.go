package repositories_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/inventory/app/contracts"
	"github.com/shashiranjanraj/inventory/app/models"
	"github.com/shashiranjanraj/inventory/app/repositories"
	"github.com/shashiranjanraj/inventory/internal/testdb"
)

func product(sku int64, name string, qty int, entry time.Time) *models.Product {
	return &models.Product{
		SKU: sku, Name: name, Brand: "Acme", Size: 9,
		Quantity: qty, NormalPrice: 19.99, EntryDate: entry,
	}
}

func TestProductRepository_TransactionInsertAndLock(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewProductRepository(testdb.Open(t))
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	err := repo.Transaction(ctx, func(tx contracts.ProductTx) error {
		_, err := tx.LockBySKU(ctx, 346071090)
		require.ErrorIs(t, err, contracts.ErrNotFound)
		return tx.Insert(ctx, product(346071090, "Classic Tee", 5, now))
	})
	require.NoError(t, err)

	err = repo.Transaction(ctx, func(tx contracts.ProductTx) error {
		p, err := tx.LockBySKU(ctx, 346071090)
		require.NoError(t, err)
		merged, err := tx.AddQuantity(ctx, p.SKU, 3)
		require.NoError(t, err)
		assert.Equal(t, 8, merged.Quantity)
		return nil
	})
	require.NoError(t, err)

	got, err := repo.FindBySKU(ctx, 346071090)
	require.NoError(t, err)
	assert.Equal(t, 8, got.Quantity)
	assert.True(t, now.Equal(got.EntryDate))
}

func TestProductRepository_InsertDoesNotOverwrite(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewProductRepository(testdb.Open(t))
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Transaction(ctx, func(tx contracts.ProductTx) error {
		return tx.Insert(ctx, product(143018000, "Tee550", 2, now))
	}))

	err := repo.Transaction(ctx, func(tx contracts.ProductTx) error {
		return tx.Insert(ctx, product(143018000, "Tee1026", 7, now))
	})
	require.ErrorIs(t, err, contracts.ErrDuplicate)

	got, err := repo.FindBySKU(ctx, 143018000)
	require.NoError(t, err)
	assert.Equal(t, "Tee550", got.Name)
	assert.Equal(t, 2, got.Quantity)

	err = repo.Transaction(ctx, func(tx contracts.ProductTx) error {
		_, err := tx.AddQuantity(ctx, 999, 1)
		return err
	})
	assert.ErrorIs(t, err, contracts.ErrNotFound)
}

func TestProductRepository_TransactionRollsBack(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewProductRepository(testdb.Open(t))
	boom := errors.New("boom")

	err := repo.Transaction(ctx, func(tx contracts.ProductTx) error {
		require.NoError(t, tx.Insert(ctx, product(1000, "Ghost", 1, time.Now())))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = repo.FindBySKU(ctx, 1000)
	assert.ErrorIs(t, err, contracts.ErrNotFound)
}

func TestProductRepository_ListUpdateDelete(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewProductRepository(testdb.Open(t))
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := int64(1); i <= 5; i++ {
		p := product(i*10, "Item", int(i), base.Add(time.Duration(i)*time.Hour))
		require.NoError(t, repo.Transaction(ctx, func(tx contracts.ProductTx) error { return tx.Insert(ctx, p) }))
	}

	items, page, err := repo.List(ctx, 1, 2)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, []int64{50, 40}, []int64{items[0].SKU, items[1].SKU})
	assert.EqualValues(t, 5, page.Total)
	assert.Equal(t, 3, page.LastPage)

	require.NoError(t, repo.Update(ctx, 30, map[string]interface{}{"quantity": 42, "color": "red"}))
	got, err := repo.FindBySKU(ctx, 30)
	require.NoError(t, err)
	assert.Equal(t, 42, got.Quantity)
	require.NotNil(t, got.Color)
	assert.Equal(t, "red", *got.Color)

	assert.ErrorIs(t, repo.Update(ctx, 999, map[string]interface{}{"quantity": 1}), contracts.ErrNotFound)

	require.NoError(t, repo.Delete(ctx, 30))
	assert.ErrorIs(t, repo.Delete(ctx, 30), contracts.ErrNotFound)

	var seen []int64
	require.NoError(t, repo.All(ctx, 2, func(batch []models.Product) error {
		for _, p := range batch {
			seen = append(seen, p.SKU)
		}
		return nil
	}))
	assert.Equal(t, []int64{10, 20, 40, 50}, seen)
}
