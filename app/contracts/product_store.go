// Package contracts declares the persistence ports the services depend on.
// The gorm repositories in app/repositories implement them.
package contracts

import (
	"context"
	"errors"

	"github.com/shashiranjanraj/inventory/app/models"
	"github.com/shashiranjanraj/inventory/pkg/orm"
)

var (
	// ErrNotFound is returned when a row does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique constraint rejects a write.
	ErrDuplicate = errors.New("duplicate record")
	// ErrContention is returned when the database aborted a write to break
	// a lock cycle (mysql gap locks on a missing row). Retrying may succeed.
	ErrContention = errors.New("lock contention")
)

// ProductTx is the view of the store inside one unit of work.
type ProductTx interface {
	// LockBySKU loads the product and locks its row until the unit of work
	// ends. Returns ErrNotFound when absent.
	LockBySKU(ctx context.Context, sku int64) (*models.Product, error)
	// Insert adds p with a plain INSERT. Returns ErrDuplicate when another
	// writer already holds p.SKU, ErrContention when the database aborted it.
	Insert(ctx context.Context, p *models.Product) error
	// AddQuantity increments the stored quantity in one statement and
	// returns the row as it now stands. Returns ErrNotFound when absent.
	AddQuantity(ctx context.Context, sku int64, n int) (*models.Product, error)
}

// ProductStore is the product persistence port.
type ProductStore interface {
	// Transaction runs fn in one unit of work. fn returning an error rolls
	// back; returning nil commits.
	Transaction(ctx context.Context, fn func(tx ProductTx) error) error

	FindBySKU(ctx context.Context, sku int64) (*models.Product, error)
	List(ctx context.Context, page, perPage int) ([]models.Product, orm.Pagination, error)
	// All streams every product ordered by SKU to fn, one batch at a time.
	All(ctx context.Context, batch int, fn func([]models.Product) error) error
	// Update writes the given columns. Returns ErrNotFound when no row matched.
	Update(ctx context.Context, sku int64, columns map[string]interface{}) error
	// Delete returns ErrNotFound when no row matched.
	Delete(ctx context.Context, sku int64) error
}
