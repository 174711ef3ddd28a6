package services

import (
	"context"
	"errors"
	"math"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/shashiranjanraj/inventory/app/contracts"
	"github.com/shashiranjanraj/inventory/app/models"
	"github.com/shashiranjanraj/inventory/pkg/clock"
	"github.com/shashiranjanraj/inventory/pkg/keylock"
)

// ProductSubmission is one restock request: the full attribute set of a
// product plus the quantity being received.
type ProductSubmission struct {
	Name          string   `json:"name"           validate:"required,max=255"`
	Brand         string   `json:"brand"          validate:"required,max=255"`
	Category      *string  `json:"category"       validate:"omitempty,max=255"`
	Gender        string   `json:"gender"         validate:"omitempty,max=50"`
	Size          float64  `json:"size"           validate:"gte=0"`
	Color         *string  `json:"color"          validate:"omitempty,max=100"`
	Quantity      int      `json:"quantity"       validate:"gte=0"`
	PromoPrice    *float64 `json:"promo_price"    validate:"omitempty,gte=0"`
	DiscountPrice *float64 `json:"discount_price" validate:"omitempty,gte=0"`
	NormalPrice   float64  `json:"normal_price"   validate:"gte=0"`
	Description   *string  `json:"description"`
}

func (s ProductSubmission) identity() Identity {
	return Identity{Name: s.Name, Brand: s.Brand, Size: truncSize(s.Size)}
}

// Outcome is the persisted product and whether the call created it.
type Outcome struct {
	Product *models.Product `json:"product"`
	Created bool            `json:"created"`
}

// Reconciler merges a submission into the product holding its SKU, or
// inserts a new product. Calls for the same SKU are serialized in-process
// and each call is one store transaction.
type Reconciler struct {
	store  contracts.ProductStore
	clock  clock.Clock
	locks  keylock.Map[int64]
	tracer trace.Tracer

	// committed runs after a successful commit while sku is still locked,
	// so its side effects happen in commit order for that sku.
	committed func(ctx context.Context, sub ProductSubmission, sku int64, out *Outcome)
}

func NewReconciler(store contracts.ProductStore, clk clock.Clock) *Reconciler {
	if clk == nil {
		clk = clock.Real{}
	}
	return &Reconciler{store: store, clock: clk, tracer: otel.Tracer("services/reconciler")}
}

// Reconcile applies sub under sku.
//
// Existing product with the same (name, brand, trunc(size)): quantity is
// incremented and nothing else changes. Existing product with a different
// identity: *SKUCollisionError, nothing written. No product: sub is inserted
// with entry_date set to now.
func (r *Reconciler) Reconcile(ctx context.Context, sub ProductSubmission, sku int64) (*Outcome, error) {
	ctx, span := r.tracer.Start(ctx, "Reconciler.Reconcile")
	defer span.End()
	span.SetAttributes(attribute.Int64("sku", sku), attribute.Int("quantity", sub.Quantity))

	out, err := r.reconcile(ctx, sub, sku)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(attribute.Bool("created", out.Created))
	return out, nil
}

// insertAttempts bounds how often a lost insert race is retried as a merge.
const insertAttempts = 2

// errInsertRace rolls back a unit of work whose insert lost to another writer.
var errInsertRace = errors.New("insert raced")

func (r *Reconciler) reconcile(ctx context.Context, sub ProductSubmission, sku int64) (*Outcome, error) {
	if sub.Size < 0 || math.IsNaN(sub.Size) || math.IsInf(sub.Size, 0) {
		return nil, invalid("size must be a finite number >= 0")
	}
	if sub.Quantity < 0 {
		return nil, invalid("quantity must be >= 0")
	}

	unlock := r.locks.Lock(sku)
	defer unlock()

	var err error
	for attempt := 1; attempt <= insertAttempts; attempt++ {
		var out *Outcome
		err = r.store.Transaction(ctx, func(tx contracts.ProductTx) error {
			var terr error
			out, terr = r.apply(ctx, tx, sub, sku)
			return terr
		})
		if err == nil {
			if r.committed != nil {
				r.committed(ctx, sub, sku, out)
			}
			return out, nil
		}
		if !errors.Is(err, errInsertRace) {
			break
		}
	}

	switch {
	case errors.Is(err, errInsertRace):
		return nil, storageFailure("insert", err)
	case errors.Is(err, ErrSKUCollision), errors.Is(err, ErrStorageFailure):
		return nil, err
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return nil, err
	}
	// Begin or commit failed.
	return nil, storageFailure("commit", err)
}

// apply is one unit of work. Another process may insert sku between the
// lookup and the insert; the unique key rejects the second insert and the
// caller retries, taking the merge branch.
func (r *Reconciler) apply(ctx context.Context, tx contracts.ProductTx, sub ProductSubmission, sku int64) (*Outcome, error) {
	existing, err := tx.LockBySKU(ctx, sku)
	switch {
	case errors.Is(err, contracts.ErrNotFound):
		p := newProduct(sub, sku, r.clock.Now())
		if err := tx.Insert(ctx, p); err != nil {
			if errors.Is(err, contracts.ErrDuplicate) || errors.Is(err, contracts.ErrContention) {
				return nil, errInsertRace
			}
			return nil, storageFailure("insert", err)
		}
		return &Outcome{Product: p, Created: true}, nil

	case err != nil:
		return nil, storageFailure("lookup", err)
	}

	if have := productIdentity(existing); have != sub.identity() {
		return nil, &SKUCollisionError{SKU: sku, Existing: have, Submitted: sub.identity()}
	}

	merged, err := tx.AddQuantity(ctx, sku, sub.Quantity)
	if err != nil {
		return nil, storageFailure("merge", err)
	}
	return &Outcome{Product: merged, Created: false}, nil
}

func productIdentity(p *models.Product) Identity {
	return Identity{Name: p.Name, Brand: p.Brand, Size: truncSize(p.Size)}
}

func newProduct(sub ProductSubmission, sku int64, now time.Time) *models.Product {
	return &models.Product{
		SKU:           sku,
		Name:          sub.Name,
		Brand:         sub.Brand,
		Category:      sub.Category,
		Gender:        sub.Gender,
		Size:          sub.Size,
		Color:         sub.Color,
		Quantity:      sub.Quantity,
		PromoPrice:    sub.PromoPrice,
		DiscountPrice: sub.DiscountPrice,
		NormalPrice:   sub.NormalPrice,
		Description:   sub.Description,
		EntryDate:     now,
	}
}
