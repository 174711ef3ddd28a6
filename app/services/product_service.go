package services

import (
	"context"
	"errors"

	"github.com/shashiranjanraj/inventory/app/contracts"
	"github.com/shashiranjanraj/inventory/app/models"
	"github.com/shashiranjanraj/inventory/config"
	"github.com/shashiranjanraj/inventory/pkg/cache"
	"github.com/shashiranjanraj/inventory/pkg/clock"
	"github.com/shashiranjanraj/inventory/pkg/event"
	"github.com/shashiranjanraj/inventory/pkg/logger"
	"github.com/shashiranjanraj/inventory/pkg/metrics"
	"github.com/shashiranjanraj/inventory/pkg/orm"
)

// Stock events fired by ProductService. The payload is a StockEvent.
const (
	EventStockCreated = "stock.created"
	EventStockMerged  = "stock.merged"
	EventStockUpdated = "stock.updated"
	EventStockDeleted = "stock.deleted"
)

// StockEvent is the payload of every stock event.
type StockEvent struct {
	SKU      int64           `json:"sku"`
	Received int             `json:"received,omitempty"`
	Product  *models.Product `json:"product,omitempty"`
}

// ProductUpdate is a partial update. Name, brand and size make up the SKU
// and cannot be changed; nil fields are left alone.
type ProductUpdate struct {
	Category      *string  `json:"category"       validate:"omitempty,max=255"`
	Gender        *string  `json:"gender"         validate:"omitempty,max=50"`
	Color         *string  `json:"color"          validate:"omitempty,max=100"`
	Quantity      *int     `json:"quantity"       validate:"omitempty,gte=0"`
	PromoPrice    *float64 `json:"promo_price"    validate:"omitempty,gte=0"`
	DiscountPrice *float64 `json:"discount_price" validate:"omitempty,gte=0"`
	NormalPrice   *float64 `json:"normal_price"   validate:"omitempty,gte=0"`
	Description   *string  `json:"description"`
}

func (u ProductUpdate) columns() map[string]interface{} {
	cols := make(map[string]interface{})
	if u.Category != nil {
		cols["category"] = u.Category
	}
	if u.Gender != nil {
		cols["gender"] = *u.Gender
	}
	if u.Color != nil {
		cols["color"] = u.Color
	}
	if u.Quantity != nil {
		cols["quantity"] = *u.Quantity
	}
	if u.PromoPrice != nil {
		cols["promo_price"] = u.PromoPrice
	}
	if u.DiscountPrice != nil {
		cols["discount_price"] = u.DiscountPrice
	}
	if u.NormalPrice != nil {
		cols["normal_price"] = *u.NormalPrice
	}
	if u.Description != nil {
		cols["description"] = u.Description
	}
	return cols
}

// ProductService is the inventory use-case layer: restocking through the
// reconciler plus plain product CRUD.
type ProductService struct {
	store      contracts.ProductStore
	reconciler *Reconciler
	cache      cache.Store
	events     *event.Dispatcher
}

// NewProductService wires the service. cache and events may be nil.
func NewProductService(store contracts.ProductStore, c cache.Store, events *event.Dispatcher, clk clock.Clock) *ProductService {
	if c == nil {
		c = cache.NewMemoryStore()
	}
	if events == nil {
		events = event.New()
	}
	s := &ProductService{
		store:      store,
		reconciler: NewReconciler(store, clk),
		cache:      c,
		events:     events,
	}
	s.reconciler.committed = s.restocked
	return s
}

// Restock derives the SKU for sub and reconciles it into the inventory.
func (s *ProductService) Restock(ctx context.Context, sub ProductSubmission) (*Outcome, error) {
	sku := DeriveSKU(sub.Name, sub.Brand, sub.Size)

	out, err := s.reconciler.Reconcile(ctx, sub, sku)
	if err != nil {
		metrics.Reconciliations.WithLabelValues(outcomeLabel(err)).Inc()
		return nil, err
	}
	return out, nil
}

// restocked runs under the reconciler's sku lock, so stock.created is
// queued before any stock.merged for the same sku.
func (s *ProductService) restocked(ctx context.Context, sub ProductSubmission, sku int64, out *Outcome) {
	s.invalidate(ctx, sku)

	name, label := EventStockMerged, "merged"
	if out.Created {
		name, label = EventStockCreated, "created"
	}
	metrics.Reconciliations.WithLabelValues(label).Inc()
	metrics.UnitsReceived.Add(float64(sub.Quantity))

	logger.WithCtx(ctx).Info("stock reconciled",
		"sku", sku, "outcome", label, "received", sub.Quantity, "quantity", out.Product.Quantity)

	s.events.FireAsync(ctx, name, StockEvent{SKU: sku, Received: sub.Quantity, Product: out.Product})
}

// Get reads through the cache.
func (s *ProductService) Get(ctx context.Context, sku int64) (*models.Product, error) {
	key := cache.ProductKey(sku)

	var p models.Product
	if s.cache.Get(ctx, key, &p) {
		return &p, nil
	}

	found, err := s.store.FindBySKU(ctx, sku)
	if err != nil {
		return nil, s.storeErr("find", err)
	}
	if err := s.cache.Set(ctx, key, found, config.CacheTTL()); err != nil {
		logger.WithCtx(ctx).Warn("product cache write failed", "sku", sku, "error", err)
	}
	return found, nil
}

// List returns one page, newest entries first.
func (s *ProductService) List(ctx context.Context, page, perPage int) ([]models.Product, orm.Pagination, error) {
	products, p, err := s.store.List(ctx, page, perPage)
	if err != nil {
		return nil, orm.Pagination{}, s.storeErr("list", err)
	}
	return products, p, nil
}

// Update applies the non-nil fields of u and returns the stored product.
func (s *ProductService) Update(ctx context.Context, sku int64, u ProductUpdate) (*models.Product, error) {
	if u.Quantity != nil && *u.Quantity < 0 {
		return nil, invalid("quantity must be >= 0")
	}

	if _, err := s.store.FindBySKU(ctx, sku); err != nil {
		return nil, s.storeErr("find", err)
	}
	if cols := u.columns(); len(cols) > 0 {
		if err := s.store.Update(ctx, sku, cols); err != nil {
			return nil, s.storeErr("update", err)
		}
	}
	s.invalidate(ctx, sku)

	p, err := s.store.FindBySKU(ctx, sku)
	if err != nil {
		return nil, s.storeErr("find", err)
	}
	s.events.FireAsync(ctx, EventStockUpdated, StockEvent{SKU: sku, Product: p})
	return p, nil
}

func (s *ProductService) Delete(ctx context.Context, sku int64) error {
	if err := s.store.Delete(ctx, sku); err != nil {
		return s.storeErr("delete", err)
	}
	s.invalidate(ctx, sku)

	logger.WithCtx(ctx).Info("product deleted", "sku", sku)
	s.events.FireAsync(ctx, EventStockDeleted, StockEvent{SKU: sku})
	return nil
}

// invalidate drops the cached copy of sku. A failure leaves a stale entry
// until CACHE_TTL expires.
func (s *ProductService) invalidate(ctx context.Context, sku int64) {
	if err := s.cache.Del(ctx, cache.ProductKey(sku)); err != nil {
		logger.WithCtx(ctx).Warn("product cache invalidation failed",
			"sku", sku, "error", err, "stale_for", config.CacheTTL().String())
	}
}

// Each streams every product to fn in SKU order. Errors returned by fn
// are passed through unchanged.
func (s *ProductService) Each(ctx context.Context, batch int, fn func([]models.Product) error) error {
	return s.store.All(ctx, batch, fn)
}

// PreviewSKU is the SKU a submission with these fields would get.
func (s *ProductService) PreviewSKU(name, brand string, size float64) string {
	return GenerateSKU(name, brand, size)
}

func (s *ProductService) storeErr(op string, err error) error {
	switch {
	case errors.Is(err, contracts.ErrNotFound):
		return ErrNotFound
	case isCtxErr(err):
		return err
	}
	return storageFailure(op, err)
}

func isCtxErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func outcomeLabel(err error) string {
	switch {
	case errors.Is(err, ErrSKUCollision):
		return "collision"
	case errors.Is(err, ErrInvalidInput):
		return "invalid"
	}
	return "failed"
}
