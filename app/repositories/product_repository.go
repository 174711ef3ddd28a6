package repositories

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shashiranjanraj/inventory/app/contracts"
	"github.com/shashiranjanraj/inventory/app/models"
	"github.com/shashiranjanraj/inventory/pkg/metrics"
	"github.com/shashiranjanraj/inventory/pkg/orm"
)

// ProductRepository implements contracts.ProductStore on gorm.
type ProductRepository struct {
	db     *gorm.DB
	tracer trace.Tracer
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db, tracer: otel.Tracer("repositories/product")}
}

var _ contracts.ProductStore = (*ProductRepository)(nil)

func (r *ProductRepository) Transaction(ctx context.Context, fn func(tx contracts.ProductTx) error) error {
	defer metrics.ObserveDBQuery("reconcile", time.Now())

	ctx, span := r.tracer.Start(ctx, "ProductRepository.Transaction")
	defer span.End()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&productTx{db: tx})
	})
	if err != nil {
		span.RecordError(err)
	}
	return err
}

func (r *ProductRepository) FindBySKU(ctx context.Context, sku int64) (*models.Product, error) {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.FindBySKU")
	defer span.End()
	span.SetAttributes(attribute.Int64("sku", sku))

	var p models.Product
	if err := orm.New(ctx, r.db).Where("sku = ?", sku).First(&p); err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

// List returns one page, newest entries first.
func (r *ProductRepository) List(ctx context.Context, page, perPage int) ([]models.Product, orm.Pagination, error) {
	var products []models.Product
	p, err := orm.New(ctx, r.db).
		Model(&models.Product{}).
		Order("entry_date desc, sku asc").
		Paginate(&products, page, perPage)
	if err != nil {
		return nil, orm.Pagination{}, err
	}
	return products, p, nil
}

func (r *ProductRepository) All(ctx context.Context, batch int, fn func([]models.Product) error) error {
	defer metrics.ObserveDBQuery("select", time.Now())

	var rows []models.Product
	res := r.db.WithContext(ctx).Order("sku asc").FindInBatches(&rows, batch, func(_ *gorm.DB, _ int) error {
		return fn(rows)
	})
	return res.Error
}

func (r *ProductRepository) Update(ctx context.Context, sku int64, columns map[string]interface{}) error {
	defer metrics.ObserveDBQuery("update", time.Now())

	ctx, span := r.tracer.Start(ctx, "ProductRepository.Update")
	defer span.End()
	span.SetAttributes(attribute.Int64("sku", sku), attribute.Int("columns", len(columns)))

	res := r.db.WithContext(ctx).Model(&models.Product{}).Where("sku = ?", sku).Updates(columns)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return contracts.ErrNotFound
	}
	return nil
}

func (r *ProductRepository) Delete(ctx context.Context, sku int64) error {
	defer metrics.ObserveDBQuery("delete", time.Now())

	ctx, span := r.tracer.Start(ctx, "ProductRepository.Delete")
	defer span.End()
	span.SetAttributes(attribute.Int64("sku", sku))

	res := r.db.WithContext(ctx).Where("sku = ?", sku).Delete(&models.Product{})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return contracts.ErrNotFound
	}
	return nil
}

// productTx is the repository bound to one gorm transaction.
type productTx struct {
	db *gorm.DB
}

// LockBySKU takes a row lock: FOR UPDATE on postgres and mysql, an
// UPDLOCK/ROWLOCK table hint on sqlserver. sqlite serializes writers itself.
// A missing row locks nothing; Insert's unique key catches that race.
func (t *productTx) LockBySKU(ctx context.Context, sku int64) (*models.Product, error) {
	q := t.db.WithContext(ctx)
	switch q.Dialector.Name() {
	case "postgres", "mysql":
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	case "sqlserver":
		q = q.Table("products WITH (UPDLOCK, ROWLOCK)")
	}

	var p models.Product
	if err := q.Where("sku = ?", sku).First(&p).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (t *productTx) Insert(ctx context.Context, p *models.Product) error {
	if err := t.db.WithContext(ctx).Create(p).Error; err != nil {
		return fmt.Errorf("insert product %d: %w", p.SKU, translate(err))
	}
	return nil
}

func (t *productTx) AddQuantity(ctx context.Context, sku int64, n int) (*models.Product, error) {
	db := t.db.WithContext(ctx)
	res := db.Model(&models.Product{}).
		Where("sku = ?", sku).
		UpdateColumn("quantity", gorm.Expr("quantity + ?", n))
	if res.Error != nil {
		return nil, fmt.Errorf("add quantity %d: %w", sku, translate(res.Error))
	}

	var p models.Product
	if err := db.Where("sku = ?", sku).First(&p).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}
