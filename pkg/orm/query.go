// Package orm is a thin chainable wrapper over *gorm.DB that adds
// context propagation, query timing, and offset pagination.
package orm

import (
	"context"
	"time"

	"github.com/shashiranjanraj/inventory/pkg/metrics"
	"gorm.io/gorm"
)

const (
	DefaultPerPage = 20
	MaxPerPage     = 100
)

// Pagination is the metadata returned alongside a page of rows.
type Pagination struct {
	Page     int   `json:"page"`
	PerPage  int   `json:"per_page"`
	Total    int64 `json:"total"`
	LastPage int   `json:"last_page"`
}

type Query struct {
	db *gorm.DB
}

// New starts a query on db bound to ctx.
func New(ctx context.Context, db *gorm.DB) *Query {
	return &Query{db: db.WithContext(ctx)}
}

func (q *Query) Model(v interface{}) *Query {
	return &Query{db: q.db.Model(v)}
}

func (q *Query) Where(query string, args ...interface{}) *Query {
	return &Query{db: q.db.Where(query, args...)}
}

func (q *Query) Order(value string) *Query {
	return &Query{db: q.db.Order(value)}
}

func (q *Query) Get(dest interface{}) error {
	defer metrics.ObserveDBQuery("select", time.Now())
	return q.db.Find(dest).Error
}

func (q *Query) First(dest interface{}) error {
	defer metrics.ObserveDBQuery("select", time.Now())
	return q.db.First(dest).Error
}

// Paginate counts the matching rows and loads one page into dest.
// page is 1-based; out-of-range values are clamped.
func (q *Query) Paginate(dest interface{}, page, perPage int) (Pagination, error) {
	defer metrics.ObserveDBQuery("select", time.Now())

	page, perPage = Normalize(page, perPage)

	var total int64
	if err := q.db.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return Pagination{}, err
	}

	if err := q.db.Session(&gorm.Session{}).Offset((page - 1) * perPage).Limit(perPage).Find(dest).Error; err != nil {
		return Pagination{}, err
	}

	last := int((total + int64(perPage) - 1) / int64(perPage))
	if last == 0 {
		last = 1
	}

	return Pagination{Page: page, PerPage: perPage, Total: total, LastPage: last}, nil
}

// Normalize clamps page to ≥ 1 and perPage to [1, MaxPerPage].
func Normalize(page, perPage int) (int, int) {
	if page < 1 {
		page = 1
	}
	switch {
	case perPage < 1:
		perPage = DefaultPerPage
	case perPage > MaxPerPage:
		perPage = MaxPerPage
	}
	return page, perPage
}
