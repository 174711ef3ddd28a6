package services

import (
	"context"
	"sort"
	"sync"

	"github.com/shashiranjanraj/inventory/app/contracts"
	"github.com/shashiranjanraj/inventory/app/models"
	"github.com/shashiranjanraj/inventory/pkg/orm"
)

// fakeStore is an in-memory contracts.ProductStore. Writes inside a
// transaction are staged and applied only when fn returns nil.
type fakeStore struct {
	mu       sync.Mutex
	rows     map[int64]models.Product
	commits  int
	failLock error
	failSave error

	// racer, when set, is committed by "another process" just before the
	// next Insert runs.
	racer *models.Product
}

func newFakeStore() *fakeStore {
	return &fakeStore{rows: make(map[int64]models.Product)}
}

type fakeTx struct {
	s      *fakeStore
	staged map[int64]models.Product
}

func (s *fakeStore) Transaction(ctx context.Context, fn func(tx contracts.ProductTx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	tx := &fakeTx{s: s, staged: make(map[int64]models.Product)}
	if err := fn(tx); err != nil {
		return err
	}
	for k, v := range tx.staged {
		s.rows[k] = v
	}
	s.commits++
	return nil
}

func (t *fakeTx) LockBySKU(_ context.Context, sku int64) (*models.Product, error) {
	if t.s.failLock != nil {
		return nil, t.s.failLock
	}
	if p, ok := t.staged[sku]; ok {
		return &p, nil
	}
	p, ok := t.s.rows[sku]
	if !ok {
		return nil, contracts.ErrNotFound
	}
	return &p, nil
}

func (t *fakeTx) Insert(_ context.Context, p *models.Product) error {
	if t.s.failSave != nil {
		return t.s.failSave
	}
	if r := t.s.racer; r != nil {
		t.s.racer = nil
		t.s.rows[r.SKU] = *r
	}
	if _, ok := t.staged[p.SKU]; ok {
		return contracts.ErrDuplicate
	}
	if _, ok := t.s.rows[p.SKU]; ok {
		return contracts.ErrDuplicate
	}
	t.staged[p.SKU] = *p
	return nil
}

func (t *fakeTx) AddQuantity(ctx context.Context, sku int64, n int) (*models.Product, error) {
	if t.s.failSave != nil {
		return nil, t.s.failSave
	}
	p, err := t.LockBySKU(ctx, sku)
	if err != nil {
		return nil, err
	}
	p.Quantity += n
	t.staged[sku] = *p
	return p, nil
}

func (s *fakeStore) FindBySKU(_ context.Context, sku int64) (*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.rows[sku]
	if !ok {
		return nil, contracts.ErrNotFound
	}
	return &p, nil
}

func (s *fakeStore) List(_ context.Context, page, perPage int) ([]models.Product, orm.Pagination, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	page, perPage = orm.Normalize(page, perPage)
	all := s.sorted()
	start := (page - 1) * perPage
	if start > len(all) {
		start = len(all)
	}
	end := start + perPage
	if end > len(all) {
		end = len(all)
	}
	last := (len(all) + perPage - 1) / perPage
	if last == 0 {
		last = 1
	}
	return all[start:end], orm.Pagination{Page: page, PerPage: perPage, Total: int64(len(all)), LastPage: last}, nil
}

func (s *fakeStore) All(_ context.Context, batch int, fn func([]models.Product) error) error {
	s.mu.Lock()
	all := s.sorted()
	s.mu.Unlock()

	for len(all) > 0 {
		n := batch
		if n > len(all) {
			n = len(all)
		}
		if err := fn(all[:n]); err != nil {
			return err
		}
		all = all[n:]
	}
	return nil
}

func (s *fakeStore) Update(_ context.Context, sku int64, columns map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.rows[sku]
	if !ok {
		return contracts.ErrNotFound
	}
	for k, v := range columns {
		switch k {
		case "quantity":
			p.Quantity = v.(int)
		case "normal_price":
			p.NormalPrice = v.(float64)
		case "gender":
			p.Gender = v.(string)
		case "color":
			p.Color = v.(*string)
		case "category":
			p.Category = v.(*string)
		case "description":
			p.Description = v.(*string)
		case "promo_price":
			p.PromoPrice = v.(*float64)
		case "discount_price":
			p.DiscountPrice = v.(*float64)
		}
	}
	s.rows[sku] = p
	return nil
}

func (s *fakeStore) Delete(_ context.Context, sku int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[sku]; !ok {
		return contracts.ErrNotFound
	}
	delete(s.rows, sku)
	return nil
}

func (s *fakeStore) sorted() []models.Product {
	out := make([]models.Product, 0, len(s.rows))
	for _, p := range s.rows {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SKU < out[j].SKU })
	return out
}
