// Package memory implements storage.Store in process memory.
//
// It backs the `memory` database driver for local runs and the service tests.
// A merchant lock taken with LockForUpdate inside RunInTx is held until the
// transaction function returns, matching the row-lock behaviour of the
// PostgreSQL store. Writes are applied as they happen; callers write last.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"storefront-api/internal/models"
	"storefront-api/internal/storage"
)

type data struct {
	mu        sync.RWMutex
	merchants map[int64]models.Merchant
	items     map[int64]models.Item
	coupons   map[int64]models.Coupon
	nextID    int64

	locksMu       sync.Mutex
	merchantLocks map[int64]*sync.Mutex
}

// Store is an in-memory storage.Store.
type Store struct {
	d  *data
	tx *txState // nil outside RunInTx
}

type txState struct {
	held map[int64]*sync.Mutex
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{d: &data{
		merchants:     make(map[int64]models.Merchant),
		items:         make(map[int64]models.Item),
		coupons:       make(map[int64]models.Coupon),
		merchantLocks: make(map[int64]*sync.Mutex),
	}}
}

var _ storage.Store = (*Store)(nil)

func (s *Store) Merchants() storage.MerchantRepository { return merchantRepo{s} }
func (s *Store) Items() storage.ItemRepository         { return itemRepo{s} }
func (s *Store) Coupons() storage.CouponRepository     { return couponRepo{s} }

// RunInTx runs fn with a transaction-bound Store and releases any merchant
// locks it acquired once fn returns.
func (s *Store) RunInTx(ctx context.Context, fn func(ctx context.Context, tx storage.Store) error) error {
	if s.tx != nil {
		return fn(ctx, s)
	}
	txStore := &Store{d: s.d, tx: &txState{held: make(map[int64]*sync.Mutex)}}
	defer func() {
		for _, l := range txStore.tx.held {
			l.Unlock()
		}
	}()
	return fn(ctx, txStore)
}

func (d *data) id() int64 {
	d.nextID++
	return d.nextID
}

func (d *data) merchantLock(id int64) *sync.Mutex {
	d.locksMu.Lock()
	defer d.locksMu.Unlock()
	l, ok := d.merchantLocks[id]
	if !ok {
		l = &sync.Mutex{}
		d.merchantLocks[id] = l
	}
	return l
}

// --- merchants ---

type merchantRepo struct{ s *Store }

func (r merchantRepo) GetAll(ctx context.Context) ([]models.Merchant, error) {
	r.s.d.mu.RLock()
	defer r.s.d.mu.RUnlock()
	out := make([]models.Merchant, 0, len(r.s.d.merchants))
	for _, m := range r.s.d.merchants {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r merchantRepo) GetByID(ctx context.Context, id int64) (*models.Merchant, error) {
	r.s.d.mu.RLock()
	defer r.s.d.mu.RUnlock()
	m, ok := r.s.d.merchants[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &m, nil
}

func (r merchantRepo) Create(ctx context.Context, name string) (*models.Merchant, error) {
	r.s.d.mu.Lock()
	defer r.s.d.mu.Unlock()
	now := time.Now().UTC()
	m := models.Merchant{ID: r.s.d.id(), Name: name, CreatedAt: now, UpdatedAt: now}
	r.s.d.merchants[m.ID] = m
	return &m, nil
}

func (r merchantRepo) LockForUpdate(ctx context.Context, id int64) error {
	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	if r.s.tx == nil {
		// Outside a transaction the lock would be released immediately.
		return nil
	}
	if _, held := r.s.tx.held[id]; held {
		return nil
	}
	l := r.s.d.merchantLock(id)
	l.Lock()
	r.s.tx.held[id] = l
	return nil
}

// --- items ---

type itemRepo struct{ s *Store }

func (r itemRepo) GetAll(ctx context.Context) ([]models.Item, error) {
	return r.filter(func(models.Item) bool { return true }), nil
}

func (r itemRepo) ListByMerchant(ctx context.Context, merchantID int64) ([]models.Item, error) {
	return r.filter(func(it models.Item) bool { return it.MerchantID == merchantID }), nil
}

func (r itemRepo) filter(keep func(models.Item) bool) []models.Item {
	r.s.d.mu.RLock()
	defer r.s.d.mu.RUnlock()
	out := []models.Item{}
	for _, it := range r.s.d.items {
		if keep(it) {
			out = append(out, it)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r itemRepo) GetByID(ctx context.Context, id int64) (*models.Item, error) {
	r.s.d.mu.RLock()
	defer r.s.d.mu.RUnlock()
	it, ok := r.s.d.items[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &it, nil
}

func (r itemRepo) Create(ctx context.Context, item *models.Item) (*models.Item, error) {
	r.s.d.mu.Lock()
	defer r.s.d.mu.Unlock()
	if _, ok := r.s.d.merchants[item.MerchantID]; !ok {
		return nil, storage.ErrForeignKey
	}
	now := time.Now().UTC()
	created := *item
	created.ID = r.s.d.id()
	created.CreatedAt, created.UpdatedAt = now, now
	r.s.d.items[created.ID] = created
	return &created, nil
}

func (r itemRepo) Update(ctx context.Context, id int64, update models.ItemUpdate) (*models.Item, error) {
	r.s.d.mu.Lock()
	defer r.s.d.mu.Unlock()
	it, ok := r.s.d.items[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	if update.MerchantID != nil {
		if _, ok := r.s.d.merchants[*update.MerchantID]; !ok {
			return nil, storage.ErrForeignKey
		}
		it.MerchantID = *update.MerchantID
	}
	if update.Name != nil {
		it.Name = *update.Name
	}
	if update.Description != nil {
		it.Description = *update.Description
	}
	if update.UnitPrice != nil {
		it.UnitPrice = *update.UnitPrice
	}
	if !update.IsEmpty() {
		it.UpdatedAt = time.Now().UTC()
	}
	r.s.d.items[id] = it
	return &it, nil
}

func (r itemRepo) Delete(ctx context.Context, id int64) error {
	r.s.d.mu.Lock()
	defer r.s.d.mu.Unlock()
	if _, ok := r.s.d.items[id]; !ok {
		return storage.ErrNotFound
	}
	delete(r.s.d.items, id)
	return nil
}

// --- coupons ---

type couponRepo struct{ s *Store }

func (r couponRepo) GetByID(ctx context.Context, id int64) (*models.Coupon, error) {
	r.s.d.mu.RLock()
	defer r.s.d.mu.RUnlock()
	c, ok := r.s.d.coupons[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &c, nil
}

func (r couponRepo) ListByMerchant(ctx context.Context, merchantID int64, status *models.CouponStatus) ([]models.Coupon, error) {
	r.s.d.mu.RLock()
	defer r.s.d.mu.RUnlock()
	out := []models.Coupon{}
	for _, c := range r.s.d.coupons {
		if c.MerchantID != merchantID {
			continue
		}
		if status != nil && c.Status != *status {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r couponRepo) Create(ctx context.Context, coupon *models.Coupon) (*models.Coupon, error) {
	r.s.d.mu.Lock()
	defer r.s.d.mu.Unlock()
	if _, ok := r.s.d.merchants[coupon.MerchantID]; !ok {
		return nil, storage.ErrForeignKey
	}
	for _, existing := range r.s.d.coupons {
		if existing.Code == coupon.Code {
			return nil, storage.ErrConflict
		}
	}
	now := time.Now().UTC()
	created := *coupon
	created.ID = r.s.d.id()
	created.CreatedAt, created.UpdatedAt = now, now
	r.s.d.coupons[created.ID] = created
	return &created, nil
}

func (r couponRepo) CountActive(ctx context.Context, merchantID int64) (int, error) {
	r.s.d.mu.RLock()
	defer r.s.d.mu.RUnlock()
	count := 0
	for _, c := range r.s.d.coupons {
		if c.MerchantID == merchantID && c.Status == models.CouponStatusActive {
			count++
		}
	}
	return count, nil
}

func (r couponRepo) UpdateStatus(ctx context.Context, id int64, status models.CouponStatus) (*models.Coupon, error) {
	r.s.d.mu.Lock()
	defer r.s.d.mu.Unlock()
	c, ok := r.s.d.coupons[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	c.Status = status
	c.UpdatedAt = time.Now().UTC()
	r.s.d.coupons[id] = c
	return &c, nil
}
