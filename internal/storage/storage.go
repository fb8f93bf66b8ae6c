package storage

import (
	"context"

	"storefront-api/internal/models"
)

// MerchantRepository defines the interface for merchant data operations.
type MerchantRepository interface {
	GetAll(ctx context.Context) ([]models.Merchant, error)
	GetByID(ctx context.Context, id int64) (*models.Merchant, error)
	Create(ctx context.Context, name string) (*models.Merchant, error)
	// LockForUpdate takes an exclusive lock on the merchant until the surrounding
	// transaction ends. Returns ErrNotFound if the merchant does not exist.
	LockForUpdate(ctx context.Context, id int64) error
}

// ItemRepository defines the interface for item data operations.
// Lists are returned in natural order (ascending id).
type ItemRepository interface {
	GetAll(ctx context.Context) ([]models.Item, error)
	ListByMerchant(ctx context.Context, merchantID int64) ([]models.Item, error)
	GetByID(ctx context.Context, id int64) (*models.Item, error)
	Create(ctx context.Context, item *models.Item) (*models.Item, error)
	Update(ctx context.Context, id int64, update models.ItemUpdate) (*models.Item, error)
	Delete(ctx context.Context, id int64) error
}

// CouponRepository defines the interface for coupon data operations.
type CouponRepository interface {
	GetByID(ctx context.Context, id int64) (*models.Coupon, error)
	// ListByMerchant returns the merchant's coupons in natural order, optionally filtered by status.
	ListByMerchant(ctx context.Context, merchantID int64, status *models.CouponStatus) ([]models.Coupon, error)
	Create(ctx context.Context, coupon *models.Coupon) (*models.Coupon, error)
	CountActive(ctx context.Context, merchantID int64) (int, error)
	UpdateStatus(ctx context.Context, id int64, status models.CouponStatus) (*models.Coupon, error)
}

// Store bundles the repositories over one backing store.
type Store interface {
	Merchants() MerchantRepository
	Items() ItemRepository
	Coupons() CouponRepository
	// RunInTx calls fn with a Store whose repositories share one transaction.
	// The transaction commits if fn returns nil and rolls back otherwise.
	RunInTx(ctx context.Context, fn func(ctx context.Context, tx Store) error) error
}
