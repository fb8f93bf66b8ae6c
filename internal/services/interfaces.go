package services

import (
	"context"

	"storefront-api/internal/models"
	"storefront-api/internal/transport/dto"
)

// MerchantService defines the interface for merchant-related business logic.
type MerchantService interface {
	ListMerchants(ctx context.Context) ([]models.Merchant, error)
	GetMerchant(ctx context.Context, id int64) (*models.Merchant, error)
	CreateMerchant(ctx context.Context, req *dto.CreateMerchantRequest) (*models.Merchant, error)
}

// ItemService defines the interface for item-related business logic.
type ItemService interface {
	ListItems(ctx context.Context, req *dto.ListItemsRequest) ([]models.Item, error)
	GetItem(ctx context.Context, id int64) (*models.Item, error)
	CreateItem(ctx context.Context, req *dto.CreateItemRequest) (*models.Item, error)
	UpdateItem(ctx context.Context, req *dto.UpdateItemRequest) (*models.Item, error)
	DeleteItem(ctx context.Context, id int64) error
	// FindItem returns nil without error when no item matches.
	FindItem(ctx context.Context, req *dto.FindItemsRequest) (*models.Item, error)
	FindAllItems(ctx context.Context, req *dto.FindItemsRequest) ([]models.Item, error)
}

// CouponService defines the interface for coupon lifecycle business logic.
// Every operation is scoped to the merchant that owns the coupon.
type CouponService interface {
	ListCoupons(ctx context.Context, req *dto.ListCouponsRequest) ([]models.Coupon, error)
	GetCoupon(ctx context.Context, merchantID, couponID int64) (*models.Coupon, error)
	CreateCoupon(ctx context.Context, req *dto.CreateCouponRequest) (*models.Coupon, error)
	Activate(ctx context.Context, merchantID, couponID int64) (*models.Coupon, error)
	Deactivate(ctx context.Context, merchantID, couponID int64) (*models.Coupon, error)
}
