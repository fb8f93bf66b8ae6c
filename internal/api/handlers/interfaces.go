package handlers

import "github.com/gin-gonic/gin"

// ItemHandlerInterface defines the methods needed by the item routes.
type ItemHandlerInterface interface {
	GetItems(c *gin.Context)
	GetItemByID(c *gin.Context)
	CreateItem(c *gin.Context)
	UpdateItem(c *gin.Context)
	DeleteItem(c *gin.Context)
	FindItem(c *gin.Context)
	FindAllItems(c *gin.Context)
}

// MerchantHandlerInterface defines the methods needed by the merchant routes.
type MerchantHandlerInterface interface {
	GetMerchants(c *gin.Context)
	GetMerchantByID(c *gin.Context)
	CreateMerchant(c *gin.Context)
	GetMerchantItems(c *gin.Context)
}

// CouponHandlerInterface defines the methods needed by the coupon routes.
type CouponHandlerInterface interface {
	GetCoupons(c *gin.Context)
	GetCouponByID(c *gin.Context)
	CreateCoupon(c *gin.Context)
	ActivateCoupon(c *gin.Context)
	DeactivateCoupon(c *gin.Context)
}

// Ensure handlers implements the interface (compile-time check)
var _ ItemHandlerInterface = (*ItemHandler)(nil)
var _ MerchantHandlerInterface = (*MerchantHandler)(nil)
var _ CouponHandlerInterface = (*CouponHandler)(nil)
