package routes

import (
	"storefront-api/internal/api/handlers"

	"github.com/gin-gonic/gin"
)

// RegisterCouponRoutes registers the merchant-scoped coupon routes.
// Reads are public; every state change goes through the auth middleware.
func RegisterCouponRoutes(
	rg *gin.RouterGroup,
	couponHandler handlers.CouponHandlerInterface,
	authMiddleware ...gin.HandlerFunc,
) {
	coupons := rg.Group("/merchants/:merchant_id/coupons")
	{
		coupons.GET("", couponHandler.GetCoupons)
		coupons.GET("/:id", couponHandler.GetCouponByID)
	}

	protected := coupons.Group("", authMiddleware...)
	{
		protected.POST("", couponHandler.CreateCoupon)
		protected.PATCH("/:id/activate", couponHandler.ActivateCoupon)
		protected.PATCH("/:id/deactivate", couponHandler.DeactivateCoupon)
	}
}
