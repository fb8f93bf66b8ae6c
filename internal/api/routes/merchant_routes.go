package routes

import (
	"storefront-api/internal/api/handlers"

	"github.com/gin-gonic/gin"
)

// RegisterMerchantRoutes registers all routes related to merchants.
func RegisterMerchantRoutes(rg *gin.RouterGroup, merchantHandler handlers.MerchantHandlerInterface) {
	merchants := rg.Group("/merchants")
	{
		merchants.GET("", merchantHandler.GetMerchants)
		merchants.POST("", merchantHandler.CreateMerchant)
		merchants.GET("/:merchant_id", merchantHandler.GetMerchantByID)
		merchants.GET("/:merchant_id/items", merchantHandler.GetMerchantItems)
	}
}
