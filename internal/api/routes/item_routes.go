package routes

import (
	"storefront-api/internal/api/handlers"

	"github.com/gin-gonic/gin"
)

// RegisterItemRoutes registers all routes related to items
func RegisterItemRoutes(rg *gin.RouterGroup, itemHandler handlers.ItemHandlerInterface) {
	items := rg.Group("/items")
	{
		items.GET("", itemHandler.GetItems)
		items.POST("", itemHandler.CreateItem)
		// Static segments take precedence over /:id
		items.GET("/find", itemHandler.FindItem)
		items.GET("/find_all", itemHandler.FindAllItems)
		items.GET("/:id", itemHandler.GetItemByID)
		items.PATCH("/:id", itemHandler.UpdateItem)
		items.PUT("/:id", itemHandler.UpdateItem)
		items.DELETE("/:id", itemHandler.DeleteItem)
	}
}
