package routes

import (
	"github.com/gin-gonic/gin"
	cartControllers "github.com/junaidrashid-git/cafe-api/controllers/cart"
	menuControllers "github.com/junaidrashid-git/cafe-api/controllers/menu"
)

func SetupCartRoutes(r *gin.Engine, deps Deps) {
	r.GET("/", menuControllers.GetMenu(deps.Products, deps.Logger))

	cartGroup := r.Group("/cart")
	{
		cartGroup.POST("/add", cartControllers.AddItem(deps.Cart, deps.Logger))
		cartGroup.POST("/update", cartControllers.UpdateItem(deps.Cart, deps.Logger))
		cartGroup.POST("/remove", cartControllers.RemoveItem(deps.Cart, deps.Logger))
		cartGroup.POST("/reset", cartControllers.Reset(deps.Cart, deps.Logger))
		cartGroup.GET("/:customerId", cartControllers.GetCart(deps.Cart, deps.Logger))
	}

	r.GET("/checkout/:customerId", cartControllers.Checkout(deps.Cart, deps.Logger))
}
