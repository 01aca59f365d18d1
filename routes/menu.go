package routes

import (
	"github.com/gin-gonic/gin"
	menuControllers "github.com/junaidrashid-git/cafe-api/controllers/menu"
	realtimeControllers "github.com/junaidrashid-git/cafe-api/controllers/realtime"
	"github.com/junaidrashid-git/cafe-api/middleware"
)

func SetupMenuRoutes(r *gin.Engine, deps Deps) {
	menuGroup := r.Group("/menu", middleware.APIKey(deps.APIKey))
	{
		menuGroup.GET("/export", menuControllers.ExportMenu(deps.Products, deps.Logger))
		menuGroup.POST("/import", menuControllers.ImportMenu(deps.Products, deps.Logger))
	}
}

func SetupRealtimeRoutes(r *gin.Engine, deps Deps) {
	r.GET("/ws/carts", realtimeControllers.CartWebSocketHandler(deps.Hub, deps.Logger))
}
