package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/cafe-api/controllers/crud"
	"github.com/junaidrashid-git/cafe-api/middleware"
	"github.com/junaidrashid-git/cafe-api/models"
	"github.com/junaidrashid-git/cafe-api/repository"
)

// SetupCRUDRoutes registers list/get/create/update/delete for every entity.
// Orders go through here to be marked PAID, which closes the cart.
func SetupCRUDRoutes(r *gin.Engine, deps Deps) {
	db := deps.Store.DB
	g := r.Group("", middleware.APIKey(deps.APIKey))

	crud.Register(g, "customers", repository.NewGormRepository[models.Customer](db), deps.Logger)
	crud.Register(g, "products", deps.Products, deps.Logger)
	crud.Register(g, "employees", repository.NewGormRepository[models.Employee](db), deps.Logger)
	crud.Register(g, "orders", repository.NewGormRepository[models.Order](db, "Details", "Details.Product"), deps.Logger)
	crud.Register(g, "orderdetails", repository.NewGormRepository[models.OrderDetail](db), deps.Logger)
	crud.Register(g, "promotions", repository.NewGormRepository[models.Promotion](db, "Products"), deps.Logger)
	crud.Register(g, "payments", repository.NewGormRepository[models.Payment](db), deps.Logger)
	crud.Register(g, "deliveries", repository.NewGormRepository[models.Delivery](db), deps.Logger)
}
