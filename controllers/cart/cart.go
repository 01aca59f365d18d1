package cartControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/cafe-api/cart"
	"github.com/junaidrashid-git/cafe-api/controllers"
	"go.uber.org/zap"
)

type AddItemInput struct {
	CustomerID uint `json:"customerId"`
	ProductID  uint `json:"productId"`
	Quantity   int  `json:"quantity"`
}

type UpdateItemInput struct {
	CustomerID uint `json:"customerId"`
	ProductID  uint `json:"productId"`
	Change     int  `json:"change"`
}

type RemoveItemInput struct {
	CustomerID uint `json:"customerId"`
	ProductID  uint `json:"productId"`
}

type ResetInput struct {
	CustomerID uint `json:"customerId"`
}

// POST /cart/add
func AddItem(svc *cart.Service, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input AddItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			controllers.RespondBindError(c, logger, err)
			return
		}

		order, err := svc.AddItem(c.Request.Context(), input.CustomerID, input.ProductID, input.Quantity)
		if err != nil {
			controllers.RespondError(c, logger, err, "Failed to add item to cart")
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Item added to cart", "total_price": order.TotalPrice})
	}
}

// POST /cart/update
func UpdateItem(svc *cart.Service, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input UpdateItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			controllers.RespondBindError(c, logger, err)
			return
		}

		order, err := svc.UpdateItem(c.Request.Context(), input.CustomerID, input.ProductID, input.Change)
		if err != nil {
			controllers.RespondError(c, logger, err, "Failed to update cart item")
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Cart item updated", "total_price": order.TotalPrice})
	}
}

// POST /cart/remove
func RemoveItem(svc *cart.Service, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input RemoveItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			controllers.RespondBindError(c, logger, err)
			return
		}

		order, err := svc.RemoveItem(c.Request.Context(), input.CustomerID, input.ProductID)
		if err != nil {
			controllers.RespondError(c, logger, err, "Failed to remove cart item")
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Cart item removed", "total_price": order.TotalPrice})
	}
}

// POST /cart/reset
func Reset(svc *cart.Service, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input ResetInput
		if err := c.ShouldBindJSON(&input); err != nil {
			controllers.RespondBindError(c, logger, err)
			return
		}

		order, err := svc.Reset(c.Request.Context(), input.CustomerID)
		if err != nil {
			controllers.RespondError(c, logger, err, "Failed to reset cart")
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Cart reset", "total_price": order.TotalPrice})
	}
}

// GET /cart/:customerId
func GetCart(svc *cart.Service, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		customerID, ok := controllers.ParseID(c, "customerId")
		if !ok {
			return
		}

		view, err := svc.View(c.Request.Context(), customerID)
		if err != nil {
			controllers.RespondError(c, logger, err, "Failed to fetch cart")
			return
		}
		c.JSON(http.StatusOK, view)
	}
}

// GET /checkout/:customerId
func Checkout(svc *cart.Service, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		customerID, ok := controllers.ParseID(c, "customerId")
		if !ok {
			return
		}

		view, err := svc.Checkout(c.Request.Context(), customerID)
		if err != nil {
			controllers.RespondError(c, logger, err, "Failed to open checkout")
			return
		}
		c.JSON(http.StatusOK, view)
	}
}
