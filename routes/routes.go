package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/cafe-api/cart"
	"github.com/junaidrashid-git/cafe-api/database"
	"github.com/junaidrashid-git/cafe-api/events"
	"github.com/junaidrashid-git/cafe-api/models"
	"github.com/junaidrashid-git/cafe-api/repository"
	"go.uber.org/zap"
)

// Deps is everything the route groups need.
type Deps struct {
	Store    *database.Store
	Products repository.Repository[models.Product]
	Cart     *cart.Service
	Hub      *events.Hub
	Logger   *zap.Logger
	APIKey   string
}

// SetupRoutes is the single entry point that wires up the menu, cart, CRUD
// and realtime route groups.
func SetupRoutes(r *gin.Engine, deps Deps) {
	r.GET("/health", health(deps))

	// public: menu and cart
	SetupCartRoutes(r, deps)

	// API-key protected: entity CRUD and menu spreadsheets
	SetupCRUDRoutes(r, deps)
	SetupMenuRoutes(r, deps)

	SetupRealtimeRoutes(r, deps)
}

// health pings the database and reports how many realtime clients are
// connected.
func health(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := deps.Store.Ping(ctx); err != nil {
			deps.Logger.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "database": deps.Store.Driver})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":      "ok",
			"database":    deps.Store.Driver,
			"subscribers": deps.Hub.Len(),
		})
	}
}
