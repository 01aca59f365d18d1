package crud

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/cafe-api/controllers"
	"github.com/junaidrashid-git/cafe-api/repository"
	"go.uber.org/zap"
)

// Register mounts list/get/create/update/delete for one entity under
// rg/<path>.
func Register[T any](rg *gin.RouterGroup, path string, repo repository.Repository[T], logger *zap.Logger) {
	h := handlers[T]{name: path, entity: reflect.TypeOf((*T)(nil)).Elem().Name(), repo: repo, logger: logger}

	g := rg.Group("/" + path)
	g.GET("", h.list)
	g.GET("/:id", h.get)
	g.POST("", h.create)
	g.PUT("/:id", h.update)
	g.DELETE("/:id", h.delete)
}

type handlers[T any] struct {
	name   string // route segment, used in 500 messages
	entity string // Go type name, used in 404 messages
	repo   repository.Repository[T]
	logger *zap.Logger
}

// fail names the entity in a not-found answer unless the error already
// carries a client message.
func (h handlers[T]) fail(c *gin.Context, err error, msg string) {
	var public *repository.Error
	if errors.Is(err, repository.ErrNotFound) && !errors.As(err, &public) {
		err = fmt.Errorf("%w: %v", repository.NotFound(h.entity+" not found"), err)
	}
	h.fail(c, err, msg)
}

func (h handlers[T]) list(c *gin.Context) {
	items, err := h.repo.List(c.Request.Context())
	if err != nil {
		h.fail(c, err, "Failed to fetch "+h.name)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h handlers[T]) get(c *gin.Context) {
	id, ok := controllers.ParseID(c, "id")
	if !ok {
		return
	}
	item, err := h.repo.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err, "Failed to fetch "+h.name)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h handlers[T]) create(c *gin.Context) {
	item := new(T)
	if err := c.ShouldBindJSON(item); err != nil {
		controllers.RespondBindError(c, h.logger, err)
		return
	}
	if err := h.repo.Create(c.Request.Context(), item); err != nil {
		h.fail(c, err, "Failed to create "+h.name)
		return
	}
	c.JSON(http.StatusCreated, item)
}

// update binds the payload over the stored row so absent fields keep their
// current values.
func (h handlers[T]) update(c *gin.Context) {
	id, ok := controllers.ParseID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()

	item, err := h.repo.Get(ctx, id)
	if err != nil {
		h.fail(c, err, "Failed to fetch "+h.name)
		return
	}
	if err := c.ShouldBindJSON(item); err != nil {
		controllers.RespondBindError(c, h.logger, err)
		return
	}
	if err := h.repo.Update(ctx, id, item); err != nil {
		h.fail(c, err, "Failed to update "+h.name)
		return
	}

	updated, err := h.repo.Get(ctx, id)
	if err != nil {
		h.fail(c, err, "Failed to fetch "+h.name)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h handlers[T]) delete(c *gin.Context) {
	id, ok := controllers.ParseID(c, "id")
	if !ok {
		return
	}
	removed, err := h.repo.Delete(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err, "Failed to delete "+h.name)
		return
	}
	c.JSON(http.StatusOK, removed)
}
