package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository is the CRUD surface shared by every entity table.
type Repository[T any] interface {
	List(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id uint) (*T, error)
	Create(ctx context.Context, entity *T) error
	Update(ctx context.Context, id uint, entity *T) error
	Delete(ctx context.Context, id uint) (*T, error)
}

// Validator is implemented by entities with rules beyond the schema.
// Create and Update reject an entity whose Validate fails with ErrInvalidInput.
type Validator interface {
	Validate() error
}

func validate(entity any) error {
	if v, ok := entity.(Validator); ok {
		if err := v.Validate(); err != nil {
			return Invalid(err.Error())
		}
	}
	return nil
}

type GormRepository[T any] struct {
	db       *gorm.DB
	preloads []string
}

// NewGormRepository builds the repository for T. preloads are association
// names loaded on List and Get, e.g. "Details.Product" for orders.
func NewGormRepository[T any](db *gorm.DB, preloads ...string) *GormRepository[T] {
	return &GormRepository[T]{db: db, preloads: preloads}
}

func (r *GormRepository[T]) query(ctx context.Context) *gorm.DB {
	q := r.db.WithContext(ctx)
	for _, p := range r.preloads {
		q = q.Preload(p)
	}
	return q
}

func (r *GormRepository[T]) List(ctx context.Context) ([]T, error) {
	var rows []T
	if err := r.query(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, Wrap(fmt.Sprintf("list %T", *new(T)), err)
	}
	return rows, nil
}

func (r *GormRepository[T]) Get(ctx context.Context, id uint) (*T, error) {
	if id == 0 {
		return nil, fmt.Errorf("%w: %T id 0", ErrNotFound, *new(T))
	}
	var entity T
	if err := r.query(ctx).First(&entity, id).Error; err != nil {
		return nil, Wrap(fmt.Sprintf("get %T %d", entity, id), err)
	}
	return &entity, nil
}

func (r *GormRepository[T]) Create(ctx context.Context, entity *T) error {
	if err := validate(entity); err != nil {
		return err
	}
	return Wrap(fmt.Sprintf("create %T", *entity), r.db.WithContext(ctx).Create(entity).Error)
}

// Update writes every column of entity onto row id. The primary key,
// created_at and associations are never touched.
func (r *GormRepository[T]) Update(ctx context.Context, id uint, entity *T) error {
	if err := validate(entity); err != nil {
		return err
	}
	res := r.db.WithContext(ctx).
		Model(new(T)).
		Where("id = ?", id).
		Select("*").
		Omit("id", "created_at", clause.Associations).
		Updates(entity)
	if res.Error != nil {
		return Wrap(fmt.Sprintf("update %T %d", *entity, id), res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: %T %d", ErrNotFound, *entity, id)
	}
	return nil
}

// Delete removes row id and returns it as it was before removal.
func (r *GormRepository[T]) Delete(ctx context.Context, id uint) (*T, error) {
	entity, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Delete(new(T), id).Error; err != nil {
		return nil, Wrap(fmt.Sprintf("delete %T %d", *entity, id), err)
	}
	return entity, nil
}
