package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/junaidrashid-git/cafe-api/events"
	"github.com/junaidrashid-git/cafe-api/models"
	"github.com/junaidrashid-git/cafe-api/repository"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MaxLineQuantity caps one cart line so its total stays well inside the
// decimal(12,2) line_total column.
const MaxLineQuantity = 9999

var (
	ErrCustomerRequired = repository.Invalid("customerId is required")
	ErrInvalidQuantity  = repository.Invalid("quantity must be at least 1")
	ErrQuantityLimit    = repository.Invalid(fmt.Sprintf("quantity per product cannot exceed %d", MaxLineQuantity))
	ErrProductNotFound  = repository.NotFound("Product not found")
	ErrCartNotFound     = repository.NotFound("Cart not found")
	ErrItemNotInCart    = repository.NotFound("Product not in cart")
	ErrTotalLimit       = repository.Invalid("order total exceeds the largest storable amount")
)

// maxAmount is the largest value a decimal(12,2) column holds.
var maxAmount = decimal.RequireFromString("9999999999.99")

// ProductFinder resolves the product being added; satisfied by the product
// repository and its redis cache.
type ProductFinder interface {
	Get(ctx context.Context, id uint) (*models.Product, error)
}

type Publisher interface {
	Publish(ev events.CartEvent)
}

// Service runs the cart workflow on a customer's OPEN order. Mutations for
// one customer are serialized and each runs in a single transaction that
// ends with the order total recomputed from its line items.
type Service struct {
	db       *gorm.DB
	products ProductFinder
	events   Publisher
	logger   *zap.Logger
	locks    *keyedMutex
}

func NewService(db *gorm.DB, products ProductFinder, publisher Publisher, logger *zap.Logger) *Service {
	return &Service{
		db:       db,
		products: products,
		events:   publisher,
		logger:   logger,
		locks:    newKeyedMutex(),
	}
}

// View is the cart as shown to the customer.
type View struct {
	OrderID    uint                 `json:"order_id,omitempty"`
	Reference  string               `json:"reference,omitempty"`
	CustomerID uint                 `json:"customer_id"`
	Items      []models.OrderDetail `json:"items"`
	TotalPrice decimal.Decimal      `json:"total_price"`
}

// AddItem puts quantity units of a product into the customer's cart, opening
// an order when the customer has none.
func (s *Service) AddItem(ctx context.Context, customerID, productID uint, quantity int) (*models.Order, error) {
	if customerID == 0 {
		return nil, ErrCustomerRequired
	}
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	if quantity > MaxLineQuantity {
		return nil, ErrQuantityLimit
	}

	unlock := s.locks.Lock(customerID)
	defer unlock()

	// resolved before the transaction so a missing product leaves no empty order behind
	product, err := s.products.Get(ctx, productID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	var order *models.Order
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if order, _, err = findOrCreateOpenOrder(tx, customerID); err != nil {
			return err
		}

		var detail models.OrderDetail
		err = tx.Where("order_id = ? AND product_id = ?", order.ID, product.ID).First(&detail).Error
		switch {
		case err == nil:
			if detail.Quantity > MaxLineQuantity-quantity {
				return ErrQuantityLimit
			}
			detail.Quantity += quantity
			detail.Reprice(product.UnitPrice)
			if err := tx.Save(&detail).Error; err != nil {
				return repository.Wrap("save order detail", err)
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			detail = models.OrderDetail{OrderID: order.ID, ProductID: product.ID, Quantity: quantity}
			detail.Reprice(product.UnitPrice)
			if err := tx.Create(&detail).Error; err != nil {
				return repository.Wrap("create order detail", err)
			}
		default:
			return repository.Wrap("find order detail", err)
		}

		return recalculateTotal(tx, order)
	})
	if err != nil {
		return nil, repository.Wrap("add item", err)
	}

	s.logger.Info("Cart item added",
		zap.Uint("customer_id", customerID),
		zap.Uint("order_id", order.ID),
		zap.Uint("product_id", productID),
		zap.Int("quantity", quantity),
		zap.String("total_price", order.TotalPrice.String()))
	s.publish(events.ItemAdded, order, productID)
	return order, nil
}

// UpdateItem shifts a line's quantity by change. A line that drops to zero
// or below is deleted.
func (s *Service) UpdateItem(ctx context.Context, customerID, productID uint, change int) (*models.Order, error) {
	unlock := s.locks.Lock(customerID)
	defer unlock()

	var order *models.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if order, err = findOpenOrder(tx, customerID); err != nil {
			return err
		}

		var detail models.OrderDetail
		err = tx.Where("order_id = ? AND product_id = ?", order.ID, productID).First(&detail).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrItemNotInCart
			}
			return repository.Wrap("find order detail", err)
		}

		if change > 0 && detail.Quantity > MaxLineQuantity-change {
			return ErrQuantityLimit
		}
		detail.Quantity += change
		if detail.Quantity <= 0 {
			if err := tx.Delete(&detail).Error; err != nil {
				return repository.Wrap("delete order detail", err)
			}
		} else {
			detail.Reprice(detail.UnitPrice)
			if err := tx.Save(&detail).Error; err != nil {
				return repository.Wrap("save order detail", err)
			}
		}

		return recalculateTotal(tx, order)
	})
	if err != nil {
		return nil, repository.Wrap("update item", err)
	}

	s.logger.Info("Cart item updated",
		zap.Uint("customer_id", customerID),
		zap.Uint("order_id", order.ID),
		zap.Uint("product_id", productID),
		zap.Int("change", change),
		zap.String("total_price", order.TotalPrice.String()))
	s.publish(events.ItemUpdated, order, productID)
	return order, nil
}

// RemoveItem drops a product from the cart. Removing a product that is not
// in the cart succeeds and leaves the total unchanged.
func (s *Service) RemoveItem(ctx context.Context, customerID, productID uint) (*models.Order, error) {
	unlock := s.locks.Lock(customerID)
	defer unlock()

	var order *models.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if order, err = findOpenOrder(tx, customerID); err != nil {
			return err
		}

		err = tx.Where("order_id = ? AND product_id = ?", order.ID, productID).Delete(&models.OrderDetail{}).Error
		if err != nil {
			return repository.Wrap("delete order detail", err)
		}

		return recalculateTotal(tx, order)
	})
	if err != nil {
		return nil, repository.Wrap("remove item", err)
	}

	s.logger.Info("Cart item removed",
		zap.Uint("customer_id", customerID),
		zap.Uint("order_id", order.ID),
		zap.Uint("product_id", productID))
	s.publish(events.ItemRemoved, order, productID)
	return order, nil
}

// Reset empties the cart and zeroes its total.
func (s *Service) Reset(ctx context.Context, customerID uint) (*models.Order, error) {
	unlock := s.locks.Lock(customerID)
	defer unlock()

	var order *models.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if order, err = findOpenOrder(tx, customerID); err != nil {
			return err
		}

		if err := tx.Where("order_id = ?", order.ID).Delete(&models.OrderDetail{}).Error; err != nil {
			return repository.Wrap("clear order details", err)
		}

		order.TotalPrice = decimal.Zero
		if err := tx.Model(order).Update("total_price", order.TotalPrice).Error; err != nil {
			return repository.Wrap("reset order total", err)
		}
		return nil
	})
	if err != nil {
		return nil, repository.Wrap("reset cart", err)
	}

	s.logger.Info("Cart reset", zap.Uint("customer_id", customerID), zap.Uint("order_id", order.ID))
	s.publish(events.CartReset, order, 0)
	return order, nil
}

// View returns the open cart, or an empty one when the customer has no
// open order. It never writes.
func (s *Service) View(ctx context.Context, customerID uint) (*View, error) {
	db := s.db.WithContext(ctx)

	var order models.Order
	err := db.Where("customer_id = ? AND status = ?", customerID, models.OrderStatusOpen).First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &View{CustomerID: customerID, Items: []models.OrderDetail{}, TotalPrice: decimal.Zero}, nil
		}
		return nil, repository.Wrap("find open order", err)
	}
	return loadView(db, &order)
}

// Checkout returns the open cart like View, but opens an empty order first
// when the customer has none.
func (s *Service) Checkout(ctx context.Context, customerID uint) (*View, error) {
	if customerID == 0 {
		return nil, ErrCustomerRequired
	}

	unlock := s.locks.Lock(customerID)
	defer unlock()

	var (
		order   *models.Order
		created bool
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		order, created, err = findOrCreateOpenOrder(tx, customerID)
		return err
	})
	if err != nil {
		return nil, repository.Wrap("checkout", err)
	}

	if created {
		s.logger.Info("Checkout opened empty order", zap.Uint("customer_id", customerID), zap.Uint("order_id", order.ID))
		s.publish(events.CheckoutOpened, order, 0)
	}
	return loadView(s.db.WithContext(ctx), order)
}

func (s *Service) publish(kind events.CartEventType, order *models.Order, productID uint) {
	if s.events == nil {
		return
	}
	s.events.Publish(events.CartEvent{
		Type:       kind,
		CustomerID: order.CustomerID,
		OrderID:    order.ID,
		ProductID:  productID,
		TotalPrice: order.TotalPrice,
		At:         time.Now(),
	})
}

// findOpenOrder locks and returns the customer's oldest OPEN order.
func findOpenOrder(tx *gorm.DB, customerID uint) (*models.Order, error) {
	var order models.Order
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("customer_id = ? AND status = ?", customerID, models.OrderStatusOpen).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCartNotFound
		}
		return nil, repository.Wrap("find open order", err)
	}
	return &order, nil
}

func findOrCreateOpenOrder(tx *gorm.DB, customerID uint) (*models.Order, bool, error) {
	order, err := findOpenOrder(tx, customerID)
	if err == nil {
		return order, false, nil
	}
	if !errors.Is(err, ErrCartNotFound) {
		return nil, false, err
	}

	order = &models.Order{
		CustomerID: customerID,
		Status:     models.OrderStatusOpen,
		OrderedAt:  time.Now(),
		TotalPrice: decimal.Zero,
	}
	if err := tx.Create(order).Error; err != nil {
		return nil, false, repository.Wrap("create order", err)
	}
	return order, true, nil
}

// recalculateTotal sets order.TotalPrice to the sum of its line totals, zero
// when it has none, and persists it. A total the column cannot hold aborts
// the transaction.
func recalculateTotal(tx *gorm.DB, order *models.Order) error {
	var details []models.OrderDetail
	if err := tx.Select("line_total").Where("order_id = ?", order.ID).Find(&details).Error; err != nil {
		return repository.Wrap("load line totals", err)
	}

	total := decimal.Zero
	for _, d := range details {
		total = total.Add(d.LineTotal)
	}
	if total.GreaterThan(maxAmount) {
		return ErrTotalLimit
	}

	order.TotalPrice = total
	if err := tx.Model(order).Update("total_price", total).Error; err != nil {
		return repository.Wrap("save order total", err)
	}
	return nil
}

func loadView(db *gorm.DB, order *models.Order) (*View, error) {
	items := []models.OrderDetail{}
	if err := db.Preload("Product").Where("order_id = ?", order.ID).Order("id").Find(&items).Error; err != nil {
		return nil, repository.Wrap("load cart items", err)
	}
	return &View{
		OrderID:    order.ID,
		Reference:  order.Reference,
		CustomerID: order.CustomerID,
		Items:      items,
		TotalPrice: order.TotalPrice,
	}, nil
}
