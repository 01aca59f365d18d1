package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OrderStatus string

const (
	OrderStatusOpen OrderStatus = "OPEN" // active cart, target of every cart operation
	OrderStatusPaid OrderStatus = "PAID" // finalized, ignored by cart lookups
)

type Order struct {
	ID         uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	Reference  string          `gorm:"size:64;uniqueIndex" json:"reference"`
	OrderedAt  time.Time       `json:"ordered_at"`
	TotalPrice decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_price"`
	Status     OrderStatus     `gorm:"type:varchar(10);not null;index:idx_orders_customer_status" json:"status"`
	CustomerID uint            `gorm:"not null;index:idx_orders_customer_status" json:"customer_id"`
	Customer   *Customer       `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Details    []OrderDetail   `gorm:"foreignKey:OrderID" json:"details,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// BeforeCreate fills the fields an order created through CRUD may leave out.
func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.Reference == "" {
		o.Reference = NewOrderReference(time.Now())
	}
	if o.Status == "" {
		o.Status = OrderStatusOpen
	}
	if o.OrderedAt.IsZero() {
		o.OrderedAt = time.Now()
	}
	return nil
}

// Validate allows only the two known statuses. A new order may leave the
// status empty and gets OPEN from BeforeCreate.
func (o *Order) Validate() error {
	switch o.Status {
	case OrderStatusOpen, OrderStatusPaid:
		return nil
	case "":
		if o.ID == 0 {
			return nil
		}
	}
	return fmt.Errorf("status must be %s or %s, got %q", OrderStatusOpen, OrderStatusPaid, o.Status)
}

// NewOrderReference returns e.g. 20250908130500-<uuid4>.
func NewOrderReference(at time.Time) string {
	return at.Format("20060102150405") + "-" + uuid.NewString()
}

// OrderDetail is one product line inside an order. The composite unique index
// keeps a single row per (order, product).
type OrderDetail struct {
	ID        uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID   uint            `gorm:"not null;uniqueIndex:idx_order_details_order_product" json:"order_id"`
	ProductID uint            `gorm:"not null;uniqueIndex:idx_order_details_order_product" json:"product_id"`
	Product   *Product        `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unit_price"`
	LineTotal decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"line_total"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Reprice sets the unit price and keeps LineTotal = Quantity x UnitPrice.
func (d *OrderDetail) Reprice(unitPrice decimal.Decimal) {
	d.UnitPrice = unitPrice
	d.LineTotal = unitPrice.Mul(decimal.NewFromInt(int64(d.Quantity)))
}
