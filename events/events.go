package events

import (
	"time"

	"github.com/shopspring/decimal"
)

type CartEventType string

const (
	ItemAdded      CartEventType = "item_added"
	ItemUpdated    CartEventType = "item_updated"
	ItemRemoved    CartEventType = "item_removed"
	CartReset      CartEventType = "cart_reset"
	CheckoutOpened CartEventType = "checkout_opened"
)

// CartEvent is pushed to websocket subscribers after a cart change commits.
type CartEvent struct {
	Type       CartEventType   `json:"type"`
	CustomerID uint            `json:"customer_id"`
	OrderID    uint            `json:"order_id"`
	ProductID  uint            `json:"product_id,omitempty"`
	TotalPrice decimal.Decimal `json:"total_price"`
	At         time.Time       `json:"at"`
}
