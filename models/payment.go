package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Payment struct {
	ID          uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	Type        string          `json:"type"` // cash, card, transfer
	Amount      decimal.Decimal `gorm:"type:decimal(12,2)" json:"amount"`
	PaidAt      *time.Time      `json:"paid_at"`
	Status      string          `json:"status"`
	OrderID     uint            `gorm:"index" json:"order_id"`
	PromotionID *uint           `gorm:"index" json:"promotion_id"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
