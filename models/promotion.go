package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Promotion struct {
	ID          uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string          `json:"name"`
	Discount    decimal.Decimal `gorm:"type:decimal(12,2)" json:"discount"`
	StartDate   *time.Time      `json:"start_date"`
	EndDate     *time.Time      `json:"end_date"`
	Description string          `json:"description"`
	Products    []Product       `gorm:"many2many:product_promotions;" json:"products,omitempty"`
	Payments    []Payment       `gorm:"foreignKey:PromotionID" json:"payments,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
