package models

import "time"

type Delivery struct {
	ID          uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	Status      string     `json:"status"`
	DeliveredAt *time.Time `json:"delivered_at"`
	OrderID     uint       `gorm:"index" json:"order_id"`
	EmployeeID  uint       `gorm:"index" json:"employee_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
