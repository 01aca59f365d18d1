package models

import "time"

type Employee struct {
	ID         uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	Name       string     `json:"name"`
	Position   string     `json:"position"` // barista, rider, ...
	Phone      string     `json:"phone"`
	Deliveries []Delivery `gorm:"foreignKey:EmployeeID" json:"deliveries,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}
