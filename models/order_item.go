package models

import "time"

type OrderItem struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	OrderID uint `gorm:"not null;index" json:"order_id"`
	// Order omitted from JSON to avoid recursive nesting
	Order      Order       `gorm:"foreignKey:OrderID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	ProductID  uint        `gorm:"not null" json:"product_id"`
	Product    Product     `gorm:"foreignKey:ProductID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"product"`
	Quantity   int         `gorm:"not null" json:"quantity"`
	UnitPrice  float64     `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	TotalPrice float64     `gorm:"type:decimal(10,2);not null" json:"total_price"`
	Notes      string      `gorm:"type:text" json:"notes"`
	Status     OrderStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	CreatedAt  time.Time   `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time   `gorm:"not null" json:"updated_at"`
}
