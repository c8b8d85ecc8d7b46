package models

import "time"

type Order struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	RestaurantID  uint           `gorm:"not null;index" json:"restaurant_id"`
	TableID       uint           `gorm:"not null;index" json:"table_id"`
	Table         Table          `gorm:"foreignKey:TableID;references:ID" json:"table"`
	Status        OrderStatus    `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	TotalAmount   float64        `gorm:"type:decimal(10,2);not null;default:0.00" json:"total_amount"`
	Notes         string         `gorm:"type:text" json:"notes"`
	PartySize     *int           `json:"party_size,omitempty"`
	PaymentMethod *PaymentMethod `gorm:"type:varchar(20)" json:"payment_method,omitempty"`
	PaidAt        *time.Time     `json:"paid_at,omitempty"`
	CreatedAt     time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"not null" json:"updated_at"`
	OrderItems    []OrderItem    `gorm:"foreignKey:OrderID" json:"order_items"`
}
