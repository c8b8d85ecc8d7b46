package models

import "time"

// WaiterCall is a call-for-service event raised from a table. Calls are
// resolved by staff and kept forever; there is no auto-expiry.
type WaiterCall struct {
	ID           uint             `gorm:"primaryKey" json:"id"`
	RestaurantID uint             `gorm:"not null;index" json:"restaurant_id"`
	TableID      uint             `gorm:"not null;index" json:"table_id"`
	Table        Table            `gorm:"foreignKey:TableID;references:ID" json:"table"`
	Status       WaiterCallStatus `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	ResolvedAt   *time.Time       `json:"resolved_at,omitempty"`
	CreatedAt    time.Time        `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time        `gorm:"not null" json:"updated_at"`
}
