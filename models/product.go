package models

import "time"

type Category struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	RestaurantID uint      `gorm:"not null;index" json:"restaurant_id"`
	Name         string    `gorm:"type:varchar(100);not null" json:"name"`
	Description  string    `gorm:"type:text" json:"description"`
	DisplayOrder int       `gorm:"not null;default:0" json:"display_order"`
	CreatedAt    time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time `gorm:"not null" json:"updated_at"`
}

// Product is a menu item. When AyceLimitEnabled is set with a positive
// AyceLimitQuantity, a single order cart may not contain more than that many
// units of the product while AYCE pricing is active.
type Product struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	RestaurantID      uint      `gorm:"not null;index" json:"restaurant_id"`
	CategoryID        uint      `gorm:"not null;index" json:"category_id"`
	Category          Category  `gorm:"foreignKey:CategoryID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	Name              string    `gorm:"type:varchar(255);not null" json:"name"`
	Description       string    `gorm:"type:text" json:"description"`
	Price             float64   `gorm:"type:decimal(10,2);not null" json:"price"`
	Available         bool      `gorm:"not null;default:true" json:"available"`
	DisplayOrder      int       `gorm:"not null;default:0" json:"display_order"`
	AyceLimitEnabled  bool      `gorm:"not null;default:false" json:"ayce_limit_enabled"`
	AyceLimitQuantity int       `gorm:"not null;default:0" json:"ayce_limit_quantity"`
	CreatedAt         time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt         time.Time `gorm:"not null" json:"updated_at"`
}

// AyceLimit returns the per-cart quantity limit, or 0 when none applies.
func (p *Product) AyceLimit() int {
	if p.AyceLimitEnabled && p.AyceLimitQuantity > 0 {
		return p.AyceLimitQuantity
	}
	return 0
}
