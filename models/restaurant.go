package models

import "time"

// Restaurant is the tenant root. The AYCE flags and fixed prices change how
// order totals are computed for every table of the restaurant.
type Restaurant struct {
	ID                   uint      `gorm:"primaryKey" json:"id"`
	Name                 string    `gorm:"type:varchar(255);not null" json:"name"`
	Address              string    `gorm:"type:varchar(255)" json:"address"`
	Phone                string    `gorm:"type:varchar(50)" json:"phone"`
	AllYouCanEatEnabled  bool      `gorm:"not null;default:false" json:"all_you_can_eat_enabled"`
	AyceLunchPrice       *float64  `gorm:"type:decimal(10,2)" json:"ayce_lunch_price,omitempty"`
	AyceDinnerPrice      *float64  `gorm:"type:decimal(10,2)" json:"ayce_dinner_price,omitempty"`
	PrepaymentRequired   bool      `gorm:"not null;default:false" json:"prepayment_required"`
	OrderCooldownEnabled bool      `gorm:"not null;default:false" json:"order_cooldown_enabled"`
	OrderCooldownMinutes int       `gorm:"not null;default:0" json:"order_cooldown_minutes"`
	CreatedAt            time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt            time.Time `gorm:"not null" json:"updated_at"`
}

// AllYouCanEatActive reports whether AYCE pricing applies: the flag must be on
// and at least one of the fixed per-guest prices must be configured.
func (r *Restaurant) AllYouCanEatActive() bool {
	return r.AllYouCanEatEnabled && (r.AyceLunchPrice != nil || r.AyceDinnerPrice != nil)
}
