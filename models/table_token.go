package models

import "time"

// TableToken is the bearer credential binding a customer browsing session to
// one (restaurant, table) pair. Tokens are flagged revoked, never deleted, so
// the full issuance history stays available for audit.
//
// At most one non-revoked, non-expired token is authoritative per table at any
// time: issuing a new one revokes all predecessors in the same transaction.
type TableToken struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	RestaurantID uint       `gorm:"not null;index:idx_token_table" json:"restaurant_id"`
	TableID      uint       `gorm:"not null;index:idx_token_table" json:"table_id"`
	Token        string     `gorm:"type:varchar(64);uniqueIndex;not null" json:"token"`
	ExpiresAt    time.Time  `gorm:"not null" json:"expires_at"`
	Revoked      bool       `gorm:"not null;default:false" json:"revoked"`
	PartySize    *int       `json:"party_size,omitempty"`
	LastUsedAt   *time.Time `json:"last_used_at,omitempty"`
	CreatedAt    time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"not null" json:"updated_at"`
}
