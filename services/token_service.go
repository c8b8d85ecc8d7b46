package services

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tavolo-app/backend/models"
	"github.com/tavolo-app/backend/utils"
)

// TokenTTL is how long a scanned QR session stays valid.
const TokenTTL = 2 * time.Hour

// TokenFailReason classifies why a table token failed validation. Each reason
// maps to its own customer-facing message; the distinction is part of the
// contract, not cosmetics.
type TokenFailReason string

const (
	TokenNotFound           TokenFailReason = "not_found"
	TokenRestaurantMismatch TokenFailReason = "restaurant_mismatch"
	TokenTableMismatch      TokenFailReason = "table_mismatch"
	TokenExpired            TokenFailReason = "expired"
	TokenRevoked            TokenFailReason = "revoked"
)

// TokenValidationError carries the failure reason alongside the message shown
// on the invalid-QR screen.
type TokenValidationError struct {
	Reason TokenFailReason
}

func (e *TokenValidationError) Error() string {
	switch e.Reason {
	case TokenNotFound:
		return "this QR code is not recognized, please scan the code on your table again"
	case TokenRestaurantMismatch:
		return "this QR code belongs to a different restaurant"
	case TokenTableMismatch:
		return "this QR code belongs to a different table"
	case TokenExpired:
		return "your table session has expired, please scan the QR code again"
	case TokenRevoked:
		return "your table session has ended, please scan the QR code again"
	}
	return "invalid table session"
}

// TokenService manages the table-token lifecycle.
type TokenService struct {
	DB *gorm.DB

	// now is swappable in tests to drive expiry checks.
	now func() time.Time
}

func NewTokenService(db *gorm.DB) *TokenService {
	return &TokenService{DB: db, now: time.Now}
}

// Issue revokes every live token for the table and inserts a fresh one, as a
// single transaction so two concurrent scans cannot leave two authoritative
// tokens behind. The party size recorded on the superseded session is carried
// forward so a re-scan at the same table pre-fills it.
func (s *TokenService) Issue(restaurantID, tableID uint) (*models.TableToken, error) {
	var table models.Table
	if err := s.DB.Where("id = ? AND restaurant_id = ? AND active = ?", tableID, restaurantID, true).
		First(&table).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("table not found")
		}
		return nil, err
	}

	token := &models.TableToken{
		RestaurantID: restaurantID,
		TableID:      tableID,
		Token:        newTokenString(tableID),
		ExpiresAt:    s.now().Add(TokenTTL),
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var prev models.TableToken
		if err := tx.Where("restaurant_id = ? AND table_id = ? AND revoked = ?", restaurantID, tableID, false).
			Order("created_at desc").First(&prev).Error; err == nil {
			token.PartySize = prev.PartySize
		}

		if err := tx.Model(&models.TableToken{}).
			Where("restaurant_id = ? AND table_id = ? AND revoked = ?", restaurantID, tableID, false).
			Update("revoked", true).Error; err != nil {
			return err
		}
		return tx.Create(token).Error
	})
	if err != nil {
		return nil, err
	}
	return token, nil
}

// Validate looks the token up and checks it against the (restaurant, table)
// pair the customer URL claims. Only a fully matching, unexpired, unrevoked
// token passes; everything else returns a *TokenValidationError.
func (s *TokenService) Validate(token string, restaurantID, tableID uint) (*models.TableToken, error) {
	var record models.TableToken
	if err := s.DB.Where("token = ?", token).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &TokenValidationError{Reason: TokenNotFound}
		}
		return nil, err
	}

	if record.RestaurantID != restaurantID {
		return nil, &TokenValidationError{Reason: TokenRestaurantMismatch}
	}
	if record.TableID != tableID {
		return nil, &TokenValidationError{Reason: TokenTableMismatch}
	}
	if record.Revoked {
		return nil, &TokenValidationError{Reason: TokenRevoked}
	}
	if s.now().After(record.ExpiresAt) {
		return nil, &TokenValidationError{Reason: TokenExpired}
	}

	// The touch is best effort: a failed write must not invalidate a token
	// that just passed every check.
	now := s.now()
	record.LastUsedAt = &now
	if err := s.DB.Model(&record).Update("last_used_at", now).Error; err != nil && utils.ErrorLogger != nil {
		utils.ErrorLogger.Printf("token %d: touch last_used_at: %v", record.ID, err)
	}

	return &record, nil
}

// RevokeAllForTable flags every token of the table as revoked. Idempotent;
// called when the table's bill is fully settled so the next seating needs a
// fresh scan.
func (s *TokenService) RevokeAllForTable(restaurantID, tableID uint) error {
	return s.DB.Model(&models.TableToken{}).
		Where("restaurant_id = ? AND table_id = ? AND revoked = ?", restaurantID, tableID, false).
		Update("revoked", true).Error
}

// newTokenString returns a 128-bit random identifier. If the secure generator
// is unavailable it degrades to a timestamp+random suffix, matching the
// fallback the QR issuer has always used.
func newTokenString(tableID uint) string {
	if id, err := uuid.NewRandom(); err == nil {
		return id.String()
	}
	suffix := make([]byte, 6)
	if n, err := rand.Int(rand.Reader, big.NewInt(int64(1)<<62)); err == nil {
		copy(suffix, n.Bytes())
	}
	return fmt.Sprintf("%d-%d-%s", tableID, time.Now().UnixMilli(), hex.EncodeToString(suffix))
}
