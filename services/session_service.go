package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/tavolo-app/backend/models"
)

// Party sizes accepted from the customer prompt. Larger groups are asked to
// talk to the staff.
const (
	MinPartySize = 1
	MaxPartySize = 20
)

var ErrPartySizeOutOfRange = errors.New("enter a valid number of guests (between 1 and 20)")

// ErrPartySizeRequired blocks order submission and tells the client to reopen
// the party-size prompt.
var ErrPartySizeRequired = errors.New("please tell us how many guests are at the table before sending the order")

// SessionService gates customer browsing sessions: it answers whether a token
// may read the menu at all, and tracks the mandatory party-size value for the
// session.
type SessionService struct {
	DB     *gorm.DB
	Tokens *TokenService
}

func NewSessionService(db *gorm.DB, tokens *TokenService) *SessionService {
	return &SessionService{DB: db, Tokens: tokens}
}

// Authorize validates the token for the claimed (restaurant, table) pair. An
// empty token fails immediately with NotFound; no lookup is attempted.
func (s *SessionService) Authorize(token string, restaurantID, tableID uint) (*models.TableToken, error) {
	if token == "" {
		return nil, &TokenValidationError{Reason: TokenNotFound}
	}
	return s.Tokens.Validate(token, restaurantID, tableID)
}

// SetPartySize validates and persists the guest count on the active session.
// Values outside [1, 20] are rejected and the stored value is untouched.
func (s *SessionService) SetPartySize(token *models.TableToken, size int) error {
	if size < MinPartySize || size > MaxPartySize {
		return ErrPartySizeOutOfRange
	}
	token.PartySize = &size
	return s.DB.Model(&models.TableToken{}).Where("id = ?", token.ID).
		Update("party_size", size).Error
}

// PartySize returns the guest count on file for the session, or 0 when the
// prompt must be (re)opened.
func (s *SessionService) PartySize(token *models.TableToken) int {
	if token.PartySize == nil {
		return 0
	}
	return *token.PartySize
}

// RequirePartySize is the submit-time gate: an order may not be placed until a
// valid guest count is on file.
func (s *SessionService) RequirePartySize(token *models.TableToken) (int, error) {
	size := s.PartySize(token)
	if size < MinPartySize {
		return 0, ErrPartySizeRequired
	}
	return size, nil
}
