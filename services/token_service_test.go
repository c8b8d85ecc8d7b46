package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/tavolo-app/backend/models"
)

func TestIssueRevokesPreviousTokens(t *testing.T) {
	db := setupTestDB(t)
	svc := NewTokenService(db)

	tok1, err := svc.Issue(1, 1)
	assert.NoError(t, err)

	_, err = svc.Validate(tok1.Token, 1, 1)
	assert.NoError(t, err)

	tok2, err := svc.Issue(1, 1)
	assert.NoError(t, err)
	assert.NotEqual(t, tok1.Token, tok2.Token)

	// The superseded token is revoked, the fresh one is authoritative.
	_, err = svc.Validate(tok1.Token, 1, 1)
	var tokenErr *TokenValidationError
	assert.ErrorAs(t, err, &tokenErr)
	assert.Equal(t, TokenRevoked, tokenErr.Reason)

	_, err = svc.Validate(tok2.Token, 1, 1)
	assert.NoError(t, err)
}

func TestIssueDoesNotTouchOtherTables(t *testing.T) {
	db := setupTestDB(t)
	svc := NewTokenService(db)

	tokT1, _ := svc.Issue(1, 1)
	tokT2, _ := svc.Issue(1, 2)

	_, err := svc.Issue(1, 1)
	assert.NoError(t, err)

	_, err = svc.Validate(tokT2.Token, 1, 2)
	assert.NoError(t, err, "issuing for table 1 must not revoke table 2")

	_, err = svc.Validate(tokT1.Token, 1, 1)
	assert.Error(t, err)
}

func TestValidateExpiry(t *testing.T) {
	db := setupTestDB(t)
	svc := NewTokenService(db)

	t0 := time.Now()
	svc.now = func() time.Time { return t0 }

	tok, err := svc.Issue(1, 1)
	assert.NoError(t, err)
	assert.WithinDuration(t, t0.Add(TokenTTL), tok.ExpiresAt, time.Second)

	// Exactly at the boundary the token is still good.
	svc.now = func() time.Time { return t0.Add(TokenTTL) }
	_, err = svc.Validate(tok.Token, 1, 1)
	assert.NoError(t, err)

	svc.now = func() time.Time { return t0.Add(TokenTTL + time.Second) }
	_, err = svc.Validate(tok.Token, 1, 1)
	var tokenErr *TokenValidationError
	assert.ErrorAs(t, err, &tokenErr)
	assert.Equal(t, TokenExpired, tokenErr.Reason)
}

func TestValidateScopeBinding(t *testing.T) {
	db := setupTestDB(t)
	svc := NewTokenService(db)

	tok, err := svc.Issue(1, 1)
	assert.NoError(t, err)

	var tokenErr *TokenValidationError

	_, err = svc.Validate(tok.Token, 2, 1)
	assert.ErrorAs(t, err, &tokenErr)
	assert.Equal(t, TokenRestaurantMismatch, tokenErr.Reason)

	_, err = svc.Validate(tok.Token, 1, 2)
	assert.ErrorAs(t, err, &tokenErr)
	assert.Equal(t, TokenTableMismatch, tokenErr.Reason)

	_, err = svc.Validate("no-such-token", 1, 1)
	assert.ErrorAs(t, err, &tokenErr)
	assert.Equal(t, TokenNotFound, tokenErr.Reason)
}

func TestRevokeAllForTableIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	svc := NewTokenService(db)

	tok, _ := svc.Issue(1, 1)

	assert.NoError(t, svc.RevokeAllForTable(1, 1))
	assert.NoError(t, svc.RevokeAllForTable(1, 1))

	_, err := svc.Validate(tok.Token, 1, 1)
	var tokenErr *TokenValidationError
	assert.ErrorAs(t, err, &tokenErr)
	assert.Equal(t, TokenRevoked, tokenErr.Reason)
}

func TestIssueCarriesPartySizeForward(t *testing.T) {
	db := setupTestDB(t)
	svc := NewTokenService(db)
	sessions := NewSessionService(db, svc)

	tok1, _ := svc.Issue(1, 1)
	assert.NoError(t, sessions.SetPartySize(tok1, 4))

	tok2, err := svc.Issue(1, 1)
	assert.NoError(t, err)
	if assert.NotNil(t, tok2.PartySize) {
		assert.Equal(t, 4, *tok2.PartySize)
	}
}

func TestTokensAreFlaggedNeverDeleted(t *testing.T) {
	db := setupTestDB(t)
	svc := NewTokenService(db)

	svc.Issue(1, 1)
	svc.Issue(1, 1)
	svc.Issue(1, 1)

	var count int64
	db.Model(&models.TableToken{}).Where("table_id = ?", 1).Count(&count)
	assert.EqualValues(t, 3, count)
}
