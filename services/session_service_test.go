package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tavolo-app/backend/models"
)

func TestAuthorizeEmptyTokenFailsWithoutLookup(t *testing.T) {
	db := setupTestDB(t)
	sessions := NewSessionService(db, NewTokenService(db))

	_, err := sessions.Authorize("", 1, 1)
	var tokenErr *TokenValidationError
	assert.ErrorAs(t, err, &tokenErr)
	assert.Equal(t, TokenNotFound, tokenErr.Reason)
}

func TestSetPartySizeBounds(t *testing.T) {
	db := setupTestDB(t)
	tokens := NewTokenService(db)
	sessions := NewSessionService(db, tokens)

	tok, _ := tokens.Issue(1, 1)

	assert.ErrorIs(t, sessions.SetPartySize(tok, 0), ErrPartySizeOutOfRange)
	assert.ErrorIs(t, sessions.SetPartySize(tok, 21), ErrPartySizeOutOfRange)
	assert.Zero(t, sessions.PartySize(tok), "rejected values must not stick")

	assert.NoError(t, sessions.SetPartySize(tok, 3))
	assert.Equal(t, 3, sessions.PartySize(tok))

	// The value is persisted, not just held in memory.
	var stored models.TableToken
	db.First(&stored, tok.ID)
	if assert.NotNil(t, stored.PartySize) {
		assert.Equal(t, 3, *stored.PartySize)
	}
}

func TestRequirePartySizeGate(t *testing.T) {
	db := setupTestDB(t)
	tokens := NewTokenService(db)
	sessions := NewSessionService(db, tokens)

	tok, _ := tokens.Issue(1, 1)

	_, err := sessions.RequirePartySize(tok)
	assert.ErrorIs(t, err, ErrPartySizeRequired)

	assert.NoError(t, sessions.SetPartySize(tok, 2))
	size, err := sessions.RequirePartySize(tok)
	assert.NoError(t, err)
	assert.Equal(t, 2, size)
}
