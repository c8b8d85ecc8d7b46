package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tavolo-app/backend/config"
	"github.com/tavolo-app/backend/services"
	"github.com/tavolo-app/backend/utils"
)

// QRController is the anonymous issuance boundary reached by a QR scan. No
// caller authentication: possession of the printed code is the credential.
type QRController struct {
	Tokens *services.TokenService
}

func NewQRController(tokens *services.TokenService) *QRController {
	return &QRController{Tokens: tokens}
}

// Scan mints a fresh table token (revoking predecessors) and either redirects
// the browser to the customer menu or, for fetch-style callers, returns the
// destination as JSON.
func (qc *QRController) Scan(c *gin.Context) {
	restaurantID, err1 := strconv.ParseUint(c.Param("restaurant_id"), 10, 32)
	tableID, err2 := strconv.ParseUint(c.Param("table_id"), 10, 32)
	if err1 != nil || err2 != nil {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("missing restaurant or table id"))
		return
	}

	token, err := qc.Tokens.Issue(uint(restaurantID), uint(tableID))
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, fmt.Errorf("unable to generate token: %w", err))
		return
	}

	redirectURL := fmt.Sprintf("%s/%d/%d?token=%s",
		config.PublicBaseURL(), restaurantID, tableID, token.Token)

	utils.InfoLogger.Printf("QR scan: table %d of restaurant %d, token expires %s",
		tableID, restaurantID, token.ExpiresAt.Format("15:04:05"))

	if wantsJSON(c) {
		c.JSON(http.StatusOK, gin.H{
			"redirect_url": redirectURL,
			"token":        token.Token,
			"expires_at":   token.ExpiresAt,
		})
		return
	}
	c.Redirect(http.StatusFound, redirectURL)
}

// wantsJSON mirrors the long-standing heuristic of the QR endpoint: fetch
// callers set Accept: application/json or X-Requested-With, plain browser
// navigations do not.
func wantsJSON(c *gin.Context) bool {
	if strings.Contains(c.GetHeader("Accept"), "application/json") {
		return true
	}
	return c.GetHeader("X-Requested-With") == "XMLHttpRequest"
}
