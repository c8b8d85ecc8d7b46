package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/tavolo-app/backend/models"
	"github.com/tavolo-app/backend/services"
	"github.com/tavolo-app/backend/utils"
)

// CustomerController serves the token-gated customer surface: menu payload,
// party size, order placement and waiter calls. Every handler validates the
// table token before touching anything else.
type CustomerController struct {
	DB       *gorm.DB
	Sessions *services.SessionService
	Orders   *services.OrderService
	Calls    *services.WaiterCallService
}

func NewCustomerController(db *gorm.DB, sessions *services.SessionService, orders *services.OrderService, calls *services.WaiterCallService) *CustomerController {
	return &CustomerController{DB: db, Sessions: sessions, Orders: orders, Calls: calls}
}

// session resolves and validates the token for the claimed path. Failures get
// their reason-specific message with a 401; the client renders the invalid-QR
// screen and offers a retry.
func (cc *CustomerController) session(c *gin.Context) (*models.TableToken, bool) {
	restaurantID, err1 := strconv.ParseUint(c.Param("restaurant_id"), 10, 32)
	tableID, err2 := strconv.ParseUint(c.Param("table_id"), 10, 32)
	if err1 != nil || err2 != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("missing restaurant or table id"))
		return nil, false
	}

	session, err := cc.Sessions.Authorize(c.Query("token"), uint(restaurantID), uint(tableID))
	if err != nil {
		var tokenErr *services.TokenValidationError
		if errors.As(err, &tokenErr) {
			utils.RespondError(c, http.StatusUnauthorized, tokenErr)
		} else {
			utils.RespondError(c, http.StatusInternalServerError, err)
		}
		return nil, false
	}
	return session, true
}

// GetMenu returns everything the customer page needs in one shot: restaurant
// (with AYCE flags), table, categories, available products, and the party
// size already on file for the session.
func (cc *CustomerController) GetMenu(c *gin.Context) {
	session, ok := cc.session(c)
	if !ok {
		return
	}

	var restaurant models.Restaurant
	if err := cc.DB.First(&restaurant, session.RestaurantID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("restaurant not found"))
		return
	}

	var table models.Table
	if err := cc.DB.First(&table, session.TableID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("table not found"))
		return
	}

	var categories []models.Category
	if err := cc.DB.Where("restaurant_id = ?", session.RestaurantID).
		Order("display_order asc, id asc").Find(&categories).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	var products []models.Product
	if err := cc.DB.Where("restaurant_id = ? AND available = ?", session.RestaurantID, true).
		Order("display_order asc, id asc").Find(&products).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Menu", gin.H{
		"restaurant":      restaurant,
		"table":           table,
		"categories":      categories,
		"products":        products,
		"party_size":      session.PartySize,
		"all_you_can_eat": restaurant.AllYouCanEatActive(),
		"session_expires": session.ExpiresAt,
	})
}

// SetPartySize persists the guest count for the session.
func (cc *CustomerController) SetPartySize(c *gin.Context) {
	session, ok := cc.session(c)
	if !ok {
		return
	}

	var body struct {
		PartySize int `json:"party_size"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("enter a valid number of guests (minimum 1)"))
		return
	}

	if err := cc.Sessions.SetPartySize(session, body.PartySize); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Party size saved", gin.H{"party_size": body.PartySize})
}

// PlaceOrder submits the cart. Prices are recomputed server-side; the party
// size gate and the non-empty invariant are enforced before any write.
func (cc *CustomerController) PlaceOrder(c *gin.Context) {
	session, ok := cc.session(c)
	if !ok {
		return
	}

	var body struct {
		Items []services.OrderLineInput `json:"items" binding:"required"`
		Notes string                    `json:"notes"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	order, err := cc.Orders.CreateOrder(session, body.Items, body.Notes)
	if err != nil {
		code := http.StatusBadRequest
		var limitErr *services.AyceLimitError
		switch {
		case errors.As(err, &limitErr),
			errors.Is(err, services.ErrEmptyOrder),
			errors.Is(err, services.ErrPartySizeRequired):
			// validation errors keep 400 and their own message
		default:
			code = http.StatusInternalServerError
		}
		utils.RespondError(c, code, err)
		return
	}

	utils.InfoLogger.Printf("Order %d placed at table %d (total %.2f)",
		order.ID, order.TableID, order.TotalAmount)
	utils.RespondJSON(c, http.StatusCreated, "Order placed", order)
}

// GetOrders lets the customer follow their open orders at the table.
func (cc *CustomerController) GetOrders(c *gin.Context) {
	session, ok := cc.session(c)
	if !ok {
		return
	}

	var orders []models.Order
	if err := cc.DB.Preload("OrderItems").Preload("OrderItems.Product").
		Where("restaurant_id = ? AND table_id = ?", session.RestaurantID, session.TableID).
		Order("created_at desc").Find(&orders).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table orders", orders)
}

// CallWaiter records a call-for-service event for the table.
func (cc *CustomerController) CallWaiter(c *gin.Context) {
	session, ok := cc.session(c)
	if !ok {
		return
	}

	call, err := cc.Calls.Create(session.RestaurantID, session.TableID)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Waiter called", call)
}
