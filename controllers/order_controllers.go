package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/tavolo-app/backend/middlewares"
	"github.com/tavolo-app/backend/models"
	"github.com/tavolo-app/backend/services"
	"github.com/tavolo-app/backend/utils"
)

// OrderController is the floor-service surface: live orders per table, staff
// corrections, status transitions, payment and table close.
type OrderController struct {
	DB       *gorm.DB
	Orders   *services.OrderService
	Workflow *services.WorkflowService
}

func NewOrderController(db *gorm.DB, orders *services.OrderService, workflow *services.WorkflowService) *OrderController {
	return &OrderController{DB: db, Orders: orders, Workflow: workflow}
}

// GetAllOrders lists the restaurant's orders with items, newest first. Pass
// ?open=true to keep only unpaid ones for the floor view.
func (oc *OrderController) GetAllOrders(c *gin.Context) {
	restaurantID := middlewares.CallerRestaurantID(c)

	q := oc.DB.Preload("OrderItems").Preload("OrderItems.Product").Preload("Table").
		Where("restaurant_id = ?", restaurantID)
	if c.Query("open") == "true" {
		q = q.Where("status <> ?", models.OrderPaid)
	}

	var orders []models.Order
	if err := q.Order("created_at desc").Find(&orders).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of orders", orders)
}

// GetOrderByID returns one order with its items. Orders of other restaurants
// are a 404, not a leak.
func (oc *OrderController) GetOrderByID(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("order_id"))

	var order models.Order
	if err := oc.DB.Preload("OrderItems").Preload("OrderItems.Product").
		Where("restaurant_id = ?", middlewares.CallerRestaurantID(c)).
		First(&order, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order detail", order)
}

// EditOrder applies a staff correction to a submitted order.
func (oc *OrderController) EditOrder(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("order_id"))

	var input services.EditOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	order, err := oc.Orders.EditOrder(middlewares.CallerRestaurantID(c), uint(id), input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmptyOrder), errors.Is(err, services.ErrOrderClosed):
			utils.RespondError(c, http.StatusBadRequest, err)
		case errors.Is(err, gorm.ErrRecordNotFound):
			utils.RespondError(c, http.StatusNotFound, err)
		default:
			utils.RespondError(c, http.StatusInternalServerError, err)
		}
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order updated", order)
}

// UpdateStatus drives one workflow transition. The target status comes from
// the body; payment needs a method as well.
func (oc *OrderController) UpdateStatus(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("order_id"))

	var body struct {
		Status        models.OrderStatus    `json:"status" binding:"required"`
		PaymentMethod *models.PaymentMethod `json:"payment_method"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	order, err := oc.Workflow.Transition(middlewares.CallerRestaurantID(c), uint(id), body.Status, middlewares.CallerRole(c), body.PaymentMethod)
	if err != nil {
		oc.respondWorkflowError(c, err)
		return
	}

	utils.InfoLogger.Printf("Order %d moved to %s by %s", order.ID, order.Status, middlewares.CallerRole(c))
	utils.RespondJSON(c, http.StatusOK, "Order status updated", order)
}

// PayOrder settles a single order with the given method.
func (oc *OrderController) PayOrder(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("order_id"))

	var body struct {
		PaymentMethod models.PaymentMethod `json:"payment_method" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, services.ErrPaymentMethodRequired)
		return
	}

	order, err := oc.Workflow.Pay(middlewares.CallerRestaurantID(c), uint(id), middlewares.CallerRole(c), body.PaymentMethod)
	if err != nil {
		oc.respondWorkflowError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order paid", order)
}

// CloseTable pays every open order of the table and ends its QR session.
func (oc *OrderController) CloseTable(c *gin.Context) {
	tableID, _ := strconv.Atoi(c.Param("table_id"))
	restaurantID := middlewares.CallerRestaurantID(c)

	var body struct {
		PaymentMethod models.PaymentMethod `json:"payment_method" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, services.ErrPaymentMethodRequired)
		return
	}

	settled, err := oc.Workflow.CloseTable(restaurantID, uint(tableID), middlewares.CallerRole(c), body.PaymentMethod)
	if err != nil {
		oc.respondWorkflowError(c, err)
		return
	}

	utils.InfoLogger.Printf("Table %d closed, %d orders settled", tableID, settled)
	utils.RespondJSON(c, http.StatusOK, "Table closed", gin.H{
		"table_id":       tableID,
		"orders_settled": settled,
	})
}

func (oc *OrderController) respondWorkflowError(c *gin.Context, err error) {
	var transitionErr *services.TransitionError
	switch {
	case errors.As(err, &transitionErr):
		utils.RespondError(c, http.StatusForbidden, err)
	case errors.Is(err, services.ErrPaymentMethodRequired):
		utils.RespondError(c, http.StatusBadRequest, err)
	case errors.Is(err, gorm.ErrRecordNotFound):
		utils.RespondError(c, http.StatusNotFound, err)
	default:
		utils.RespondError(c, http.StatusInternalServerError, err)
	}
}
