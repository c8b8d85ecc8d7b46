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

// KitchenController is the kitchen display: the queue of orders to cook and
// the two transitions the kitchen owns. Serving and payment are floor
// actions and rejected here by the workflow's role gate.
type KitchenController struct {
	DB       *gorm.DB
	Workflow *services.WorkflowService
}

func NewKitchenController(db *gorm.DB, workflow *services.WorkflowService) *KitchenController {
	return &KitchenController{DB: db, Workflow: workflow}
}

// GetDisplay lists pending/preparing/ready orders, oldest first.
func (kc *KitchenController) GetDisplay(c *gin.Context) {
	restaurantID := middlewares.CallerRestaurantID(c)

	var orders []models.Order
	if err := kc.DB.Preload("OrderItems").Preload("OrderItems.Product").Preload("Table").
		Where("restaurant_id = ? AND status IN ?", restaurantID,
			[]models.OrderStatus{models.OrderPending, models.OrderPreparing, models.OrderReady}).
		Order("created_at asc").Find(&orders).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Kitchen display orders", orders)
}

// StartPreparation moves a pending order to preparing.
func (kc *KitchenController) StartPreparation(c *gin.Context) {
	kc.transition(c, models.OrderPreparing)
}

// MarkReady moves a preparing order to ready.
func (kc *KitchenController) MarkReady(c *gin.Context) {
	kc.transition(c, models.OrderReady)
}

func (kc *KitchenController) transition(c *gin.Context, to models.OrderStatus) {
	id, _ := strconv.Atoi(c.Param("order_id"))

	order, err := kc.Workflow.Transition(middlewares.CallerRestaurantID(c), uint(id), to, middlewares.CallerRole(c), nil)
	if err != nil {
		var transitionErr *services.TransitionError
		switch {
		case errors.As(err, &transitionErr):
			utils.RespondError(c, http.StatusForbidden, err)
		case errors.Is(err, gorm.ErrRecordNotFound):
			utils.RespondError(c, http.StatusNotFound, err)
		default:
			utils.RespondError(c, http.StatusBadRequest, err)
		}
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order is "+string(order.Status), order)
}
