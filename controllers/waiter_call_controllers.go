package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/tavolo-app/backend/middlewares"
	"github.com/tavolo-app/backend/services"
	"github.com/tavolo-app/backend/utils"
)

type WaiterCallController struct {
	Calls *services.WaiterCallService
}

func NewWaiterCallController(calls *services.WaiterCallService) *WaiterCallController {
	return &WaiterCallController{Calls: calls}
}

// GetActiveCalls lists the unresolved calls for the floor view.
func (wc *WaiterCallController) GetActiveCalls(c *gin.Context) {
	calls, err := wc.Calls.Active(middlewares.CallerRestaurantID(c))
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Active waiter calls", calls)
}

// ResolveCall marks a call handled.
func (wc *WaiterCallController) ResolveCall(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("call_id"))

	call, err := wc.Calls.Resolve(middlewares.CallerRestaurantID(c), uint(id))
	if err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Waiter call resolved", call)
}
