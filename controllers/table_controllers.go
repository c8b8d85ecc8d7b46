package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/tavolo-app/backend/config"
	"github.com/tavolo-app/backend/middlewares"
	"github.com/tavolo-app/backend/models"
	"github.com/tavolo-app/backend/realtime"
	"github.com/tavolo-app/backend/utils"
)

type TableController struct {
	DB  *gorm.DB
	Hub *realtime.Hub
}

func NewTableController(db *gorm.DB, hub *realtime.Hub) *TableController {
	return &TableController{DB: db, Hub: hub}
}

type tableResponse struct {
	models.Table
	QRURL string `json:"qr_url"`
}

func (tc *TableController) withQRURL(table models.Table) tableResponse {
	return tableResponse{
		Table: table,
		QRURL: fmt.Sprintf("%s/qr/%d/%d", config.PublicBaseURL(), table.RestaurantID, table.ID),
	}
}

// CreateTable adds a table and returns the QR link to print for it.
func (tc *TableController) CreateTable(c *gin.Context) {
	var req struct {
		Name string `json:"name" binding:"required"`
		Area string `json:"area"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	table := models.Table{
		RestaurantID: middlewares.CallerRestaurantID(c),
		Name:         req.Name,
		Area:         req.Area,
		Active:       true,
	}
	if err := tc.DB.Create(&table).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	if tc.Hub != nil {
		tc.Hub.Broadcast(realtime.EventTableUpdated, table)
	}
	utils.InfoLogger.Printf("Table %q created (id=%d)", table.Name, table.ID)
	utils.RespondJSON(c, http.StatusCreated, "Table created", tc.withQRURL(table))
}

// GetAllTables lists the restaurant's tables with their QR links.
func (tc *TableController) GetAllTables(c *gin.Context) {
	var tables []models.Table
	if err := tc.DB.Where("restaurant_id = ?", middlewares.CallerRestaurantID(c)).
		Order("name asc").Find(&tables).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	out := make([]tableResponse, len(tables))
	for i, t := range tables {
		out[i] = tc.withQRURL(t)
	}
	utils.RespondJSON(c, http.StatusOK, "List of tables", out)
}

// UpdateTable renames or (de)activates a table. Identity is immutable.
func (tc *TableController) UpdateTable(c *gin.Context) {
	tableID := c.Param("table_id")

	var body struct {
		Name   *string `json:"name"`
		Area   *string `json:"area"`
		Active *bool   `json:"active"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var table models.Table
	if err := tc.DB.Where("id = ? AND restaurant_id = ?", tableID, middlewares.CallerRestaurantID(c)).
		First(&table).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	if body.Name != nil {
		table.Name = *body.Name
	}
	if body.Area != nil {
		table.Area = *body.Area
	}
	if body.Active != nil {
		table.Active = *body.Active
	}
	if err := tc.DB.Save(&table).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	if tc.Hub != nil {
		tc.Hub.Broadcast(realtime.EventTableUpdated, table)
	}
	utils.RespondJSON(c, http.StatusOK, "Table updated", tc.withQRURL(table))
}
