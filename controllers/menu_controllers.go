package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/tavolo-app/backend/middlewares"
	"github.com/tavolo-app/backend/models"
	"github.com/tavolo-app/backend/utils"
)

// MenuController is the staff-side menu management surface: categories and
// products, including the AYCE limit flags that feed order validation.
type MenuController struct {
	DB *gorm.DB
}

func NewMenuController(db *gorm.DB) *MenuController {
	return &MenuController{DB: db}
}

func (mc *MenuController) CreateCategory(c *gin.Context) {
	var req struct {
		Name         string `json:"name" binding:"required"`
		Description  string `json:"description"`
		DisplayOrder int    `json:"display_order"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	category := models.Category{
		RestaurantID: middlewares.CallerRestaurantID(c),
		Name:         req.Name,
		Description:  req.Description,
		DisplayOrder: req.DisplayOrder,
	}
	if err := mc.DB.Create(&category).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Category created", category)
}

func (mc *MenuController) GetAllCategories(c *gin.Context) {
	var categories []models.Category
	if err := mc.DB.Where("restaurant_id = ?", middlewares.CallerRestaurantID(c)).
		Order("display_order asc, id asc").Find(&categories).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of categories", categories)
}

type productRequest struct {
	CategoryID        uint    `json:"category_id" binding:"required"`
	Name              string  `json:"name" binding:"required"`
	Description       string  `json:"description"`
	Price             float64 `json:"price"`
	Available         *bool   `json:"available"`
	DisplayOrder      int     `json:"display_order"`
	AyceLimitEnabled  bool    `json:"ayce_limit_enabled"`
	AyceLimitQuantity int     `json:"ayce_limit_quantity"`
}

// validAyceLimit: the limit quantity must be a positive integer when enabled.
func (r *productRequest) validAyceLimit() error {
	if r.AyceLimitEnabled && r.AyceLimitQuantity <= 0 {
		return errors.New("the AYCE limit quantity must be at least 1 when the limit is enabled")
	}
	return nil
}

func (mc *MenuController) CreateProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if err := req.validAyceLimit(); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	available := true
	if req.Available != nil {
		available = *req.Available
	}
	product := models.Product{
		RestaurantID:      middlewares.CallerRestaurantID(c),
		CategoryID:        req.CategoryID,
		Name:              req.Name,
		Description:       req.Description,
		Price:             req.Price,
		Available:         available,
		DisplayOrder:      req.DisplayOrder,
		AyceLimitEnabled:  req.AyceLimitEnabled,
		AyceLimitQuantity: req.AyceLimitQuantity,
	}
	if err := mc.DB.Create(&product).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Product created", product)
}

func (mc *MenuController) GetAllProducts(c *gin.Context) {
	var products []models.Product
	if err := mc.DB.Where("restaurant_id = ?", middlewares.CallerRestaurantID(c)).
		Order("display_order asc, id asc").Find(&products).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of products", products)
}

func (mc *MenuController) UpdateProduct(c *gin.Context) {
	productID := c.Param("product_id")

	var product models.Product
	if err := mc.DB.Where("id = ? AND restaurant_id = ?", productID, middlewares.CallerRestaurantID(c)).
		First(&product).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if err := req.validAyceLimit(); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	product.CategoryID = req.CategoryID
	product.Name = req.Name
	product.Description = req.Description
	product.Price = req.Price
	if req.Available != nil {
		product.Available = *req.Available
	}
	product.DisplayOrder = req.DisplayOrder
	product.AyceLimitEnabled = req.AyceLimitEnabled
	product.AyceLimitQuantity = req.AyceLimitQuantity

	if err := mc.DB.Save(&product).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Product updated", product)
}

func (mc *MenuController) DeleteProduct(c *gin.Context) {
	productID := c.Param("product_id")

	if err := mc.DB.Where("id = ? AND restaurant_id = ?", productID, middlewares.CallerRestaurantID(c)).
		Delete(&models.Product{}).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Product deleted", gin.H{"product_id": productID})
}
