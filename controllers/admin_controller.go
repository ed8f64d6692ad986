package controllers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/uniquestorebd/unique-store-api/models"
)

// AdminController serves the back-office dashboard endpoints.
type AdminController struct {
	db *gorm.DB
}

func NewAdminController(db *gorm.DB) *AdminController {
	return &AdminController{db: db}
}

// GetStats returns the dashboard summary counters. Admin only.
func (ac *AdminController) GetStats(c *gin.Context) {
	var (
		orderCount   int64
		pendingCount int64
		productCount int64
		userCount    int64
		revenue      float64
	)

	if err := ac.db.Model(&models.Order{}).Count(&orderCount).Error; err != nil {
		ac.statsError(c, err)
		return
	}
	if err := ac.db.Model(&models.Order{}).
		Where("status = ?", models.OrderStatusPending).
		Count(&pendingCount).Error; err != nil {
		ac.statsError(c, err)
		return
	}
	if err := ac.db.Model(&models.Product{}).Count(&productCount).Error; err != nil {
		ac.statsError(c, err)
		return
	}
	if err := ac.db.Model(&models.User{}).Count(&userCount).Error; err != nil {
		ac.statsError(c, err)
		return
	}
	if err := ac.db.Model(&models.Order{}).
		Where("status <> ?", models.OrderStatusCancelled).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&revenue).Error; err != nil {
		ac.statsError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"total_orders":   orderCount,
			"pending_orders": pendingCount,
			"total_products": productCount,
			"total_users":    userCount,
			"total_revenue":  revenue,
		},
	})
}

func (ac *AdminController) statsError(c *gin.Context, err error) {
	log.Printf("Error computing admin stats: %v", err)
	errorJSON(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to compute stats")
}
