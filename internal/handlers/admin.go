package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/pillpal/pillpal/internal/models"
	"github.com/pillpal/pillpal/internal/util"
)

type AdminHandler struct {
	DB *gorm.DB
}

type orderSummary struct {
	models.Order
	Customer string `json:"customer"`
	Items    int64  `json:"items"`
}

func (h *AdminHandler) GetOrders(c echo.Context) error {
	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	var total int64
	if err := h.DB.Model(&models.Order{}).Count(&total).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	var orders []models.Order
	if err := h.DB.Order("created_at DESC").Offset(offset).Limit(limit).Find(&orders).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	summaries := make([]orderSummary, 0, len(orders))
	for _, o := range orders {
		var customer models.User
		if err := h.DB.First(&customer, o.UserID).Error; err != nil {
			customer.Email = "unknown"
		}
		var items int64
		if err := h.DB.Model(&models.OrderItem{}).Where("order_id = ?", o.ID).Count(&items).Error; err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		summaries = append(summaries, orderSummary{Order: o, Customer: customer.Email, Items: items})
	}

	return c.JSON(http.StatusOK, map[string]any{
		"data": summaries,
		"meta": map[string]any{
			"page":  page,
			"size":  limit,
			"total": total,
		},
	})
}

func (h *AdminHandler) GetUsers(c echo.Context) error {
	var users []models.User
	if err := h.DB.Order("id ASC").Find(&users).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, users)
}

type salesReport struct {
	TotalRevenue float64            `json:"total_revenue"`
	OrderCount   int64              `json:"order_count"`
	ByCategory   map[string]float64 `json:"by_category"`
	ByDay        map[string]float64 `json:"by_day"`
}

// GetSalesReport aggregates order items in memory; report volumes are tiny
// and this keeps the query portable between postgres and the test sqlite.
func (h *AdminHandler) GetSalesReport(c echo.Context) error {
	var orders []models.Order
	if err := h.DB.Find(&orders).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	report := salesReport{
		ByCategory: map[string]float64{},
		ByDay:      map[string]float64{},
	}
	ordersByID := make(map[uint]models.Order, len(orders))
	for _, o := range orders {
		report.TotalRevenue += o.Total
		report.OrderCount++
		ordersByID[o.ID] = o
	}

	var items []models.OrderItem
	if err := h.DB.Find(&items).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	for _, it := range items {
		revenue := float64(it.Quantity) * it.Price

		category := "Unknown"
		var med models.Medicine
		if err := h.DB.First(&med, "id = ?", it.MedicineID).Error; err == nil {
			category = med.Category
		}
		report.ByCategory[category] += revenue

		if o, ok := ordersByID[it.OrderID]; ok {
			day := time.Unix(o.CreatedAt, 0).UTC().Format("2006-01-02")
			report.ByDay[day] += revenue
		}
	}

	return c.JSON(http.StatusOK, report)
}
