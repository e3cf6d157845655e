package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/pillpal/pillpal/internal/models"
	"github.com/pillpal/pillpal/internal/mykafka"
	"github.com/pillpal/pillpal/internal/util"
)

type CatalogHandler struct {
	DB       *gorm.DB
	Producer *mykafka.Producer
	Validate *validator.Validate
}

type medicineRequest struct {
	Name        string  `json:"name"        validate:"required,min=3"`
	Category    string  `json:"category"    validate:"required"`
	Price       float64 `json:"price"       validate:"required,gt=0"`
	Description string  `json:"description" validate:"required,min=10"`
	ImageURL    string  `json:"imageUrl"    validate:"required,url"`
	Stock       uint    `json:"stock"`
	AIHint      string  `json:"dataAiHint"  validate:"omitempty,max=50"`
}

func (h *CatalogHandler) publish(c echo.Context, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, mykafka.TopicProductEvents, fmt.Sprint(event["medicineID"]), event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}
}

// categoryName resolves a category id to its display name, rejecting
// unknown ids with a 400.
func (h *CatalogHandler) categoryName(id string) (string, error) {
	var cat models.Category
	if err := h.DB.First(&cat, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", echo.NewHTTPError(http.StatusBadRequest, "Invalid category selected.")
		}
		return "", echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return cat.Name, nil
}

func (h *CatalogHandler) GetMedicine(c echo.Context) error {
	var med models.Medicine
	if err := h.DB.First(&med, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "medicine not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, med)
}

func (h *CatalogHandler) GetMedicines(c echo.Context) error {
	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	query := h.DB.Model(&models.Medicine{})
	if cat := c.QueryParam("category"); cat != "" {
		query = query.Where("category = ?", cat)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	var items []models.Medicine
	if err := query.Order("id ASC").Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]any{
		"data": items,
		"meta": map[string]any{
			"page":        page,
			"size":        limit,
			"total":       total,
			"total_pages": (total + int64(limit) - 1) / int64(limit),
			"has_prev":    page > 1,
			"has_next":    int64(offset+limit) < total,
		},
	})
}

func (h *CatalogHandler) GetCategories(c echo.Context) error {
	var cats []models.Category
	if err := h.DB.Order("name ASC").Find(&cats).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, cats)
}

func (h *CatalogHandler) CreateMedicine(c echo.Context) error {
	var req medicineRequest
	if err := bindAndValidate(c, h.Validate, &req); err != nil {
		return err
	}

	catName, err := h.categoryName(req.Category)
	if err != nil {
		return err
	}

	med := models.Medicine{
		ID:          fmt.Sprintf("prod_%s", uuid.NewString()),
		Name:        req.Name,
		Category:    catName,
		Price:       req.Price,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		Stock:       req.Stock,
		AIHint:      req.AIHint,
	}
	if err := h.DB.Create(&med).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.publish(c, map[string]any{
		"type":       "product_created",
		"medicineID": med.ID,
		"name":       med.Name,
	})

	return c.JSON(http.StatusCreated, med)
}

func (h *CatalogHandler) PatchMedicine(c echo.Context) error {
	var req medicineRequest
	if err := bindAndValidate(c, h.Validate, &req); err != nil {
		return err
	}

	var med models.Medicine
	if err := h.DB.First(&med, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "medicine not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	catName, err := h.categoryName(req.Category)
	if err != nil {
		return err
	}

	med.Name = req.Name
	med.Category = catName
	med.Price = req.Price
	med.Description = req.Description
	med.ImageURL = req.ImageURL
	med.Stock = req.Stock
	med.AIHint = req.AIHint

	if err := h.DB.Save(&med).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.publish(c, map[string]any{
		"type":       "product_updated",
		"medicineID": med.ID,
		"name":       med.Name,
	})

	return c.JSON(http.StatusOK, med)
}

func (h *CatalogHandler) DeleteMedicine(c echo.Context) error {
	id := c.Param("id")
	if err := h.DB.Delete(&models.Medicine{}, "id = ?", id).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}

	h.publish(c, map[string]any{
		"type":       "product_deleted",
		"medicineID": id,
	})

	return c.NoContent(http.StatusNoContent)
}
