package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/pillpal/pillpal/internal/recommend"
)

type RecommendHandler struct {
	Recommender recommend.Recommender
	Validate    *validator.Validate
}

type recommendRequest struct {
	Symptoms string `json:"symptoms" validate:"required,min=3"`
}

func (h *RecommendHandler) Recommend(c echo.Context) error {
	if h.Recommender == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "recommendations are not configured")
	}

	var req recommendRequest
	if err := bindAndValidate(c, h.Validate, &req); err != nil {
		return err
	}

	res, err := h.Recommender.Recommend(c.Request().Context(), req.Symptoms)
	if err != nil {
		c.Logger().Errorf("recommendation error: %v", err)
		return echo.NewHTTPError(http.StatusBadGateway, "recommendation service failed")
	}

	return c.JSON(http.StatusOK, res)
}
