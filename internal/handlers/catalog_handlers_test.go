package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/pillpal/pillpal/internal/models"
)

func TestGetMedicine(t *testing.T) {
	env := newTestEnv(t)

	rec, c := env.doJSONRequest(http.MethodGet, "/api/v1/medicines/1", nil)
	c.SetParamNames("id")
	c.SetParamValues("1")
	require.NoError(t, env.Catalog.GetMedicine(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var med models.Medicine
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &med))
	require.Equal(t, "Paracetamol 500mg", med.Name)

	_, cMissing := env.doJSONRequest(http.MethodGet, "/api/v1/medicines/nope", nil)
	cMissing.SetParamNames("id")
	cMissing.SetParamValues("nope")
	err := env.Catalog.GetMedicine(cMissing)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError")
	require.Equal(t, http.StatusNotFound, he.Code)
}

func TestGetMedicinesPagination(t *testing.T) {
	env := newTestEnv(t)

	rec, c := env.doJSONRequest(http.MethodGet, "/api/v1/medicines?page=1&size=4", nil)
	require.NoError(t, env.Catalog.GetMedicines(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data []models.Medicine `json:"data"`
		Meta struct {
			Total   int64 `json:"total"`
			HasNext bool  `json:"has_next"`
		} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 4)
	require.Equal(t, int64(10), resp.Meta.Total)
	require.True(t, resp.Meta.HasNext)
}

func TestGetMedicinesByCategory(t *testing.T) {
	env := newTestEnv(t)

	rec, c := env.doJSONRequest(http.MethodGet, "/api/v1/medicines?category=Pain+Relief", nil)
	require.NoError(t, env.Catalog.GetMedicines(c))

	var resp struct {
		Data []models.Medicine `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 3)
	for _, med := range resp.Data {
		require.Equal(t, "Pain Relief", med.Category)
	}
}

func TestGetCategories(t *testing.T) {
	env := newTestEnv(t)

	rec, c := env.doJSONRequest(http.MethodGet, "/api/v1/categories", nil)
	require.NoError(t, env.Catalog.GetCategories(c))

	var cats []models.Category
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cats))
	require.Len(t, cats, 6)
}

func TestCreateMedicine(t *testing.T) {
	env := newTestEnv(t)

	payload := map[string]any{
		"name":        "Cough Drops",
		"category":    "cold-flu",
		"price":       4.25,
		"description": "Soothing menthol drops for sore throats.",
		"imageUrl":    "https://placehold.co/400x300.png",
		"stock":       40,
	}
	rec, c := env.doJSONRequest(http.MethodPost, "/api/v1/admin/products", payload)
	require.NoError(t, env.Catalog.CreateMedicine(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var med models.Medicine
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &med))
	require.NotEmpty(t, med.ID)
	// category ids resolve to display names
	require.Equal(t, "Cold & Flu", med.Category)
}

func TestCreateMedicineInvalidCategory(t *testing.T) {
	env := newTestEnv(t)

	payload := map[string]any{
		"name":        "Cough Drops",
		"category":    "no-such-category",
		"price":       4.25,
		"description": "Soothing menthol drops for sore throats.",
		"imageUrl":    "https://placehold.co/400x300.png",
	}
	_, c := env.doJSONRequest(http.MethodPost, "/api/v1/admin/products", payload)
	err := env.Catalog.CreateMedicine(c)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError")
	require.Equal(t, http.StatusBadRequest, he.Code)
}

func TestCreateMedicineValidation(t *testing.T) {
	env := newTestEnv(t)

	payload := map[string]any{
		"name":        "ab",
		"category":    "cold-flu",
		"price":       0,
		"description": "too short",
		"imageUrl":    "not a url",
	}
	_, c := env.doJSONRequest(http.MethodPost, "/api/v1/admin/products", payload)
	err := env.Catalog.CreateMedicine(c)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError")
	require.Equal(t, http.StatusBadRequest, he.Code)
}

func TestPatchMedicine(t *testing.T) {
	env := newTestEnv(t)

	payload := map[string]any{
		"name":        "Paracetamol 650mg",
		"category":    "pain-relief",
		"price":       6.49,
		"description": "Higher strength paracetamol for adults.",
		"imageUrl":    "https://placehold.co/400x300.png",
		"stock":       55,
	}
	rec, c := env.doJSONRequest(http.MethodPatch, "/api/v1/admin/products/1", payload)
	c.SetParamNames("id")
	c.SetParamValues("1")
	require.NoError(t, env.Catalog.PatchMedicine(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var stored models.Medicine
	require.NoError(t, env.DB.First(&stored, "id = ?", "1").Error)
	require.Equal(t, "Paracetamol 650mg", stored.Name)
	require.Equal(t, uint(55), stored.Stock)
}

func TestDeleteMedicine(t *testing.T) {
	env := newTestEnv(t)

	rec, c := env.doJSONRequest(http.MethodDelete, "/api/v1/admin/products/1", nil)
	c.SetParamNames("id")
	c.SetParamValues("1")
	require.NoError(t, env.Catalog.DeleteMedicine(c))
	require.Equal(t, http.StatusNoContent, rec.Code)

	var count int64
	require.NoError(t, env.DB.Model(&models.Medicine{}).Where("id = ?", "1").Count(&count).Error)
	require.Zero(t, count)
}
