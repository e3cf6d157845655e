package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/pillpal/pillpal/internal/recommend"
)

type fakeRecommender struct {
	res      *recommend.Result
	err      error
	symptoms string
}

func (f *fakeRecommender) Recommend(_ context.Context, symptoms string) (*recommend.Result, error) {
	f.symptoms = symptoms
	return f.res, f.err
}

func TestRecommend(t *testing.T) {
	env := newTestEnv(t)
	fake := &fakeRecommender{res: &recommend.Result{
		Medicines: []string{"Paracetamol 500mg", "Cold & Flu Syrup"},
		Warning:   "Consult a doctor if the fever lasts more than three days.",
	}}
	h := &RecommendHandler{Recommender: fake, Validate: env.Auth.Validate}

	payload := map[string]string{"symptoms": "headache and fever"}
	rec, c := env.doJSONRequest(http.MethodPost, "/api/v1/recommendations", payload)
	require.NoError(t, h.Recommend(c))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "headache and fever", fake.symptoms)

	var res recommend.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.Equal(t, fake.res.Medicines, res.Medicines)
	require.Equal(t, fake.res.Warning, res.Warning)
}

func TestRecommendValidation(t *testing.T) {
	env := newTestEnv(t)
	h := &RecommendHandler{Recommender: &fakeRecommender{}, Validate: env.Auth.Validate}

	_, c := env.doJSONRequest(http.MethodPost, "/api/v1/recommendations", map[string]string{"symptoms": ""})
	err := h.Recommend(c)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError")
	require.Equal(t, http.StatusBadRequest, he.Code)
}

func TestRecommendUpstreamFailure(t *testing.T) {
	env := newTestEnv(t)
	h := &RecommendHandler{
		Recommender: &fakeRecommender{err: errors.New("model unavailable")},
		Validate:    env.Auth.Validate,
	}

	_, c := env.doJSONRequest(http.MethodPost, "/api/v1/recommendations", map[string]string{"symptoms": "sore throat"})
	err := h.Recommend(c)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError")
	require.Equal(t, http.StatusBadGateway, he.Code)
}

func TestRecommendNotConfigured(t *testing.T) {
	env := newTestEnv(t)
	h := &RecommendHandler{Recommender: nil, Validate: env.Auth.Validate}

	_, c := env.doJSONRequest(http.MethodPost, "/api/v1/recommendations", map[string]string{"symptoms": "sore throat"})
	err := h.Recommend(c)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError")
	require.Equal(t, http.StatusServiceUnavailable, he.Code)
}
