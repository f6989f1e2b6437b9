package catalog_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-checkout/internal/catalog"
)

type productsResponse struct {
	Data       []catalog.ProductView `json:"data"`
	Pagination struct {
		Page       int `json:"page"`
		PerPage    int `json:"per_page"`
		TotalItems int `json:"total_items"`
	} `json:"pagination"`
}

type productResponse struct {
	Data catalog.ProductView `json:"data"`
}

type errorResponse struct {
	Error struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

func newRouter(h *catalog.Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/api/v1/products", h.Products)
	r.Get("/api/v1/products/{code}", h.Product)
	return r
}

func TestCatalogHandlers(t *testing.T) {
	handler := catalog.NewHandler(catalog.HandlerConfig{Catalog: catalog.Default(), DefaultLimit: 20, MaxLimit: 100})
	router := newRouter(handler)

	t.Run("products list", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/products", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "3", rec.Header().Get("X-Total-Count"))

		var body productsResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Len(t, body.Data, 3)
		require.Equal(t, "GR1", body.Data[0].Code)
		require.Equal(t, "5.00", body.Data[1].UnitPrice)
		require.Equal(t, 3, body.Pagination.TotalItems)
	})

	t.Run("products pagination", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/products?page=2&limit=2", nil))
		require.Equal(t, http.StatusOK, rec.Code)

		var body productsResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Len(t, body.Data, 1)
		require.Equal(t, "CF1", body.Data[0].Code)
		require.Equal(t, 2, body.Pagination.Page)
		require.Equal(t, 2, body.Pagination.PerPage)

		rec = httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/products?page=9", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Empty(t, body.Data)
	})

	t.Run("products page offset overflow", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/products?page=4611686018427387905&limit=2", nil))
		require.Equal(t, http.StatusOK, rec.Code)

		var body productsResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Empty(t, body.Data)
		require.Equal(t, 4611686018427387905, body.Pagination.Page)
		require.Equal(t, 3, body.Pagination.TotalItems)
	})

	t.Run("product detail", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/products/SR1", nil))
		require.Equal(t, http.StatusOK, rec.Code)

		var body productResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Equal(t, "Strawberries", body.Data.Name)
		require.Equal(t, "bulk_threshold", string(body.Data.Rule.Kind))
		require.Equal(t, 3, body.Data.Rule.Threshold)
	})

	t.Run("unknown product", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/products/XYZ", nil))
		require.Equal(t, http.StatusNotFound, rec.Code)

		var body errorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Equal(t, "NOT_FOUND", body.Error.Code)
		require.Equal(t, "XYZ", body.Error.Details["code"])
	})
}

func TestCatalogHandlerNotConfigured(t *testing.T) {
	handler := catalog.NewHandler(catalog.HandlerConfig{})
	rec := httptest.NewRecorder()
	handler.Products(rec, httptest.NewRequest(http.MethodGet, "/api/v1/products", nil))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
}
