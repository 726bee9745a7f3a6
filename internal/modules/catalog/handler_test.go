package catalog

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/georgemunganga/printa-dashboard/internal/apperr"
)

type fakeSource []Product

func (s fakeSource) Products() []Product { return s }

func (s fakeSource) Product(id int64) (Product, bool) {
	for _, p := range s {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}

func TestCatalogHandler(t *testing.T) {
	src := fakeSource{
		{ID: 1, Name: "Widget", Category: "Parts", Quantity: 5},
		{ID: 2, Name: "Poster", Category: "Prints", Quantity: 0},
		{ID: 3, Name: "Banner", Category: "prints", Quantity: 40},
	}
	r := chi.NewRouter()
	NewHandler(NewService(src)).RegisterRoutes(r)

	list := func(query string) []int64 {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/catalog/products"+query, nil))
		require.Equal(t, http.StatusOK, rec.Code)
		var products []Product
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &products))
		ids := []int64{}
		for _, p := range products {
			ids = append(ids, p.ID)
		}
		return ids
	}

	assert.Equal(t, []int64{1, 2, 3}, list(""))
	assert.Equal(t, []int64{2, 3}, list("?category=PRINTS"))
	assert.Equal(t, []int64{1, 2}, list("?low_stock=true"))
	assert.Equal(t, []int64{1, 3}, list("?in_stock=true"))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/catalog/products/2", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

}

func TestCatalogHandlerErrors(t *testing.T) {
	r := chi.NewRouter()
	NewHandler(NewService(fakeSource{{ID: 1, Name: "Widget"}})).RegisterRoutes(r)

	tests := []struct {
		path   string
		status int
	}{
		{"/api/v1/catalog/products/9", http.StatusNotFound},
		{"/api/v1/catalog/products/abc", http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
		require.Equal(t, tt.status, rec.Code, tt.path)

		var body struct {
			Error  string         `json:"error"`
			Banner *apperr.Banner `json:"banner"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.NotEmpty(t, body.Error)
		require.NotNil(t, body.Banner, tt.path)
		assert.Equal(t, apperr.SeverityError, body.Banner.Severity)
		assert.Equal(t, body.Error, body.Banner.Message)
	}
}
