package catalog_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TarcisoJNDev/upuniversestorege/internal/catalog"
)

func TestClient_ProductByID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/products/42":
			w.Header().Set("Content-Type", "application/json")
			// Numeric strings and a string promotional price, as the
			// upstream API actually emits them.
			_, _ = w.Write([]byte(`{
				"success": true,
				"product": {
					"id": 42,
					"name": "Miniatura Foguete",
					"price": "10.00",
					"promotional_price": "7.50",
					"stock": 5,
					"image_url": "foguete.png",
					"category": "Miniaturas",
					"status": "active"
				}
			}`))
		case "/api/products/500":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client := catalog.NewClient(server.URL + "/api")

	t.Run("success_with_coercion", func(t *testing.T) {
		product, err := client.ProductByID(context.Background(), 42)
		require.NoError(t, err)

		assert.Equal(t, int64(42), product.ID)
		assert.Equal(t, 10.00, product.Price)
		require.NotNil(t, product.PromotionalPrice)
		assert.Equal(t, 7.50, *product.PromotionalPrice)
		assert.Equal(t, 7.50, product.EffectivePrice())
		assert.Equal(t, 5, product.Stock)
		assert.Equal(t, server.URL+"/uploads/foguete.png", product.ImageURL)
	})

	t.Run("not_found", func(t *testing.T) {
		_, err := client.ProductByID(context.Background(), 999)
		assert.ErrorIs(t, err, catalog.ErrProductNotFound)
	})

	t.Run("server_error_is_transient", func(t *testing.T) {
		_, err := client.ProductByID(context.Background(), 500)
		require.Error(t, err)
		assert.NotErrorIs(t, err, catalog.ErrProductNotFound)
	})
}

func TestClient_Products(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"success": true,
			"products": [
				{"id": 1, "name": "Vaso Estelar", "price": 25, "stock": 3, "category": "Decoração", "status": "active"},
				{"id": 2, "name": "Luminária Nebulosa", "price": 40, "promotional_price": null, "stock": 8, "category": "Decoração", "status": "active"}
			]
		}`))
	}))
	defer server.Close()

	client := catalog.NewClient(server.URL + "/api")

	products, err := client.Products(context.Background(), catalog.ListFilter{
		Category: "Decoração",
		Search:   "vaso",
		Limit:    8,
	})
	require.NoError(t, err)

	require.Len(t, products, 2)
	assert.Nil(t, products[1].PromotionalPrice)
	assert.Contains(t, gotQuery, "limit=8")
	assert.Contains(t, gotQuery, "search=vaso")
}

func TestClient_ImageURL(t *testing.T) {
	client := catalog.NewClient("https://upuniversestorege.onrender.com/api")

	tests := []struct {
		name string
		path string
		want string
	}{
		{"absolute_passthrough", "https://cdn.example.com/p.png", "https://cdn.example.com/p.png"},
		{"rooted_path", "/uploads/p.png", "https://upuniversestorege.onrender.com/uploads/p.png"},
		{"bare_filename", "p.png", "https://upuniversestorege.onrender.com/uploads/p.png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, client.ImageURL(tt.path))
		})
	}

	t.Run("empty_falls_back_to_placeholder", func(t *testing.T) {
		assert.Contains(t, client.ImageURL(""), "images.unsplash.com")
	})
}
