package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ok(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) }

func TestGroupMiddlewareOrder(t *testing.T) {
	var order []string
	mark := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	r := New()
	api := r.Group("/api", mark("group"))
	api.Get("/products/{sku}", "products.show", ok, mark("route"))

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/products/1", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"group", "route"}, order)
}

func TestURL(t *testing.T) {
	r := New()
	r.Group("api").Group("/products/").Delete("{sku}", "products.destroy", ok)

	url, err := r.URL("products.destroy", map[string]string{"sku": "346071090"})
	require.NoError(t, err)
	assert.Equal(t, "/api/products/346071090", url)

	_, err = r.URL("products.destroy", nil)
	assert.ErrorContains(t, err, "missing parameters")

	_, err = r.URL("nope", nil)
	assert.ErrorContains(t, err, "not found")
}

func TestRoutes(t *testing.T) {
	r := New()
	api := r.Group("/api")
	api.Put("/products/{sku}", "products.update", ok)
	api.Get("/products/{sku}", "products.show", ok)
	r.Handle("/metrics", "", http.HandlerFunc(ok))

	assert.Equal(t, []RouteInfo{
		{Method: "GET", Path: "/api/products/{sku}", Name: "products.show"},
		{Method: "PUT", Path: "/api/products/{sku}", Name: "products.update"},
		{Method: "*", Path: "/metrics"},
	}, r.Routes())
}
