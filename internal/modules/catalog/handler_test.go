package catalog

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(repo Repository) *chi.Mux {
	r := chi.NewRouter()
	NewHandler(newTestService(repo)).RegisterRoutes(r)
	return r
}

func serve(r http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandler_GetProduct(t *testing.T) {
	r := newTestRouter(newMemoryRepo(teeDoc))

	rec := serve(r, http.MethodGet, "/api/v1/catalog/products/tee", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "tee", body["_id"])
	assert.Len(t, body["variants"], 3)

	rec = serve(r, http.MethodGet, "/api/v1/catalog/products/missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_ListProducts(t *testing.T) {
	r := newTestRouter(newMemoryRepo(teeDoc, mugDoc, hiddenDoc))

	rec := serve(r, http.MethodGet, "/api/v1/catalog/products?limit=10", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var cards []Card
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cards))
	assert.Len(t, cards, 2)

	rec = serve(r, http.MethodGet, "/api/v1/catalog/products?active=false", "")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cards))
	assert.Len(t, cards, 3)
}

func TestHandler_Options(t *testing.T) {
	r := newTestRouter(newMemoryRepo(teeDoc))

	rec := serve(r, http.MethodGet, "/api/v1/catalog/products/tee/options?size=L", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var view OptionsView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Equal(t, map[string]string{"size": "l"}, view.Selection)
	require.Len(t, view.Attributes, 2)
	assert.Equal(t, []OptionView{{Value: "red", Available: true}}, view.Attributes[1].Options)
}

func TestHandler_Price(t *testing.T) {
	r := newTestRouter(newMemoryRepo(teeDoc))

	rec := serve(r, http.MethodPost, "/api/v1/catalog/products/tee/price", `{"attributes": {"Size": "L", "Color": "Red"}}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var view PriceView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.True(t, view.Matched)
	assert.Equal(t, 2750.0, view.Price.Final)

	rec = serve(r, http.MethodPost, "/api/v1/catalog/products/tee/price", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.False(t, view.Matched)
	assert.True(t, view.Price.RequiresSelection)

	rec = serve(r, http.MethodPost, "/api/v1/catalog/products/tee/price", `{"currency": "euro"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(r, http.MethodPost, "/api/v1/catalog/products/tee/price", `{`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_SaveProduct(t *testing.T) {
	repo := newMemoryRepo()
	r := newTestRouter(repo)

	rec := serve(r, http.MethodPut, "/api/v1/catalog/products/mug", mugDoc)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, repo.docs, "mug")

	rec = serve(r, http.MethodPut, "/api/v1/catalog/products/cup", mugDoc)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
