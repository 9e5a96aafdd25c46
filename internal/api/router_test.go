package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"picklist/internal/app/service"
	"picklist/internal/common/security"
	"picklist/internal/domain/model"
	"picklist/internal/domain/repository/memory"
	"picklist/internal/platform/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testApp struct {
	router   http.Handler
	products *memory.ProductRepository
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	config.AppConfig = &config.Config{
		JWTKey: []byte("test-secret"),
		JWTExp: time.Hour,
	}
	security.InitJWT()

	users := memory.NewUserRepository()
	products := memory.NewProductRepository()
	ledger := memory.NewSelectionRepository(users, products)
	blacklist := memory.NewTokenBlacklist()

	authService := service.NewAuthService(users, ledger, blacklist)
	productService := service.NewProductService(products, ledger)

	return &testApp{
		router:   NewRouter(authService, productService, blacklist),
		products: products,
	}
}

func (a *testApp) addProduct(t *testing.T, name, description string) *model.Product {
	t.Helper()
	p := &model.Product{Name: name, Description: description, Price: "25.00", Stock: 10}
	require.NoError(t, a.products.Create(context.Background(), p))
	return p
}

func (a *testApp) request(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}

func (a *testApp) login(t *testing.T, username string) service.LoginResponse {
	t.Helper()
	rec := a.request(t, http.MethodPost, "/login", "", map[string]string{"username": username})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp service.LoginResponse
	decode(t, rec, &resp)
	return resp
}

func TestLoginValidation(t *testing.T) {
	app := newTestApp(t)

	rec := app.request(t, http.MethodPost, "/login", "", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var resp map[string]string
	decode(t, rec, &resp)
	assert.Equal(t, "Username is required", resp["error"])
}

func TestLoginReturnsTokenAndIdentity(t *testing.T) {
	app := newTestApp(t)

	resp := app.login(t, "alice")
	assert.NotEmpty(t, resp.Token)
	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, "alice", resp.Username)
	assert.Equal(t, "alice", resp.Email)
}

func TestProductsRequireAuth(t *testing.T) {
	app := newTestApp(t)
	app.addProduct(t, "Widget", "a widget")

	rec := app.request(t, http.MethodGet, "/products", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = app.request(t, http.MethodGet, "/products", "garbage-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogoutRequiresAuthorizationHeader(t *testing.T) {
	app := newTestApp(t)

	rec := app.request(t, http.MethodPost, "/logout", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogoutUnresolvableToken(t *testing.T) {
	app := newTestApp(t)

	rec := app.request(t, http.MethodPost, "/logout", "garbage-token", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var resp map[string]string
	decode(t, rec, &resp)
	assert.Equal(t, "Failed to logout", resp["error"])
}

func TestSelectUnknownProduct(t *testing.T) {
	app := newTestApp(t)
	alice := app.login(t, "alice")

	rec := app.request(t, http.MethodPost, "/products/99999/select", alice.Token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = app.request(t, http.MethodPost, "/products/not-a-number/select", alice.Token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProductSearchAndSort(t *testing.T) {
	app := newTestApp(t)
	app.addProduct(t, "Zephyr Phone", "a sleek smartphone")
	app.addProduct(t, "Atlas Charger", "charges any phone fast")
	app.addProduct(t, "Nimbus Blender", "kitchen essential")
	alice := app.login(t, "alice")

	rec := app.request(t, http.MethodGet, "/products?search=phone", alice.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var filtered []service.ProductView
	decode(t, rec, &filtered)
	require.Len(t, filtered, 2)
	assert.Equal(t, "Atlas Charger", filtered[0].Name)
	assert.Equal(t, "Zephyr Phone", filtered[1].Name)

	rec = app.request(t, http.MethodGet, "/products?sort_by=price&sort_order=desc", alice.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var all []service.ProductView
	decode(t, rec, &all)
	require.Len(t, all, 3)
	// All seeded with the same price, so the id tie-break applies.
	assert.True(t, all[0].ID < all[1].ID && all[1].ID < all[2].ID)

	// A typo in sort_by must not fail the request.
	rec = app.request(t, http.MethodGet, "/products?sort_by=nme", alice.Token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

// TestSessionScenario walks the full lifecycle: login, select, observe,
// logout, login again and observe the fresh session.
func TestSessionScenario(t *testing.T) {
	app := newTestApp(t)
	p := app.addProduct(t, "Widget", "a widget")

	alice := app.login(t, "alice")

	rec := app.request(t, http.MethodPost, fmt.Sprintf("/products/%d/select", p.ID), alice.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var selected service.ProductView
	decode(t, rec, &selected)
	assert.True(t, selected.IsSelected)
	assert.Equal(t, []string{"alice"}, selected.SelectedByUsernames)

	rec = app.request(t, http.MethodGet, "/products", alice.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var listed []service.ProductView
	decode(t, rec, &listed)
	require.Len(t, listed, 1)
	assert.True(t, listed[0].IsSelected)
	assert.Equal(t, []string{"alice"}, listed[0].SelectedByUsernames)
	// Prices are serialized as decimal strings, exactly as stored.
	assert.Contains(t, rec.Body.String(), `"price":"25.00"`)

	rec = app.request(t, http.MethodPost, "/logout", alice.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var logout map[string]string
	decode(t, rec, &logout)
	assert.Equal(t, "Successfully logged out", logout["message"])

	// The invalidated token no longer grants access.
	rec = app.request(t, http.MethodGet, "/products", alice.Token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// A fresh login sees no carried-over selection state.
	again := app.login(t, "alice")
	rec = app.request(t, http.MethodGet, "/products", again.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	listed = nil
	decode(t, rec, &listed)
	require.Len(t, listed, 1)
	assert.False(t, listed[0].IsSelected)
	assert.Empty(t, listed[0].SelectedByUsernames)
}
