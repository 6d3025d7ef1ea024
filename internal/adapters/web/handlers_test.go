package web_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"resale-ledger/internal/adapters/web"
	"resale-ledger/internal/ai"
	"resale-ledger/internal/app"
	"resale-ledger/internal/db"
	"resale-ledger/internal/metrics"
	"resale-ledger/internal/repository/sqlite"
)

// fakeIntake returns a canned proposal.
type fakeIntake struct {
	proposal ai.SaleProposal
}

func (f *fakeIntake) ProposeSale(_ context.Context, _, _, _ string) (*ai.SaleProposal, error) {
	p := f.proposal
	return &p, nil
}

type testServer struct {
	url    string
	client *http.Client
}

func newServer(t *testing.T, intake ai.IntakeService) *testServer {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	store := sqlite.New(db.NewTestDB(t))
	m := metrics.New()
	svc := app.NewAppService(app.NewServices(store, bcrypt.MinCost), intake, m, zap.NewNop())
	h := web.NewHandler(ctx, svc, web.Options{
		JWTSecret:      "test-secret",
		SellerTokenTTL: time.Hour,
		SessionTTL:     time.Hour,
		Logger:         zap.NewNop(),
		Metrics:        m,
	})
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return &testServer{url: srv.URL, client: newClient(t)}
}

func newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{Jar: jar}
}

// call sends a JSON request and decodes a JSON object response.
func (s *testServer) call(t *testing.T, c *http.Client, method, path string, body any, header ...string) (int, map[string]any) {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, s.url+path, rd)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	resp, err := c.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := map[string]any{}
	if len(bytes.TrimSpace(raw)) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp.StatusCode, out
}

// signUp registers and logs in a seller on s.client.
func (s *testServer) signUp(t *testing.T, slug string) string {
	t.Helper()
	status, _ := s.call(t, s.client, http.MethodPost, "/api/auth/register", map[string]any{
		"email": slug + "@example.com", "password": "correct-horse", "store_name": "Shop " + slug, "store_slug": slug,
	})
	require.Equal(t, http.StatusCreated, status)
	status, body := s.call(t, s.client, http.MethodPost, "/api/auth/login", map[string]any{
		"email": slug + "@example.com", "password": "correct-horse",
	})
	require.Equal(t, http.StatusOK, status)
	return body["token"].(string)
}

func (s *testServer) createItem(t *testing.T, qty int) int64 {
	t.Helper()
	status, body := s.call(t, s.client, http.MethodPost, "/api/items", map[string]any{
		"title": "Denim jacket", "purchase_price": "10", "quantity_purchased": qty,
		"listed": true, "list_price": "25",
	})
	require.Equal(t, http.StatusCreated, status, body)
	return int64(body["id"].(float64))
}

func dec(t *testing.T, v any) decimal.Decimal {
	t.Helper()
	s, ok := v.(string)
	require.True(t, ok, "expected decimal string, got %v", v)
	return decimal.RequireFromString(s)
}

func obj(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}

func TestHealthAndAuthGuard(t *testing.T) {
	s := newServer(t, nil)

	status, body := s.call(t, s.client, http.MethodGet, "/api/health", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body["status"])

	status, body = s.call(t, s.client, http.MethodGet, "/api/items", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "UNAUTHORIZED", body["code"])

	status, _ = s.call(t, s.client, http.MethodGet, "/api/items", nil, "Authorization", "Bearer not-a-token")
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestMetricsEndpoint(t *testing.T) {
	s := newServer(t, nil)
	s.call(t, s.client, http.MethodGet, "/api/health", nil)

	resp, err := s.client.Get(s.url + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), `route="/api/health"`)
}

func TestSellerAuth(t *testing.T) {
	s := newServer(t, nil)
	token := s.signUp(t, "vintage")

	status, body := s.call(t, s.client, http.MethodGet, "/api/auth/me", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "vintage", body["store_slug"])
	assert.NotContains(t, body, "password_hash")

	// Bearer tokens work without the cookie.
	status, _ = s.call(t, newClient(t), http.MethodGet, "/api/auth/me", nil, "Authorization", "Bearer "+token)
	assert.Equal(t, http.StatusOK, status)

	status, body = s.call(t, newClient(t), http.MethodPost, "/api/auth/register", map[string]any{
		"email": "vintage@example.com", "password": "correct-horse", "store_name": "Again", "store_slug": "other",
	})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "CONFLICT", body["code"])

	status, _ = s.call(t, newClient(t), http.MethodPost, "/api/auth/login", map[string]any{
		"email": "vintage@example.com", "password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = s.call(t, s.client, http.MethodPost, "/api/auth/logout", nil)
	assert.Equal(t, http.StatusNoContent, status)
	status, _ = s.call(t, s.client, http.MethodGet, "/api/auth/me", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestSaleLifecycle(t *testing.T) {
	s := newServer(t, nil)
	s.signUp(t, "vintage")
	itemID := s.createItem(t, 3)

	status, body := s.call(t, s.client, http.MethodPost, "/api/sales", map[string]any{
		"item_id": itemID, "platform": "ebay", "sale_price": "40", "quantity_sold": 1,
		"sale_date": "2026-06-01", "platform_fees": "4", "shipping_cost": "3",
	})
	require.Equal(t, http.StatusCreated, status, body)
	sale := obj(body["sale"])
	saleID := int64(sale["id"].(float64))
	assert.True(t, dec(t, sale["gross_profit"]).Equal(decimal.NewFromInt(30)))
	assert.True(t, dec(t, sale["net_profit"]).Equal(decimal.NewFromInt(23)))
	assert.Equal(t, float64(2), obj(body["item"])["quantity_on_hand"])

	t.Run("insufficient stock on create", func(t *testing.T) {
		status, body := s.call(t, s.client, http.MethodPost, "/api/sales", map[string]any{
			"item_id": itemID, "platform": "ebay", "sale_price": "40", "quantity_sold": 5, "sale_date": "2026-06-01",
		})
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "INSUFFICIENT_STOCK", body["code"])
		assert.Equal(t, "Only 2 units available", body["error"])
	})

	t.Run("validation names the field", func(t *testing.T) {
		status, body := s.call(t, s.client, http.MethodPost, "/api/sales", map[string]any{
			"item_id": itemID, "platform": "craigslist", "sale_price": "40", "quantity_sold": 1,
		})
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "VALIDATION_ERROR", body["code"])
		assert.Equal(t, "platform", body["field"])
	})

	t.Run("update quantity", func(t *testing.T) {
		status, body := s.call(t, s.client, http.MethodPatch, "/api/sales", map[string]any{"id": saleID, "quantity_sold": 3})
		require.Equal(t, http.StatusOK, status, body)
		assert.Equal(t, float64(0), obj(body["item"])["quantity_on_hand"])

		status, body = s.call(t, s.client, http.MethodPatch, "/api/sales", map[string]any{"id": saleID, "quantity_sold": 4})
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "Only 3 units available (0 in stock + 3 from this sale)", body["error"])

		status, body = s.call(t, s.client, http.MethodPatch, "/api/sales", map[string]any{"quantity_sold": 1})
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "id", body["field"])
	})

	t.Run("list and report", func(t *testing.T) {
		status, body := s.call(t, s.client, http.MethodGet, fmt.Sprintf("/api/sales?item_id=%d&from=2026-06-01&to=2026-06-30", itemID), nil)
		require.Equal(t, http.StatusOK, status)
		assert.Len(t, body["sales"], 1)

		status, body = s.call(t, s.client, http.MethodGet, "/api/reports/profit?from=2026-06-01", nil)
		require.Equal(t, http.StatusOK, status, body)
		assert.NotEmpty(t, body)

		status, _ = s.call(t, s.client, http.MethodGet, "/api/reports/profit?from=June", nil)
		assert.Equal(t, http.StatusBadRequest, status)

		status, body = s.call(t, s.client, http.MethodGet, "/api/items/drift", nil)
		require.Equal(t, http.StatusOK, status)
		assert.Empty(t, body["items"])
	})

	t.Run("delete restores stock", func(t *testing.T) {
		status, body := s.call(t, s.client, http.MethodDelete, fmt.Sprintf("/api/sales?id=%d", saleID), nil)
		require.Equal(t, http.StatusOK, status, body)
		assert.Equal(t, true, body["inventory_restored"])
		assert.Equal(t, false, body["item_removed"])

		status, body = s.call(t, s.client, http.MethodGet, fmt.Sprintf("/api/items/%d", itemID), nil)
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, float64(3), body["quantity_on_hand"])
		assert.Equal(t, float64(0), body["quantity_sold"])

		status, _ = s.call(t, s.client, http.MethodGet, fmt.Sprintf("/api/sales/%d", saleID), nil)
		assert.Equal(t, http.StatusNotFound, status)

		status, _ = s.call(t, s.client, http.MethodDelete, "/api/sales", nil)
		assert.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("item delete without sales", func(t *testing.T) {
		status, body := s.call(t, s.client, http.MethodDelete, fmt.Sprintf("/api/items/%d", itemID), nil)
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, "deleted", body["state"])
	})
}

func TestSellersAreIsolated(t *testing.T) {
	s := newServer(t, nil)
	s.signUp(t, "alpha")
	itemID := s.createItem(t, 1)

	other := &testServer{url: s.url, client: newClient(t)}
	other.signUp(t, "beta")
	status, _ := other.call(t, other.client, http.MethodGet, fmt.Sprintf("/api/items/%d", itemID), nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = other.call(t, other.client, http.MethodGet, "/api/items/abc", nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestStorefrontGuestCheckout(t *testing.T) {
	s := newServer(t, nil)
	s.signUp(t, "vintage")
	itemID := s.createItem(t, 2)
	shopper := newClient(t)

	status, _ := s.call(t, shopper, http.MethodGet, "/api/storefront/vintage/items", nil)
	require.Equal(t, http.StatusNotFound, status, "closed store")

	status, body := s.call(t, s.client, http.MethodPut, "/api/seller/storefront", map[string]any{"enabled": true})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["storefront_enabled"])

	status, body = s.call(t, shopper, http.MethodGet, "/api/storefront/vintage/items", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Shop vintage", body["store"])
	items := body["items"].([]any)
	require.Len(t, items, 1)
	assert.Equal(t, "25.00", obj(items[0])["price"])
	assert.NotContains(t, obj(items[0]), "purchase_price")

	status, _ = s.call(t, shopper, http.MethodGet, "/api/storefront/vintage/orders", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, body = s.call(t, shopper, http.MethodPost, "/api/storefront/vintage/orders", map[string]any{
		"item_id": itemID, "quantity": 1, "email": "Buyer@Example.com", "name": "Buyer",
	})
	require.Equal(t, http.StatusCreated, status, body)
	order := obj(body["order"])
	orderID := int64(order["id"].(float64))
	assert.Equal(t, "pending", order["status"])

	status, body = s.call(t, shopper, http.MethodGet, "/api/storefront/vintage/session", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "guest", body["type"])

	status, body = s.call(t, shopper, http.MethodGet, "/api/storefront/vintage/orders", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["orders"], 1)

	status, body = s.call(t, s.client, http.MethodPost, fmt.Sprintf("/api/orders/%d/fulfil", orderID), nil)
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, "paid", obj(body["order"])["status"])
	assert.Equal(t, "storefront", obj(obj(body["sale"])["sale"])["platform"])

	status, body = s.call(t, s.client, http.MethodPost, fmt.Sprintf("/api/orders/%d/ship", orderID), map[string]any{"tracking_number": "1Z999"})
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, "shipped", body["status"])

	returning := newClient(t)
	status, body = s.call(t, returning, http.MethodPost, "/api/storefront/vintage/track", map[string]any{
		"order_id": orderID, "email": "buyer@example.com",
	})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "1Z999", body["tracking_number"])

	// Tracking an order starts a guest session for it.
	status, body = s.call(t, returning, http.MethodGet, "/api/storefront/vintage/session", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "guest", body["type"])

	status, body = s.call(t, returning, http.MethodGet, "/api/storefront/vintage/orders", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["orders"], 1)

	status, _ = s.call(t, newClient(t), http.MethodPost, "/api/storefront/vintage/track", map[string]any{
		"order_id": orderID, "email": "someone@else.com",
	})
	assert.Equal(t, http.StatusNotFound, status)

	status, body = s.call(t, s.client, http.MethodGet, "/api/orders", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["orders"], 1)
}

func TestStorefrontCustomerAccount(t *testing.T) {
	s := newServer(t, nil)
	s.signUp(t, "vintage")
	itemID := s.createItem(t, 2)
	status, _ := s.call(t, s.client, http.MethodPut, "/api/seller/storefront", map[string]any{"enabled": true})
	require.Equal(t, http.StatusOK, status)

	shopper := newClient(t)
	status, body := s.call(t, shopper, http.MethodPost, "/api/storefront/vintage/customers", map[string]any{
		"email": "buyer@example.com", "password": "hunter22", "name": "Buyer",
	})
	require.Equal(t, http.StatusCreated, status, body)
	customerID := body["id"].(float64)

	status, body = s.call(t, shopper, http.MethodGet, "/api/storefront/vintage/session", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "customer", body["type"])
	assert.Equal(t, customerID, body["customer_id"])

	status, body = s.call(t, shopper, http.MethodPost, "/api/storefront/vintage/orders", map[string]any{
		"item_id": itemID, "quantity": 1, "email": "buyer@example.com",
	})
	require.Equal(t, http.StatusCreated, status, body)
	assert.Equal(t, customerID, obj(body["order"])["customer_id"])

	status, _ = s.call(t, shopper, http.MethodPost, "/api/storefront/vintage/logout", nil)
	require.Equal(t, http.StatusNoContent, status)
	status, body = s.call(t, shopper, http.MethodGet, "/api/storefront/vintage/session", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "none", body["type"])

	status, _ = s.call(t, shopper, http.MethodPost, "/api/storefront/vintage/login", map[string]any{
		"email": "buyer@example.com", "password": "wrong-one",
	})
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = s.call(t, shopper, http.MethodPost, "/api/storefront/vintage/login", map[string]any{
		"email": "buyer@example.com", "password": "hunter22",
	})
	require.Equal(t, http.StatusOK, status)
	status, body = s.call(t, shopper, http.MethodGet, "/api/storefront/vintage/orders", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["orders"], 1)
}

func TestIntakeConfirmFlow(t *testing.T) {
	intake := &fakeIntake{}
	s := newServer(t, intake)
	s.signUp(t, "vintage")
	itemID := s.createItem(t, 2)

	intake.proposal = ai.SaleProposal{
		ItemID: itemID, Platform: "Mercari", SalePrice: "$35", QuantitySold: 1,
		SaleDate: "2026-06-02", PlatformFees: "3.50", Confidence: 0.9,
	}
	status, body := s.call(t, s.client, http.MethodPost, "/api/intake/sale", map[string]any{"text": "sold the jacket on mercari for 35"})
	require.Equal(t, http.StatusOK, status, body)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	assert.Equal(t, "mercari", obj(body["input"])["platform"])

	status, _ = s.call(t, s.client, http.MethodPost, "/api/intake/confirm", map[string]any{"token": token, "action": "maybe"})
	assert.Equal(t, http.StatusBadRequest, status)

	status, body = s.call(t, s.client, http.MethodPost, "/api/intake/confirm", map[string]any{"token": token, "action": "confirm"})
	require.Equal(t, http.StatusCreated, status, body)
	assert.Equal(t, float64(1), obj(body["item"])["quantity_on_hand"])

	status, _ = s.call(t, s.client, http.MethodPost, "/api/intake/confirm", map[string]any{"token": token, "action": "confirm"})
	assert.Equal(t, http.StatusNotFound, status, "tokens are single use")

	t.Run("clarification returns no token", func(t *testing.T) {
		intake.proposal = ai.SaleProposal{Clarification: "Which jacket?"}
		status, body := s.call(t, s.client, http.MethodPost, "/api/intake/sale", map[string]any{"text": "sold a jacket"})
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, true, body["is_clarification"])
		assert.Equal(t, "Which jacket?", body["clarification"])
		assert.NotContains(t, body, "token")
	})

	t.Run("tokens are bound to the seller", func(t *testing.T) {
		intake.proposal.Clarification = ""
		intake.proposal.ItemID = itemID
		intake.proposal.Platform = "ebay"
		intake.proposal.SalePrice = "30"
		intake.proposal.QuantitySold = 1
		intake.proposal.SaleDate = "2026-06-03"
		status, body := s.call(t, s.client, http.MethodPost, "/api/intake/sale", map[string]any{"text": "another one"})
		require.Equal(t, http.StatusOK, status)
		token := body["token"].(string)

		other := &testServer{url: s.url, client: newClient(t)}
		other.signUp(t, "beta")
		status, _ = other.call(t, other.client, http.MethodPost, "/api/intake/confirm", map[string]any{"token": token, "action": "confirm"})
		assert.Equal(t, http.StatusNotFound, status)

		status, body = s.call(t, s.client, http.MethodPost, "/api/intake/confirm", map[string]any{"token": token, "action": "cancel"})
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, true, body["ok"])
	})
}

func TestIntakeUnavailable(t *testing.T) {
	s := newServer(t, nil)
	s.signUp(t, "vintage")

	status, body := s.call(t, s.client, http.MethodPost, "/api/intake/sale", map[string]any{"text": "sold a lamp"})
	assert.Equal(t, http.StatusNotImplemented, status)
	assert.Equal(t, "NOT_IMPLEMENTED", body["code"])
}

func TestRequestBodyLimit(t *testing.T) {
	s := newServer(t, nil)
	big := strings.Repeat("a", 1<<20)
	status, body := s.call(t, s.client, http.MethodPost, "/api/auth/login", map[string]any{"email": big})
	assert.Equal(t, http.StatusRequestEntityTooLarge, status)
	assert.Equal(t, "REQUEST_TOO_LARGE", body["code"])
}
