package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mikkimase/storefront/payments"
)

func TestCheckoutCreate(t *testing.T) {
	env := newTestAPI(t)
	env.provider.checkout = &payments.Checkout{
		SessionID: "cs_test_abc123",
		URL:       "https://checkout.stripe.com/pay/cs_test_abc123",
	}

	body := `{"product_id": "bedroom-boss", "quantity": 1, "email": "reader@example.com"}`
	req := httptest.NewRequest(http.MethodPost, "/checkout", strings.NewReader(body))
	w := env.do(req)

	require.Equal(t, http.StatusOK, w.Code)

	checkout := &payments.Checkout{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(checkout))
	assert.Equal(t, "cs_test_abc123", checkout.SessionID)
	assert.Equal(t, "https://checkout.stripe.com/pay/cs_test_abc123", checkout.URL)

	require.NotNil(t, env.provider.lastCheckout)
	assert.Equal(t, "bedroom-boss", env.provider.lastCheckout.Product.ID)
	assert.Equal(t, int64(1), env.provider.lastCheckout.Quantity)
	assert.Equal(t, "reader@example.com", env.provider.lastCheckout.Email)
}

func TestCheckoutCreateMissingProduct(t *testing.T) {
	env := newTestAPI(t)

	req := httptest.NewRequest(http.MethodPost, "/checkout", strings.NewReader(`{"quantity": 1}`))
	w := env.do(req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Nil(t, env.provider.lastCheckout)
}

func TestCheckoutCreateUnknownProduct(t *testing.T) {
	env := newTestAPI(t)

	req := httptest.NewRequest(http.MethodPost, "/checkout", strings.NewReader(`{"product_id": "nope"}`))
	w := env.do(req)

	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Product not found", extractError(t, w).Message)
}

func TestCheckoutCreateBadJSON(t *testing.T) {
	env := newTestAPI(t)

	req := httptest.NewRequest(http.MethodPost, "/checkout", strings.NewReader(`{not json`))
	w := env.do(req)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCheckoutCreateProviderFailure(t *testing.T) {
	env := newTestAPI(t)
	env.provider.checkoutErr = errors.New("stripe is down")

	body := `{"product_id": "bedroom-boss"}`
	req := httptest.NewRequest(http.MethodPost, "/checkout", strings.NewReader(body))
	w := env.do(req)

	require.Equal(t, http.StatusInternalServerError, w.Code)
	// provider details stay internal
	assert.Equal(t, "Failed to create checkout session", extractError(t, w).Message)
}
