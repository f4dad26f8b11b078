package api

import (
	"encoding/json"
	"net/http"

	"github.com/mikkimase/storefront/payments"
	"github.com/mikkimase/storefront/products"
)

// CheckoutParams holds the parameters for creating a checkout session.
type CheckoutParams struct {
	ProductID string `json:"product_id"`
	Quantity  int64  `json:"quantity"`
	Email     string `json:"email"`
}

// CheckoutCreate creates a provider-hosted checkout session for a
// product and returns the URL the client should redirect to.
func (a *API) CheckoutCreate(w http.ResponseWriter, r *http.Request) error {
	params := &CheckoutParams{}
	if err := json.NewDecoder(r.Body).Decode(params); err != nil {
		return badRequestError("Could not read checkout params: %v", err)
	}
	if params.ProductID == "" {
		return badRequestError("Creating a checkout requires a product_id")
	}
	logEntrySetField(r, "product_id", params.ProductID)

	product, err := a.registry.Lookup(params.ProductID)
	if err != nil {
		if _, ok := err.(*products.NotFoundError); ok {
			return notFoundError("Product not found")
		}
		return internalServerError("Error looking up product").WithInternalError(err)
	}

	checkout, err := a.provider.CreateCheckout(r.Context(), &payments.CheckoutParams{
		Product:  product,
		Quantity: params.Quantity,
		Email:    params.Email,
	})
	if err != nil {
		return internalServerError("Failed to create checkout session").WithInternalError(err)
	}

	logEntrySetField(r, "session_id", checkout.SessionID)
	return sendJSON(w, http.StatusOK, checkout)
}
