package api

import (
	"net/http"

	"github.com/go-chi/chi"

	"github.com/mikkimase/storefront/products"
)

// ProductView returns the catalog entry for a product.
func (a *API) ProductView(w http.ResponseWriter, r *http.Request) error {
	productID := chi.URLParam(r, "product_id")
	logEntrySetField(r, "product_id", productID)

	product, err := a.registry.Lookup(productID)
	if err != nil {
		if _, ok := err.(*products.NotFoundError); ok {
			return notFoundError("Product not found")
		}
		return internalServerError("Error looking up product").WithInternalError(err)
	}

	return sendJSON(w, http.StatusOK, product)
}
