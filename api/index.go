package api

import (
	"net/http"
)

// Index endpoint
func (a *API) Index(w http.ResponseWriter, r *http.Request) error {
	return sendJSON(w, http.StatusOK, map[string]string{
		"version":     a.version,
		"name":        "Storefront",
		"description": "Storefront is the checkout and fulfillment API for the ebook shop",
	})
}

// HealthCheck endpoint
func (a *API) HealthCheck(w http.ResponseWriter, r *http.Request) error {
	return sendJSON(w, http.StatusOK, map[string]string{
		"version": a.version,
		"name":    "Storefront",
	})
}
