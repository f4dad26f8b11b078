package products

import (
	"fmt"
)

// Fulfillment types attached to checkout metadata and dispatched on by
// the fulfillment handler.
const (
	FulfillmentDigital  = "digital"
	FulfillmentPhysical = "physical"
	FulfillmentHybrid   = "hybrid"
)

// Product is a catalog entry. The registry is the source of truth for
// what can be sold and where its artifact lives; pricing itself is
// delegated to the payment provider via StripePriceID.
type Product struct {
	ID            string `json:"id"`
	Slug          string `json:"slug"`
	Type          string `json:"type"`
	Fulfillment   string `json:"fulfillment"`
	Name          string `json:"name"`
	Tagline       string `json:"tagline,omitempty"`
	Description   string `json:"description,omitempty"`
	Price         uint64 `json:"price"`
	Currency      string `json:"currency"`
	StripePriceID string `json:"stripe_price_id"`
	DownloadURL   string `json:"download_url,omitempty"`
	Featured      bool   `json:"featured,omitempty"`
}

// Digital reports whether fulfilling this product includes a download.
func (p *Product) Digital() bool {
	return p.Fulfillment == FulfillmentDigital || p.Fulfillment == FulfillmentHybrid
}

// Shippable reports whether fulfilling this product includes shipping.
func (p *Product) Shippable() bool {
	return p.Fulfillment == FulfillmentPhysical || p.Fulfillment == FulfillmentHybrid
}

// Registry resolves product IDs to catalog entries.
type Registry interface {
	Lookup(id string) (*Product, error)
}

// NotFoundError is returned when no catalog entry matches the ID.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("product %q not found", e.ID)
}

type staticRegistry struct {
	products map[string]*Product
}

// NewStaticRegistry builds an in-memory registry. Used by tests and by
// single-product deployments that compile the catalog in.
func NewStaticRegistry(entries ...*Product) Registry {
	products := map[string]*Product{}
	for _, p := range entries {
		products[p.ID] = p
	}
	return &staticRegistry{products: products}
}

func (r *staticRegistry) Lookup(id string) (*Product, error) {
	if p, ok := r.products[id]; ok {
		return p, nil
	}
	return nil, &NotFoundError{ID: id}
}
