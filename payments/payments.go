package payments

import (
	"context"

	"github.com/mikkimase/storefront/products"
)

const (
	// StripeProvider is the string identifier for the Stripe payment provider.
	StripeProvider = "stripe"
)

// Event types the fulfillment handler dispatches on.
const (
	EventCheckoutCompleted = "checkout.session.completed"
	EventCheckoutExpired   = "checkout.session.expired"
	EventPaymentFailed     = "payment_intent.payment_failed"
)

// Provider represents a payment processor that hosts the checkout flow
// and notifies us of payment lifecycle events over webhooks.
type Provider interface {
	Name() string
	CreateCheckout(ctx context.Context, params *CheckoutParams) (*Checkout, error)
	// ParseEvent authenticates a raw webhook delivery against the
	// provider's signing secret and decodes it. An error means the
	// delivery must be rejected before any side effect happens.
	ParseEvent(payload []byte, sigHeader string) (*Event, error)
}

// CheckoutParams describes the checkout session to create.
type CheckoutParams struct {
	Product  *products.Product
	Quantity int64
	Email    string
}

// Checkout is the provider-hosted payment page the client is sent to.
type Checkout struct {
	SessionID string `json:"session_id"`
	URL       string `json:"checkout_url"`
}

// Session carries the checkout fields fulfillment cares about. The
// product ID and fulfillment type come from metadata we attached at
// checkout-creation time; they are never re-derived.
type Session struct {
	ID              string
	CustomerEmail   string
	ProductID       string
	FulfillmentType string
}

// Event is an authenticated payment lifecycle notification.
type Event struct {
	ID      string
	Type    string
	Session Session
}
