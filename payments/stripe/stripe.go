package stripe

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	stripe "github.com/stripe/stripe-go/v72"
	"github.com/stripe/stripe-go/v72/client"
	"github.com/stripe/stripe-go/v72/webhook"

	"github.com/mikkimase/storefront/payments"
)

// Countries we collect shipping addresses for on physical orders.
var shippingCountries = []string{"US", "CA", "GB", "AU", "NL", "DE", "FR", "ES", "IT", "BE"}

// Config contains the Stripe-specific configuration for payment providers.
type Config struct {
	SecretKey     string `envconfig:"secret_key"`
	WebhookSecret string `envconfig:"webhook_secret"`
}

type stripePaymentProvider struct {
	client        *client.API
	webhookSecret string
	siteURL       string
}

// NewPaymentProvider creates a Stripe payment provider with its own API
// client, constructed once at startup and injected where needed.
func NewPaymentProvider(siteURL string, config Config) (payments.Provider, error) {
	if config.SecretKey == "" {
		return nil, errors.New("Stripe configuration missing secret_key")
	}
	if config.WebhookSecret == "" {
		return nil, errors.New("Stripe configuration missing webhook_secret")
	}

	s := &stripePaymentProvider{
		client:        &client.API{},
		webhookSecret: config.WebhookSecret,
		siteURL:       strings.TrimSuffix(siteURL, "/"),
	}
	s.client.Init(config.SecretKey, stripe.NewBackends(&http.Client{
		Timeout: 20 * time.Second,
	}))
	return s, nil
}

func (s *stripePaymentProvider) Name() string {
	return payments.StripeProvider
}

func (s *stripePaymentProvider) CreateCheckout(ctx context.Context, params *payments.CheckoutParams) (*payments.Checkout, error) {
	product := params.Product
	quantity := params.Quantity
	if quantity < 1 {
		quantity = 1
	}

	sessionParams := &stripe.CheckoutSessionParams{
		Params: stripe.Params{
			Context: ctx,
		},
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(product.StripePriceID),
				Quantity: stripe.Int64(quantity),
			},
		},
		SuccessURL:               stripe.String(s.siteURL + "/checkout/success?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:                stripe.String(s.siteURL + "/" + product.Slug),
		AllowPromotionCodes:      stripe.Bool(true),
		BillingAddressCollection: stripe.String(string(stripe.CheckoutSessionBillingAddressCollectionAuto)),
	}
	if params.Email != "" {
		sessionParams.CustomerEmail = stripe.String(params.Email)
	}
	if product.Shippable() {
		sessionParams.ShippingAddressCollection = &stripe.CheckoutSessionShippingAddressCollectionParams{
			AllowedCountries: stripe.StringSlice(shippingCountries),
		}
	}
	sessionParams.AddMetadata("productId", product.ID)
	sessionParams.AddMetadata("fulfillmentType", product.Fulfillment)

	session, err := s.client.CheckoutSessions.New(sessionParams)
	if err != nil {
		return nil, errors.Wrap(err, "error creating stripe checkout session")
	}

	return &payments.Checkout{
		SessionID: session.ID,
		URL:       session.URL,
	}, nil
}

func (s *stripePaymentProvider) ParseEvent(payload []byte, sigHeader string) (*payments.Event, error) {
	event, err := webhook.ConstructEvent(payload, sigHeader, s.webhookSecret)
	if err != nil {
		return nil, errors.Wrap(err, "webhook signature verification failed")
	}

	parsed := &payments.Event{
		ID:   event.ID,
		Type: event.Type,
	}

	switch event.Type {
	case payments.EventCheckoutCompleted, payments.EventCheckoutExpired:
		session := stripe.CheckoutSession{}
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			return nil, errors.Wrap(err, "error parsing checkout session from event payload")
		}
		parsed.Session = payments.Session{
			ID:              session.ID,
			CustomerEmail:   customerEmail(&session),
			ProductID:       session.Metadata["productId"],
			FulfillmentType: session.Metadata["fulfillmentType"],
		}
	}

	return parsed, nil
}

func customerEmail(session *stripe.CheckoutSession) string {
	if session.CustomerDetails != nil && session.CustomerDetails.Email != "" {
		return session.CustomerDetails.Email
	}
	return session.CustomerEmail
}
