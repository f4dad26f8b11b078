package fulfillment

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/mikkimase/storefront/downloads"
	"github.com/mikkimase/storefront/mailer"
	"github.com/mikkimase/storefront/payments"
	"github.com/mikkimase/storefront/products"
)

var (
	// ErrMissingProductMetadata means the checkout session carried no
	// product id. Terminal: logged, never retried here (the provider
	// redelivers raw events on its own schedule).
	ErrMissingProductMetadata = errors.New("checkout session has no product id metadata")
	// ErrMissingCustomerEmail means the purchaser email was absent from
	// the session. Terminal, same handling.
	ErrMissingCustomerEmail = errors.New("checkout session has no customer email")
)

// Handler turns authenticated payment events into download delivery.
// All collaborators are injected at construction; the handler keeps no
// mutable state, so concurrent deliveries are safe.
type Handler struct {
	registry products.Registry
	signer   *downloads.Signer
	mailer   mailer.Mailer
	siteURL  string
	log      logrus.FieldLogger
}

// NewHandler wires a fulfillment handler.
func NewHandler(registry products.Registry, signer *downloads.Signer, m mailer.Mailer, siteURL string, log logrus.FieldLogger) *Handler {
	if log == nil {
		log = logrus.WithField("component", "fulfillment")
	}
	return &Handler{
		registry: registry,
		signer:   signer,
		mailer:   m,
		siteURL:  siteURL,
		log:      log,
	}
}

// HandleEvent processes one authenticated payment event. Errors are
// returned for observability but callers on the webhook path must still
// acknowledge the delivery: the event itself was valid, and failing the
// response would only trigger provider redelivery storms.
func (h *Handler) HandleEvent(ctx context.Context, event *payments.Event) error {
	log := h.log.WithFields(logrus.Fields{
		"event_type": event.Type,
		"session_id": event.Session.ID,
	})

	switch event.Type {
	case payments.EventCheckoutCompleted:
		return h.checkoutCompleted(ctx, log, &event.Session)
	case payments.EventCheckoutExpired:
		log.Info("Checkout session expired")
	case payments.EventPaymentFailed:
		log.Info("Payment failed")
	default:
		log.Debugf("Unhandled event type: %s", event.Type)
	}
	return nil
}

func (h *Handler) checkoutCompleted(ctx context.Context, log logrus.FieldLogger, session *payments.Session) error {
	if session.ProductID == "" {
		log.Error("No product id in checkout session metadata")
		return ErrMissingProductMetadata
	}

	product, err := h.registry.Lookup(session.ProductID)
	if err != nil {
		log.WithError(err).Errorf("Product not found: %s", session.ProductID)
		return err
	}

	if session.CustomerEmail == "" {
		log.Error("No customer email in checkout session")
		return ErrMissingCustomerEmail
	}

	log.Infof("Processing order for %s: %s", session.CustomerEmail, product.Name)

	fulfillmentType := session.FulfillmentType
	if fulfillmentType == "" {
		fulfillmentType = product.Fulfillment
	}

	switch fulfillmentType {
	case products.FulfillmentDigital:
		return h.Deliver(ctx, product, session.CustomerEmail, session.ID)
	case products.FulfillmentHybrid:
		// shipping is handled by the external fulfillment collaborator;
		// we only deliver the digital half
		return h.Deliver(ctx, product, session.CustomerEmail, session.ID)
	case products.FulfillmentPhysical:
		log.Info("Physical product order received")
		return nil
	default:
		log.Errorf("Unknown fulfillment type %q", fulfillmentType)
		return errors.Errorf("unknown fulfillment type %q", fulfillmentType)
	}
}

// Deliver issues exactly one download token and emails the link. A mail
// failure is logged but never unwinds issuance: the credential stays
// valid and support can re-send it with the same product and email.
func (h *Handler) Deliver(ctx context.Context, product *products.Product, email, transactionID string) error {
	token, err := h.signer.Issue(product.ID, email, transactionID)
	if err != nil {
		return errors.Wrap(err, "error issuing download token")
	}

	data := &mailer.PurchaseData{
		Email:       email,
		ProductName: product.Name,
		OrderNumber: OrderNumber(transactionID),
		DownloadURL: downloads.URL(h.siteURL, token),
	}
	if err := h.mailer.PurchaseConfirmationMail(data); err != nil {
		h.log.WithError(err).WithFields(logrus.Fields{
			"email":      email,
			"product_id": product.ID,
		}).Error("Failed to send purchase confirmation mail")
	}
	return nil
}

// Resend re-issues a fresh credential and re-sends the confirmation
// mail. Used by the admin support path for purchasers whose original
// mail never arrived or whose link expired.
func (h *Handler) Resend(ctx context.Context, productID, email, transactionID string) error {
	if email == "" {
		return ErrMissingCustomerEmail
	}

	product, err := h.registry.Lookup(productID)
	if err != nil {
		return err
	}
	if !product.Digital() {
		return errors.Errorf("product %q has no digital artifact to deliver", productID)
	}

	return h.Deliver(ctx, product, email, transactionID)
}

// OrderNumber derives the customer-facing order reference from a
// transaction id: its last 8 characters, uppercased.
func OrderNumber(transactionID string) string {
	if len(transactionID) > 8 {
		transactionID = transactionID[len(transactionID)-8:]
	}
	return strings.ToUpper(transactionID)
}
