package api

import (
	"io"
	"net/http"
)

// webhook payloads are small; cap reads defensively
const maxWebhookBody = 1 << 20

// StripeWebhook receives payment lifecycle events. Deliveries that fail
// signature verification are rejected before any side effect. Once a
// delivery is authenticated it is always acknowledged: fulfillment
// errors here are terminal (bad metadata, unknown product) and a
// provider redelivery would only repeat them.
func (a *API) StripeWebhook(w http.ResponseWriter, r *http.Request) error {
	log := getLogEntry(r)

	sigHeader := r.Header.Get("Stripe-Signature")
	if sigHeader == "" {
		return badRequestError("Missing Stripe-Signature header")
	}

	payload, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		return badRequestError("Could not read webhook body: %v", err)
	}

	event, err := a.provider.ParseEvent(payload, sigHeader)
	if err != nil {
		return badRequestError("Webhook signature verification failed").WithInternalError(err)
	}

	logEntrySetField(r, "event_type", event.Type)
	if err := a.fulfillment.HandleEvent(r.Context(), event); err != nil {
		log.WithError(err).Error("Fulfillment failed for authenticated event")
	}

	return sendJSON(w, http.StatusOK, map[string]bool{"received": true})
}
