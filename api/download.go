package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/sirupsen/logrus"

	"github.com/mikkimase/storefront/downloads"
	"github.com/mikkimase/storefront/products"
)

// invalid and malformed tokens get the same response so that the
// endpoint leaks nothing about why verification failed
const downloadNotFoundMessage = "Download link is invalid"

// DownloadURL verifies a download token and redirects to a signed
// asset URL for the purchased file.
func (a *API) DownloadURL(w http.ResponseWriter, r *http.Request) error {
	token := chi.URLParam(r, "token")

	result := a.signer.Verify(token)
	if !result.Valid {
		switch result.Err {
		case downloads.ErrTokenExpired:
			return goneError("This download link has expired. Contact support for a fresh one.")
		case downloads.ErrInvalidSignature:
			getLogEntry(r).WithFields(logrus.Fields{
				"remote_addr": r.RemoteAddr,
			}).Warn("Download token signature mismatch")
			return notFoundError(downloadNotFoundMessage)
		default:
			return notFoundError(downloadNotFoundMessage)
		}
	}

	logEntrySetFields(r, logrus.Fields{
		"product_id":     result.ProductID,
		"transaction_id": result.TransactionID,
	})

	product, err := a.registry.Lookup(result.ProductID)
	if err != nil {
		if _, ok := err.(*products.NotFoundError); ok {
			return notFoundError(downloadNotFoundMessage)
		}
		return internalServerError("Error looking up product").WithInternalError(err)
	}
	if !product.Digital() || product.DownloadURL == "" {
		return notFoundError(downloadNotFoundMessage)
	}

	signedURL, err := a.store.SignURL(product.DownloadURL)
	if err != nil {
		return internalServerError("Error preparing download").WithInternalError(err)
	}

	http.Redirect(w, r, signedURL, http.StatusFound)
	return nil
}

// ResendParams holds the parameters for re-issuing a download link.
type ResendParams struct {
	ProductID     string `json:"product_id"`
	Email         string `json:"email"`
	TransactionID string `json:"transaction_id"`
}

// DownloadResend issues a fresh download link for a past purchase and
// mails it to the customer. Admin only.
func (a *API) DownloadResend(w http.ResponseWriter, r *http.Request) error {
	params := &ResendParams{}
	if err := json.NewDecoder(r.Body).Decode(params); err != nil {
		return badRequestError("Could not read resend params: %v", err)
	}
	if params.ProductID == "" || params.Email == "" {
		return badRequestError("Resending a download requires a product_id and email")
	}

	logEntrySetFields(r, logrus.Fields{
		"product_id":     params.ProductID,
		"transaction_id": params.TransactionID,
	})

	if err := a.fulfillment.Resend(r.Context(), params.ProductID, params.Email, params.TransactionID); err != nil {
		if _, ok := err.(*products.NotFoundError); ok {
			return notFoundError("Product not found")
		}
		return badRequestError("Could not resend download: %v", err)
	}

	return sendJSON(w, http.StatusOK, map[string]bool{"sent": true})
}
