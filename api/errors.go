package api

import (
	"fmt"
	"net/http"

	gcontext "github.com/mikkimase/storefront/context"
)

// HTTPError is what ends up on the wire for a failed request. Internal
// details are logged, never returned to the caller.
type HTTPError struct {
	Code            int    `json:"code"`
	Message         string `json:"msg"`
	InternalError   error  `json:"-"`
	InternalMessage string `json:"-"`
	ErrorID         string `json:"error_id,omitempty"`
}

func (e *HTTPError) Error() string {
	if e.InternalMessage != "" {
		return e.InternalMessage
	}
	return fmt.Sprintf("%d: %s", e.Code, e.Message)
}

// Cause returns the root cause error
func (e *HTTPError) Cause() error {
	if e.InternalError != nil {
		return e.InternalError
	}
	return e
}

// WithInternalError adds internal error information to the error
func (e *HTTPError) WithInternalError(err error) *HTTPError {
	e.InternalError = err
	return e
}

// WithInternalMessage adds internal message information to the error
func (e *HTTPError) WithInternalMessage(fmtString string, args ...interface{}) *HTTPError {
	e.InternalMessage = fmt.Sprintf(fmtString, args...)
	return e
}

func httpError(code int, fmtString string, args ...interface{}) *HTTPError {
	return &HTTPError{
		Code:    code,
		Message: fmt.Sprintf(fmtString, args...),
	}
}

func badRequestError(fmtString string, args ...interface{}) *HTTPError {
	return httpError(http.StatusBadRequest, fmtString, args...)
}

func notFoundError(fmtString string, args ...interface{}) *HTTPError {
	return httpError(http.StatusNotFound, fmtString, args...)
}

func unauthorizedError(fmtString string, args ...interface{}) *HTTPError {
	return httpError(http.StatusUnauthorized, fmtString, args...)
}

func goneError(fmtString string, args ...interface{}) *HTTPError {
	return httpError(http.StatusGone, fmtString, args...)
}

func internalServerError(fmtString string, args ...interface{}) *HTTPError {
	return httpError(http.StatusInternalServerError, fmtString, args...)
}

func handleError(err error, w http.ResponseWriter, r *http.Request) {
	log := getLogEntry(r)
	errorID := gcontext.GetRequestID(r.Context())

	switch e := err.(type) {
	case *HTTPError:
		if e.Code >= http.StatusInternalServerError {
			e.ErrorID = errorID
			log.WithError(e.Cause()).Error(e.Error())
		} else {
			log.WithError(e.Cause()).Info(e.Error())
		}
		if jsonErr := sendJSON(w, e.Code, e); jsonErr != nil {
			handleError(jsonErr, w, r)
		}
	default:
		log.WithError(e).Errorf("Unhandled server error: %s", e.Error())
		// hide internal details from the caller
		sendJSON(w, http.StatusInternalServerError, &HTTPError{
			Code:    http.StatusInternalServerError,
			Message: "Internal server error",
			ErrorID: errorID,
		})
	}
}
