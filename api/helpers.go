package api

import (
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"
)

func sendJSON(w http.ResponseWriter, status int, obj interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	b, err := json.Marshal(obj)
	if err != nil {
		return internalServerError("Error encoding json response: %v", obj).WithInternalError(err)
	}
	w.WriteHeader(status)
	if _, err := w.Write(b); err != nil {
		return errors.Wrap(err, "error writing json response")
	}
	return nil
}
