package api

import (
	"context"
	"net/http"
	"runtime/debug"

	"github.com/pborman/uuid"

	gcontext "github.com/mikkimase/storefront/context"
)

func withRequestID(w http.ResponseWriter, r *http.Request) (context.Context, error) {
	id := uuid.NewRandom().String()
	ctx := r.Context()
	ctx = gcontext.WithRequestID(ctx, id)
	return ctx, nil
}

func recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rvr := recover(); rvr != nil {
				log := getLogEntry(r)
				log.WithField("stack", string(debug.Stack())).Errorf("unhandled request panic: %+v", rvr)
				handleError(internalServerError("Internal server error"), w, r)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
