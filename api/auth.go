package api

import (
	"context"
	"fmt"
	"net/http"

	jwt "github.com/dgrijalva/jwt-go"
	"github.com/sirupsen/logrus"

	"github.com/mikkimase/storefront/claims"
	gcontext "github.com/mikkimase/storefront/context"
)

func (a *API) withToken(w http.ResponseWriter, r *http.Request) (context.Context, error) {
	ctx := r.Context()
	log := getLogEntry(r)
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ctx, nil
	}

	if a.config.JWT.Secret == "" {
		return nil, unauthorizedError("Bearer authentication is not configured")
	}

	matches := bearerRegexp.FindStringSubmatch(authHeader)
	if len(matches) != 2 {
		return nil, unauthorizedError("Bad authentication header").WithInternalMessage("Invalid auth header format: %s", authHeader)
	}

	token, err := jwt.ParseWithClaims(matches[1], &claims.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Name {
			return nil, fmt.Errorf("Unexpected signing method: %v", token.Method.Alg())
		}
		return []byte(a.config.JWT.Secret), nil
	})
	if err != nil {
		return nil, unauthorizedError("Invalid token").WithInternalError(err)
	}

	tokenClaims := token.Claims.(*claims.JWTClaims)
	isAdmin := tokenClaims.HasRole(a.config.JWT.AdminGroupName)

	log.WithFields(logrus.Fields{
		"claims_email": tokenClaims.Email,
		"is_admin":     isAdmin,
	}).Debug("successfully parsed claims")

	ctx = gcontext.WithAdminFlag(ctx, isAdmin)
	ctx = gcontext.WithToken(ctx, token)
	return ctx, nil
}

func adminRequired(w http.ResponseWriter, r *http.Request) (context.Context, error) {
	ctx := r.Context()
	tokenClaims := gcontext.GetClaims(ctx)
	if tokenClaims == nil || !gcontext.IsAdmin(ctx) {
		return nil, unauthorizedError("Admin permissions required")
	}

	logEntrySetField(r, "admin_email", tokenClaims.Email)
	return ctx, nil
}
