package context

import (
	"context"

	jwt "github.com/dgrijalva/jwt-go"

	"github.com/mikkimase/storefront/claims"
)

// Only request-scoped values live in the context. Collaborators
// (mailer, payment provider, asset store) are injected explicitly at
// construction time instead.

type contextKey string

func (c contextKey) String() string {
	return "api context key " + string(c)
}

const (
	tokenKey     = contextKey("jwt")
	requestIDKey = contextKey("request_id")
	adminFlagKey = contextKey("is_admin")
)

// WithRequestID adds the provided request ID to the context.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// GetRequestID reads the request ID from the context.
func GetRequestID(ctx context.Context) string {
	obj := ctx.Value(requestIDKey)
	if obj == nil {
		return ""
	}
	return obj.(string)
}

// WithToken adds the JWT token to the context.
func WithToken(ctx context.Context, token *jwt.Token) context.Context {
	return context.WithValue(ctx, tokenKey, token)
}

// GetToken reads the JWT token from the context.
func GetToken(ctx context.Context) *jwt.Token {
	obj := ctx.Value(tokenKey)
	if obj == nil {
		return nil
	}
	return obj.(*jwt.Token)
}

// GetClaims reads the parsed JWT claims from the context.
func GetClaims(ctx context.Context) *claims.JWTClaims {
	token := GetToken(ctx)
	if token == nil {
		return nil
	}
	return token.Claims.(*claims.JWTClaims)
}

// WithAdminFlag marks the request as coming from an operator admin.
func WithAdminFlag(ctx context.Context, isAdmin bool) context.Context {
	return context.WithValue(ctx, adminFlagKey, isAdmin)
}

// IsAdmin reads the admin flag from the context.
func IsAdmin(ctx context.Context) bool {
	obj := ctx.Value(adminFlagKey)
	if obj == nil {
		return false
	}
	return obj.(bool)
}
