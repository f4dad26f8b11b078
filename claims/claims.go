package claims

import (
	jwt "github.com/dgrijalva/jwt-go"
)

// JWTClaims represents the operator bearer token claims.
type JWTClaims struct {
	Email        string                 `json:"email"`
	AppMetaData  map[string]interface{} `json:"app_metadata"`
	UserMetaData map[string]interface{} `json:"user_metadata"`
	jwt.StandardClaims
}

// HasRole reports whether app_metadata.roles contains the given role.
func (c *JWTClaims) HasRole(role string) bool {
	if c.AppMetaData == nil {
		return false
	}
	roles, ok := c.AppMetaData["roles"].([]interface{})
	if !ok {
		return false
	}
	for _, entry := range roles {
		if str, ok := entry.(string); ok && str == role {
			return true
		}
	}
	return false
}
