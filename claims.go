package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AccessClaims represents the decoded claim set of an access token
type AccessClaims interface {
	Subject() string
	Issuer() string
	Scope() string
	HasScope(required string) bool
	Expires() time.Time
	IssuedAt() time.Time
}

// JWTClaims is the concrete implementation of AccessClaims. The scope claim is
// a space-joined snapshot of the principal's role names at issuance time; it
// is not re-derived on later checks.
type JWTClaims struct {
	jwt.RegisteredClaims
	TokenScope string `json:"scope"`
}

// Verify interface compliance
var _ AccessClaims = (*JWTClaims)(nil)

// Subject returns the subject claim
func (c *JWTClaims) Subject() string {
	return c.RegisteredClaims.Subject
}

// Issuer returns the issuer claim
func (c *JWTClaims) Issuer() string {
	return c.RegisteredClaims.Issuer
}

// Scope returns the scope claim
func (c *JWTClaims) Scope() string {
	return c.TokenScope
}

// HasScope checks if the scope claim grants the required scope token
func (c *JWTClaims) HasScope(required string) bool {
	return ScopeContains(c.TokenScope, required)
}

// Expires returns the expiration time
func (c *JWTClaims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}

// IssuedAt returns the issued at time
func (c *JWTClaims) IssuedAt() time.Time {
	if c.RegisteredClaims.IssuedAt != nil {
		return c.RegisteredClaims.IssuedAt.Time
	}
	return time.Time{}
}
