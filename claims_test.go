package auth_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/microposts/auth"
	"github.com/stretchr/testify/assert"
)

func TestJWTClaimsAccessors(t *testing.T) {
	now := time.Now().Truncate(time.Second)
	expires := now.Add(5 * time.Minute)

	claims := &auth.JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "posts",
			Subject:   "subject-1",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
		TokenScope: "ADMIN BASIC",
	}

	assert.Equal(t, "subject-1", claims.Subject())
	assert.Equal(t, "posts", claims.Issuer())
	assert.Equal(t, "ADMIN BASIC", claims.Scope())
	assert.Equal(t, now, claims.IssuedAt())
	assert.Equal(t, expires, claims.Expires())
}

func TestJWTClaimsHasScope(t *testing.T) {
	claims := &auth.JWTClaims{TokenScope: "ADMIN"}

	assert.True(t, claims.HasScope("ADMIN"))
	assert.True(t, claims.HasScope(""))
	assert.False(t, claims.HasScope("BASIC"))
	assert.False(t, claims.HasScope("ADMINISTRATOR"))
}

func TestJWTClaimsZeroTimes(t *testing.T) {
	claims := &auth.JWTClaims{}

	assert.True(t, claims.Expires().IsZero())
	assert.True(t, claims.IssuedAt().IsZero())
}
