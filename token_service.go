package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-errors"
)

// DefaultTokenLifetime is the token lifetime in seconds used when the
// configuration does not provide one.
const DefaultTokenLifetime int64 = 300

// TokenService issues and validates signed access tokens
type TokenService interface {
	Issue(subject, scope string) (string, int64, error)
	SignClaims(claims *JWTClaims) (string, error)
	TokenValidator
}

// TokenServiceImpl implements the TokenService interface
type TokenServiceImpl struct {
	signingKey []byte
	lifetime   int64
	issuer     string
	logger     Logger
	now        func() time.Time
}

// NewTokenService creates a new TokenService instance
func NewTokenService(signingKey []byte, lifetimeSeconds int64, issuer string, logger Logger) *TokenServiceImpl {
	if logger == nil {
		logger = defLogger{}
	}
	if lifetimeSeconds <= 0 {
		lifetimeSeconds = DefaultTokenLifetime
	}
	return &TokenServiceImpl{
		signingKey: signingKey,
		lifetime:   lifetimeSeconds,
		issuer:     issuer,
		logger:     logger,
		now:        time.Now,
	}
}

// WithClock overrides the time source, mostly useful in tests
func (ts *TokenServiceImpl) WithClock(now func() time.Time) *TokenServiceImpl {
	if now != nil {
		ts.now = now
	}
	return ts
}

// Lifetime returns the configured token lifetime in seconds
func (ts *TokenServiceImpl) Lifetime() int64 {
	return ts.lifetime
}

// Issue builds the claim set for subject and scope, signs it, and returns the
// token value plus its lifetime in seconds. The returned lifetime is the same
// constant encoded in the exp claim, there is no drift between the two.
func (ts *TokenServiceImpl) Issue(subject, scope string) (string, int64, error) {
	now := ts.now()
	claims := &JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    ts.issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(ts.lifetime) * time.Second)),
		},
		TokenScope: scope,
	}

	token, err := ts.SignClaims(claims)
	if err != nil {
		return "", 0, err
	}

	return token, ts.lifetime, nil
}

// SignClaims signs a caller-built claim set using the configured signing key.
func (ts *TokenServiceImpl) SignClaims(claims *JWTClaims) (string, error) {
	if claims == nil {
		return "", errors.New("claims must not be nil", errors.CategoryInternal)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signedString, err := token.SignedString(ts.signingKey)
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to sign JWT")
	}

	return signedString, nil
}

// Validate parses and validates a token string, returning structured claims.
// Expiry, bad signature, and unparseable input map to distinct errors so
// observability can tell them apart; callers reject all three the same way.
func (ts *TokenServiceImpl) Validate(tokenString string) (AccessClaims, error) {
	parserOptions := []jwt.ParserOption{
		jwt.WithTimeFunc(ts.now),
	}
	if ts.issuer != "" {
		parserOptions = append(parserOptions, jwt.WithIssuer(ts.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			ts.logger.Error("TokenService validate encountered unexpected signing method", "alg", t.Header["alg"])
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return ts.signingKey, nil
	}, parserOptions...)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		if errors.Is(err, jwt.ErrTokenSignatureInvalid) {
			return nil, ErrInvalidSignature
		}
		return nil, errors.Wrap(err, ErrTokenMalformed.Category, ErrTokenMalformed.Message).WithTextCode(ErrTokenMalformed.TextCode)
	}

	if claims, ok := token.Claims.(*JWTClaims); ok && token.Valid {
		return claims, nil
	}

	ts.logger.Error("TokenService validate could not decode claims")
	return nil, ErrTokenMalformed
}
