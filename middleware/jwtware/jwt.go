package jwtware

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
)

var (
	defaultTokenLookup = "header:" + fiber.HeaderAuthorization

	// ErrJWTMissingOrMalformed is returned when no token can be extracted
	// from the request.
	ErrJWTMissingOrMalformed = errors.New("missing or malformed JWT")

	// ErrInsufficientScope is returned when a valid token lacks the
	// configured required scope.
	ErrInsufficientScope = errors.New("insufficient scope")
)

// TokenValidator validates tokens without creating an import cycle with the
// root package. It mirrors the root TokenValidator contract.
type TokenValidator interface {
	Validate(tokenString string) (AccessClaims, error)
}

// AccessClaims mirrors the root claims contract: the subset the middleware
// needs to authorize a request.
type AccessClaims interface {
	Subject() string
	Scope() string
	HasScope(required string) bool
}

type Config struct {
	// Filter skips the middleware when it returns true
	Filter func(*fiber.Ctx) bool

	SuccessHandler fiber.Handler
	ErrorHandler   fiber.ErrorHandler

	// TokenValidator is required for token validation
	TokenValidator TokenValidator

	// RequiredScope, when set, must appear as an exact token in the claims
	// scope. Checked only after the token itself validated.
	RequiredScope string

	// ContextKey is the fiber locals key the decoded claims are stored under
	ContextKey string

	// TokenLookup is a comma-separated list of <source>:<name> entries,
	// e.g. "header:Authorization,query:access_token,cookie:jwt"
	TokenLookup string

	// AuthScheme is the header scheme stripped from the extracted value
	AuthScheme string

	// ContextEnricher, when set, propagates claims to the standard context
	// after successful validation.
	ContextEnricher func(c context.Context, claims AccessClaims) context.Context
}

// New returns a handler that extracts a bearer token, validates it, enforces
// the required scope, and stores the decoded claims for downstream handlers.
func New(config ...Config) fiber.Handler {
	cfg := GetDefaultConfig(config...)

	return func(c *fiber.Ctx) error {
		if cfg.Filter != nil && cfg.Filter(c) {
			return c.Next()
		}

		raw, err := ExtractRawToken(c, cfg.getExtractors())
		if err != nil {
			return cfg.ErrorHandler(c, err)
		}

		claims, err := cfg.TokenValidator.Validate(raw)
		if err != nil {
			return cfg.ErrorHandler(c, err)
		}

		if cfg.RequiredScope != "" && !claims.HasScope(cfg.RequiredScope) {
			return cfg.ErrorHandler(c, ErrInsufficientScope)
		}

		c.Locals(cfg.ContextKey, claims)

		if cfg.ContextEnricher != nil {
			c.SetUserContext(cfg.ContextEnricher(c.UserContext(), claims))
		}

		return cfg.SuccessHandler(c)
	}
}

func GetDefaultConfig(config ...Config) (cfg Config) {
	if len(config) > 0 {
		cfg = config[0]
	}

	if cfg.SuccessHandler == nil {
		cfg.SuccessHandler = func(c *fiber.Ctx) error {
			return c.Next()
		}
	}

	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = func(c *fiber.Ctx, err error) error {
			switch {
			case errors.Is(err, ErrJWTMissingOrMalformed):
				return c.Status(fiber.StatusBadRequest).SendString(ErrJWTMissingOrMalformed.Error())
			case errors.Is(err, ErrInsufficientScope):
				return c.Status(fiber.StatusForbidden).SendString(ErrInsufficientScope.Error())
			default:
				return c.Status(fiber.StatusUnauthorized).SendString("Invalid or expired token")
			}
		}
	}

	if cfg.TokenValidator == nil {
		panic("AUTH: JWT middleware configuration: TokenValidator is required.")
	}

	if cfg.ContextKey == "" {
		cfg.ContextKey = "user"
	}

	if cfg.TokenLookup == "" {
		cfg.TokenLookup = defaultTokenLookup
	}

	if cfg.AuthScheme == "" {
		cfg.AuthScheme = "Bearer"
	}

	return cfg
}

func (cfg *Config) getExtractors() []JWTExtractor {
	return GetExtractors(cfg.TokenLookup, cfg.AuthScheme)
}

// ExtractRawToken runs the extractors in order and returns the first match.
func ExtractRawToken(c *fiber.Ctx, extractors []JWTExtractor) (string, error) {
	var raw string
	var err error

	for _, extractor := range extractors {
		raw, err = extractor(c)
		if raw != "" && err == nil {
			break
		}
	}

	if raw == "" {
		return "", ErrJWTMissingOrMalformed
	}

	return raw, err
}

// GetExtractors parses a token lookup string into extractor functions.
func GetExtractors(tokenLookup string, authSchemes ...string) []JWTExtractor {
	extractors := make([]JWTExtractor, 0)

	authScheme := "Bearer"
	if len(authSchemes) > 0 {
		authScheme = authSchemes[0]
	}

	// header:Authorization,cookie:jwt,query:auth_token,param:token
	rootParts := strings.Split(tokenLookup, ",")
	for _, rootPart := range rootParts {
		parts := strings.Split(strings.TrimSpace(rootPart), ":")
		if len(parts) < 2 {
			continue
		}

		for i, el := range parts {
			parts[i] = strings.TrimSpace(el)
		}

		switch parts[0] {
		case "header":
			extractors = append(extractors, jwtFromHeader(parts[1], authScheme))
		case "query":
			extractors = append(extractors, jwtFromQuery(parts[1]))
		case "param":
			extractors = append(extractors, jwtFromParam(parts[1]))
		case "cookie":
			extractors = append(extractors, jwtFromCookie(parts[1]))
		}
	}

	return extractors
}

type JWTExtractor func(c *fiber.Ctx) (string, error)

// jwtFromHeader returns a function that extracts token from the request header.
func jwtFromHeader(header string, authScheme string) JWTExtractor {
	return func(c *fiber.Ctx) (string, error) {
		a := c.Get(header)
		l := len(authScheme)
		if l == 0 {
			return strings.TrimSpace(a), nil
		}
		if len(a) > l+1 && strings.EqualFold(a[:l], authScheme) {
			return strings.TrimSpace(a[l:]), nil
		}
		return "", ErrJWTMissingOrMalformed
	}
}

// jwtFromQuery returns a function that extracts token from the query string.
func jwtFromQuery(param string) JWTExtractor {
	return func(c *fiber.Ctx) (string, error) {
		token := c.Query(param)
		if token == "" {
			return "", ErrJWTMissingOrMalformed
		}
		return token, nil
	}
}

// jwtFromParam returns a function that extracts token from the url param string.
func jwtFromParam(param string) JWTExtractor {
	return func(c *fiber.Ctx) (string, error) {
		token := c.Params(param)
		if token == "" {
			return "", ErrJWTMissingOrMalformed
		}
		return token, nil
	}
}

// jwtFromCookie returns a function that extracts token from the named cookie.
func jwtFromCookie(name string) JWTExtractor {
	return func(c *fiber.Ctx) (string, error) {
		token := c.Cookies(name)
		if token == "" {
			return "", ErrJWTMissingOrMalformed
		}
		return token, nil
	}
}
