package auth

import (
	"context"
	"fmt"
	"strings"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Error(format string, args ...any)
}

// Identity holds the attributes of an authenticated principal
type Identity interface {
	ID() string
	Name() string
	Roles() []string
}

// Authenticator holds methods to deal with authentication
type Authenticator interface {
	Login(ctx context.Context, name, password string) (*LoginResult, error)
}

// LoginResult is the caller-facing outcome of a successful login. ExpiresIn
// always equals the lifetime encoded in the token's exp claim.
type LoginResult struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

// IdentityProvider ensures we have a store to retrieve auth identities
type IdentityProvider interface {
	VerifyIdentity(ctx context.Context, name, password string) (Identity, error)
	FindIdentityByName(ctx context.Context, name string) (Identity, error)
}

// PasswordAuthenticator authenticates passwords
type PasswordAuthenticator interface {
	HashPassword(password string) (string, error)
	ComparePasswordAndHash(password, hash string) error
}

// Config holds auth options
type Config interface {
	GetSigningKey() string
	GetTokenLifetime() int64
	GetIssuer() string
	GetContextKey() string
	GetTokenLookup() string
	GetAuthScheme() string
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Print("[ERR] AUTH " + newline(logf(format, args...)))
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Print("[INF] AUTH " + newline(logf(format, args...)))
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Print("[DBG] AUTH " + newline(logf(format, args...)))
}

// logf formats printf-style when the message carries verbs; otherwise extra
// args are appended key-value style instead of producing %!(EXTRA ...) noise.
func logf(format string, args ...any) string {
	if len(args) > 0 && !strings.Contains(format, "%") {
		return strings.TrimSuffix(fmt.Sprintln(append([]any{format}, args...)...), "\n")
	}
	return fmt.Sprintf(format, args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
