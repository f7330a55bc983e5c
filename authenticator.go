package auth

import (
	"context"
)

// Auther orchestrates the login flow: principal lookup, credential
// verification, scope derivation, and token issuance. It holds no
// cross-request mutable state, so concurrent logins are safe.
type Auther struct {
	provider     IdentityProvider
	tokenService TokenService
	logger       Logger
}

// NewAuthenticator returns a new Authenticator
func NewAuthenticator(provider IdentityProvider, opts Config) *Auther {
	tokenService := NewTokenService(
		[]byte(opts.GetSigningKey()),
		opts.GetTokenLifetime(),
		opts.GetIssuer(),
		defLogger{},
	)

	return &Auther{
		provider:     provider,
		tokenService: tokenService,
		logger:       defLogger{},
	}
}

func (s *Auther) WithLogger(logger Logger) *Auther {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// WithTokenService overrides the issuing TokenService.
func (s *Auther) WithTokenService(ts TokenService) *Auther {
	if ts != nil {
		s.tokenService = ts
	}
	return s
}

// TokenService returns the TokenService instance used by this Authenticator
func (s *Auther) TokenService() TokenService {
	return s.tokenService
}

// Login authenticates name against the stored credential and returns a signed
// access token carrying the principal's scope snapshot. The only externally
// observable authentication failure is ErrInvalidCredentials; store faults
// surface as ErrStoreUnavailable and are never retried here.
func (s *Auther) Login(ctx context.Context, name, password string) (*LoginResult, error) {
	// Empty values fail fast rather than reach the hasher. Same error as a
	// wrong password so the caller learns nothing extra.
	if name == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	identity, err := s.provider.VerifyIdentity(ctx, name, password)
	if err != nil {
		if IsStoreUnavailableError(err) {
			s.logger.Error("Login store fault", "error", err)
		} else {
			s.logger.Debug("Login rejected", "name", name)
		}
		return nil, err
	}

	scope := DeriveScope(identity.Roles())

	token, expiresIn, err := s.tokenService.Issue(identity.ID(), scope)
	if err != nil {
		s.logger.Error("Login token issuance failed", "error", err)
		return nil, err
	}

	return &LoginResult{
		AccessToken: token,
		ExpiresIn:   expiresIn,
	}, nil
}

var _ Authenticator = (*Auther)(nil)
