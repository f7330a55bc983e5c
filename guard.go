package auth

// Guard is the authorization enforcer for protected operations. Token
// validity (signature, expiry) is checked before scope is examined, each
// failure keeping its own error so callers and observability can tell them
// apart even though the transport rejects all of them.
type Guard struct {
	validator TokenValidator
	logger    Logger
}

// NewGuard returns a Guard backed by the given validator, typically the
// process TokenService.
func NewGuard(validator TokenValidator) *Guard {
	return &Guard{
		validator: validator,
		logger:    defLogger{},
	}
}

func (g *Guard) WithLogger(logger Logger) *Guard {
	if logger != nil {
		g.logger = logger
	}
	return g
}

// Authorize validates the raw token then checks the required scope against
// the token's scope claim. On success it returns the decoded claims so the
// protected operation can establish request identity.
func (g *Guard) Authorize(rawToken, requiredScope string) (AccessClaims, error) {
	claims, err := g.validator.Validate(rawToken)
	if err != nil {
		g.logger.Debug("Guard rejected token", "error", err)
		return nil, err
	}

	if err := AuthorizeScope(claims.Scope(), requiredScope); err != nil {
		g.logger.Debug("Guard scope miss", "required", requiredScope)
		return nil, err
	}

	return claims, nil
}

// AuthorizeScope decides allow or deny for a required scope against a token
// scope snapshot. Pure computation, no I/O.
func AuthorizeScope(tokenScope, requiredScope string) error {
	if requiredScope == "" {
		return nil
	}
	if !ScopeContains(tokenScope, requiredScope) {
		return ErrInsufficientScope
	}
	return nil
}

// RequireSubject enforces that the token subject owns the resource. This is
// an identity check, not a scope check; the two must not be conflated.
func RequireSubject(claims AccessClaims, ownerID string) error {
	if claims == nil || ownerID == "" || claims.Subject() != ownerID {
		return ErrOwnershipMismatch
	}
	return nil
}
