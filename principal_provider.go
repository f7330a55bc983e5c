package auth

import (
	"context"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
)

// PrincipalStore is the credential-store seam the provider reads from. The
// concrete implementation is the Principals repository; tests swap in mocks.
type PrincipalStore interface {
	GetByName(ctx context.Context, name string) (*Principal, error)
}

// PrincipalProvider resolves identities against a PrincipalStore
type PrincipalProvider struct {
	store  PrincipalStore
	logger Logger
}

// NewPrincipalProvider will create a new PrincipalProvider
func NewPrincipalProvider(store PrincipalStore) *PrincipalProvider {
	return &PrincipalProvider{
		store:  store,
		logger: defLogger{},
	}
}

func (p *PrincipalProvider) WithLogger(l Logger) *PrincipalProvider {
	if l != nil {
		p.logger = l
	}
	return p
}

// VerifyIdentity will find the principal, compare the password, and return
// the identity. An unknown name and a wrong password produce the same error,
// and the unknown-name path still pays for a hash comparison so response
// timing does not reveal whether the account exists.
func (p PrincipalProvider) VerifyIdentity(ctx context.Context, name, password string) (Identity, error) {
	principal, err := p.store.GetByName(ctx, name)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			CompareDummyHash(password)
			return nil, ErrInvalidCredentials
		}
		return nil, errors.Wrap(err, ErrStoreUnavailable.Category, ErrStoreUnavailable.Message).
			WithTextCode(TextCodeStoreUnavailable)
	}

	if err := ComparePasswordAndHash(password, principal.PasswordHash); err != nil {
		return nil, ErrInvalidCredentials
	}

	return principalIdentity{
		id:    principal.ID.String(),
		name:  principal.Name,
		roles: principal.RoleNames(),
	}, nil
}

// FindIdentityByName resolves an identity without verifying a credential.
func (p PrincipalProvider) FindIdentityByName(ctx context.Context, name string) (Identity, error) {
	principal, err := p.store.GetByName(ctx, name)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, err
		}
		return nil, errors.Wrap(err, ErrStoreUnavailable.Category, ErrStoreUnavailable.Message).
			WithTextCode(TextCodeStoreUnavailable)
	}

	return principalIdentity{
		id:    principal.ID.String(),
		name:  principal.Name,
		roles: principal.RoleNames(),
	}, nil
}

type principalIdentity struct {
	id    string
	name  string
	roles []string
}

func (a principalIdentity) ID() string {
	return a.id
}

func (a principalIdentity) Name() string {
	return a.name
}

func (a principalIdentity) Roles() []string {
	return a.roles
}

var _ Identity = principalIdentity{}
var _ IdentityProvider = PrincipalProvider{}
