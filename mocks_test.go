package auth_test

import (
	"context"
	"database/sql"

	"github.com/microposts/auth"
	"github.com/stretchr/testify/mock"
	"github.com/uptrace/bun"
)

// TestIdentity is a simple implementation of the Identity interface
type TestIdentity struct {
	id    string
	name  string
	roles []string
}

func (t TestIdentity) ID() string      { return t.id }
func (t TestIdentity) Name() string    { return t.name }
func (t TestIdentity) Roles() []string { return t.roles }

// MockIdentityProvider implements auth.IdentityProvider
type MockIdentityProvider struct {
	mock.Mock
}

func (m *MockIdentityProvider) VerifyIdentity(ctx context.Context, name, password string) (auth.Identity, error) {
	args := m.Called(ctx, name, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(auth.Identity), args.Error(1)
}

func (m *MockIdentityProvider) FindIdentityByName(ctx context.Context, name string) (auth.Identity, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(auth.Identity), args.Error(1)
}

// MockConfig implements auth.Config
type MockConfig struct {
	mock.Mock
}

func (m *MockConfig) GetSigningKey() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockConfig) GetTokenLifetime() int64 {
	args := m.Called()
	return args.Get(0).(int64)
}

func (m *MockConfig) GetIssuer() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockConfig) GetContextKey() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockConfig) GetTokenLookup() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockConfig) GetAuthScheme() string {
	args := m.Called()
	return args.String(0)
}

func newMockConfig() *MockConfig {
	mockConfig := new(MockConfig)
	mockConfig.On("GetSigningKey").Return("test-signing-key")
	mockConfig.On("GetTokenLifetime").Return(int64(300))
	mockConfig.On("GetIssuer").Return("test-issuer")
	mockConfig.On("GetContextKey").Return("user")
	mockConfig.On("GetTokenLookup").Return("header:Authorization")
	mockConfig.On("GetAuthScheme").Return("Bearer")
	return mockConfig
}

// MockPrincipalStore implements auth.PrincipalStore
type MockPrincipalStore struct {
	mock.Mock
}

func (m *MockPrincipalStore) GetByName(ctx context.Context, name string) (*auth.Principal, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.Principal), args.Error(1)
}

// MockPrincipals mocks the methods the command handlers reach for. The
// embedded interface keeps the compiler satisfied for the rest of the
// repository surface.
type MockPrincipals struct {
	auth.Principals
	mock.Mock
}

func (m *MockPrincipals) GetByName(ctx context.Context, name string) (*auth.Principal, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.Principal), args.Error(1)
}

func (m *MockPrincipals) GetByNameTx(ctx context.Context, tx bun.IDB, name string) (*auth.Principal, error) {
	args := m.Called(ctx, tx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.Principal), args.Error(1)
}

func (m *MockPrincipals) RegisterTx(ctx context.Context, tx bun.IDB, principal *auth.Principal) (*auth.Principal, error) {
	args := m.Called(ctx, tx, principal)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.Principal), args.Error(1)
}

func (m *MockPrincipals) ListAll(ctx context.Context) ([]*auth.Principal, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*auth.Principal), args.Error(1)
}

// MockRoles mocks the role lookups used by the command handlers
type MockRoles struct {
	auth.Roles
	mock.Mock
}

func (m *MockRoles) GetByNameTx(ctx context.Context, tx bun.IDB, name auth.RoleName) (*auth.Role, error) {
	args := m.Called(ctx, tx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.Role), args.Error(1)
}

// MockRepositoryManager wires the mocked repositories behind the manager
// contract. RunInTx runs the body directly; the zero tx is never touched
// because every store call inside is mocked.
type MockRepositoryManager struct {
	principals *MockPrincipals
	roles      *MockRoles
}

func newMockRepositoryManager() *MockRepositoryManager {
	return &MockRepositoryManager{
		principals: new(MockPrincipals),
		roles:      new(MockRoles),
	}
}

func (m *MockRepositoryManager) Validate() error { return nil }
func (m *MockRepositoryManager) MustValidate()   {}

func (m *MockRepositoryManager) RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error {
	return f(ctx, bun.Tx{})
}

func (m *MockRepositoryManager) Principals() auth.Principals { return m.principals }
func (m *MockRepositoryManager) Roles() auth.Roles           { return m.roles }
