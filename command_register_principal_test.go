package auth_test

import (
	"context"
	"errors"
	"testing"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/microposts/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRegisterPrincipalMessageType(t *testing.T) {
	assert.Equal(t, "principal.register", auth.RegisterPrincipalMessage{}.Type())
}

func TestRegisterPrincipalHandler(t *testing.T) {
	basicRole := &auth.Role{ID: uuid.New(), Name: auth.RoleBasic}

	t.Run("registers with default role", func(t *testing.T) {
		repo := newMockRepositoryManager()
		handler := auth.NewRegisterPrincipalHandler(repo)

		repo.roles.On("GetByNameTx", mock.Anything, mock.Anything, auth.RoleBasic).
			Return(basicRole, nil).Once()
		repo.principals.On("GetByNameTx", mock.Anything, mock.Anything, "joao").
			Return(nil, repository.NewRecordNotFound()).Once()
		repo.principals.On("RegisterTx", mock.Anything, mock.Anything, mock.MatchedBy(func(p *auth.Principal) bool {
			return p.Name == "joao" &&
				p.PasswordHash != "" &&
				p.PasswordHash != "secret99" &&
				len(p.Roles) == 1 &&
				p.Roles[0].Name == auth.RoleBasic
		})).Return(&auth.Principal{}, nil).Once()

		err := handler.Execute(context.Background(), auth.RegisterPrincipalMessage{
			Name:     "joao",
			Password: "secret99",
		})

		require.NoError(t, err)
		repo.principals.AssertExpectations(t)
		repo.roles.AssertExpectations(t)
	})

	t.Run("taken name fails with duplicate error", func(t *testing.T) {
		repo := newMockRepositoryManager()
		handler := auth.NewRegisterPrincipalHandler(repo)

		repo.roles.On("GetByNameTx", mock.Anything, mock.Anything, auth.RoleBasic).
			Return(basicRole, nil).Once()
		repo.principals.On("GetByNameTx", mock.Anything, mock.Anything, "joao").
			Return(&auth.Principal{ID: uuid.New(), Name: "joao"}, nil).Once()

		err := handler.Execute(context.Background(), auth.RegisterPrincipalMessage{
			Name:     "joao",
			Password: "secret99",
		})

		assert.True(t, auth.IsDuplicateNameError(err))
		repo.principals.AssertNotCalled(t, "RegisterTx", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("insert race surfaces the store's duplicate error", func(t *testing.T) {
		// The existence check saw nothing but the unique constraint fired on
		// insert. The caller sees the same duplicate error either way.
		repo := newMockRepositoryManager()
		handler := auth.NewRegisterPrincipalHandler(repo)

		repo.roles.On("GetByNameTx", mock.Anything, mock.Anything, auth.RoleBasic).
			Return(basicRole, nil).Once()
		repo.principals.On("GetByNameTx", mock.Anything, mock.Anything, "joao").
			Return(nil, repository.NewRecordNotFound()).Once()
		repo.principals.On("RegisterTx", mock.Anything, mock.Anything, mock.Anything).
			Return(nil, auth.ErrDuplicateName.Clone().
				WithMetadata(map[string]any{"name": "joao"})).Once()

		err := handler.Execute(context.Background(), auth.RegisterPrincipalMessage{
			Name:     "joao",
			Password: "secret99",
		})

		assert.True(t, auth.IsDuplicateNameError(err))
	})

	t.Run("store fault during lookup", func(t *testing.T) {
		repo := newMockRepositoryManager()
		handler := auth.NewRegisterPrincipalHandler(repo)

		repo.roles.On("GetByNameTx", mock.Anything, mock.Anything, auth.RoleBasic).
			Return(basicRole, nil).Once()
		repo.principals.On("GetByNameTx", mock.Anything, mock.Anything, "joao").
			Return(nil, errors.New("dial tcp: connection refused")).Once()

		err := handler.Execute(context.Background(), auth.RegisterPrincipalMessage{
			Name:     "joao",
			Password: "secret99",
		})

		assert.True(t, auth.IsStoreUnavailableError(err))
	})

	t.Run("empty password rejected", func(t *testing.T) {
		repo := newMockRepositoryManager()
		handler := auth.NewRegisterPrincipalHandler(repo)

		repo.roles.On("GetByNameTx", mock.Anything, mock.Anything, auth.RoleBasic).
			Return(basicRole, nil).Once()
		repo.principals.On("GetByNameTx", mock.Anything, mock.Anything, "joao").
			Return(nil, repository.NewRecordNotFound()).Once()

		err := handler.Execute(context.Background(), auth.RegisterPrincipalMessage{
			Name: "joao",
		})

		require.Error(t, err)
		var richErr *goerrors.Error
		require.ErrorAs(t, err, &richErr)
		assert.Equal(t, goerrors.CategoryValidation, richErr.Category)
		repo.principals.AssertNotCalled(t, "RegisterTx", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("cancelled context never reaches the store", func(t *testing.T) {
		repo := newMockRepositoryManager()
		handler := auth.NewRegisterPrincipalHandler(repo)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := handler.Execute(ctx, auth.RegisterPrincipalMessage{
			Name:     "joao",
			Password: "secret99",
		})

		require.Error(t, err)
		var richErr *goerrors.Error
		require.ErrorAs(t, err, &richErr)
		assert.Equal(t, goerrors.CategoryOperation, richErr.Category)
		repo.roles.AssertNotCalled(t, "GetByNameTx", mock.Anything, mock.Anything, mock.Anything)
	})
}
