package auth

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/uptrace/bun"
)

// RegisterPrincipalMessage is the self-service registration request. The
// default role is attached when none is given.
type RegisterPrincipalMessage struct {
	Name     string `json:"name"`
	Password string `json:"password"`
	Role     RoleName
}

func (e RegisterPrincipalMessage) Type() string { return "principal.register" }

func (e RegisterPrincipalMessage) role() RoleName {
	if e.Role == "" {
		return RoleBasic
	}
	return e.Role
}

// RegisterPrincipalHandler persists new principals with exactly one role.
// A taken name fails with ErrDuplicateName; the check-then-act window between
// lookup and insert is closed by the store's unique constraint, which the
// repository translates into the same error.
type RegisterPrincipalHandler struct {
	repo RepositoryManager
}

func NewRegisterPrincipalHandler(repo RepositoryManager) *RegisterPrincipalHandler {
	return &RegisterPrincipalHandler{repo: repo}
}

func (h *RegisterPrincipalHandler) Execute(ctx context.Context, event RegisterPrincipalMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during principal registration",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *RegisterPrincipalHandler) execute(ctx context.Context, event RegisterPrincipalMessage) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	err := h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		role, err := h.repo.Roles().GetByNameTx(ctx, tx, event.role())
		if err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "registration role lookup failed")
		}

		if _, err := h.repo.Principals().GetByNameTx(ctx, tx, event.Name); err == nil {
			return ErrDuplicateName.Clone().
				WithMetadata(map[string]any{"name": event.Name})
		} else if !repository.IsRecordNotFound(err) {
			return goerrors.Wrap(err, ErrStoreUnavailable.Category, ErrStoreUnavailable.Message).
				WithTextCode(TextCodeStoreUnavailable)
		}

		hash, err := HashPassword(event.Password)
		if err != nil {
			var richErr *goerrors.Error
			if goerrors.As(err, &richErr) {
				return goerrors.Wrap(richErr, goerrors.CategoryValidation, "invalid password provided")
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash password")
		}

		principal := &Principal{
			Name:         event.Name,
			PasswordHash: hash,
			Roles:        []*Role{role},
		}

		if _, err := h.repo.Principals().RegisterTx(ctx, tx, principal); err != nil {
			return err
		}

		return nil
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return richErr
		}

		return goerrors.Wrap(err, goerrors.CategoryInternal, "principal registration transaction failed")
	}

	return nil
}
