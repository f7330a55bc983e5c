package auth

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/uptrace/bun"
)

// BootstrapAdminMessage seeds the administrative principal at startup
type BootstrapAdminMessage struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

func (e BootstrapAdminMessage) Type() string { return "principal.bootstrap_admin" }

// BootstrapAdminHandler is the idempotent bootstrap path: if a principal with
// the given name already exists it is treated as already-initialized and the
// handler returns nil. Running it twice never creates two admins and never
// errors on the second run, even when two processes race the first insert.
type BootstrapAdminHandler struct {
	repo   RepositoryManager
	logger Logger
}

func NewBootstrapAdminHandler(repo RepositoryManager) *BootstrapAdminHandler {
	return &BootstrapAdminHandler{
		repo:   repo,
		logger: defLogger{},
	}
}

func (h *BootstrapAdminHandler) WithLogger(logger Logger) *BootstrapAdminHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

func (h *BootstrapAdminHandler) Execute(ctx context.Context, event BootstrapAdminMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during admin bootstrap",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *BootstrapAdminHandler) execute(ctx context.Context, event BootstrapAdminMessage) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	return h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		role, err := h.repo.Roles().GetByNameTx(ctx, tx, RoleAdmin)
		if err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "bootstrap role lookup failed")
		}

		if _, err := h.repo.Principals().GetByNameTx(ctx, tx, event.Name); err == nil {
			h.logger.Info("admin principal already exists", "name", event.Name)
			return nil
		} else if !repository.IsRecordNotFound(err) {
			return goerrors.Wrap(err, ErrStoreUnavailable.Category, ErrStoreUnavailable.Message).
				WithTextCode(TextCodeStoreUnavailable)
		}

		hash, err := HashPassword(event.Password)
		if err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash bootstrap password")
		}

		principal := &Principal{
			Name:         event.Name,
			PasswordHash: hash,
			Roles:        []*Role{role},
		}

		// Deterministic ID so repeated bootstraps across processes agree on
		// the admin's identity.
		if id, err := hashid.NewUUID(event.Name); err == nil {
			principal.ID = id
		}

		if _, err := h.repo.Principals().RegisterTx(ctx, tx, principal); err != nil {
			if IsDuplicateNameError(err) {
				h.logger.Info("admin principal created concurrently", "name", event.Name)
				return nil
			}
			return err
		}

		return nil
	})
}
