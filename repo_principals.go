package auth

import (
	"context"
	"strings"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Principals is the credential store's principal side
type Principals interface {
	repository.Repository[*Principal]

	GetByName(ctx context.Context, name string) (*Principal, error)
	GetByNameTx(ctx context.Context, tx bun.IDB, name string) (*Principal, error)

	// Register persists a new principal together with its role links,
	// translating a uniqueness violation on name into ErrDuplicateName. The
	// unique index is the real enforcement point; a prior existence check is
	// only a courtesy.
	Register(ctx context.Context, principal *Principal) (*Principal, error)
	RegisterTx(ctx context.Context, tx bun.IDB, principal *Principal) (*Principal, error)

	ListAll(ctx context.Context) ([]*Principal, error)
}

type principals struct {
	repository.Repository[*Principal]
	db *bun.DB
}

var (
	_ Principals                        = (*principals)(nil)
	_ repository.Repository[*Principal] = (*principals)(nil)
	_ PrincipalStore                    = (*principals)(nil)
)

func NewPrincipalsRepository(db *bun.DB) Principals {
	repo := repository.NewRepository[*Principal](db, repository.ModelHandlers[*Principal]{
		NewRecord: func() *Principal { return &Principal{} },
		GetID: func(p *Principal) uuid.UUID {
			if p == nil {
				return uuid.Nil
			}
			return p.ID
		},
		SetID: func(p *Principal, id uuid.UUID) {
			if p != nil {
				p.ID = id
			}
		},
		GetIdentifier: func() string {
			return "name"
		},
	})

	return &principals{
		Repository: repo,
		db:         db,
	}
}

func (r *principals) GetByName(ctx context.Context, name string) (*Principal, error) {
	return r.GetByNameTx(ctx, r.db, name)
}

func (r *principals) GetByNameTx(ctx context.Context, tx bun.IDB, name string) (*Principal, error) {
	record := &Principal{}
	err := tx.NewSelect().
		Model(record).
		Relation("Roles").
		Where("?TableAlias.name = ?", strings.TrimSpace(name)).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{
					"name": name,
				})
		}
		return nil, err
	}

	return record, nil
}

func (r *principals) Register(ctx context.Context, principal *Principal) (*Principal, error) {
	return r.RegisterTx(ctx, r.db, principal)
}

func (r *principals) RegisterTx(ctx context.Context, tx bun.IDB, principal *Principal) (*Principal, error) {
	preparePrincipalDefaults(principal)

	record, err := r.Repository.CreateTx(ctx, tx, principal)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateName.Clone().
				WithMetadata(map[string]any{
					"name": principal.Name,
				})
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "could not create principal")
	}

	for _, role := range principal.Roles {
		if role == nil {
			continue
		}
		link := &PrincipalToRole{
			PrincipalID: record.ID,
			RoleID:      role.ID,
		}
		if _, err := tx.NewInsert().Model(link).Exec(ctx); err != nil {
			return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "could not link principal role")
		}
	}

	record.Roles = principal.Roles

	return record, nil
}

func (r *principals) ListAll(ctx context.Context) ([]*Principal, error) {
	var records []*Principal
	err := r.db.NewSelect().
		Model(&records).
		Relation("Roles").
		Order("prn.name ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return records, nil
}

func preparePrincipalDefaults(principal *Principal) {
	if principal == nil {
		return
	}
	if principal.ID == uuid.Nil {
		principal.ID = uuid.New()
	}
}

// isUniqueViolation matches the unique-constraint errors the supported
// drivers emit (sqlite and postgres wire the same store contract).
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value violates unique constraint") ||
		strings.Contains(msg, "SQLSTATE 23505")
}
