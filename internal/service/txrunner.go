package service

import (
	"context"

	"tenantkit.dev/api/common/logger"
	"tenantkit.dev/api/core/db"
	"tenantkit.dev/api/core/db/sqlc"
	"tenantkit.dev/api/internal/store"
)

// StoreProvider is the set of stores a transactional use case may touch.
// Audit logs are absent on purpose: audit rows are written after commit.
type StoreProvider interface {
	Users() store.UserStore
	Organizations() store.OrganizationStore
	Memberships() store.MembershipStore
	Invitations() store.InvitationStore
	APIKeys() store.APIKeyStore
	Sessions() store.SessionStore
}

// TxRunner runs fn with stores bound to one transaction. fn's error rolls
// the transaction back and is returned unchanged.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(stores StoreProvider) error) error
}

type dbTxRunner struct {
	db *db.DB
}

func NewTxRunner(db *db.DB) TxRunner {
	return &dbTxRunner{db: db}
}

func (r *dbTxRunner) WithTx(ctx context.Context, fn func(stores StoreProvider) error) error {
	sc := logger.StartSpan(ctx, "db.tx")
	defer sc.End()
	ctx = sc.Context()

	err := r.db.WithTx(ctx, func(q *sqlc.Queries) error {
		return fn(store.NewStores(q))
	})
	sc.RecordError(err)
	return err
}
