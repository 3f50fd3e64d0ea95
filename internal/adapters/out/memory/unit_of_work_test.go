package memory_test

import (
	"testing"
	"time"

	"marketplace/internal/adapters/out/memory"
	"marketplace/internal/core/domain/model/identity"
	"marketplace/internal/core/domain/model/impact"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/logistics"
	"marketplace/internal/core/domain/model/transaction"
	"marketplace/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTransaction(t *testing.T) (*transaction.Transaction, identity.Principal) {
	t.Helper()
	seller, err := identity.NewPrincipal(kernel.NewUUID())
	require.NoError(t, err)
	listing := transaction.Listing{
		ProductID: kernel.NewUUID(),
		SellerID:  seller.UserID(),
		Category:  "textiles",
		UnitPrice: kernel.MustMoney("4.00"),
		Available: 5,
	}
	tx, err := transaction.NewTransaction(kernel.NewUUID(), transaction.Sale, kernel.NewUUID(), listing, 1, time.Now().UTC())
	require.NoError(t, err)
	return tx, seller
}

func TestUnitOfWork_CommitMakesChangesVisible(t *testing.T) {
	ctx := t.Context()
	store := memory.NewStore()
	uow := memory.NewUnitOfWorkFactory(store).Create()
	tx, _ := newTransaction(t)

	require.NoError(t, uow.Begin(ctx))
	require.NoError(t, uow.TransactionRepository().Add(ctx, tx))

	_, visible := store.TransactionSnapshot(tx.ID())
	assert.False(t, visible)

	got, err := uow.TransactionRepository().Get(ctx, tx.ID())
	require.NoError(t, err)
	assert.True(t, got.ID().IsEqual(tx.ID()))

	require.NoError(t, uow.Commit(ctx))
	_, visible = store.TransactionSnapshot(tx.ID())
	assert.True(t, visible)
}

func TestUnitOfWork_RollbackDiscardsChanges(t *testing.T) {
	ctx := t.Context()
	store := memory.NewStore()
	uow := memory.NewUnitOfWorkFactory(store).Create()
	tx, _ := newTransaction(t)

	require.NoError(t, uow.Begin(ctx))
	require.NoError(t, uow.TransactionRepository().Add(ctx, tx))
	require.NoError(t, uow.Rollback(ctx))

	_, visible := store.TransactionSnapshot(tx.ID())
	assert.False(t, visible)
	require.ErrorIs(t, uow.Rollback(ctx), memory.ErrNoActiveTransaction)
}

func TestUnitOfWork_WritesWithoutBeginCommitImmediately(t *testing.T) {
	ctx := t.Context()
	store := memory.NewStore()
	tx, _ := newTransaction(t)

	require.NoError(t, memory.NewUnitOfWorkFactory(store).Create().TransactionRepository().Add(ctx, tx))

	_, visible := store.TransactionSnapshot(tx.ID())
	assert.True(t, visible)
}

func TestUnitOfWork_TwoWritersFromSameVersion_ExactlyOneCommits(t *testing.T) {
	ctx := t.Context()
	store := memory.NewStore()
	factory := memory.NewUnitOfWorkFactory(store)
	tx, seller := newTransaction(t)
	require.NoError(t, factory.Create().TransactionRepository().Add(ctx, tx))

	// Given two units of work that both read version 1
	first, second := factory.Create(), factory.Create()
	require.NoError(t, first.Begin(ctx))
	require.NoError(t, second.Begin(ctx))

	a, err := first.TransactionRepository().Get(ctx, tx.ID())
	require.NoError(t, err)
	b, err := second.TransactionRepository().Get(ctx, tx.ID())
	require.NoError(t, err)

	now := time.Now().UTC()
	require.NoError(t, a.Accept(seller, now))
	require.NoError(t, b.Cancel(seller, "sold elsewhere", now))

	require.NoError(t, first.TransactionRepository().Update(ctx, a, 1))
	require.NoError(t, second.TransactionRepository().Update(ctx, b, 1))

	// When
	firstErr := first.Commit(ctx)
	secondErr := second.Commit(ctx)

	// Then
	require.NoError(t, firstErr)
	require.ErrorIs(t, secondErr, errs.ErrConcurrencyConflict)
	snap, _ := store.TransactionSnapshot(tx.ID())
	assert.Equal(t, transaction.Accepted, snap.Status)
	assert.Equal(t, 2, snap.Version)
}

func TestUnitOfWork_UpdateWithStaleVersionFailsEarly(t *testing.T) {
	ctx := t.Context()
	store := memory.NewStore()
	tx, seller := newTransaction(t)
	repo := memory.NewUnitOfWorkFactory(store).Create().TransactionRepository()
	require.NoError(t, repo.Add(ctx, tx))
	require.NoError(t, tx.Accept(seller, time.Now().UTC()))

	err := repo.Update(ctx, tx, 5)

	require.ErrorIs(t, err, errs.ErrConcurrencyConflict)
}

func TestUnitOfWork_OneLogisticsRecordPerTransaction(t *testing.T) {
	ctx := t.Context()
	store := memory.NewStore()
	repo := memory.NewUnitOfWorkFactory(store).Create().LogisticsRepository()
	txID := kernel.NewUUID()
	now := time.Now().UTC()

	first, err := logistics.NewLogistics(kernel.NewUUID(), txID, logistics.Details{}, now)
	require.NoError(t, err)
	second, err := logistics.NewLogistics(kernel.NewUUID(), txID, logistics.Details{}, now)
	require.NoError(t, err)

	require.NoError(t, repo.Add(ctx, first))
	require.ErrorIs(t, repo.Add(ctx, second), errs.ErrConcurrencyConflict)

	got, err := repo.GetByTransaction(ctx, txID)
	require.NoError(t, err)
	assert.True(t, got.ID().IsEqual(first.ID()))
}

func TestUnitOfWork_EventSequenceRace(t *testing.T) {
	ctx := t.Context()
	store := memory.NewStore()
	factory := memory.NewUnitOfWorkFactory(store)
	now := time.Now().UTC()

	record, err := logistics.NewLogistics(kernel.NewUUID(), kernel.NewUUID(), logistics.Details{}, now)
	require.NoError(t, err)
	require.NoError(t, factory.Create().LogisticsRepository().Add(ctx, record))

	// Given two carriers that loaded the same empty history
	first, second := factory.Create(), factory.Create()
	require.NoError(t, first.Begin(ctx))
	require.NoError(t, second.Begin(ctx))
	a, err := first.LogisticsRepository().Get(ctx, record.ID())
	require.NoError(t, err)
	b, err := second.LogisticsRepository().Get(ctx, record.ID())
	require.NoError(t, err)

	ea, err := a.RecordStatus(kernel.NewUUID(), logistics.InTransit, now, "A", "", nil, now)
	require.NoError(t, err)
	eb, err := b.RecordStatus(kernel.NewUUID(), logistics.Exception, now, "B", "", nil, now)
	require.NoError(t, err)
	require.NoError(t, first.LogisticsRepository().Update(ctx, a, 1))
	require.NoError(t, first.LogisticsRepository().AppendEvent(ctx, ea))
	require.NoError(t, second.LogisticsRepository().Update(ctx, b, 1))
	require.NoError(t, second.LogisticsRepository().AppendEvent(ctx, eb))

	// When / Then
	require.NoError(t, first.Commit(ctx))
	require.ErrorIs(t, second.Commit(ctx), errs.ErrConcurrencyConflict)

	got, ok := store.LogisticsFor(record.TransactionID())
	require.True(t, ok)
	assert.Equal(t, logistics.InTransit, got.Status())
	assert.Len(t, got.Events(), 1)
}

func TestUnitOfWork_ImpactAccumulates(t *testing.T) {
	ctx := t.Context()
	store := memory.NewStore()
	repo := memory.NewUnitOfWorkFactory(store).Create().ImpactRepository()
	companyID := kernel.NewUUID()
	delta := impact.Delta{CO2Saved: decimal.NewFromInt(3), WasteReduced: decimal.RequireFromString("1.5")}

	require.NoError(t, repo.Accumulate(ctx, companyID, delta, time.Now().UTC()))
	require.NoError(t, repo.Accumulate(ctx, companyID, delta, time.Now().UTC()))

	totals, ok := store.CompanyImpact(companyID)
	require.True(t, ok)
	assert.True(t, totals.CO2Saved.Equal(decimal.NewFromInt(6)))
	assert.True(t, totals.WasteReduced.Equal(decimal.NewFromInt(3)))
	assert.Equal(t, 2, totals.CompletedTransactions)
}
