package commands_test

import (
	"context"
	"time"

	"marketplace/internal/adapters/out/memory"
	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/domain/model/identity"
	"marketplace/internal/core/domain/model/impact"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/logistics"
	"marketplace/internal/core/domain/model/transaction"
	"marketplace/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

type MockTransactionRepository struct{ mock.Mock }

func (m *MockTransactionRepository) Add(ctx context.Context, tx *transaction.Transaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockTransactionRepository) Update(ctx context.Context, tx *transaction.Transaction, expectedVersion int) error {
	args := m.Called(ctx, tx, expectedVersion)
	return args.Error(0)
}

func (m *MockTransactionRepository) Get(ctx context.Context, id kernel.UUID) (*transaction.Transaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transaction.Transaction), args.Error(1)
}

type MockLogisticsRepository struct{ mock.Mock }

func (m *MockLogisticsRepository) Add(ctx context.Context, l *logistics.Logistics) error {
	args := m.Called(ctx, l)
	return args.Error(0)
}

func (m *MockLogisticsRepository) Update(ctx context.Context, l *logistics.Logistics, expectedVersion int) error {
	args := m.Called(ctx, l, expectedVersion)
	return args.Error(0)
}

func (m *MockLogisticsRepository) AppendEvent(ctx context.Context, e logistics.TrackingEvent) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *MockLogisticsRepository) Get(ctx context.Context, id kernel.UUID) (*logistics.Logistics, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*logistics.Logistics), args.Error(1)
}

func (m *MockLogisticsRepository) GetByTransaction(ctx context.Context, id kernel.UUID) (*logistics.Logistics, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*logistics.Logistics), args.Error(1)
}

type MockImpactRepository struct{ mock.Mock }

func (m *MockImpactRepository) Accumulate(
	ctx context.Context,
	companyID kernel.UUID,
	delta impact.Delta,
	now time.Time,
) error {
	args := m.Called(ctx, companyID, delta, now)
	return args.Error(0)
}

type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) TransactionRepository() ports.TransactionRepository {
	args := m.Called()
	return args.Get(0).(ports.TransactionRepository)
}

func (m *MockUoW) LogisticsRepository() ports.LogisticsRepository {
	args := m.Called()
	return args.Get(0).(ports.LogisticsRepository)
}

func (m *MockUoW) ImpactRepository() ports.ImpactRepository {
	args := m.Called()
	return args.Get(0).(ports.ImpactRepository)
}

type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) Create() commands.UoW {
	args := m.Called()
	return args.Get(0).(commands.UoW)
}

type MockCatalog struct{ mock.Mock }

func (m *MockCatalog) GetListing(ctx context.Context, productID kernel.UUID) (transaction.Listing, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).(transaction.Listing), args.Error(1)
}

// recordingHooks keeps every hook call for assertions.
type recordingHooks struct {
	requested    []*transaction.Transaction
	transitioned []transitionCall
	termsChanged []*transaction.Transaction
	updates      []logistics.TrackingEvent
	// ctxErrs holds ctx.Err() as seen by every transition hook call.
	ctxErrs []error
}

type transitionCall struct {
	tx      *transaction.Transaction
	from    transaction.Status
	spawned *logistics.Logistics
}

func (h *recordingHooks) TransactionRequested(_ context.Context, tx *transaction.Transaction, _ identity.Principal) {
	h.requested = append(h.requested, tx)
}

func (h *recordingHooks) TransactionTransitioned(
	ctx context.Context,
	tx *transaction.Transaction,
	from transaction.Status,
	_ identity.Principal,
	spawned *logistics.Logistics,
) {
	h.transitioned = append(h.transitioned, transitionCall{tx: tx, from: from, spawned: spawned})
	h.ctxErrs = append(h.ctxErrs, ctx.Err())
}

func (h *recordingHooks) TermsChanged(_ context.Context, tx *transaction.Transaction, _ identity.Principal) {
	h.termsChanged = append(h.termsChanged, tx)
}

func (h *recordingHooks) LogisticsUpdated(
	_ context.Context,
	_ *transaction.Transaction,
	_ *logistics.Logistics,
	event logistics.TrackingEvent,
) {
	h.updates = append(h.updates, event)
}

// memoryFactories adapts the in-memory unit of work to every factory the handlers need.
type memoryFactories struct {
	f *memory.UnitOfWorkFactory
}

func (m memoryFactories) uow() commands.UoWFactory {
	return uowFunc(func() commands.UoW { return m.f.Create() })
}

func (m memoryFactories) transactions() commands.TransactionUoWFactory {
	return txUoWFunc(func() commands.TransactionUoW { return m.f.Create() })
}

func (m memoryFactories) logistics() commands.LogisticsUoWFactory {
	return logisticsUoWFunc(func() commands.LogisticsUoW { return m.f.Create() })
}

type uowFunc func() commands.UoW

func (f uowFunc) Create() commands.UoW { return f() }

type txUoWFunc func() commands.TransactionUoW

func (f txUoWFunc) Create() commands.TransactionUoW { return f() }

type logisticsUoWFunc func() commands.LogisticsUoW

func (f logisticsUoWFunc) Create() commands.LogisticsUoW { return f() }

func mustPrincipal(roles ...identity.Role) identity.Principal {
	p, err := identity.NewPrincipal(kernel.NewUUID(), roles...)
	if err != nil {
		panic(err)
	}
	return p
}

func principalFor(id kernel.UUID, roles ...identity.Role) identity.Principal {
	p, err := identity.NewPrincipal(id, roles...)
	if err != nil {
		panic(err)
	}
	return p
}
