package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"marketplace/api"
	httpadapter "marketplace/internal/adapters/in/http"
	"marketplace/internal/adapters/out/memory"
	"marketplace/internal/core/application/dispatcher"
	"marketplace/internal/core/application/integration"
	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/application/usecases/queries"
	"marketplace/internal/core/domain/model/impact"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/logistics"
	"marketplace/internal/core/domain/model/transaction"
	"marketplace/internal/core/domain/services"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/metrics"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret")

const testIssuer = "marketplace-test"

// MockHandler stands in for any query or command handler.
type MockHandler[Q, R any] struct {
	mock.Mock
}

func (m *MockHandler[Q, R]) Handle(ctx context.Context, q Q) (R, error) {
	args := m.Called(ctx, q)
	result, _ := args.Get(0).(R)
	return result, args.Error(1)
}

type queryMocks struct {
	getTransaction   *MockHandler[queries.GetTransactionQuery, queries.TransactionView]
	listTransactions *MockHandler[queries.ListTransactionsQuery, queries.TransactionPage]
	getLogistics     *MockHandler[queries.GetLogisticsQuery, queries.LogisticsView]
	overdue          *MockHandler[queries.ListOverdueDeliveriesQuery, queries.OverdueDeliveries]
	notifications    *MockHandler[queries.ListNotificationsQuery, queries.NotificationPage]
	unread           *MockHandler[queries.CountUnreadNotificationsQuery, int64]
	impact           *MockHandler[queries.GetCompanyImpactQuery, impact.CompanyImpact]
}

type apiFixture struct {
	e          *echo.Echo
	store      *memory.Store
	registry   *prometheus.Registry
	dispatcher *dispatcher.Dispatcher
	queries    queryMocks
	listing    transaction.Listing
	companyID  kernel.UUID

	buyer    kernel.UUID
	seller   kernel.UUID
	stranger kernel.UUID
	carrier  kernel.UUID
	admin    kernel.UUID

	// interleave, when set, runs once right after a carrier command loaded its record.
	interleave func()
}

type uowFunc func() commands.UoW

func (f uowFunc) Create() commands.UoW { return f() }

type txUoWFunc func() commands.TransactionUoW

func (f txUoWFunc) Create() commands.TransactionUoW { return f() }

type logisticsUoWFunc func() commands.LogisticsUoW

func (f logisticsUoWFunc) Create() commands.LogisticsUoW { return f() }

// interleavedUoW lets a test commit a competing write between a carrier command's
// read and its write.
type interleavedUoW struct {
	commands.LogisticsUoW
	f *apiFixture
}

func (u interleavedUoW) LogisticsRepository() ports.LogisticsRepository {
	return interleavedRepository{LogisticsRepository: u.LogisticsUoW.LogisticsRepository(), f: u.f}
}

type interleavedRepository struct {
	ports.LogisticsRepository
	f *apiFixture
}

func (r interleavedRepository) Get(ctx context.Context, id kernel.UUID) (*logistics.Logistics, error) {
	record, err := r.LogisticsRepository.Get(ctx, id)
	if run := r.f.interleave; run != nil {
		r.f.interleave = nil
		run()
	}
	return record, err
}

func newAPIFixture(t *testing.T, validate bool) *apiFixture {
	t.Helper()

	store := memory.NewStore()
	f := &apiFixture{
		store:     store,
		registry:  prometheus.NewRegistry(),
		companyID: kernel.NewUUID(),
		buyer:     kernel.NewUUID(),
		seller:    kernel.NewUUID(),
		stranger:  kernel.NewUUID(),
		carrier:   kernel.NewUUID(),
		admin:     kernel.NewUUID(),
		queries: queryMocks{
			getTransaction:   new(MockHandler[queries.GetTransactionQuery, queries.TransactionView]),
			listTransactions: new(MockHandler[queries.ListTransactionsQuery, queries.TransactionPage]),
			getLogistics:     new(MockHandler[queries.GetLogisticsQuery, queries.LogisticsView]),
			overdue:          new(MockHandler[queries.ListOverdueDeliveriesQuery, queries.OverdueDeliveries]),
			notifications:    new(MockHandler[queries.ListNotificationsQuery, queries.NotificationPage]),
			unread:           new(MockHandler[queries.CountUnreadNotificationsQuery, int64]),
			impact:           new(MockHandler[queries.GetCompanyImpactQuery, impact.CompanyImpact]),
		},
	}
	f.listing = transaction.Listing{
		ProductID:       kernel.NewUUID(),
		SellerID:        f.seller,
		SellerCompanyID: &f.companyID,
		Category:        "furniture",
		UnitPrice:       kernel.MustMoney("12.50"),
		Available:       10,
	}
	store.PutListing(f.listing)

	m := metrics.New(f.registry)
	channel := memory.NewChannel()
	f.dispatcher = dispatcher.New(
		dispatcher.Config{Workers: 1, QueueSize: 8, BroadcastInterval: time.Millisecond},
		memory.NewNotificationRepository(store),
		channel,
		channel,
		memory.NewDirectory(store),
		m,
		nil,
	)
	f.dispatcher.Start(context.Background())
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		f.dispatcher.Stop(ctx)
	})
	hooks := integration.New(f.dispatcher, nil, m, nil)

	uows := memory.NewUnitOfWorkFactory(store)
	txUoWs := txUoWFunc(func() commands.TransactionUoW { return uows.Create() })
	logisticsUoWs := logisticsUoWFunc(func() commands.LogisticsUoW {
		return interleavedUoW{LogisticsUoW: uows.Create(), f: f}
	})
	catalog := memory.NewCatalog(store)

	factors, err := impact.NewFactors(map[string]impact.Factor{
		"furniture": {CO2PerUnit: decimal.NewFromInt(20), WastePerUnit: decimal.NewFromInt(15)},
	}, impact.Factor{CO2PerUnit: decimal.Zero, WastePerUnit: decimal.Zero})
	require.NoError(t, err)

	server := httpadapter.NewServer(httpadapter.Handlers{
		CreateTransaction: commands.NewCreateTransactionCommandHandler(txUoWs, catalog, hooks),
		TransitionTransaction: commands.NewTransitionTransactionCommandHandler(
			uowFunc(func() commands.UoW { return uows.Create() }), services.NewImpactCalculator(factors), hooks,
		),
		ChangeTerms:         commands.NewChangeTransactionTermsCommandHandler(txUoWs, catalog, hooks),
		AssignCarrier:       commands.NewAssignCarrierCommandHandler(logisticsUoWs),
		RecordTrackingEvent: commands.NewRecordTrackingEventCommandHandler(logisticsUoWs, hooks),
		AppendAuditNote:     commands.NewAppendAuditNoteCommandHandler(logisticsUoWs),

		GetTransaction:        f.queries.getTransaction,
		ListTransactions:      f.queries.listTransactions,
		GetLogistics:          f.queries.getLogistics,
		ListOverdueDeliveries: f.queries.overdue,
		ListNotifications:     f.queries.notifications,
		CountUnread:           f.queries.unread,
		GetCompanyImpact:      f.queries.impact,
	}, f.dispatcher, nil)

	contract, err := httpadapter.LoadContract(api.OpenAPI)
	require.NoError(t, err)

	f.e, err = httpadapter.NewRouter(httpadapter.RouterConfig{
		Auth:             httpadapter.AuthConfig{Secret: testSecret, Issuer: testIssuer},
		ValidateRequests: validate,
		LogLevel:         "off",
	}, server, contract, m, f.registry)
	require.NoError(t, err)
	return f
}

func signToken(t *testing.T, subject string, expiresAt time.Time, roles ...string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, httpadapter.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    testIssuer,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Roles: roles,
	}).SignedString(testSecret)
	require.NoError(t, err)
	return token
}

// signCompanyToken signs a token for a user acting for companyID.
func signCompanyToken(t *testing.T, subject, companyID string, roles ...string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, httpadapter.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    testIssuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Roles:     roles,
		CompanyID: companyID,
	}).SignedString(testSecret)
	require.NoError(t, err)
	return token
}

func (f *apiFixture) do(t *testing.T, method, path string, body any, user kernel.UUID, roles ...string) *httptest.ResponseRecorder {
	t.Helper()
	return f.doWithToken(t, method, path, body, signToken(t, user.String(), time.Now().Add(time.Hour), roles...))
}

func (f *apiFixture) doWithToken(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body == nil {
		reader = bytes.NewReader(nil)
	} else {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func requireStatus(t *testing.T, rec *httptest.ResponseRecorder, code int) {
	t.Helper()
	require.Equal(t, code, rec.Code, rec.Body.String())
}
