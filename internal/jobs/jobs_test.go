package jobs_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"marketplace/internal/core/application/usecases/queries"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/jobs"
	"marketplace/internal/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var discard = slog.New(slog.DiscardHandler)

type MockPurger struct {
	mock.Mock
}

func (m *MockPurger) Purge(ctx context.Context, olderThan time.Duration, onlyRead bool) (int64, error) {
	args := m.Called(ctx, olderThan, onlyRead)
	return args.Get(0).(int64), args.Error(1)
}

type MockOverdueHandler struct {
	mock.Mock
}

func (m *MockOverdueHandler) Handle(
	ctx context.Context,
	query queries.ListOverdueDeliveriesQuery,
) (queries.OverdueDeliveries, error) {
	args := m.Called(ctx, query)
	return args.Get(0).(queries.OverdueDeliveries), args.Error(1)
}

func TestNotificationRetentionJob_Run_PurgesReadThenAll(t *testing.T) {
	// Given
	purger := new(MockPurger)
	purger.On("Purge", mock.Anything, 30*24*time.Hour, true).Return(int64(4), nil).Once()
	purger.On("Purge", mock.Anything, 365*24*time.Hour, false).Return(int64(1), nil).Once()
	job := jobs.NewNotificationRetentionJob(purger, jobs.RetentionConfig{
		ReadOlderThan: 30 * 24 * time.Hour,
		AllOlderThan:  365 * 24 * time.Hour,
	}, discard)

	// When
	sweep, err := job.Run(context.Background())

	// Then
	require.NoError(t, err)
	assert.Equal(t, jobs.Sweep{Read: 4, All: 1}, sweep)
	purger.AssertExpectations(t)
}

func TestNotificationRetentionJob_Run_ZeroRetentionSkipsThatHalf(t *testing.T) {
	purger := new(MockPurger)
	purger.On("Purge", mock.Anything, time.Hour, true).Return(int64(2), nil).Once()
	job := jobs.NewNotificationRetentionJob(purger, jobs.RetentionConfig{ReadOlderThan: time.Hour}, discard)

	sweep, err := job.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(2), sweep.Read)
	purger.AssertNumberOfCalls(t, "Purge", 1)
}

func TestNotificationRetentionJob_Run_FailureDoesNotSkipSecondHalf(t *testing.T) {
	// Given
	boom := errors.New("connection reset")
	purger := new(MockPurger)
	purger.On("Purge", mock.Anything, time.Hour, true).Return(int64(0), boom).Once()
	purger.On("Purge", mock.Anything, 2*time.Hour, false).Return(int64(3), nil).Once()
	job := jobs.NewNotificationRetentionJob(purger, jobs.RetentionConfig{
		ReadOlderThan: time.Hour,
		AllOlderThan:  2 * time.Hour,
	}, discard)

	// When
	sweep, err := job.Run(context.Background())

	// Then
	require.ErrorIs(t, err, boom)
	assert.Equal(t, int64(3), sweep.All)
	purger.AssertExpectations(t)
}

func TestNotificationRetentionJob_Start_RejectsBadSchedule(t *testing.T) {
	job := jobs.NewNotificationRetentionJob(new(MockPurger), jobs.RetentionConfig{Schedule: "every day"}, discard)
	assert.Error(t, job.Start())
}

func TestOverdueDeliveryJob_Run_SetsGauge(t *testing.T) {
	// Given
	m := metrics.NewUnregistered()
	handler := new(MockOverdueHandler)
	handler.On("Handle", mock.Anything, mock.MatchedBy(func(q queries.ListOverdueDeliveriesQuery) bool {
		return q.Limit() > 0 && !q.Now().IsZero()
	})).Return(queries.OverdueDeliveries{
		Items: []queries.OverdueDelivery{{
			LogisticsID:         kernel.NewUUID(),
			TransactionID:       kernel.NewUUID(),
			Carrier:             "GreenFreight",
			Status:              "IN_TRANSIT",
			EstimatedDeliveryAt: time.Now().Add(-time.Hour),
		}},
		Total: 7,
	}, nil).Once()
	job := jobs.NewOverdueDeliveryJob(handler, "", m, discard)

	// When
	total, err := job.Run(context.Background())

	// Then
	require.NoError(t, err)
	assert.Equal(t, int64(7), total)
	assert.InDelta(t, 7.0, testutil.ToFloat64(m.OverdueDeliveries), 0)
	handler.AssertExpectations(t)
}

func TestOverdueDeliveryJob_Run_ResetsGaugeWhenNothingIsLate(t *testing.T) {
	// Given
	m := metrics.NewUnregistered()
	m.OverdueDeliveries.Set(5)
	handler := new(MockOverdueHandler)
	handler.On("Handle", mock.Anything, mock.Anything).Return(queries.OverdueDeliveries{}, nil).Once()
	job := jobs.NewOverdueDeliveryJob(handler, "", m, discard)

	// When
	total, err := job.Run(context.Background())

	// Then
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Zero(t, testutil.ToFloat64(m.OverdueDeliveries))
}

func TestOverdueDeliveryJob_Run_QueryFailureKeepsGauge(t *testing.T) {
	m := metrics.NewUnregistered()
	m.OverdueDeliveries.Set(2)
	handler := new(MockOverdueHandler)
	handler.On("Handle", mock.Anything, mock.Anything).Return(queries.OverdueDeliveries{}, errors.New("timeout")).Once()

	_, err := jobs.NewOverdueDeliveryJob(handler, "", m, discard).Run(context.Background())

	require.Error(t, err)
	assert.InDelta(t, 2.0, testutil.ToFloat64(m.OverdueDeliveries), 0)
}

func TestJobManager_StartAll_StopsStartedJobsOnFailure(t *testing.T) {
	manager := jobs.NewJobManager(jobs.Config{
		Retention:       jobs.RetentionConfig{ReadOlderThan: time.Hour},
		OverdueSchedule: "not a schedule",
	}, new(MockPurger), new(MockOverdueHandler), metrics.NewUnregistered(), discard)

	err := manager.StartAll()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "overdue delivery job")
}

func TestJobManager_StartAndStop(t *testing.T) {
	manager := jobs.NewJobManager(jobs.Config{}, new(MockPurger), new(MockOverdueHandler), metrics.NewUnregistered(), discard)

	require.NoError(t, manager.StartAll())
	manager.StopAll()
}
