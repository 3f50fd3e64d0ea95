package logistics_test

import (
	"testing"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/logistics"
	"marketplace/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 4, 2, 8, 0, 0, 0, time.UTC)

func newLogistics(t *testing.T) *logistics.Logistics {
	t.Helper()
	l, err := logistics.NewLogistics(kernel.NewUUID(), kernel.NewUUID(), logistics.Details{
		PickupAddress:   " Warehouse 4, Dock B ",
		DeliveryAddress: "Repair Cafe, Main St 1",
	}, t0)
	require.NoError(t, err)
	return l
}

func TestNewLogistics(t *testing.T) {
	l := newLogistics(t)

	assert.Equal(t, logistics.Pending, l.Status())
	assert.Equal(t, "Warehouse 4, Dock B", l.Details().PickupAddress)
	assert.Empty(t, l.Events())
	assert.Nil(t, l.ActualDeliveryAt())

	_, err := logistics.NewLogistics(kernel.UUID{}, kernel.NewUUID(), logistics.Details{}, t0)
	require.Error(t, err)
}

func TestLogistics_HappyPath(t *testing.T) {
	l := newLogistics(t)

	picked, err := l.RecordStatus(kernel.NewUUID(), logistics.InTransit, t0.Add(time.Hour), "Dock B", "picked up", nil, t0)
	require.NoError(t, err)
	assert.Equal(t, 1, picked.Sequence())
	require.NotNil(t, l.PickupAt())
	assert.Equal(t, t0.Add(time.Hour), *l.PickupAt())

	point, err := kernel.NewGeoPoint(52.52, 13.405)
	require.NoError(t, err)
	_, err = l.RecordStatus(kernel.NewUUID(), logistics.InTransit, t0.Add(2*time.Hour), "Berlin hub", "sorted", &point, t0)
	require.NoError(t, err)
	assert.Equal(t, t0.Add(time.Hour), *l.PickupAt(), "pickup is stamped once")

	_, err = l.RecordStatus(kernel.NewUUID(), logistics.Delivered, t0.Add(3*time.Hour), "Main St 1", "signed", nil, t0)
	require.NoError(t, err)
	assert.Equal(t, logistics.Delivered, l.Status())
	require.NotNil(t, l.ActualDeliveryAt())
	assert.Len(t, l.Events(), 3)
}

func TestLogistics_RejectsRegression(t *testing.T) {
	tests := []struct {
		name  string
		path  []logistics.Status
		next  logistics.Status
		legal bool
	}{
		{name: "pending to delivered skips transit", next: logistics.Delivered},
		{name: "pending to pending", next: logistics.Pending},
		{name: "pending to exception", next: logistics.Exception, legal: true},
		{name: "transit back to pending", path: []logistics.Status{logistics.InTransit}, next: logistics.Pending},
		{name: "delivered is terminal", path: []logistics.Status{logistics.InTransit, logistics.Delivered}, next: logistics.InTransit},
		{name: "exception is terminal", path: []logistics.Status{logistics.Exception}, next: logistics.InTransit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := newLogistics(t)
			for i, s := range tt.path {
				_, err := l.RecordStatus(kernel.NewUUID(), s, t0.Add(time.Duration(i)*time.Minute), "", "", nil, t0)
				require.NoError(t, err)
			}
			before := l.Status()
			eventsBefore := len(l.Events())

			_, err := l.RecordStatus(kernel.NewUUID(), tt.next, t0.Add(time.Hour), "", "", nil, t0)

			if tt.legal {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, errs.ErrInvalidStateTransition)
			assert.Equal(t, before, l.Status())
			assert.Len(t, l.Events(), eventsBefore)
		})
	}
}

func TestLogistics_EventsOrderedByTimestampThenInsertion(t *testing.T) {
	l := newLogistics(t)

	late, err := l.RecordStatus(kernel.NewUUID(), logistics.InTransit, t0.Add(2*time.Hour), "", "second", nil, t0)
	require.NoError(t, err)
	early, err := l.RecordStatus(kernel.NewUUID(), logistics.InTransit, t0.Add(time.Hour), "", "first", nil, t0)
	require.NoError(t, err)
	tie, err := l.RecordStatus(kernel.NewUUID(), logistics.InTransit, t0.Add(2*time.Hour), "", "third", nil, t0)
	require.NoError(t, err)

	events := l.Events()
	require.Len(t, events, 3)
	assert.Equal(t, early.ID(), events[0].ID())
	assert.Equal(t, late.ID(), events[1].ID())
	assert.Equal(t, tie.ID(), events[2].ID())
	for i := 1; i < len(events); i++ {
		assert.False(t, events[i].OccurredAt().Before(events[i-1].OccurredAt()))
	}
}

func TestLogistics_AssignCarrier(t *testing.T) {
	l := newLogistics(t)
	eta := t0.Add(48 * time.Hour)

	require.NoError(t, l.AssignCarrier("GreenFreight", " GF-123 ", kernel.MustMoney("25"), &eta, t0))
	require.NotNil(t, l.TrackingNumber())
	assert.Equal(t, "GF-123", *l.TrackingNumber())
	assert.Equal(t, "25.00", l.Cost().String())

	require.ErrorIs(t, l.AssignCarrier(" ", "", kernel.ZeroMoney(), nil, t0), errs.ErrValueIsRequired)

	_, err := l.RecordStatus(kernel.NewUUID(), logistics.Exception, t0, "", "lost", nil, t0)
	require.NoError(t, err)
	require.ErrorIs(t, l.AssignCarrier("Other", "", kernel.ZeroMoney(), nil, t0), errs.ErrValueIsInvalid)
}

func TestLogistics_AuditNoteOnTerminalRecord(t *testing.T) {
	l := newLogistics(t)
	_, err := l.RecordStatus(kernel.NewUUID(), logistics.Exception, t0, "", "damaged", nil, t0)
	require.NoError(t, err)

	note, err := l.AppendAuditNote(kernel.NewUUID(), "insurance claim filed", t0.Add(time.Hour))

	require.NoError(t, err)
	assert.Equal(t, logistics.AuditLabel, note.Label())
	assert.Equal(t, 2, note.Sequence())
	assert.Equal(t, logistics.Exception, l.Status())

	_, err = l.AppendAuditNote(kernel.NewUUID(), "", t0)
	require.ErrorIs(t, err, errs.ErrValueIsRequired)
}

func TestIsOverdue(t *testing.T) {
	eta := t0.Add(time.Hour)
	delivered := t0.Add(2 * time.Hour)

	assert.False(t, logistics.IsOverdue(nil, nil, t0.Add(24*time.Hour)))
	assert.False(t, logistics.IsOverdue(&eta, nil, t0))
	assert.True(t, logistics.IsOverdue(&eta, nil, t0.Add(90*time.Minute)))
	assert.False(t, logistics.IsOverdue(&eta, &delivered, t0.Add(3*time.Hour)))
}

func TestRestoreLogistics(t *testing.T) {
	l := newLogistics(t)
	_, err := l.RecordStatus(kernel.NewUUID(), logistics.InTransit, t0, "", "", nil, t0)
	require.NoError(t, err)

	restored, err := logistics.RestoreLogistics(l.Snapshot(), l.Events())

	require.NoError(t, err)
	assert.Equal(t, l.Snapshot(), restored.Snapshot())
	assert.Len(t, restored.Events(), 1)

	next, err := restored.RecordStatus(kernel.NewUUID(), logistics.Delivered, t0.Add(time.Hour), "", "", nil, t0)
	require.NoError(t, err)
	assert.Equal(t, 2, next.Sequence())

	broken := l.Snapshot()
	broken.Status = logistics.Delivered
	_, err = logistics.RestoreLogistics(broken, nil)
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestLogistics_EveryMutationBumpsVersion(t *testing.T) {
	// Given
	l := newLogistics(t)
	require.Equal(t, 1, l.Version())

	// When
	require.NoError(t, l.AssignCarrier("EcoPost", "EP-1", kernel.MustMoney("5"), nil, t0))
	_, err := l.RecordStatus(kernel.NewUUID(), logistics.InTransit, t0, "", "", nil, t0)
	require.NoError(t, err)
	_, err = l.AppendAuditNote(kernel.NewUUID(), "checked", t0)
	require.NoError(t, err)

	// Then
	assert.Equal(t, 4, l.Version())

	// A rejected mutation leaves the token alone
	_, err = l.RecordStatus(kernel.NewUUID(), logistics.Pending, t0, "", "", nil, t0)
	require.Error(t, err)
	assert.Equal(t, 4, l.Version())

	zero := l.Snapshot()
	zero.Version = 0
	_, err = logistics.RestoreLogistics(zero, nil)
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}
