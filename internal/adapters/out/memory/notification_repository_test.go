package memory_test

import (
	"testing"
	"time"

	"marketplace/internal/adapters/out/memory"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/notification"
	"marketplace/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newNotification(t *testing.T, userID kernel.UUID, createdAt time.Time) *notification.Notification {
	t.Helper()
	n, err := notification.NewNotification(
		kernel.NewUUID(), userID, notification.TypeAnnouncement, "Hello", "World", nil, notification.Low, createdAt,
	)
	require.NoError(t, err)
	return n
}

func TestNotificationRepository_MarkReadIsIdempotent(t *testing.T) {
	ctx := t.Context()
	store := memory.NewStore()
	repo := memory.NewNotificationRepository(store)
	n := newNotification(t, kernel.NewUUID(), time.Now().UTC())
	require.NoError(t, repo.Add(ctx, n))

	first := time.Now().UTC()
	require.NoError(t, repo.MarkRead(ctx, n.ID(), first))
	require.NoError(t, repo.MarkRead(ctx, n.ID(), first.Add(time.Minute)))

	got, err := repo.Get(ctx, n.ID())
	require.NoError(t, err)
	require.NotNil(t, got.ReadAt())
	assert.True(t, got.ReadAt().Equal(first))
}

func TestNotificationRepository_MarkAllRead(t *testing.T) {
	ctx := t.Context()
	store := memory.NewStore()
	repo := memory.NewNotificationRepository(store)
	userID := kernel.NewUUID()
	for range 3 {
		require.NoError(t, repo.Add(ctx, newNotification(t, userID, time.Now().UTC())))
	}
	require.NoError(t, repo.Add(ctx, newNotification(t, kernel.NewUUID(), time.Now().UTC())))

	changed, err := repo.MarkAllRead(ctx, userID, time.Now().UTC())
	require.NoError(t, err)
	assert.EqualValues(t, 3, changed)

	changed, err = repo.MarkAllRead(ctx, userID, time.Now().UTC())
	require.NoError(t, err)
	assert.EqualValues(t, 0, changed)
}

func TestNotificationRepository_Purge(t *testing.T) {
	ctx := t.Context()
	store := memory.NewStore()
	repo := memory.NewNotificationRepository(store)
	userID := kernel.NewUUID()
	now := time.Now().UTC()

	oldRead := newNotification(t, userID, now.Add(-48*time.Hour))
	oldUnread := newNotification(t, userID, now.Add(-48*time.Hour))
	fresh := newNotification(t, userID, now)
	for _, n := range []*notification.Notification{oldRead, oldUnread, fresh} {
		require.NoError(t, repo.Add(ctx, n))
	}
	require.NoError(t, repo.MarkRead(ctx, oldRead.ID(), now))

	purged, err := repo.Purge(ctx, now.Add(-24*time.Hour), true)
	require.NoError(t, err)
	assert.EqualValues(t, 1, purged)

	purged, err = repo.Purge(ctx, now.Add(-24*time.Hour), false)
	require.NoError(t, err)
	assert.EqualValues(t, 1, purged)

	left := store.NotificationsOf(userID)
	require.Len(t, left, 1)
	assert.True(t, left[0].ID().IsEqual(fresh.ID()))
}

func TestNotificationRepository_DeleteUnknown(t *testing.T) {
	repo := memory.NewNotificationRepository(memory.NewStore())

	err := repo.Delete(t.Context(), kernel.NewUUID())

	require.ErrorIs(t, err, errs.ErrObjectNotFound)
}
