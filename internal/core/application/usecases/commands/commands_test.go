package commands_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/domain/model/identity"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/logistics"
	"marketplace/internal/core/domain/model/transaction"
	"marketplace/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCreateTransactionCommand_ValidInput(t *testing.T) {
	p := mustPrincipal()
	id := kernel.NewUUID()
	productID := kernel.NewUUID()

	cmd, err := commands.NewCreateTransactionCommand(p, id, productID, 4, transaction.Donation)

	require.NoError(t, err)
	require.NoError(t, cmd.Validate())
	assert.Equal(t, id, cmd.TransactionID())
	assert.Equal(t, productID, cmd.ProductID())
	assert.Equal(t, 4, cmd.Quantity())
	assert.Equal(t, transaction.Donation, cmd.Kind())
	assert.True(t, cmd.Principal().Is(p.UserID()))
}

func TestNewCreateTransactionCommand_InvalidInput(t *testing.T) {
	_, err := commands.NewCreateTransactionCommand(identity.Principal{}, kernel.UUID{}, kernel.NewUUID(), 0, transaction.UnknownKind)

	require.Error(t, err)
	assert.ErrorIs(t, err, identity.ErrPrincipalIsNotConstructed)
	assert.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
	assert.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestCreateTransactionCommand_ZeroValueIsNotConstructed(t *testing.T) {
	var cmd commands.CreateTransactionCommand

	assert.ErrorIs(t, cmd.Validate(), commands.ErrCreateTransactionCommandIsNotConstructed)
}

func TestNewAssignCarrierCommand(t *testing.T) {
	eta := time.Date(2026, 3, 1, 12, 0, 0, 0, time.FixedZone("CET", 3600))

	cmd, err := commands.NewAssignCarrierCommand(mustPrincipal(identity.RoleCarrier), kernel.NewUUID(), "  DHL ", " T-1 ", kernel.MustMoney("3"), &eta)

	require.NoError(t, err)
	assert.Equal(t, "DHL", cmd.Carrier())
	assert.Equal(t, "T-1", cmd.TrackingNumber())
	assert.Equal(t, time.UTC, cmd.EstimatedDeliveryAt().Location())
	assert.True(t, cmd.EstimatedDeliveryAt().Equal(eta))
}

func TestNewAssignCarrierCommand_CarrierRequired(t *testing.T) {
	_, err := commands.NewAssignCarrierCommand(mustPrincipal(), kernel.NewUUID(), " ", "", kernel.ZeroMoney(), nil)

	require.ErrorIs(t, err, errs.ErrValueIsRequired)
}

func TestNewRecordTrackingEventCommand_InvalidStatus(t *testing.T) {
	_, err := commands.NewRecordTrackingEventCommand(
		mustPrincipal(), kernel.NewUUID(), logistics.Status(99), time.Time{}, "", "", nil,
	)

	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestNewAppendAuditNoteCommand_DescriptionRequired(t *testing.T) {
	_, err := commands.NewAppendAuditNoteCommand(mustPrincipal(identity.RoleAdmin), kernel.NewUUID(), "\n")

	require.ErrorIs(t, err, errs.ErrValueIsRequired)
}

func TestRetryOnConflict(t *testing.T) {
	conflict := errs.NewConcurrencyConflictError("transaction", "x", 1)

	t.Run("retries conflicts until success", func(t *testing.T) {
		calls := 0
		err := commands.RetryOnConflict(t.Context(), 5, func(context.Context) error {
			calls++
			if calls < 3 {
				return conflict
			}
			return nil
		})

		require.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("returns other errors at once", func(t *testing.T) {
		calls := 0
		boom := errors.New("boom")
		err := commands.RetryOnConflict(t.Context(), 5, func(context.Context) error {
			calls++
			return boom
		})

		require.ErrorIs(t, err, boom)
		assert.Equal(t, 1, calls)
	})

	t.Run("gives up after attempts", func(t *testing.T) {
		calls := 0
		err := commands.RetryOnConflict(t.Context(), 2, func(context.Context) error {
			calls++
			return conflict
		})

		require.ErrorIs(t, err, errs.ErrConcurrencyConflict)
		assert.Equal(t, 2, calls)
	})

	t.Run("stops on cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(t.Context())
		cancel()

		err := commands.RetryOnConflict(ctx, 3, func(context.Context) error {
			t.Fatal("must not be called")
			return nil
		})

		require.ErrorIs(t, err, context.Canceled)
	})
}
