package transaction_test

import (
	"testing"
	"time"

	"marketplace/internal/core/domain/model/identity"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/transaction"
	"marketplace/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

type parties struct {
	buyer, seller, admin, stranger identity.Principal
}

func newParties(t *testing.T) parties {
	t.Helper()
	mk := func(roles ...identity.Role) identity.Principal {
		p, err := identity.NewPrincipal(kernel.NewUUID(), roles...)
		require.NoError(t, err)
		return p
	}
	return parties{
		buyer:    mk(),
		seller:   mk(),
		admin:    mk(identity.RoleAdmin),
		stranger: mk(),
	}
}

func newListing(seller identity.Principal) transaction.Listing {
	company := kernel.NewUUID()
	return transaction.Listing{
		ProductID:       kernel.NewUUID(),
		SellerID:        seller.UserID(),
		SellerCompanyID: &company,
		Category:        "textiles",
		UnitPrice:       kernel.MustMoney("4.50"),
		Available:       10,
	}
}

func newPending(t *testing.T, p parties) *transaction.Transaction {
	t.Helper()
	tx, err := transaction.NewTransaction(kernel.NewUUID(), transaction.Sale, p.buyer.UserID(), newListing(p.seller), 4, testNow)
	require.NoError(t, err)
	return tx
}

func TestNewTransaction(t *testing.T) {
	p := newParties(t)

	t.Run("opens pending at version 1", func(t *testing.T) {
		tx := newPending(t, p)

		assert.Equal(t, transaction.Pending, tx.Status())
		assert.Equal(t, 1, tx.Version())
		assert.Equal(t, "18.00", tx.Total().String())
		assert.True(t, tx.IsParticipant(p.buyer.UserID()))
		assert.True(t, tx.IsParticipant(p.seller.UserID()))
		require.NoError(t, tx.Validate())
	})

	t.Run("donation is free", func(t *testing.T) {
		tx, err := transaction.NewTransaction(kernel.NewUUID(), transaction.Donation, p.buyer.UserID(), newListing(p.seller), 1, testNow)

		require.NoError(t, err)
		assert.True(t, tx.Price().IsZero())
	})

	t.Run("rejects buying from yourself", func(t *testing.T) {
		_, err := transaction.NewTransaction(kernel.NewUUID(), transaction.Sale, p.seller.UserID(), newListing(p.seller), 1, testNow)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("rejects quantity above availability", func(t *testing.T) {
		_, err := transaction.NewTransaction(kernel.NewUUID(), transaction.Sale, p.buyer.UserID(), newListing(p.seller), 11, testNow)

		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})

	t.Run("rejects non positive quantity", func(t *testing.T) {
		_, err := transaction.NewTransaction(kernel.NewUUID(), transaction.Sale, p.buyer.UserID(), newListing(p.seller), 0, testNow)

		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})

	t.Run("rejects unknown kind", func(t *testing.T) {
		_, err := transaction.NewTransaction(kernel.NewUUID(), transaction.UnknownKind, p.buyer.UserID(), newListing(p.seller), 1, testNow)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestTransaction_Accept(t *testing.T) {
	p := newParties(t)

	t.Run("seller accepts", func(t *testing.T) {
		tx := newPending(t, p)

		require.NoError(t, tx.Accept(p.seller, testNow))
		assert.Equal(t, transaction.Accepted, tx.Status())
		assert.Equal(t, 2, tx.Version())
		require.NotNil(t, tx.AcceptedAt())
	})

	t.Run("admin accepts", func(t *testing.T) {
		tx := newPending(t, p)

		require.NoError(t, tx.Accept(p.admin, testNow))
	})

	t.Run("buyer cannot accept", func(t *testing.T) {
		tx := newPending(t, p)

		require.ErrorIs(t, tx.Accept(p.buyer, testNow), errs.ErrForbidden)
		assert.Equal(t, transaction.Pending, tx.Status())
		assert.Equal(t, 1, tx.Version())
	})

	t.Run("non participant cannot accept", func(t *testing.T) {
		tx := newPending(t, p)

		require.ErrorIs(t, tx.Accept(p.stranger, testNow), errs.ErrForbidden)
		assert.Equal(t, transaction.Pending, tx.Status())
	})
}

func TestTransaction_Lifecycle(t *testing.T) {
	p := newParties(t)
	tx := newPending(t, p)

	require.NoError(t, tx.Accept(p.seller, testNow))
	require.NoError(t, tx.Complete(p.buyer, testNow.Add(time.Hour)))
	assert.Equal(t, transaction.Completed, tx.Status())
	assert.Equal(t, 3, tx.Version())

	err := tx.Cancel(p.buyer, "changed my mind", testNow.Add(2*time.Hour))
	require.ErrorIs(t, err, errs.ErrInvalidStateTransition)
	assert.Equal(t, transaction.Completed, tx.Status())
	assert.Equal(t, 3, tx.Version())
}

func TestTransaction_Cancel(t *testing.T) {
	p := newParties(t)

	t.Run("requires reason", func(t *testing.T) {
		tx := newPending(t, p)

		require.ErrorIs(t, tx.Cancel(p.buyer, "   ", testNow), errs.ErrValueIsRequired)
		assert.Equal(t, transaction.Pending, tx.Status())
	})

	t.Run("from accepted", func(t *testing.T) {
		tx := newPending(t, p)
		require.NoError(t, tx.Accept(p.seller, testNow))

		require.NoError(t, tx.Cancel(p.seller, "stock damaged", testNow))
		assert.Equal(t, transaction.Cancelled, tx.Status())
		assert.Equal(t, "stock damaged", tx.CancelReason())
	})

	t.Run("cancelled is terminal", func(t *testing.T) {
		tx := newPending(t, p)
		require.NoError(t, tx.Cancel(p.buyer, "duplicate", testNow))

		require.ErrorIs(t, tx.Accept(p.seller, testNow), errs.ErrInvalidStateTransition)
		require.ErrorIs(t, tx.Complete(p.seller, testNow), errs.ErrInvalidStateTransition)
	})
}

func TestTransaction_Transition_UnknownTarget(t *testing.T) {
	p := newParties(t)
	tx := newPending(t, p)

	require.ErrorIs(t, tx.Transition(p.buyer, transaction.Pending, "", testNow), errs.ErrInvalidStateTransition)
	require.ErrorIs(t, tx.Transition(p.stranger, transaction.Pending, "", testNow), errs.ErrForbidden)
}

func TestTransaction_ChangeTerms(t *testing.T) {
	p := newParties(t)

	t.Run("seller changes price", func(t *testing.T) {
		tx := newPending(t, p)
		price := kernel.MustMoney("3.00")

		require.NoError(t, tx.ChangeTerms(p.seller, &price, nil, 10, testNow))
		assert.Equal(t, "3.00", tx.Price().String())
		assert.Equal(t, 2, tx.Version())
	})

	t.Run("buyer cannot change price", func(t *testing.T) {
		tx := newPending(t, p)
		price := kernel.MustMoney("1.00")

		require.ErrorIs(t, tx.ChangeTerms(p.buyer, &price, nil, 10, testNow), errs.ErrForbidden)
	})

	t.Run("buyer changes quantity within availability", func(t *testing.T) {
		tx := newPending(t, p)
		qty := 6

		require.NoError(t, tx.ChangeTerms(p.buyer, nil, &qty, 6, testNow))
		assert.Equal(t, 6, tx.Quantity())

		qty = 7
		require.ErrorIs(t, tx.ChangeTerms(p.buyer, nil, &qty, 6, testNow), errs.ErrValueIsOutOfRange)
	})

	t.Run("locked after acceptance", func(t *testing.T) {
		tx := newPending(t, p)
		require.NoError(t, tx.Accept(p.seller, testNow))
		qty := 1

		require.ErrorIs(t, tx.ChangeTerms(p.buyer, nil, &qty, 10, testNow), errs.ErrValueIsInvalid)
		assert.Equal(t, 4, tx.Quantity())
	})
}

func TestRestoreTransaction(t *testing.T) {
	p := newParties(t)
	tx := newPending(t, p)
	require.NoError(t, tx.Cancel(p.seller, "sold elsewhere", testNow))

	restored, err := transaction.RestoreTransaction(tx.Snapshot())

	require.NoError(t, err)
	assert.Equal(t, tx.Snapshot(), restored.Snapshot())

	broken := tx.Snapshot()
	broken.CancelReason = ""
	_, err = transaction.RestoreTransaction(broken)
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestTransaction_ZeroValueIsNotConstructed(t *testing.T) {
	var tx *transaction.Transaction
	assert.Equal(t, transaction.ErrTransactionIsNotConstructed, tx.Validate())
}
