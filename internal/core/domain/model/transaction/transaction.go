package transaction

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"marketplace/internal/core/domain/model/identity"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
)

var (
	// ErrTransactionIsNotConstructed is returned when a Transaction instance was not created
	// through NewTransaction or RestoreTransaction.
	ErrTransactionIsNotConstructed = errors.New("Transaction must be created via NewTransaction constructor")
)

// Transaction is the aggregate root of the ledger: one buyer asking one seller for a
// quantity of a product, either as a sale or as a donation.
//
// Transaction follows these invariants:
//   - buyer and seller are distinct users
//   - quantity is positive; price is non-negative and zero for donations
//   - price and quantity change only while the transaction is Pending
//   - status moves only along the edges described on Status
//   - a cancel reason is present exactly when the status is Cancelled
//   - every successful mutation increments version by one
//
// Authorization is part of the aggregate: every mutating method takes the acting
// identity.Principal and returns an errs.ForbiddenError before touching any state.
type Transaction struct {
	id              kernel.UUID
	kind            Kind
	status          Status
	price           kernel.Money
	quantity        int
	productID       kernel.UUID
	buyerID         kernel.UUID
	sellerID        kernel.UUID
	sellerCompanyID *kernel.UUID
	category        string
	version         int
	createdAt       time.Time
	updatedAt       time.Time
	acceptedAt      *time.Time
	completedAt     *time.Time
	cancelledAt     *time.Time
	cancelReason    string

	isConstructed bool
}

// NewTransaction opens a Pending transaction for buyerID against listing.
//
// Returns a validation error when the quantity is not positive or exceeds what the
// listing has available, when the buyer is the seller, or when any identifier is unset.
func NewTransaction(
	id kernel.UUID,
	kind Kind,
	buyerID kernel.UUID,
	listing Listing,
	quantity int,
	now time.Time,
) (*Transaction, error) {
	if err := errors.Join(id.Validate(), kind.Validate(), buyerID.Validate(), listing.Validate()); err != nil {
		return nil, err
	}
	if buyerID.IsEqual(listing.SellerID) {
		return nil, errs.NewValueIsInvalidErrorWithCause("buyer", errors.New("buyer and seller must differ"))
	}
	if quantity <= 0 || quantity > listing.Available {
		return nil, errs.NewValueIsOutOfRangeError("quantity", quantity, 1, listing.Available)
	}

	price := listing.UnitPrice
	if kind == Donation {
		price = kernel.ZeroMoney()
	}

	return &Transaction{
		id:              id,
		kind:            kind,
		status:          Pending,
		price:           price,
		quantity:        quantity,
		productID:       listing.ProductID,
		buyerID:         buyerID,
		sellerID:        listing.SellerID,
		sellerCompanyID: listing.SellerCompanyID,
		category:        strings.TrimSpace(listing.Category),
		version:         1,
		createdAt:       now,
		updatedAt:       now,
		isConstructed:   true,
	}, nil
}

// Snapshot is the flat persisted form of a Transaction.
type Snapshot struct {
	ID              kernel.UUID
	Kind            Kind
	Status          Status
	Price           kernel.Money
	Quantity        int
	ProductID       kernel.UUID
	BuyerID         kernel.UUID
	SellerID        kernel.UUID
	SellerCompanyID *kernel.UUID
	Category        string
	Version         int
	CreatedAt       time.Time
	UpdatedAt       time.Time
	AcceptedAt      *time.Time
	CompletedAt     *time.Time
	CancelledAt     *time.Time
	CancelReason    string
}

// RestoreTransaction rebuilds a Transaction from storage, re-checking the invariants
// that do not depend on the catalog.
func RestoreTransaction(s Snapshot) (*Transaction, error) {
	if err := errors.Join(
		s.ID.Validate(),
		s.Kind.Validate(),
		s.Status.Validate(),
		s.ProductID.Validate(),
		s.BuyerID.Validate(),
		s.SellerID.Validate(),
	); err != nil {
		return nil, err
	}
	if s.Quantity <= 0 {
		return nil, errs.NewValueIsInvalidErrorWithCause("quantity", fmt.Errorf("%d is not greater than 0", s.Quantity))
	}
	if s.Version < 1 {
		return nil, errs.NewValueIsInvalidErrorWithCause("version", fmt.Errorf("%d is not greater than 0", s.Version))
	}
	if (s.Status == Cancelled) != (s.CancelReason != "") {
		return nil, errs.NewValueIsInvalidErrorWithCause("cancel reason", fmt.Errorf("inconsistent with status %s", s.Status))
	}

	return &Transaction{
		id:              s.ID,
		kind:            s.Kind,
		status:          s.Status,
		price:           s.Price,
		quantity:        s.Quantity,
		productID:       s.ProductID,
		buyerID:         s.BuyerID,
		sellerID:        s.SellerID,
		sellerCompanyID: s.SellerCompanyID,
		category:        s.Category,
		version:         s.Version,
		createdAt:       s.CreatedAt,
		updatedAt:       s.UpdatedAt,
		acceptedAt:      s.AcceptedAt,
		completedAt:     s.CompletedAt,
		cancelledAt:     s.CancelledAt,
		cancelReason:    s.CancelReason,
		isConstructed:   true,
	}, nil
}

// Snapshot exports the current state for persistence.
func (t *Transaction) Snapshot() Snapshot {
	return Snapshot{
		ID:              t.id,
		Kind:            t.kind,
		Status:          t.status,
		Price:           t.price,
		Quantity:        t.quantity,
		ProductID:       t.productID,
		BuyerID:         t.buyerID,
		SellerID:        t.sellerID,
		SellerCompanyID: t.sellerCompanyID,
		Category:        t.category,
		Version:         t.version,
		CreatedAt:       t.createdAt,
		UpdatedAt:       t.updatedAt,
		AcceptedAt:      t.acceptedAt,
		CompletedAt:     t.completedAt,
		CancelledAt:     t.cancelledAt,
		CancelReason:    t.cancelReason,
	}
}

// Validate ensures the instance was built by a constructor.
func (t *Transaction) Validate() error {
	if t == nil || !t.isConstructed {
		return ErrTransactionIsNotConstructed
	}
	return nil
}

// ID returns the transaction identifier.
func (t *Transaction) ID() kernel.UUID {
	return t.id
}

func (t *Transaction) Kind() Kind {
	return t.kind
}

func (t *Transaction) Status() Status {
	return t.status
}

func (t *Transaction) Price() kernel.Money {
	return t.price
}

func (t *Transaction) Quantity() int {
	return t.quantity
}

func (t *Transaction) ProductID() kernel.UUID {
	return t.productID
}

func (t *Transaction) BuyerID() kernel.UUID {
	return t.buyerID
}

func (t *Transaction) SellerID() kernel.UUID {
	return t.sellerID
}

func (t *Transaction) SellerCompanyID() *kernel.UUID {
	return t.sellerCompanyID
}

func (t *Transaction) Category() string {
	return t.category
}

func (t *Transaction) Version() int {
	return t.version
}

func (t *Transaction) CreatedAt() time.Time {
	return t.createdAt
}

func (t *Transaction) UpdatedAt() time.Time {
	return t.updatedAt
}

func (t *Transaction) AcceptedAt() *time.Time {
	return t.acceptedAt
}

func (t *Transaction) CompletedAt() *time.Time {
	return t.completedAt
}

func (t *Transaction) CancelledAt() *time.Time {
	return t.cancelledAt
}

func (t *Transaction) CancelReason() string {
	return t.cancelReason
}

func (t *Transaction) Participants() [2]kernel.UUID {
	return [2]kernel.UUID{t.buyerID, t.sellerID}
}

// IsParticipant reports whether id is the buyer or the seller.
func (t *Transaction) IsParticipant(id kernel.UUID) bool {
	return t.buyerID.IsEqual(id) || t.sellerID.IsEqual(id)
}

// Total is unit price times quantity.
func (t *Transaction) Total() kernel.Money {
	return t.price.Mul(t.quantity)
}

// Authorize allows the buyer, the seller and admins.
func (t *Transaction) Authorize(p identity.Principal) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if p.IsAdmin() || t.IsParticipant(p.UserID()) {
		return nil
	}
	return errs.NewForbiddenError("access transaction", "caller is neither a participant nor an admin")
}

// Transition dispatches to Accept, Complete or Cancel based on target.
// Any other target is an invalid transition.
func (t *Transaction) Transition(p identity.Principal, target Status, reason string, now time.Time) error {
	switch target {
	case Accepted:
		return t.Accept(p, now)
	case Completed:
		return t.Complete(p, now)
	case Cancelled:
		return t.Cancel(p, reason, now)
	default:
		if err := t.Authorize(p); err != nil {
			return err
		}
		return errs.NewInvalidStateTransitionError("transaction", t.status.String(), target.String())
	}
}

// Accept moves Pending -> Accepted. Only the seller or an admin may accept.
func (t *Transaction) Accept(p identity.Principal, now time.Time) error {
	if err := t.Authorize(p); err != nil {
		return err
	}
	if !p.Is(t.sellerID) && !p.IsAdmin() {
		return errs.NewForbiddenError("accept transaction", "only the seller or an admin can accept")
	}

	next, err := t.status.TransitionTo(Accepted)
	if err != nil {
		return err
	}

	t.status = next
	t.acceptedAt = &now
	t.touch(now)
	return nil
}

// Complete moves Accepted -> Completed.
func (t *Transaction) Complete(p identity.Principal, now time.Time) error {
	if err := t.Authorize(p); err != nil {
		return err
	}

	next, err := t.status.TransitionTo(Completed)
	if err != nil {
		return err
	}

	t.status = next
	t.completedAt = &now
	t.touch(now)
	return nil
}

// Cancel moves Pending or Accepted -> Cancelled and records why.
func (t *Transaction) Cancel(p identity.Principal, reason string, now time.Time) error {
	if err := t.Authorize(p); err != nil {
		return err
	}

	next, err := t.status.TransitionTo(Cancelled)
	if err != nil {
		return err
	}

	reason = strings.TrimSpace(reason)
	if reason == "" {
		return errs.NewValueIsRequiredError("cancel reason")
	}

	t.status = next
	t.cancelReason = reason
	t.cancelledAt = &now
	t.touch(now)
	return nil
}

// ChangeTerms renegotiates a Pending transaction. Either party may change the quantity,
// only the seller (or an admin) may change the unit price. available is the catalog
// quantity at the time of the change.
func (t *Transaction) ChangeTerms(
	p identity.Principal,
	price *kernel.Money,
	quantity *int,
	available int,
	now time.Time,
) error {
	if err := t.Authorize(p); err != nil {
		return err
	}
	if t.status != Pending {
		return errs.NewValueIsInvalidErrorWithCause("terms", fmt.Errorf("terms are locked once the transaction is %s", t.status))
	}
	if price == nil && quantity == nil {
		return errs.NewValueIsRequiredError("price or quantity")
	}

	newPrice := t.price
	if price != nil {
		if !p.Is(t.sellerID) && !p.IsAdmin() {
			return errs.NewForbiddenError("change price", "only the seller or an admin can change the price")
		}
		if t.kind == Donation && !price.IsZero() {
			return errs.NewValueIsInvalidErrorWithCause("price", errors.New("donations are free"))
		}
		newPrice = *price
	}

	newQuantity := t.quantity
	if quantity != nil {
		if *quantity <= 0 || *quantity > available {
			return errs.NewValueIsOutOfRangeError("quantity", *quantity, 1, available)
		}
		newQuantity = *quantity
	}

	t.price = newPrice
	t.quantity = newQuantity
	t.touch(now)
	return nil
}

func (t *Transaction) touch(now time.Time) {
	t.version++
	t.updatedAt = now
}
