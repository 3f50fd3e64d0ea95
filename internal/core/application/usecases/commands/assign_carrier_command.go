package commands

import (
	"errors"
	"strings"
	"time"

	"marketplace/internal/core/domain/model/identity"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

var ErrAssignCarrierCommandIsNotConstructed = errors.New(
	"AssignCarrierCommand must be created via NewAssignCarrierCommand constructor",
)

// AssignCarrierCommand records who ships an accepted transaction, under which
// tracking number, for how much and when the goods are expected.
type AssignCarrierCommand struct { //nolint:recvcheck //using for validation
	principal           identity.Principal
	logisticsID         kernel.UUID
	carrier             string
	trackingNumber      string
	cost                kernel.Money
	estimatedDeliveryAt *time.Time

	guard guard.ConstructorGuard
}

func NewAssignCarrierCommand(
	principal identity.Principal,
	logisticsID kernel.UUID,
	carrier string,
	trackingNumber string,
	cost kernel.Money,
	estimatedDeliveryAt *time.Time,
) (AssignCarrierCommand, error) {
	carrier = strings.TrimSpace(carrier)
	var carrierErr error
	if carrier == "" {
		carrierErr = errs.NewValueIsRequiredError("carrier")
	}

	if err := errors.Join(
		principal.Validate(),
		logisticsID.Validate(),
		carrierErr,
	); err != nil {
		return AssignCarrierCommand{}, err
	}

	if estimatedDeliveryAt != nil {
		eta := estimatedDeliveryAt.UTC()
		estimatedDeliveryAt = &eta
	}

	return AssignCarrierCommand{
		principal:           principal,
		logisticsID:         logisticsID,
		carrier:             carrier,
		trackingNumber:      strings.TrimSpace(trackingNumber),
		cost:                cost,
		estimatedDeliveryAt: estimatedDeliveryAt,
		guard:               guard.NewConstructorGuard(),
	}, nil
}

func (c AssignCarrierCommand) Validate() error {
	return c.guard.Validate(ErrAssignCarrierCommandIsNotConstructed)
}

func (c AssignCarrierCommand) Principal() identity.Principal {
	return c.principal
}

func (c AssignCarrierCommand) LogisticsID() kernel.UUID {
	return c.logisticsID
}

func (c AssignCarrierCommand) Carrier() string {
	return c.carrier
}

func (c AssignCarrierCommand) TrackingNumber() string {
	return c.trackingNumber
}

func (c AssignCarrierCommand) Cost() kernel.Money {
	return c.cost
}

func (c AssignCarrierCommand) EstimatedDeliveryAt() *time.Time {
	return c.estimatedDeliveryAt
}

// requireCarrierIntegration allows carrier integrations and admins.
func requireCarrierIntegration(p identity.Principal, action string) error {
	if p.IsCarrier() || p.IsAdmin() {
		return nil
	}
	return errs.NewForbiddenError(action, "only carrier integrations and admins can update deliveries")
}
