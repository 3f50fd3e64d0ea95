package notification

import (
	"fmt"

	"marketplace/internal/pkg/errs"
)

// Type names the business event a notification reports.
type Type string

const (
	TypeTransactionRequested    Type = "TRANSACTION_REQUESTED"
	TypeTransactionAccepted     Type = "TRANSACTION_ACCEPTED"
	TypeTransactionCompleted    Type = "TRANSACTION_COMPLETED"
	TypeTransactionCancelled    Type = "TRANSACTION_CANCELLED"
	TypeTransactionTermsChanged Type = "TRANSACTION_TERMS_CHANGED"
	TypeLogisticsUpdated        Type = "LOGISTICS_UPDATED"
	TypeDeliveryException       Type = "DELIVERY_EXCEPTION"
	TypeAnnouncement            Type = "ANNOUNCEMENT"
)

var knownTypes = []Type{
	TypeTransactionRequested,
	TypeTransactionAccepted,
	TypeTransactionCompleted,
	TypeTransactionCancelled,
	TypeTransactionTermsChanged,
	TypeLogisticsUpdated,
	TypeDeliveryException,
	TypeAnnouncement,
}

func (t Type) Validate() error {
	for _, known := range knownTypes {
		if t == known {
			return nil
		}
	}
	return errs.NewValueIsInvalidErrorWithCause("type", fmt.Errorf("%q is not a known notification type", string(t)))
}
