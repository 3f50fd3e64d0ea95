package queries

import (
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/guard"
)

var ErrCountUnreadNotificationsQueryIsNotConstructed = errors.New(
	"CountUnreadNotificationsQuery must be created via NewCountUnreadNotificationsQuery constructor",
)

type CountUnreadNotificationsQuery struct { //nolint:recvcheck //using for validation
	userID kernel.UUID

	guard guard.ConstructorGuard
}

func NewCountUnreadNotificationsQuery(userID kernel.UUID) (CountUnreadNotificationsQuery, error) {
	if err := userID.Validate(); err != nil {
		return CountUnreadNotificationsQuery{}, err
	}
	return CountUnreadNotificationsQuery{userID: userID, guard: guard.NewConstructorGuard()}, nil
}

func (q CountUnreadNotificationsQuery) Validate() error {
	return q.guard.Validate(ErrCountUnreadNotificationsQueryIsNotConstructed)
}

func (q CountUnreadNotificationsQuery) UserID() kernel.UUID {
	return q.userID
}
