package identity_test

import (
	"testing"

	"marketplace/internal/core/domain/model/identity"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPrincipal(t *testing.T) {
	t.Run("defaults to user role", func(t *testing.T) {
		p, err := identity.NewPrincipal(kernel.NewUUID())

		require.NoError(t, err)
		assert.Equal(t, []identity.Role{identity.RoleUser}, p.Roles())
		assert.False(t, p.IsAdmin())
		assert.False(t, p.IsCarrier())
	})

	t.Run("deduplicates roles", func(t *testing.T) {
		p, err := identity.NewPrincipal(kernel.NewUUID(), identity.RoleAdmin, identity.RoleCarrier, identity.RoleAdmin)

		require.NoError(t, err)
		assert.Len(t, p.Roles(), 2)
		assert.True(t, p.IsAdmin())
		assert.True(t, p.IsCarrier())
	})

	t.Run("requires user id", func(t *testing.T) {
		_, err := identity.NewPrincipal(kernel.UUID{})

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})
}

func TestPrincipal_Is(t *testing.T) {
	userID := kernel.NewUUID()
	p, err := identity.NewPrincipal(userID)
	require.NoError(t, err)

	assert.True(t, p.Is(userID))
	assert.False(t, p.Is(kernel.NewUUID()))

	var zero identity.Principal
	assert.False(t, zero.Is(kernel.UUID{}))
	assert.Equal(t, identity.ErrPrincipalIsNotConstructed, zero.Validate())
}

func TestParseRole(t *testing.T) {
	r, err := identity.ParseRole(" carrier ")
	require.NoError(t, err)
	assert.Equal(t, identity.RoleCarrier, r)

	_, err = identity.ParseRole("root")
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestPrincipal_MemberOf(t *testing.T) {
	companyID := kernel.NewUUID()
	p, err := identity.NewPrincipal(kernel.NewUUID())
	require.NoError(t, err)
	assert.False(t, p.MemberOf(companyID))
	assert.Nil(t, p.CompanyID())

	member, err := p.WithCompany(companyID)
	require.NoError(t, err)
	assert.True(t, member.MemberOf(companyID))
	assert.False(t, member.MemberOf(kernel.NewUUID()))
	assert.False(t, p.MemberOf(companyID), "WithCompany must not change the receiver")

	_, err = p.WithCompany(kernel.UUID{})
	require.ErrorIs(t, err, errs.ErrValueIsRequired)

	var zero identity.Principal
	_, err = zero.WithCompany(companyID)
	require.ErrorIs(t, err, identity.ErrPrincipalIsNotConstructed)
}
