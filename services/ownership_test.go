// services/ownership_test.go
package services

import (
	"errors"
	"testing"

	"exercise-game-system/models"
	"exercise-game-system/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestRoleAllows(t *testing.T) {
	cases := []struct {
		role         Role
		requireOwner bool
		want         bool
	}{
		{RoleAdmin, false, true},
		{RoleAdmin, true, true},
		{RoleOwner, false, true},
		{RoleOwner, true, true},
		{RoleMember, false, true},
		{RoleMember, true, false},
		{RoleNone, false, false},
		{RoleNone, true, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, tc.role.Allows(tc.requireOwner),
			"role %s requireOwner=%v", tc.role, tc.requireOwner)
	}
}

func TestResolveRoleAdminShortCircuits(t *testing.T) {
	// the admin resolves before any lookup, so even a lookup error is moot
	role, err := resolveRole(models.AdminInstructorID, false, errors.New("db down"))
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, role)
}

func TestResolveRoleFromOwnershipEdge(t *testing.T) {
	role, err := resolveRole(7, true, nil)
	require.NoError(t, err)
	assert.Equal(t, RoleOwner, role)

	role, err = resolveRole(7, false, nil)
	require.NoError(t, err)
	assert.Equal(t, RoleMember, role)
}

func TestResolveRoleMissingEdgeIsNone(t *testing.T) {
	role, err := resolveRole(7, false, gorm.ErrRecordNotFound)
	require.NoError(t, err)
	assert.Equal(t, RoleNone, role)
}

func TestResolveRoleFailsClosed(t *testing.T) {
	lookupErr := errors.New("connection reset")
	role, err := resolveRole(7, true, lookupErr)
	assert.Equal(t, RoleNone, role)
	assert.ErrorIs(t, err, lookupErr)
}

func TestAuthorize(t *testing.T) {
	assert.NoError(t, Authorize(RoleAdmin, true))
	assert.NoError(t, Authorize(RoleOwner, true))
	assert.NoError(t, Authorize(RoleMember, false))

	err := Authorize(RoleMember, true)
	require.Error(t, err)
	assert.Equal(t, utils.KindForbidden, utils.AsAppError(err).Kind)

	err = Authorize(RoleNone, false)
	require.Error(t, err)
	assert.Equal(t, utils.KindForbidden, utils.AsAppError(err).Kind)
}

func TestRoleString(t *testing.T) {
	assert.Equal(t, "admin", RoleAdmin.String())
	assert.Equal(t, "owner", RoleOwner.String())
	assert.Equal(t, "member", RoleMember.String())
	assert.Equal(t, "none", RoleNone.String())
}
