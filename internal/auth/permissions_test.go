package auth

import (
	"testing"

	"oriventa_backend/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestPolicy_EveryPermissionHasRoles(t *testing.T) {
	for perm, roles := range Policy {
		assert.NotEmpty(t, roles, "permission %s has no roles", perm)
		for _, r := range roles {
			assert.True(t, r.IsValid(), "permission %s references unknown role %s", perm, r)
		}
	}
}

func TestHasPermission(t *testing.T) {
	tests := []struct {
		role       models.UserRole
		permission Permission
		want       bool
	}{
		{models.UserRoleManager, PermUsersManage, true},
		{models.UserRoleAdmin, PermUsersManage, true},
		{models.UserRoleCandidateService, PermUsersManage, false},
		{models.UserRoleCandidateService, PermUsersList, true},
		{models.UserRoleClient, PermUsersList, false},
		{models.UserRoleCustomerService, PermConsultationsWrite, true},
		{models.UserRoleCustomerService, PermDossiersRead, false},
		{models.UserRoleResumeService, PermResumesWrite, true},
		{models.UserRoleResumeService, PermContactsRead, false},
		{models.UserRoleCandidateService, PermSuiviRead, true},
		{models.UserRoleCandidateService, PermSuiviWrite, false},
		{models.UserRoleClient, PermSuiviSelf, true},
		{models.UserRoleAdmin, PermSuiviSelf, false},
		{"", PermDossiersRead, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.role)+"/"+string(tt.permission), func(t *testing.T) {
			assert.Equal(t, tt.want, HasPermission(tt.role, tt.permission))
		})
	}
}

func TestIdentity_Can(t *testing.T) {
	var nilIdentity *Identity
	assert.False(t, nilIdentity.Can(PermDossiersRead))

	id := &Identity{ID: "u1", Role: models.UserRoleAdmin}
	assert.True(t, id.Can(PermDossiersRead))
}

func TestPasswordHelpers(t *testing.T) {
	assert.ErrorIs(t, ValidatePassword("12345"), ErrPasswordTooShort)
	assert.NoError(t, ValidatePassword("123456"))

	hash, err := HashPassword("secret1")
	assert.NoError(t, err)
	assert.NotEqual(t, "secret1", hash)
	assert.True(t, CheckPasswordHash("secret1", hash))
	assert.False(t, CheckPasswordHash("secret2", hash))
}
