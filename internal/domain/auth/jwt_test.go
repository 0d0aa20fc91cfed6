package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateToken(t *testing.T) {
	svc := NewJWTService(DefaultJWTConfig("test-secret"))

	token, expiresAt, err := svc.GenerateAccessToken(
		"u1", "manager@store.test",
		[]string{RoleManager},
		PermissionsForRoles([]string{RoleManager}),
	)
	require.NoError(t, err)
	assert.True(t, expiresAt.After(time.Now()))

	uc, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", uc.UserID)
	assert.Equal(t, "manager@store.test", uc.Email)
	assert.Contains(t, uc.Roles, RoleManager)
	assert.Contains(t, uc.Permissions, PermissionRevenueRead)
	assert.Contains(t, uc.Permissions, PermissionRestock)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	issuer := NewJWTService(DefaultJWTConfig("secret-a"))
	verifier := NewJWTService(DefaultJWTConfig("secret-b"))

	token, _, err := issuer.GenerateAccessToken("u1", "x@y.test", nil, nil)
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateToken_Expired(t *testing.T) {
	cfg := DefaultJWTConfig("test-secret")
	cfg.AccessTokenTTL = -time.Minute
	svc := NewJWTService(cfg)

	token, _, err := svc.GenerateAccessToken("u1", "x@y.test", nil, nil)
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.Error(t, err)
}

func TestPermissionsForRoles(t *testing.T) {
	assert.Equal(t, []string{PermissionRestock}, PermissionsForRoles([]string{RoleOperator}))

	both := PermissionsForRoles([]string{RoleOperator, RoleManager})
	assert.Len(t, both, 3)
	assert.Contains(t, both, PermissionAuditRead)

	assert.Empty(t, PermissionsForRoles([]string{"ghost"}))
}
