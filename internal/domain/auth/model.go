// Package auth provides authentication and authorization domain logic.
package auth

import (
	"context"
	"time"

	"bricostore/internal/core/apperror"
	"bricostore/internal/core/id"
)

// Role codes.
const (
	// RoleOperator covers store staff: catalog queries, purchases,
	// payments, restocks.
	RoleOperator = "operator"

	// RoleManager additionally reads revenue reports.
	RoleManager = "manager"
)

// Permission codes checked by the transport layer.
const (
	PermissionRestock     = "catalog:restock"
	PermissionRevenueRead = "report:revenue:read"
	PermissionAuditRead   = "audit:read"
)

// rolePermissions maps role codes to their granted permissions.
// Authorization is static; there is no role administration surface.
var rolePermissions = map[string][]string{
	RoleOperator: {PermissionRestock},
	RoleManager:  {PermissionRestock, PermissionRevenueRead, PermissionAuditRead},
}

// PermissionsForRoles expands role codes into the deduplicated permission
// set they grant.
func PermissionsForRoles(roles []string) []string {
	seen := make(map[string]bool)
	var perms []string
	for _, role := range roles {
		for _, p := range rolePermissions[role] {
			if !seen[p] {
				seen[p] = true
				perms = append(perms, p)
			}
		}
	}
	return perms
}

// User represents a system user.
type User struct {
	ID           id.ID     `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Roles        []string  `db:"roles" json:"roles"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}

// NewUser creates a new user.
func NewUser(email, passwordHash string, roles []string) *User {
	return &User{
		ID:           id.New(),
		Email:        email,
		PasswordHash: passwordHash,
		Roles:        roles,
		CreatedAt:    time.Now(),
	}
}

// Validate validates user data.
func (u *User) Validate(ctx context.Context) error {
	if u.Email == "" {
		return apperror.NewValidation("email is required").WithDetail("field", "email")
	}
	if u.PasswordHash == "" {
		return apperror.NewValidation("password hash is required").WithDetail("field", "passwordHash")
	}
	return nil
}

// HasRole checks if user has a specific role.
func (u *User) HasRole(roleCode string) bool {
	for _, r := range u.Roles {
		if r == roleCode {
			return true
		}
	}
	return false
}

// Credentials for login.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Token is an issued access token.
type Token struct {
	AccessToken string    `json:"accessToken"`
	ExpiresAt   time.Time `json:"expiresAt"`
	TokenType   string    `json:"tokenType"`
}
