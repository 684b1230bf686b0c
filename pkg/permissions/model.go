// pkg/permissions/model.go
package permissions

import "github.com/google/uuid"

// Record is the aggregate root for a single user-within-tenant grant context.
// (UserID, TenantID) identifies at most one record; a nil TenantID means the
// grant is global (user-only). The record exclusively owns its child
// permission sets: they are loaded and deleted with the aggregate.
type Record struct {
	ID       uuid.UUID
	UserID   uuid.UUID
	TenantID *uuid.UUID

	UserPermissions   []UserPermission
	TenantPermissions []TenantPermission
}

// UserPermission is a named permission scoped to the user regardless of tenant.
type UserPermission struct {
	ID             uuid.UUID
	RecordID       uuid.UUID
	PermissionName string
}

// TenantPermission is a named permission scoped to the owning record's tenant.
type TenantPermission struct {
	ID             uuid.UUID
	RecordID       uuid.UUID
	PermissionName string
}

// ToClaim renders the permission as a claim string. This is the identity
// mapping: downstream claim matching relies on exact string equality, so the
// rendering must stay stable.
func (p UserPermission) ToClaim() string { return p.PermissionName }

// ToClaim renders the permission as a claim string (identity mapping).
func (p TenantPermission) ToClaim() string { return p.PermissionName }
