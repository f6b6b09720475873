package models

// Role represents a named bundle of permissions assigned to users
type Role struct {
	ID          int64      `gorm:"primaryKey;autoIncrement;column:id"`
	Name        string     `gorm:"type:varchar(64);not null;uniqueIndex:roles_ux1;column:name"`
	Default     bool       `gorm:"not null;default:false;index;column:is_default"`
	Permissions Permission `gorm:"not null;default:0;column:permissions"`

	Users []User `gorm:"foreignKey:RoleID;references:ID"`
}

// TableName specifies the table name for Role
func (Role) TableName() string {
	return "roles"
}

// Well-known role names
const (
	RoleNameUser          = "User"
	RoleNameModerator     = "Moderator"
	RoleNameAdministrator = "Administrator"
)

// SeedPermissions lists the permissions granted to each well-known role.
// RoleNameUser is the default role for new users.
var SeedPermissions = map[string][]Permission{
	RoleNameUser:          {PermissionFollow, PermissionComment, PermissionWrite},
	RoleNameModerator:     {PermissionFollow, PermissionComment, PermissionWrite},
	RoleNameAdministrator: {PermissionFollow, PermissionComment, PermissionWrite, PermissionAdmin},
}

// HasPermission reports whether every bit of the given permission is set
func (r *Role) HasPermission(p Permission) bool {
	return r.Permissions&p == p
}

// AddPermission grants the given permission. Adding an already held
// permission is a no-op.
func (r *Role) AddPermission(p Permission) {
	if !r.HasPermission(p) {
		r.Permissions |= p
	}
}

// RemovePermission revokes the given permission. Removing a permission that
// is not held is a no-op.
func (r *Role) RemovePermission(p Permission) {
	r.Permissions &^= p
}

// ResetPermissions revokes all permissions
func (r *Role) ResetPermissions() {
	r.Permissions = 0
}
