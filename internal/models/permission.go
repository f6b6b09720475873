package models

// Permission is a capability bit grantable to a Role. Powers of two so that
// any combination of permissions has a unique value in the role's
// permissions field.
type Permission int

// Permission constants
const (
	PermissionFollow  Permission = 1
	PermissionComment Permission = 2
	PermissionWrite   Permission = 4
	PermissionAdmin   Permission = 8
)

// CombinePermissions returns the bitwise OR of the given permissions
func CombinePermissions(perms ...Permission) Permission {
	var combined Permission
	for _, p := range perms {
		combined |= p
	}
	return combined
}
