// Package permissions maps user roles to the actions they may perform on
// catalog entries. The acting role is always passed in explicitly; nothing
// here reads ambient state, so a role change mid-session is just a different
// parameter on the next call.
package permissions

// Role identifies the acting user's role.
type Role string

const (
	RoleAdmin   Role = "Admin"
	RoleManager Role = "Manager"
	RoleClerk   Role = "Clerk"
)

// CanEdit reports whether the role may create or update catalog entries.
// Unrecognized roles are denied (fail-closed).
func CanEdit(role Role) bool {
	switch role {
	case RoleAdmin, RoleManager:
		return true
	}
	return false
}

// CanDelete reports whether the role may delete catalog entries.
// Unrecognized roles are denied (fail-closed).
func CanDelete(role Role) bool {
	switch role {
	case RoleAdmin, RoleManager:
		return true
	}
	return false
}

// CanSelectForBulk reports whether the role may check rows for bulk actions.
// Selection itself is not gated; only the mutating actions are.
func CanSelectForBulk(role Role) bool {
	return true
}
