package types

// Role is the privilege level of a user. The raw role string kept by the user store is parsed
// into a Role once at ingestion, so access decisions never compare raw strings.
type Role int

const (
	RoleUser Role = iota
	RoleAdmin
)

// roleAdminLiteral is the only raw value that grants admin. The comparison is case-sensitive.
const roleAdminLiteral = "admin"

// ParseRole converts a raw role string to a Role. Anything other than exactly "admin" is an
// ordinary user.
func ParseRole(raw string) Role {
	if raw == roleAdminLiteral {
		return RoleAdmin
	}
	return RoleUser
}

// IsAdmin reports whether the role grants unconditional access
func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

// String returns the canonical string representation of the role
func (r Role) String() string {
	if r == RoleAdmin {
		return roleAdminLiteral
	}
	return "user"
}
