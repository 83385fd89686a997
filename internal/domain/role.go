package domain

// RoleName is the closed set of caller roles. ADMIN is a strict superset of
// USER; there is no further hierarchy.
type RoleName string

const (
	RoleUser  RoleName = "ROLE_USER"
	RoleAdmin RoleName = "ROLE_ADMIN"
)

// Valid reports whether the role is one of the known values.
func (r RoleName) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}
