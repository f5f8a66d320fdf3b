package model

import "strings"

// Role is the closed set of account roles.
type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleStaff    Role = "STAFF"
	RoleCustomer Role = "CUSTOMER"
)

// Permission names a single capability checked by use cases and middleware.
type Permission string

const (
	PermPlaceOrders    Permission = "orders:place"
	PermViewAllOrders  Permission = "orders:view_all"
	PermCancelAnyOrder Permission = "orders:cancel_any"
	PermRedeemOrders   Permission = "orders:redeem"
	PermViewPayments   Permission = "payments:view"
	PermManageCatalog  Permission = "catalog:manage"
	PermViewInactive   Permission = "catalog:view_inactive"
	PermManageUsers    Permission = "users:manage"
	PermWatchOrderFeed Permission = "events:watch"
	PermViewStatistics Permission = "stats:view"
)

var rolePermissions = map[Role]map[Permission]struct{}{
	RoleAdmin: {
		PermPlaceOrders:    {},
		PermViewAllOrders:  {},
		PermCancelAnyOrder: {},
		PermRedeemOrders:   {},
		PermViewPayments:   {},
		PermManageCatalog:  {},
		PermViewInactive:   {},
		PermManageUsers:    {},
		PermWatchOrderFeed: {},
		PermViewStatistics: {},
	},
	RoleStaff: {
		PermViewAllOrders:  {},
		PermRedeemOrders:   {},
		PermViewPayments:   {},
		PermViewInactive:   {},
		PermWatchOrderFeed: {},
		PermViewStatistics: {},
	},
	RoleCustomer: {
		PermPlaceOrders: {},
	},
}

// Can reports whether the role grants permission p.
func (r Role) Can(p Permission) bool {
	_, ok := rolePermissions[r][p]
	return ok
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	_, ok := rolePermissions[r]
	return ok
}

// ParseRole converts user input into a Role, accepting any letter case.
func ParseRole(raw string) (Role, bool) {
	role := Role(strings.ToUpper(strings.TrimSpace(raw)))
	if !role.Valid() {
		return "", false
	}
	return role, true
}
