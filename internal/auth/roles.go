package auth

// Role represents a staff role. Customers never authenticate; the public
// shop endpoints are exempt from auth entirely.
type Role string

const (
	// RoleViewer may read reports and order details.
	RoleViewer Role = "viewer"
	// RoleBoxOffice may look up orders and print invoices and tickets.
	RoleBoxOffice Role = "box_office"
	// RoleAdmin may run reconciliation and payment reminders.
	RoleAdmin Role = "admin"
)

// NormalizeRole validates and normalizes a role string.
func NormalizeRole(value string) (Role, bool) {
	switch Role(value) {
	case RoleViewer, RoleBoxOffice, RoleAdmin:
		return Role(value), true
	default:
		return "", false
	}
}

// RoleAtLeast returns true when role satisfies required role.
func RoleAtLeast(role Role, required Role) bool {
	return roleRank(role) >= roleRank(required)
}

func roleRank(role Role) int {
	switch role {
	case RoleViewer:
		return 1
	case RoleBoxOffice:
		return 2
	case RoleAdmin:
		return 3
	default:
		return 0
	}
}
