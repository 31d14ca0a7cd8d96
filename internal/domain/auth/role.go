package auth

type Role string

const (
	RoleDriver Role = "driver"
	RoleAdmin  Role = "admin"
)

type Permission string

const (
	PermissionShiftClock   Permission = "shift.clock"
	PermissionShiftViewOwn Permission = "shift.view_own"
	PermissionShiftManage  Permission = "shift.manage"

	PermissionPayrollViewOwn   Permission = "payroll.view_own"
	PermissionPayrollViewAll   Permission = "payroll.view_all"
	PermissionPayrollConfigure Permission = "payroll.configure"

	PermissionAdvanceRequest Permission = "advance.request"
	PermissionAdvanceApprove Permission = "advance.approve"
)

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleDriver: {
		PermissionShiftClock,
		PermissionShiftViewOwn,
		PermissionPayrollViewOwn,
		PermissionAdvanceRequest,
	},
	RoleAdmin: {
		PermissionShiftViewOwn,
		PermissionShiftManage,
		PermissionPayrollViewAll,
		PermissionPayrollConfigure,
		PermissionAdvanceApprove,
	},
}

func HasPermission(role Role, permission Permission) bool {
	for _, p := range RolePermissions[role] {
		if p == permission {
			return true
		}
	}
	return false
}

// Principal is the caller identity carried by an access token.
type Principal struct {
	UserID   string
	DriverID string
	Role     Role
}
