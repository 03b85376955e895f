package user

import "slices"

type Permission string

const (
	// Attendance
	PermissionAttendanceRecord Permission = "attendance.record"
	PermissionAttendanceManage Permission = "attendance.manage"
	PermissionAttendanceView   Permission = "attendance.view"

	// Adjustment ledger
	PermissionLedgerManage Permission = "ledger.manage"
	PermissionLedgerView   Permission = "ledger.view"

	// Payroll
	PermissionPayrollGenerate Permission = "payroll.generate"
	PermissionPayrollApprove  Permission = "payroll.approve"
	PermissionPayrollPay      Permission = "payroll.pay"
	PermissionPayrollView     Permission = "payroll.view"

	// Schedule
	PermissionScheduleView Permission = "schedule.view"
)

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleOwner: {
		// Owner has all permissions
		PermissionAttendanceRecord,
		PermissionAttendanceManage,
		PermissionAttendanceView,
		PermissionLedgerManage,
		PermissionLedgerView,
		PermissionPayrollGenerate,
		PermissionPayrollApprove,
		PermissionPayrollPay,
		PermissionPayrollView,
		PermissionScheduleView,
	},
	RoleManager: {
		// Manager prepares payroll; approval and payment stay with the owner
		PermissionAttendanceRecord,
		PermissionAttendanceManage,
		PermissionAttendanceView,
		PermissionLedgerManage,
		PermissionLedgerView,
		PermissionPayrollGenerate,
		PermissionPayrollView,
		PermissionScheduleView,
	},
	RoleEmployee: {
		PermissionAttendanceRecord,
		PermissionScheduleView,
	},
	RolePending: {
		// Pending role has no permissions
	},
}

// HasPermission checks if a role has a specific permission
func HasPermission(role Role, permission Permission) bool {
	permissions, exists := RolePermissions[role]
	if !exists {
		return false
	}
	return slices.Contains(permissions, permission)
}
