package auth

// Permission is a fine-grained action-on-resource capability.
type Permission string

const (
	PermCaseView   Permission = "case.view"
	PermCaseCreate Permission = "case.create"
	PermCaseEdit   Permission = "case.edit"
	PermCaseDelete Permission = "case.delete"

	PermClientView   Permission = "client.view"
	PermClientManage Permission = "client.manage"

	PermDocumentView           Permission = "document.view"
	PermDocumentUpload         Permission = "document.upload"
	PermDocumentManageSecurity Permission = "document.security.manage"

	PermInvoiceView   Permission = "invoice.view"
	PermInvoiceCreate Permission = "invoice.create"

	PermExpenseView    Permission = "expense.view"
	PermExpenseCreate  Permission = "expense.create"
	PermExpenseApprove Permission = "expense.approve"

	PermCalendarView   Permission = "calendar.view"
	PermCalendarManage Permission = "calendar.manage"

	PermReportView Permission = "report.view"
	PermUserManage Permission = "user.manage"
)

var allPermissions = []Permission{
	PermCaseView, PermCaseCreate, PermCaseEdit, PermCaseDelete,
	PermClientView, PermClientManage,
	PermDocumentView, PermDocumentUpload, PermDocumentManageSecurity,
	PermInvoiceView, PermInvoiceCreate,
	PermExpenseView, PermExpenseCreate, PermExpenseApprove,
	PermCalendarView, PermCalendarManage,
	PermReportView, PermUserManage,
}

// rolePermissions is the static, total Role -> permission-set mapping.
// Changing a grant means redeploying this table; there are no runtime grants.
var rolePermissions = map[Role][]Permission{
	RoleSuperAdmin: allPermissions,
	RolePartner: {
		PermCaseView, PermCaseCreate, PermCaseEdit, PermCaseDelete,
		PermClientView, PermClientManage,
		PermDocumentView, PermDocumentUpload, PermDocumentManageSecurity,
		PermInvoiceView, PermInvoiceCreate,
		PermExpenseView, PermExpenseCreate, PermExpenseApprove,
		PermCalendarView, PermCalendarManage,
		PermReportView,
	},
	RoleSeniorAssociate: {
		PermCaseView, PermCaseCreate, PermCaseEdit,
		PermClientView, PermClientManage,
		PermDocumentView, PermDocumentUpload,
		PermInvoiceView, PermInvoiceCreate,
		PermExpenseView, PermExpenseCreate,
		PermCalendarView, PermCalendarManage,
		PermReportView,
	},
	RoleJuniorAssociate: {
		PermCaseView, PermCaseEdit,
		PermClientView,
		PermDocumentView, PermDocumentUpload,
		PermExpenseView, PermExpenseCreate,
		PermCalendarView,
	},
	RoleParalegal: {
		PermCaseView,
		PermDocumentView, PermDocumentUpload,
		PermCalendarView, PermCalendarManage,
	},
	RoleClient: {
		PermCaseView,
		PermDocumentView,
		PermInvoiceView,
	},
}

// PermissionsForRole returns the permission set for a role. The set is
// derived, never stored, and an unknown role yields an empty set.
func PermissionsForRole(role Role) map[Permission]struct{} {
	perms := rolePermissions[role]
	set := make(map[Permission]struct{}, len(perms))
	for _, p := range perms {
		set[p] = struct{}{}
	}
	return set
}

// HasPermission is a pure membership test against the static table.
func HasPermission(role Role, perm Permission) bool {
	for _, p := range rolePermissions[role] {
		if p == perm {
			return true
		}
	}
	return false
}

// HasAnyPermission reports whether the role holds at least one of the
// required permissions.
func HasAnyPermission(role Role, perms ...Permission) bool {
	for _, p := range perms {
		if HasPermission(role, p) {
			return true
		}
	}
	return false
}

// HasAllPermissions reports whether the role holds every required permission.
func HasAllPermissions(role Role, perms ...Permission) bool {
	for _, p := range perms {
		if !HasPermission(role, p) {
			return false
		}
	}
	return true
}
