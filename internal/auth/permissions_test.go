package auth

import "testing"

func TestEveryRoleHasPermissionSet(t *testing.T) {
	for _, role := range []Role{RoleSuperAdmin, RolePartner, RoleSeniorAssociate, RoleJuniorAssociate, RoleParalegal, RoleClient} {
		perms := PermissionsForRole(role)
		if len(perms) == 0 {
			t.Fatalf("role %s has no permissions", role)
		}
		for p := range perms {
			found := false
			for _, known := range allPermissions {
				if p == known {
					found = true
					break
				}
			}
			if !found {
				t.Fatalf("role %s grants unknown permission %s", role, p)
			}
		}
	}
}

func TestSuperAdminHasAllPermissions(t *testing.T) {
	perms := PermissionsForRole(RoleSuperAdmin)
	for _, p := range allPermissions {
		if _, ok := perms[p]; !ok {
			t.Fatalf("super_admin missing %s", p)
		}
	}
}

func TestRoleHierarchyNarrowsDownward(t *testing.T) {
	if HasPermission(RoleClient, PermUserManage) {
		t.Fatal("client must not manage users")
	}
	if HasPermission(RoleParalegal, PermExpenseApprove) {
		t.Fatal("paralegal must not approve expenses")
	}
	if HasPermission(RoleJuniorAssociate, PermCaseDelete) {
		t.Fatal("junior associate must not delete cases")
	}
	if !HasPermission(RolePartner, PermExpenseApprove) {
		t.Fatal("partner must approve expenses")
	}
	if !HasPermission(RoleSeniorAssociate, PermDocumentUpload) {
		t.Fatal("senior associate must upload documents")
	}
}

func TestHasAnyAndAllPermissions(t *testing.T) {
	if !HasAnyPermission(RoleClient, PermUserManage, PermCaseView) {
		t.Fatal("expected any-match on case.view for client")
	}
	if HasAllPermissions(RoleClient, PermUserManage, PermCaseView) {
		t.Fatal("client does not hold user.manage, all-match must fail")
	}
	if !HasAllPermissions(RolePartner, PermInvoiceView, PermInvoiceCreate) {
		t.Fatal("partner holds both invoice permissions")
	}
}

func TestUnknownRoleGrantsNothing(t *testing.T) {
	if perms := PermissionsForRole(Role("intern")); len(perms) != 0 {
		t.Fatalf("unknown role must grant nothing, got %d permissions", len(perms))
	}
	if HasPermission(Role("intern"), PermCaseView) {
		t.Fatal("unknown role must be denied")
	}
}

func TestParseRole(t *testing.T) {
	if r, ok := ParseRole("partner"); !ok || r != RolePartner {
		t.Fatalf("ParseRole(partner) = %v, %v", r, ok)
	}
	if _, ok := ParseRole("intern"); ok {
		t.Fatal("expected parse failure for unknown role")
	}
}
