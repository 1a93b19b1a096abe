package services

import (
	"testing"

	"journal-management-api/models"
)

// The matrix must be default-deny: for every (role, resource, action) triple,
// CanAccess is true exactly when RolePermissions lists the pair.
func TestCanAccessMatchesGrantsExactly(t *testing.T) {
	for _, role := range models.AllRoles {
		granted := map[Permission]bool{}
		for _, p := range RolePermissions(role) {
			granted[p] = true
		}
		for _, resource := range allResources {
			for _, action := range allActions {
				want := granted[Permission{resource, action}]
				if got := CanAccess(role, resource, action); got != want {
					t.Errorf("CanAccess(%s, %s, %s) = %v, want %v", role, resource, action, got, want)
				}
			}
		}
	}
}

func TestCanAccessDefaultDeny(t *testing.T) {
	cases := []struct {
		role, resource, action string
	}{
		{"EDITOR", ResourceSubmission, PermRead},    // unknown role
		{"", ResourceSubmission, PermRead},          // empty role
		{models.RoleEIC, "MANUSCRIPT", PermRead},    // unknown resource
		{models.RoleEIC, ResourceSubmission, "GET"}, // unknown action
		{models.RoleReader, ResourceSubmission, PermRead},
		{models.RoleAuthor, ResourceSubmission, PermApprove},
		{models.RoleReviewer, ResourceDecision, PermCreate},
		{models.RoleSecurityAuditor, ResourceSubmission, PermUpdate},
		{models.RoleLayoutEditor, ResourceSubmission, PermReject},
	}
	for _, tc := range cases {
		if CanAccess(tc.role, tc.resource, tc.action) {
			t.Errorf("CanAccess(%q, %q, %q) = true, want false", tc.role, tc.resource, tc.action)
		}
	}
}

func TestSysadminHasFullGrant(t *testing.T) {
	for _, resource := range allResources {
		for _, action := range allActions {
			if !CanAccess(models.RoleSysadmin, resource, action) {
				t.Errorf("SYSADMIN denied %s %s", action, resource)
			}
		}
	}
}

// The role-set constants are independent policy statements; they must stay
// consistent with the permissions they imply in the matrix.
func TestRoleSetsAgreeWithMatrix(t *testing.T) {
	for _, role := range AdminRoles {
		if !CanAccess(role, ResourceSettings, PermUpdate) {
			t.Errorf("admin role %s cannot update settings", role)
		}
	}
	for _, role := range EditorRoles {
		if !CanAccess(role, ResourceSubmission, PermAssign) {
			t.Errorf("editor role %s cannot assign submissions", role)
		}
		if !CanAccess(role, ResourceSubmission, PermReject) {
			t.Errorf("editor role %s cannot reject submissions", role)
		}
		if !CanAccess(role, ResourceDecision, PermCreate) {
			t.Errorf("editor role %s cannot record decisions", role)
		}
	}
	for _, role := range ContentManagerRoles {
		if !CanAccess(role, ResourceArticle, PermUpdate) {
			t.Errorf("content manager role %s cannot update articles", role)
		}
	}

	// The converse: roles outside the sets must not hold the gating grants.
	for _, role := range models.AllRoles {
		if !IsAdmin(role) && CanAccess(role, ResourceSettings, PermUpdate) {
			t.Errorf("non-admin role %s can update settings", role)
		}
		if !IsEditor(role) && CanAccess(role, ResourceSubmission, PermAssign) {
			t.Errorf("non-editor role %s can assign submissions", role)
		}
		if !CanManageContent(role) && CanAccess(role, ResourceArticle, PermUpdate) {
			t.Errorf("role %s outside content managers can update articles", role)
		}
	}
}

func TestCompositePredicates(t *testing.T) {
	if IsAdmin(models.RoleSectionEditor) {
		t.Error("SECTION_EDITOR must not be admin")
	}
	if !IsEditor(models.RoleSectionEditor) {
		t.Error("SECTION_EDITOR must be an editor")
	}
	if IsEditor(models.RoleLayoutEditor) {
		t.Error("LAYOUT_EDITOR must not be in the editorial set")
	}
	if !CanManageContent(models.RoleLayoutEditor) {
		t.Error("LAYOUT_EDITOR must manage content")
	}
	if IsEditor(models.RoleSecurityAuditor) || IsAdmin(models.RoleSecurityAuditor) {
		t.Error("SECURITY_AUDITOR must stay read-only")
	}
}

func TestRolePermissionsUnknownRoleEmpty(t *testing.T) {
	if got := RolePermissions("INTERN"); len(got) != 0 {
		t.Errorf("expected empty grant set for unknown role, got %v", got)
	}
}

func TestRolePermissionsSorted(t *testing.T) {
	perms := RolePermissions(models.RoleManagingEditor)
	for i := 1; i < len(perms); i++ {
		prev, cur := perms[i-1], perms[i]
		if prev.Resource > cur.Resource || (prev.Resource == cur.Resource && prev.Action > cur.Action) {
			t.Fatalf("permissions not sorted at %d: %v before %v", i, prev, cur)
		}
	}
}
