package services

import (
	"sort"

	"journal-management-api/models"
)

// Resource tokens for permission checks.
const (
	ResourceSubmission = "SUBMISSION"
	ResourceReview     = "REVIEW"
	ResourceDecision   = "DECISION"
	ResourceDeadline   = "DEADLINE"
	ResourceSettings   = "SETTINGS"
	ResourceUser       = "USER"
	ResourceArticle    = "ARTICLE"
	ResourceAudit      = "AUDIT"
)

// Action tokens for permission checks.
const (
	PermCreate  = "CREATE"
	PermRead    = "READ"
	PermUpdate  = "UPDATE"
	PermDelete  = "DELETE"
	PermAssign  = "ASSIGN"
	PermSubmit  = "SUBMIT"
	PermApprove = "APPROVE"
	PermReject  = "REJECT"
	PermPublish = "PUBLISH"
	PermManage  = "MANAGE"
)

// Permission is one (resource, action) pair.
type Permission struct {
	Resource string `json:"resource"`
	Action   string `json:"action"`
}

// permissionMatrix is the single source of authorization truth. Every
// workflow operation checks it before touching state. Anything not listed
// here is denied.
var permissionMatrix = map[string][]Permission{
	models.RoleReader: {
		{ResourceArticle, PermRead},
	},
	models.RoleAuthor: {
		{ResourceSubmission, PermCreate},
		{ResourceSubmission, PermRead},
		{ResourceSubmission, PermUpdate},
		{ResourceSubmission, PermSubmit},
		{ResourceReview, PermRead},
		{ResourceDeadline, PermRead},
		{ResourceArticle, PermRead},
	},
	models.RoleReviewer: {
		{ResourceSubmission, PermRead},
		{ResourceReview, PermRead},
		{ResourceReview, PermUpdate},
		{ResourceReview, PermSubmit},
		{ResourceDeadline, PermRead},
		{ResourceArticle, PermRead},
	},
	models.RoleSectionEditor: {
		{ResourceSubmission, PermRead},
		{ResourceSubmission, PermUpdate},
		{ResourceSubmission, PermAssign},
		{ResourceSubmission, PermApprove},
		{ResourceSubmission, PermReject},
		{ResourceReview, PermCreate},
		{ResourceReview, PermRead},
		{ResourceReview, PermAssign},
		{ResourceDecision, PermCreate},
		{ResourceDecision, PermRead},
		{ResourceDeadline, PermRead},
		{ResourceDeadline, PermUpdate},
		{ResourceArticle, PermRead},
	},
	models.RoleLayoutEditor: {
		{ResourceSubmission, PermRead},
		{ResourceDeadline, PermRead},
		{ResourceDeadline, PermUpdate},
		{ResourceArticle, PermCreate},
		{ResourceArticle, PermRead},
		{ResourceArticle, PermUpdate},
	},
	models.RoleManagingEditor: {
		{ResourceSubmission, PermRead},
		{ResourceSubmission, PermUpdate},
		{ResourceSubmission, PermDelete},
		{ResourceSubmission, PermAssign},
		{ResourceSubmission, PermApprove},
		{ResourceSubmission, PermReject},
		{ResourceSubmission, PermPublish},
		{ResourceReview, PermCreate},
		{ResourceReview, PermRead},
		{ResourceReview, PermUpdate},
		{ResourceReview, PermAssign},
		{ResourceDecision, PermCreate},
		{ResourceDecision, PermRead},
		{ResourceDeadline, PermRead},
		{ResourceDeadline, PermUpdate},
		{ResourceSettings, PermRead},
		{ResourceSettings, PermUpdate},
		{ResourceUser, PermRead},
		{ResourceArticle, PermCreate},
		{ResourceArticle, PermRead},
		{ResourceArticle, PermUpdate},
	},
	models.RoleEIC: {
		{ResourceSubmission, PermRead},
		{ResourceSubmission, PermUpdate},
		{ResourceSubmission, PermDelete},
		{ResourceSubmission, PermAssign},
		{ResourceSubmission, PermApprove},
		{ResourceSubmission, PermReject},
		{ResourceSubmission, PermPublish},
		{ResourceReview, PermCreate},
		{ResourceReview, PermRead},
		{ResourceReview, PermUpdate},
		{ResourceReview, PermAssign},
		{ResourceDecision, PermCreate},
		{ResourceDecision, PermRead},
		{ResourceDeadline, PermRead},
		{ResourceDeadline, PermUpdate},
		{ResourceSettings, PermRead},
		{ResourceSettings, PermUpdate},
		{ResourceUser, PermRead},
		{ResourceUser, PermManage},
		{ResourceArticle, PermCreate},
		{ResourceArticle, PermRead},
		{ResourceArticle, PermUpdate},
	},
	models.RoleSecurityAuditor: {
		{ResourceSubmission, PermRead},
		{ResourceReview, PermRead},
		{ResourceDecision, PermRead},
		{ResourceDeadline, PermRead},
		{ResourceSettings, PermRead},
		{ResourceUser, PermRead},
		{ResourceArticle, PermRead},
		{ResourceAudit, PermRead},
	},
	models.RoleSysadmin: buildFullGrant(),
}

var allResources = []string{
	ResourceSubmission, ResourceReview, ResourceDecision, ResourceDeadline,
	ResourceSettings, ResourceUser, ResourceArticle, ResourceAudit,
}

var allActions = []string{
	PermCreate, PermRead, PermUpdate, PermDelete, PermAssign,
	PermSubmit, PermApprove, PermReject, PermPublish, PermManage,
}

func buildFullGrant() []Permission {
	grants := make([]Permission, 0, len(allResources)*len(allActions))
	for _, resource := range allResources {
		for _, action := range allActions {
			grants = append(grants, Permission{resource, action})
		}
	}
	return grants
}

// CanAccess reports whether role may perform action on resource. Unknown
// roles, resources, and actions are denied.
func CanAccess(role, resource, action string) bool {
	grants, ok := permissionMatrix[role]
	if !ok {
		return false
	}
	for _, grant := range grants {
		if grant.Resource == resource && grant.Action == action {
			return true
		}
	}
	return false
}

// RolePermissions returns the granted (resource, action) pairs for role,
// sorted for stable API responses. Unknown roles get an empty set.
func RolePermissions(role string) []Permission {
	grants, ok := permissionMatrix[role]
	if !ok {
		return []Permission{}
	}
	out := make([]Permission, len(grants))
	copy(out, grants)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Resource != out[j].Resource {
			return out[i].Resource < out[j].Resource
		}
		return out[i].Action < out[j].Action
	})
	return out
}

// Role sets are independent policy statements, kept deliberately separate
// from the fine-grained matrix. Tests assert the two stay in agreement.
var (
	// AdminRoles can change process-wide settings.
	AdminRoles = []string{models.RoleManagingEditor, models.RoleEIC, models.RoleSysadmin}

	// EditorRoles can drive submissions through the editorial workflow,
	// including desk rejection of new submissions.
	EditorRoles = []string{models.RoleSectionEditor, models.RoleManagingEditor, models.RoleEIC, models.RoleSysadmin}

	// ContentManagerRoles can touch production artifacts (articles).
	ContentManagerRoles = []string{models.RoleLayoutEditor, models.RoleManagingEditor, models.RoleEIC, models.RoleSysadmin}
)

func roleIn(role string, set []string) bool {
	for _, r := range set {
		if r == role {
			return true
		}
	}
	return false
}

// IsAdmin reports whether role belongs to the administrative set.
func IsAdmin(role string) bool { return roleIn(role, AdminRoles) }

// IsEditor reports whether role belongs to the editorial set.
func IsEditor(role string) bool { return roleIn(role, EditorRoles) }

// CanManageContent reports whether role may manage production content.
func CanManageContent(role string) bool { return roleIn(role, ContentManagerRoles) }
