package models

import (
	"time"
)

// Role tokens stored in users.role. These are persisted as-is, do not rename.
const (
	RoleReader          = "READER"
	RoleAuthor          = "AUTHOR"
	RoleReviewer        = "REVIEWER"
	RoleSectionEditor   = "SECTION_EDITOR"
	RoleLayoutEditor    = "LAYOUT_EDITOR"
	RoleManagingEditor  = "MANAGING_EDITOR"
	RoleEIC             = "EIC"
	RoleSecurityAuditor = "SECURITY_AUDITOR"
	RoleSysadmin        = "SYSADMIN"
)

// AllRoles lists every role token the system knows about.
var AllRoles = []string{
	RoleReader,
	RoleAuthor,
	RoleReviewer,
	RoleSectionEditor,
	RoleLayoutEditor,
	RoleManagingEditor,
	RoleEIC,
	RoleSecurityAuditor,
	RoleSysadmin,
}

type User struct {
	UserID       int        `gorm:"primaryKey;column:user_id" json:"user_id"`
	FirstName    string     `gorm:"column:first_name" json:"first_name"`
	LastName     string     `gorm:"column:last_name" json:"last_name"`
	Email        string     `gorm:"column:email;unique" json:"email"`
	Password     string     `gorm:"column:password" json:"-"`
	Role         string     `gorm:"column:role" json:"role"`
	Organization *string    `gorm:"column:organization" json:"organization,omitempty"`
	ORCID        *string    `gorm:"column:orcid" json:"orcid,omitempty"`
	CreateAt     *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt     *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt     *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`
}

func (User) TableName() string {
	return "users"
}

// FullName joins first and last name for notification templates.
func (u *User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// IsValidRole reports whether role is one of the known role tokens.
func IsValidRole(role string) bool {
	for _, r := range AllRoles {
		if r == role {
			return true
		}
	}
	return false
}
