package models

import "time"

// AuditLog records who drove a workflow change and the states around it.
// Writes are best effort; a failed audit write never rolls back the change
// it describes.
type AuditLog struct {
	AuditID      int       `gorm:"primaryKey;column:audit_id" json:"audit_id"`
	UserID       int       `gorm:"column:user_id" json:"user_id"`
	Action       string    `gorm:"column:action" json:"action"`
	EntityType   string    `gorm:"column:entity_type" json:"entity_type"`
	EntityID     *int      `gorm:"column:entity_id" json:"entity_id,omitempty"`
	EntityCode   *string   `gorm:"column:entity_code" json:"entity_code,omitempty"`
	BeforeStatus *string   `gorm:"column:before_status" json:"before_status,omitempty"`
	AfterStatus  *string   `gorm:"column:after_status" json:"after_status,omitempty"`
	Description  *string   `gorm:"column:description" json:"description,omitempty"`
	IPAddress    *string   `gorm:"column:ip_address" json:"ip_address,omitempty"`
	CreatedAt    time.Time `gorm:"column:created_at" json:"created_at"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}
