package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AuditLog is an immutable record of a domain action; rows are only inserted
type AuditLog struct {
	gorm.Model
	TenantID     uint           `gorm:"index" json:"tenantId"`
	UserID       uint           `gorm:"index" json:"userId"`
	EnrollmentID uint           `gorm:"index" json:"enrollmentId"`
	Action       string         `gorm:"type:varchar(100);not null" json:"action"`
	Detail       datatypes.JSON `gorm:"type:jsonb" json:"detail"`
}
