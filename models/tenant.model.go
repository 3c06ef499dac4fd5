package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Tenant struct {
	gorm.Model
	Name      string `gorm:"not null" json:"name"`
	Subdomain string `gorm:"unique;not null" json:"subdomain"`
	Language  string `gorm:"type:varchar(10);default:'en'" json:"language"`
	IsDeleted bool   `gorm:"default:false" json:"isDeleted"`
}

// TenantMembership links a user to a tenant with a role
type TenantMembership struct {
	gorm.Model
	TenantID  uint   `gorm:"not null;index:idx_tenant_user" json:"tenantId"`
	UserID    uint   `gorm:"not null;index:idx_tenant_user" json:"userId"`
	Role      string `gorm:"type:varchar(50);default:'STUDENT'" json:"role"` // STUDENT, ADMIN, OWNER
	IsDeleted bool   `gorm:"default:false" json:"isDeleted"`

	Tenant Tenant `gorm:"foreignKey:TenantID" json:"-"`
	User   User   `gorm:"foreignKey:UserID" json:"-"`
}

// IntegrationCredential stores per-tenant API credentials for external
// collaborators (payment processor, CRM, e-signature).
type IntegrationCredential struct {
	gorm.Model
	TenantID  uint           `gorm:"not null;index:idx_tenant_provider" json:"tenantId"`
	Provider  string         `gorm:"type:varchar(50);not null;index:idx_tenant_provider" json:"provider"` // stripe, crm, docusign
	ApiKey    string         `gorm:"type:varchar(255);not null" json:"-"`
	ApiSecret string         `gorm:"type:varchar(255)" json:"-"`
	Meta      datatypes.JSON `gorm:"type:jsonb" json:"meta"`
	IsDeleted bool           `gorm:"default:false" json:"isDeleted"`
}

const (
	ProviderStripe   = "stripe"
	ProviderCrm      = "crm"
	ProviderDocusign = "docusign"
)
