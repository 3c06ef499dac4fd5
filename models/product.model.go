package models

import "gorm.io/gorm"

// PaymentModel defines how a product is paid for
type PaymentModel string

const (
	PaymentModelFree         PaymentModel = "FREE"
	PaymentModelFull         PaymentModel = "FULL"         // one-time charge at checkout
	PaymentModelDepositPlan  PaymentModel = "DEPOSIT_PLAN" // upfront deposit + installments
	PaymentModelSubscription PaymentModel = "SUBSCRIPTION" // card on file, charged later
)

type Product struct {
	gorm.Model
	TenantID          uint         `gorm:"not null;index" json:"tenantId"`
	Title             string       `gorm:"not null" json:"title"`
	Description       string       `gorm:"type:text" json:"description"`
	Type              string       `gorm:"type:varchar(50);default:'COURSE'" json:"type"` // COURSE, PROGRAM, MEMBERSHIP
	Price             float64      `gorm:"default:0" json:"price"`
	Currency          string       `gorm:"type:varchar(10);default:'USD'" json:"currency"`
	PaymentModel      PaymentModel `gorm:"type:varchar(50);default:'FULL'" json:"paymentModel"`
	RequiresSignature bool         `gorm:"default:false" json:"requiresSignature"`
	CrmTag            string       `gorm:"type:varchar(100)" json:"crmTag"`
	Status            string       `gorm:"type:varchar(20);default:'ACTIVE'" json:"status"`
	IsDeleted         bool         `gorm:"default:false" json:"isDeleted"`
}
