package models

import (
	"time"

	"gorm.io/gorm"
)

// Payment is a committed monetary transaction. Exactly one row exists per
// successful processor charge; the unique index on ProcessorTransactionID is
// what makes the webhook handler and the reconciliation fallback converge when
// both try to record the same charge.
type Payment struct {
	gorm.Model
	EnrollmentID uint    `gorm:"not null;index" json:"enrollmentId"`
	ScheduleID   *uint   `gorm:"index" json:"scheduleId"`
	Amount       float64 `gorm:"not null" json:"amount"`
	Currency     string  `gorm:"type:varchar(10);default:'USD'" json:"currency"`

	ProcessorTransactionID string `gorm:"type:varchar(100);uniqueIndex" json:"processorTransactionId"`
	Method                 string `gorm:"type:varchar(50)" json:"method"` // card, bank_transfer
	Status                 string `gorm:"type:varchar(20);default:'COMPLETED'" json:"status"`

	PaidAt    time.Time `gorm:"not null" json:"paidAt"`
	IsDeleted bool      `gorm:"default:false" json:"isDeleted"`

	Enrollment Enrollment       `gorm:"foreignKey:EnrollmentID" json:"-"`
	Schedule   *PaymentSchedule `gorm:"foreignKey:ScheduleID" json:"-"`
}
