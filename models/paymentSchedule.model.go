package models

import (
	"time"

	"gorm.io/gorm"
)

// ScheduleType distinguishes the upfront deposit from installments
type ScheduleType string

const (
	ScheduleTypeDeposit     ScheduleType = "DEPOSIT"
	ScheduleTypeInstallment ScheduleType = "INSTALLMENT"
)

// ScheduleStatus is the lifecycle of one expected payment event
type ScheduleStatus string

const (
	ScheduleStatusPending   ScheduleStatus = "PENDING"
	ScheduleStatusPaid      ScheduleStatus = "PAID"
	ScheduleStatusOverdue   ScheduleStatus = "OVERDUE"
	ScheduleStatusCancelled ScheduleStatus = "CANCELLED"
)

// PaymentSchedule is one expected payment event for an enrollment.
// At most one DEPOSIT row exists per enrollment; rows are immutable once PAID.
type PaymentSchedule struct {
	gorm.Model
	EnrollmentID uint           `gorm:"not null;index" json:"enrollmentId"`
	Type         ScheduleType   `gorm:"type:varchar(20);default:'INSTALLMENT'" json:"type"`
	Sequence     int            `gorm:"default:0" json:"sequence"`
	Amount       float64        `gorm:"not null" json:"amount"`
	Currency     string         `gorm:"type:varchar(10);default:'USD'" json:"currency"`
	DueDate      time.Time      `gorm:"index" json:"dueDate"`
	Status       ScheduleStatus `gorm:"type:varchar(20);default:'PENDING';index" json:"status"`

	// Processor-side payment intent, set when the charge was initiated
	PaymentIntentID string     `gorm:"type:varchar(100);index" json:"paymentIntentId"`
	PaidAt          *time.Time `json:"paidAt"`
	IsDeleted       bool       `gorm:"default:false" json:"isDeleted"`

	Enrollment Enrollment `gorm:"foreignKey:EnrollmentID" json:"-"`
}
