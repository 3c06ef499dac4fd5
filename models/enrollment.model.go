package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// EnrollmentStatus is the externally visible lifecycle state
type EnrollmentStatus string

const (
	EnrollmentDraft     EnrollmentStatus = "DRAFT"
	EnrollmentPending   EnrollmentStatus = "PENDING"
	EnrollmentActive    EnrollmentStatus = "ACTIVE"
	EnrollmentSuspended EnrollmentStatus = "SUSPENDED"
	EnrollmentCancelled EnrollmentStatus = "CANCELLED"
	EnrollmentCompleted EnrollmentStatus = "COMPLETED"
)

// PaymentStatus tracks how much of the enrollment total has been collected
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "PENDING"
	PaymentStatusPartial PaymentStatus = "PARTIAL"
	PaymentStatusPaid    PaymentStatus = "PAID"
	PaymentStatusOverdue PaymentStatus = "OVERDUE"
)

// SignatureStatus tracks the e-signature envelope for products that require one
type SignatureStatus string

const (
	SignaturePending   SignatureStatus = "PENDING"
	SignatureSent      SignatureStatus = "SENT"
	SignatureCompleted SignatureStatus = "COMPLETED"
	SignatureDeclined  SignatureStatus = "DECLINED"
)

type Enrollment struct {
	gorm.Model
	TenantID  uint  `gorm:"not null;index" json:"tenantId"`
	UserID    *uint `gorm:"index" json:"userId"` // nil until the account is provisioned
	ProductID uint  `gorm:"not null;index" json:"productId"`

	Status          EnrollmentStatus `gorm:"type:varchar(20);default:'PENDING'" json:"status"`
	PaymentStatus   PaymentStatus    `gorm:"type:varchar(20);default:'PENDING'" json:"paymentStatus"`
	SignatureStatus SignatureStatus  `gorm:"type:varchar(20);default:'PENDING'" json:"signatureStatus"`

	TotalAmount float64 `gorm:"default:0" json:"totalAmount"`
	PaidAmount  float64 `gorm:"default:0" json:"paidAmount"`
	Currency    string  `gorm:"type:varchar(10);default:'USD'" json:"currency"`

	// A parent enrollment only holds a stored payment method for dependents;
	// it is never charged and grants no dashboard access.
	IsParent bool `gorm:"default:false" json:"isParent"`

	Token          string    `gorm:"type:varchar(100);uniqueIndex" json:"-"`
	TokenExpiresAt time.Time `json:"tokenExpiresAt"`

	ProcessorCustomerID string `gorm:"type:varchar(100)" json:"processorCustomerId"`
	SetupIntentID       string `gorm:"type:varchar(100)" json:"setupIntentId"`
	DocusignEnvelopeID  string `gorm:"type:varchar(100)" json:"docusignEnvelopeId"`

	// Profile snapshot collected by the signup wizard; persisted for
	// first-time enrollees only (existing users keep their profile of record)
	WizardData datatypes.JSON `gorm:"type:jsonb" json:"wizardData"`

	EnrolledAt *time.Time `json:"enrolledAt"`
	IsDeleted  bool       `gorm:"default:false" json:"isDeleted"`

	User    *User   `gorm:"foreignKey:UserID" json:"-"`
	Product Product `gorm:"foreignKey:ProductID" json:"-"`
}
