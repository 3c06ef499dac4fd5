package enrollmentService

import (
	"context"
	"strings"
	"time"

	"lms/config"
	"lms/crm"
	"lms/events"
	"lms/models"
	"lms/payments"
	"lms/utils"

	"gorm.io/gorm"
)

// Profile is the wizard-collected profile snapshot for first-time enrollees
type Profile struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone" validate:"required"`
	Address   string `json:"address" validate:"required"`
	City      string `json:"city"`
	State     string `json:"state"`
	PinCode   string `json:"pin_code"`
	Language  string `json:"language"`
}

// CompleteRequest is the caller-supplied input for the completion operation
type CompleteRequest struct {
	Password           string   `json:"password"`
	Profile            *Profile `json:"profile"`
	DocusignEnvelopeID string   `json:"docusignEnvelopeId"`
	IsExistingUser     bool     `json:"isExistingUser"`
}

// Session is the auto-login session returned for first-time enrollees
type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// CompleteResult is the outcome of a successful completion
type CompleteResult struct {
	EnrollmentID     uint
	UserID           uint
	Status           string
	RedirectURL      *string
	ShowConfirmation bool
	Session          *Session
}

// Completer runs the enrollment completion pipeline: resolve token, check
// completeness, reconcile payment, provision the account if needed, activate,
// then dispatch post-activation side effects. Stages run in order and the
// first failure aborts the whole operation with no stage re-entered.
type Completer struct {
	db           *gorm.DB
	processorFor func(tenantID uint) (payments.Client, error)
	crmFor       func(tenantID uint) (crm.Syncer, error)
	events       events.Dispatcher
	notify       func(toEmail, name, productTitle string) error
	pollAttempts int
	pollInterval time.Duration
	now          func() time.Time
}

// NewCompleter wires a Completer against the given database handle and the
// configured external collaborators
func NewCompleter(db *gorm.DB) *Completer {
	cfg := config.AppConfig
	return &Completer{
		db: db,
		processorFor: func(tenantID uint) (payments.Client, error) {
			return payments.NewClientForTenant(db, tenantID)
		},
		crmFor: func(tenantID uint) (crm.Syncer, error) {
			return crm.NewSyncerForTenant(db, tenantID)
		},
		events:       events.NewWebhookDispatcher(),
		notify:       utils.SendEnrollmentConfirmation,
		pollAttempts: cfg.ReconcileAttempts,
		pollInterval: time.Duration(cfg.ReconcileIntervalMs) * time.Millisecond,
		now:          time.Now,
	}
}

// Complete finalizes the enrollment behind the given token. It is the only
// entry point that flips an enrollment to ACTIVE.
func (s *Completer) Complete(ctx context.Context, token string, req CompleteRequest) (*CompleteResult, *Error) {
	enrollment, ferr := s.resolveToken(token)
	if ferr != nil {
		return nil, ferr
	}

	if ferr := s.checkCompleteness(enrollment, req); ferr != nil {
		return nil, ferr
	}

	if ferr := s.reconcilePayment(ctx, enrollment); ferr != nil {
		return nil, ferr
	}

	user, session, ferr := s.provisionAccount(enrollment, req)
	if ferr != nil {
		return nil, ferr
	}

	if ferr := s.activate(enrollment, user, req); ferr != nil {
		return nil, ferr
	}

	routing := s.dispatchPostActivation(enrollment, user)

	return &CompleteResult{
		EnrollmentID:     enrollment.ID,
		UserID:           user.ID,
		Status:           strings.ToLower(string(enrollment.Status)),
		RedirectURL:      routing.RedirectURL,
		ShowConfirmation: routing.ShowConfirmation,
		Session:          session,
	}, nil
}

// Resolve looks up the enrollment behind a token without side effects, for
// the wizard's read-only summary endpoint.
func (s *Completer) Resolve(token string) (*models.Enrollment, *Error) {
	return s.resolveToken(token)
}
