package enrollmentService

import (
	"errors"
	"log"
	"strings"
	"time"

	"lms/config"
	"lms/middleware"
	"lms/models"
	"lms/payments"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// provisionAccount creates the identity, profile and tenant membership for a
// first-time enrollee, in that order, then establishes a session. Each step
// depends on the previous one existing; a failure after the identity is
// created is surfaced as a provisioning failure rather than rolled back, so
// the account stays usable via manual login. Existing-user flows only run the
// best-effort processor customer enrichment.
func (s *Completer) provisionAccount(enrollment *models.Enrollment, req CompleteRequest) (*models.User, *Session, *Error) {
	if req.IsExistingUser {
		if enrollment.UserID == nil {
			return nil, nil, fail(ErrMissingUserLink, "This enrollment is not linked to an account. Please log in and try again.")
		}

		var user models.User
		if err := s.db.Where("id = ? AND is_deleted = false", *enrollment.UserID).First(&user).Error; err != nil {
			return nil, nil, wrap(ErrProvisioning, "The linked account could not be found. Please contact support.", err)
		}

		s.enrichProcessorCustomer(enrollment, &user, user.Name, user.Email)
		return &user, nil, nil
	}

	profile := req.Profile
	email := strings.ToLower(strings.TrimSpace(profile.Email))

	// 1. Duplicate check: signup must not shadow an existing account
	if err := s.db.Where("email = ? AND is_deleted = false", email).First(&models.User{}).Error; err == nil {
		return nil, nil, fail(ErrDuplicateAccount, "An account with this email already exists. Please log in instead.")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, wrap(ErrInternal, "Failed to check for an existing account", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), config.AppConfig.SaltRound)
	if err != nil {
		return nil, nil, wrap(ErrInternal, "Failed to process your request", err)
	}

	// 2. Identity, email pre-verified: payment and signature already proved intent
	user := models.User{
		Name:            profile.FirstName + " " + profile.LastName,
		Email:           email,
		Mobile:          profile.Phone,
		Password:        string(hashedPassword),
		IsEmailVerified: true,
	}
	if err := s.db.Create(&user).Error; err != nil {
		return nil, nil, wrap(ErrProvisioning, "Failed to create your account. Please contact support.", err)
	}

	// 3. Profile of record
	userProfile := models.UserProfile{
		UserID:    user.ID,
		FirstName: profile.FirstName,
		LastName:  profile.LastName,
		Email:     email,
		Phone:     profile.Phone,
		Address:   profile.Address,
		City:      profile.City,
		State:     profile.State,
		PinCode:   profile.PinCode,
		Language:  profile.Language,
	}
	if err := s.db.Create(&userProfile).Error; err != nil {
		return nil, nil, wrap(ErrProvisioning, "Your account could not be fully set up. Please contact support.", err)
	}

	// 4. Tenant membership; without it the identity cannot sign in to the tenant
	membership := models.TenantMembership{
		TenantID: enrollment.TenantID,
		UserID:   user.ID,
		Role:     "STUDENT",
	}
	if err := s.db.Create(&membership).Error; err != nil {
		return nil, nil, wrap(ErrProvisioning, "Your account could not be fully set up. Please contact support.", err)
	}

	// 5. Auto-login, only after the identity is fully authorized. Non-fatal:
	// the account works via manual login even if this fails.
	var session *Session
	token, err := middleware.GenerateJWT(user.ID, user.Name, user.Role, user.Email)
	if err != nil {
		log.Printf("[PROVISION] auto-login failed for user %d: %v", user.ID, err)
	} else {
		session = &Session{Token: token, ExpiresAt: time.Now().Add(24 * time.Hour)}
	}

	// 6. Best-effort processor customer enrichment
	s.enrichProcessorCustomer(enrollment, &user, user.Name, user.Email)

	return &user, session, nil
}

// enrichProcessorCustomer back-fills the processor customer that checkout
// created anonymously: it gets the real name/email and its id is linked onto
// the user record. Everything here is best-effort and only logged on failure.
func (s *Completer) enrichProcessorCustomer(enrollment *models.Enrollment, user *models.User, name, email string) {
	var payment models.Payment
	err := s.db.Where("enrollment_id = ? AND is_deleted = false", enrollment.ID).
		Order("paid_at desc").
		First(&payment).Error
	if err != nil {
		return // nothing paid yet, nothing to enrich
	}

	client, err := s.processorFor(enrollment.TenantID)
	if err != nil {
		log.Printf("[PROVISION] processor unavailable for tenant %d: %v", enrollment.TenantID, err)
		return
	}

	intent, err := client.GetPaymentIntent(payment.ProcessorTransactionID)
	if err != nil {
		log.Printf("[PROVISION] failed to fetch transaction %s: %v", payment.ProcessorTransactionID, err)
		return
	}
	if intent.CustomerID == "" {
		return
	}

	if err := client.UpdateCustomer(intent.CustomerID, payments.CustomerParams{Name: name, Email: email}); err != nil {
		log.Printf("[PROVISION] failed to update processor customer %s: %v", intent.CustomerID, err)
	}

	if err := s.db.Model(user).Update("processor_customer_id", intent.CustomerID).Error; err != nil {
		log.Printf("[PROVISION] failed to link processor customer to user %d: %v", user.ID, err)
	}
}
