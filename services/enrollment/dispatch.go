package enrollmentService

import (
	"encoding/json"
	"log"

	"lms/crm"
	"lms/events"
	"lms/models"

	"gorm.io/datatypes"
)

// Routing tells the wizard where to send the learner after activation
type Routing struct {
	RedirectURL      *string
	ShowConfirmation bool
}

// dispatchPostActivation fires the domain event, syncs the learner to the
// tenant's CRM when the product carries a tag, writes the audit record and
// computes routing. Every side effect here is best-effort: failures are
// logged and never affect the already-committed activation.
func (s *Completer) dispatchPostActivation(enrollment *models.Enrollment, user *models.User) Routing {
	product := enrollment.Product

	if s.events != nil {
		payload := map[string]interface{}{
			"enrollment_id":  enrollment.ID,
			"tenant_id":      enrollment.TenantID,
			"product_id":     product.ID,
			"product_title":  product.Title,
			"user_id":        user.ID,
			"email":          user.Email,
			"name":           user.Name,
			"total_amount":   enrollment.TotalAmount,
			"paid_amount":    enrollment.PaidAmount,
			"currency":       enrollment.Currency,
			"payment_status": enrollment.PaymentStatus,
			"language":       s.learnerLanguage(user.ID),
		}
		if err := s.events.Dispatch(events.EnrollmentCompleted, payload); err != nil {
			log.Printf("[DISPATCH] event dispatch failed for enrollment %d: %v", enrollment.ID, err)
		}
	}

	if product.CrmTag != "" && s.crmFor != nil {
		s.syncToCrm(enrollment, user)
	}

	s.writeAuditRecord(enrollment, user)

	if s.notify != nil {
		if err := s.notify(user.Email, user.Name, product.Title); err != nil {
			log.Printf("[DISPATCH] confirmation email failed for user %d: %v", user.ID, err)
		}
	}

	return s.computeRouting(user.ID)
}

func (s *Completer) syncToCrm(enrollment *models.Enrollment, user *models.User) {
	syncer, err := s.crmFor(enrollment.TenantID)
	if err != nil {
		log.Printf("[DISPATCH] CRM unavailable for tenant %d: %v", enrollment.TenantID, err)
		return
	}

	var profile models.UserProfile
	s.db.Where("user_id = ? AND is_deleted = false", user.ID).First(&profile)

	contact := crm.Contact{
		Email:     user.Email,
		FirstName: profile.FirstName,
		LastName:  profile.LastName,
		Phone:     profile.Phone,
		Tags:      []string{enrollment.Product.CrmTag},
		Note:      "Enrolled in " + enrollment.Product.Title,
	}
	if err := syncer.UpsertContact(contact); err != nil {
		log.Printf("[DISPATCH] CRM sync failed for %s: %v", user.Email, err)
	}
}

func (s *Completer) writeAuditRecord(enrollment *models.Enrollment, user *models.User) {
	detail, _ := json.Marshal(map[string]interface{}{
		"product_id":     enrollment.ProductID,
		"total_amount":   enrollment.TotalAmount,
		"paid_amount":    enrollment.PaidAmount,
		"payment_status": enrollment.PaymentStatus,
		"is_parent":      enrollment.IsParent,
	})

	audit := models.AuditLog{
		TenantID:     enrollment.TenantID,
		UserID:       user.ID,
		EnrollmentID: enrollment.ID,
		Action:       "enrollment.completed",
		Detail:       datatypes.JSON(detail),
	}
	if err := s.db.Create(&audit).Error; err != nil {
		log.Printf("[DISPATCH] audit write failed for enrollment %d: %v", enrollment.ID, err)
	}
}

// computeRouting sends the learner to the dashboard only when at least one of
// their active enrollments is a real one. A parent enrollment exists solely
// to hold billing authorization for dependents and grants no access itself.
func (s *Completer) computeRouting(userID uint) Routing {
	var enrollments []models.Enrollment
	if err := s.db.Where("user_id = ? AND status = ? AND is_deleted = false",
		userID, models.EnrollmentActive).Find(&enrollments).Error; err != nil {
		log.Printf("[DISPATCH] routing lookup failed for user %d: %v", userID, err)
		return Routing{ShowConfirmation: true}
	}

	for _, e := range enrollments {
		if !e.IsParent {
			dashboard := "/dashboard"
			return Routing{RedirectURL: &dashboard}
		}
	}
	return Routing{ShowConfirmation: true}
}

func (s *Completer) learnerLanguage(userID uint) string {
	var profile models.UserProfile
	if err := s.db.Where("user_id = ? AND is_deleted = false", userID).First(&profile).Error; err != nil {
		return "en"
	}
	if profile.Language == "" {
		return "en"
	}
	return profile.Language
}
