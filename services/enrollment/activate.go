package enrollmentService

import (
	"encoding/json"

	"lms/models"

	"gorm.io/datatypes"
)

// activate flips the enrollment to ACTIVE and links the user. This is the
// only write that changes the externally visible lifecycle state and is never
// reached unless every earlier stage succeeded.
func (s *Completer) activate(enrollment *models.Enrollment, user *models.User, req CompleteRequest) *Error {
	now := s.now()

	enrollment.Status = models.EnrollmentActive
	enrollment.UserID = &user.ID
	enrollment.EnrolledAt = &now

	if req.DocusignEnvelopeID != "" {
		enrollment.DocusignEnvelopeID = req.DocusignEnvelopeID
	}

	// First-time enrollees keep their wizard answers on the enrollment;
	// existing users already have a profile of record.
	if !req.IsExistingUser && req.Profile != nil {
		if snapshot, err := json.Marshal(req.Profile); err == nil {
			enrollment.WizardData = datatypes.JSON(snapshot)
		}
	}

	if err := s.db.Omit("Product", "User").Save(enrollment).Error; err != nil {
		return wrap(ErrInternal, "Failed to activate the enrollment", err)
	}

	return nil
}
