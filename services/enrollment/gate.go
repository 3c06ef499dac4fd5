package enrollmentService

import (
	"strings"

	"lms/models"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// checkCompleteness verifies the non-payment preconditions for activation:
// password and profile shape for first-time enrollees, and the e-signature
// when the product requires one. Payment completeness is checked separately
// by the reconciliation engine. Nothing is mutated here.
func (s *Completer) checkCompleteness(enrollment *models.Enrollment, req CompleteRequest) *Error {
	if !req.IsExistingUser {
		if len(strings.TrimSpace(req.Password)) < 8 {
			return fail(ErrValidation, "Password must be at least 8 characters long!")
		}
		if req.Profile == nil {
			return fail(ErrValidation, "Profile details are required!")
		}
		if err := validate.Struct(req.Profile); err != nil {
			if fieldErrs, ok := err.(validator.ValidationErrors); ok && len(fieldErrs) > 0 {
				field := strings.ToLower(fieldErrs[0].Field())
				return fail(ErrValidation, "Profile field '"+field+"' is missing or invalid!")
			}
			return wrap(ErrValidation, "Invalid profile details", err)
		}
	}

	if enrollment.Product.RequiresSignature && enrollment.SignatureStatus != models.SignatureCompleted {
		return fail(ErrSignatureIncomplete, "Please complete the enrollment agreement before continuing.")
	}

	return nil
}
