package enrollmentController

import (
	"lms/database"
	"lms/middleware"
	enrollmentService "lms/services/enrollment"

	"github.com/gofiber/fiber/v2"
)

// statusFor maps pipeline failure kinds onto HTTP statuses
func statusFor(kind enrollmentService.ErrorKind) int {
	switch kind {
	case enrollmentService.ErrNotFound:
		return fiber.StatusNotFound
	case enrollmentService.ErrTokenExpired:
		return fiber.StatusGone
	case enrollmentService.ErrValidation,
		enrollmentService.ErrSignatureIncomplete,
		enrollmentService.ErrPaymentIncomplete,
		enrollmentService.ErrMissingUserLink:
		return fiber.StatusBadRequest
	case enrollmentService.ErrSchedulesNotCreated:
		return fiber.StatusServiceUnavailable
	case enrollmentService.ErrDuplicateAccount:
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// CompleteEnrollment finalizes the enrollment behind the token: verifies the
// wizard preconditions, reconciles payment, provisions the account when
// needed and activates the enrollment.
func CompleteEnrollment(c *fiber.Ctx) error {
	token := c.Params("token")

	reqData, ok := c.Locals("validatedCompletion").(*enrollmentService.CompleteRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	completer := enrollmentService.NewCompleter(database.Database.Db)
	result, ferr := completer.Complete(c.UserContext(), token, *reqData)
	if ferr != nil {
		return middleware.JsonResponse(c, statusFor(ferr.Kind), false, ferr.Message, fiber.Map{
			"kind":      ferr.Kind,
			"retryable": ferr.Kind == enrollmentService.ErrSchedulesNotCreated,
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success":           true,
		"enrollment_id":     result.EnrollmentID,
		"user_id":           result.UserID,
		"status":            result.Status,
		"redirect_url":      result.RedirectURL,
		"show_confirmation": result.ShowConfirmation,
		"session":           result.Session,
		"message":           "Enrollment completed successfully!",
	})
}

// GetEnrollmentSummary resolves the token for the wizard without side effects
func GetEnrollmentSummary(c *fiber.Ctx) error {
	token := c.Params("token")

	completer := enrollmentService.NewCompleter(database.Database.Db)
	enrollment, ferr := completer.Resolve(token)
	if ferr != nil {
		return middleware.JsonResponse(c, statusFor(ferr.Kind), false, ferr.Message, nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollment fetched successfully!", fiber.Map{
		"enrollmentId":      enrollment.ID,
		"status":            enrollment.Status,
		"paymentStatus":     enrollment.PaymentStatus,
		"signatureStatus":   enrollment.SignatureStatus,
		"totalAmount":       enrollment.TotalAmount,
		"paidAmount":        enrollment.PaidAmount,
		"currency":          enrollment.Currency,
		"isParent":          enrollment.IsParent,
		"isLinkedToAccount": enrollment.UserID != nil,
		"product": fiber.Map{
			"id":                enrollment.Product.ID,
			"title":             enrollment.Product.Title,
			"type":              enrollment.Product.Type,
			"paymentModel":      enrollment.Product.PaymentModel,
			"requiresSignature": enrollment.Product.RequiresSignature,
		},
	})
}
