package webhookController

import (
	"errors"
	"log"

	"lms/database"
	"lms/middleware"
	"lms/models"
	"lms/payments"
	enrollmentService "lms/services/enrollment"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// processorEvent is the envelope the payment processor POSTs to us
type processorEvent struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object payments.PaymentIntent `json:"object"`
	} `json:"data"`
}

// HandleProcessorEvent records successful charges reported by the processor.
// It shares the idempotent apply routine with the reconciliation fallback, so
// whichever writer arrives second is a no-op. Always answers 200 for event
// types we ignore; the processor retries on non-2xx.
func HandleProcessorEvent(c *fiber.Ctx) error {
	var event processorEvent
	if err := c.BodyParser(&event); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid event payload!", nil)
	}

	if event.Type != "payment_intent.succeeded" {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Event ignored.", nil)
	}

	intent := event.Data.Object
	if intent.ID == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Event has no payment intent!", nil)
	}

	db := database.Database.Db

	var schedule models.PaymentSchedule
	err := db.Where("payment_intent_id = ? AND is_deleted = false", intent.ID).First(&schedule).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Charge does not map to a schedule row (yet); acknowledge so the
			// processor stops retrying and rely on reconciliation to catch up
			log.Printf("[WEBHOOK] no schedule row for transaction %s", intent.ID)
			return middleware.JsonResponse(c, fiber.StatusOK, true, "No matching schedule.", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to look up schedule!", nil)
	}

	if err := enrollmentService.ApplyProcessorPayment(db, schedule.ID, &intent); err != nil {
		log.Printf("[WEBHOOK] failed to apply payment %s: %v", intent.ID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to record payment!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Payment recorded.", nil)
}
