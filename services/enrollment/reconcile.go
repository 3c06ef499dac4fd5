package enrollmentService

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"lms/models"
	"lms/payments"

	"gorm.io/gorm"
)

// reconcilePayment decides which payment model applies and verifies the money
// actually moved. All payment truth is re-derived from the database and, as a
// fallback, from the processor itself; client-supplied assertions are never
// trusted.
func (s *Completer) reconcilePayment(ctx context.Context, enrollment *models.Enrollment) *Error {
	product := enrollment.Product

	// Parent enrollments only hold a payment method for dependents; free
	// products and zero totals have nothing to collect.
	if enrollment.IsParent || product.PaymentModel == models.PaymentModelFree || enrollment.TotalAmount <= 0 {
		return nil
	}

	// The deposit schedule row overrides the product's payment model: plans
	// can be overridden per enrollment at schedule-creation time, so the row
	// is the authoritative signal and the product field only a default.
	hasDeposit := s.depositSchedule(enrollment.ID) != nil

	switch {
	case product.PaymentModel == models.PaymentModelSubscription && enrollment.SetupIntentID != "":
		return s.reconcileSetupIntent(enrollment)
	case product.PaymentModel == models.PaymentModelDepositPlan || hasDeposit:
		return s.reconcileDeposit(ctx, enrollment)
	default:
		return s.reconcileFullPayment(enrollment)
	}
}

func (s *Completer) depositSchedule(enrollmentID uint) *models.PaymentSchedule {
	var row models.PaymentSchedule
	err := s.db.Where("enrollment_id = ? AND type = ? AND is_deleted = false",
		enrollmentID, models.ScheduleTypeDeposit).First(&row).Error
	if err != nil {
		return nil
	}
	return &row
}

// reconcileSetupIntent covers card-on-file capture with no upfront charge.
// The stored setup intent must have succeeded; attaching the captured payment
// method to the customer is best-effort and never aborts the operation.
func (s *Completer) reconcileSetupIntent(enrollment *models.Enrollment) *Error {
	client, err := s.processorFor(enrollment.TenantID)
	if err != nil {
		return wrap(ErrProcessorUnavailable, "Payment processor is not configured for this tenant", err)
	}

	intent, err := client.GetSetupIntent(enrollment.SetupIntentID)
	if err != nil {
		return wrap(ErrProcessorUnavailable, "Could not verify card setup with the payment processor", err)
	}
	if intent.Status != payments.IntentStatusSucceeded {
		return fail(ErrPaymentIncomplete, "Card setup has not completed. Please finish the payment step.")
	}

	customerID := intent.CustomerID
	if customerID == "" {
		customerID = enrollment.ProcessorCustomerID
	}
	if customerID != "" && intent.PaymentMethod != "" {
		if err := client.AttachPaymentMethod(intent.PaymentMethod, customerID); err != nil {
			log.Printf("[RECONCILE] attach payment method failed for enrollment %d: %v", enrollment.ID, err)
		}
		if err := client.SetDefaultPaymentMethod(customerID, intent.PaymentMethod); err != nil {
			log.Printf("[RECONCILE] set default payment method failed for enrollment %d: %v", enrollment.ID, err)
		}
	}

	return nil
}

// reconcileDeposit bridges the gap between "processor confirmed the charge"
// and "webhook wrote the schedule row". It polls the deposit row up to the
// configured cap, then falls back to asking the processor directly and
// replaying the missing webhook's effects inline.
func (s *Completer) reconcileDeposit(ctx context.Context, enrollment *models.Enrollment) *Error {
	var row *models.PaymentSchedule
	for attempt := 0; attempt < s.pollAttempts; attempt++ {
		if attempt > 0 {
			timer := time.NewTimer(s.pollInterval)
			select {
			case <-ctx.Done():
				timer.Stop()
				return wrap(ErrInternal, "Request cancelled while waiting for payment confirmation", ctx.Err())
			case <-timer.C:
			}
		}

		row = s.depositSchedule(enrollment.ID)
		if row != nil && row.Status == models.ScheduleStatusPaid {
			return nil
		}
	}

	if row == nil || row.PaymentIntentID == "" {
		return fail(ErrPaymentIncomplete, "Your deposit has not been confirmed yet. Please finish the payment step.")
	}

	// Webhook genuinely lost or delayed; ask the processor directly
	client, err := s.processorFor(enrollment.TenantID)
	if err != nil {
		return wrap(ErrProcessorUnavailable, "Payment processor is not configured for this tenant", err)
	}
	intent, err := client.GetPaymentIntent(row.PaymentIntentID)
	if err != nil {
		return wrap(ErrProcessorUnavailable, "Could not verify the deposit with the payment processor", err)
	}
	if intent.Status != payments.IntentStatusSucceeded {
		return fail(ErrPaymentIncomplete, "Your deposit has not been confirmed yet. Please finish the payment step.")
	}

	log.Printf("[RECONCILE] webhook missing for paid deposit, replaying effects inline (enrollment %d, txn %s)",
		enrollment.ID, intent.ID)
	if err := ApplyProcessorPayment(s.db, row.ID, intent); err != nil {
		return wrap(ErrInternal, "Failed to record the confirmed deposit", err)
	}

	// Refresh the in-memory copy so later stages see the rolled-up amounts
	if err := s.db.Preload("Product").First(enrollment, enrollment.ID).Error; err != nil {
		log.Printf("[RECONCILE] failed to reload enrollment %d after replay: %v", enrollment.ID, err)
	}

	return nil
}

// reconcileFullPayment covers one-time and subscription charges that should
// already be committed. Zero schedule rows means schedule creation is likely
// still in flight, which is retryable; anything else is a terminal miss.
func (s *Completer) reconcileFullPayment(enrollment *models.Enrollment) *Error {
	if enrollment.PaymentStatus == models.PaymentStatusPaid || enrollment.PaidAmount >= enrollment.TotalAmount {
		return nil
	}

	var count int64
	s.db.Model(&models.PaymentSchedule{}).
		Where("enrollment_id = ? AND is_deleted = false", enrollment.ID).
		Count(&count)
	if count == 0 {
		return fail(ErrSchedulesNotCreated, "Your payment is still being set up. Please try again in a moment.")
	}

	return fail(ErrPaymentIncomplete, "Your payment has not been confirmed yet. Please finish the payment step.")
}

// ApplyProcessorPayment replays the side effects of a successful charge that
// the webhook handler would normally write: one Payment row, the schedule row
// marked PAID, and the enrollment's paid amount rolled up. It is idempotent
// on the processor transaction id — whichever of the webhook handler and the
// reconciliation fallback arrives second observes existing state and no-ops.
// The unique index on payments.processor_transaction_id backstops the
// concurrent case.
func ApplyProcessorPayment(db *gorm.DB, scheduleID uint, intent *payments.PaymentIntent) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var schedule models.PaymentSchedule
		if err := tx.Where("id = ? AND is_deleted = false", scheduleID).First(&schedule).Error; err != nil {
			return err
		}

		// Already recorded: the other writer got here first
		var existing models.Payment
		err := tx.Where("processor_transaction_id = ?", intent.ID).First(&existing).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		amount := float64(intent.Amount) / 100
		now := time.Now()

		payment := models.Payment{
			EnrollmentID:           schedule.EnrollmentID,
			ScheduleID:             &schedule.ID,
			Amount:                 amount,
			Currency:               strings.ToUpper(intent.Currency),
			ProcessorTransactionID: intent.ID,
			Method:                 "card",
			Status:                 "COMPLETED",
			PaidAt:                 now,
		}
		if err := tx.Create(&payment).Error; err != nil {
			return err
		}

		// Paid schedule rows are immutable; only flip pending/overdue ones
		if schedule.Status != models.ScheduleStatusPaid {
			if err := tx.Model(&schedule).Updates(map[string]interface{}{
				"status":            models.ScheduleStatusPaid,
				"paid_at":           now,
				"payment_intent_id": intent.ID,
			}).Error; err != nil {
				return err
			}
		}

		var enrollment models.Enrollment
		if err := tx.First(&enrollment, schedule.EnrollmentID).Error; err != nil {
			return err
		}

		paid := enrollment.PaidAmount + amount
		if paid > enrollment.TotalAmount {
			paid = enrollment.TotalAmount
		}
		paymentStatus := models.PaymentStatusPartial
		if paid >= enrollment.TotalAmount {
			paymentStatus = models.PaymentStatusPaid
		}

		return tx.Model(&enrollment).Updates(map[string]interface{}{
			"paid_amount":    paid,
			"payment_status": paymentStatus,
		}).Error
	})
}
