package utils

import (
	"log"
	"time"

	"lms/database"
	"lms/models"

	"github.com/jinzhu/now"
	"github.com/robfig/cron/v3"
)

// InitializeScheduleSweeper sets up the daily payment-schedule sweeper
func InitializeScheduleSweeper() {
	log.Println("[SCHEDULE-SWEEPER] Initializing payment schedule sweeper...")

	c := cron.New()

	// Run daily at 6 AM to flip past-due pending schedules to OVERDUE
	c.AddFunc("0 6 * * *", func() {
		log.Println("[SCHEDULE-SWEEPER] Running daily overdue check...")
		MarkOverdueSchedules()
	})

	c.Start()
	log.Println("[SCHEDULE-SWEEPER] Payment schedule sweeper started - runs daily at 6 AM")
}

// MarkOverdueSchedules marks pending schedule rows whose due date has passed
// as OVERDUE and flags their enrollments
func MarkOverdueSchedules() {
	db := database.Database.Db
	cutoff := now.BeginningOfDay()

	result := db.Model(&models.PaymentSchedule{}).
		Where("status = ? AND due_date < ? AND is_deleted = false", models.ScheduleStatusPending, cutoff).
		Update("status", models.ScheduleStatusOverdue)
	if result.Error != nil {
		log.Printf("[SCHEDULE-SWEEPER] Error marking overdue schedules: %v", result.Error)
		return
	}

	if result.RowsAffected == 0 {
		return
	}
	log.Printf("[SCHEDULE-SWEEPER] Marked %d schedules overdue", result.RowsAffected)

	// Flag the affected enrollments so billing screens can surface the state
	var enrollmentIDs []uint
	if err := db.Model(&models.PaymentSchedule{}).
		Where("status = ? AND is_deleted = false", models.ScheduleStatusOverdue).
		Distinct().
		Pluck("enrollment_id", &enrollmentIDs).Error; err != nil {
		log.Printf("[SCHEDULE-SWEEPER] Error fetching overdue enrollments: %v", err)
		return
	}

	if err := db.Model(&models.Enrollment{}).
		Where("id IN ? AND payment_status <> ? AND is_deleted = false", enrollmentIDs, models.PaymentStatusPaid).
		Updates(map[string]interface{}{"payment_status": models.PaymentStatusOverdue, "updated_at": time.Now()}).Error; err != nil {
		log.Printf("[SCHEDULE-SWEEPER] Error flagging overdue enrollments: %v", err)
	}
}
