package webhookController

import (
	"bytes"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"lms/database"
	"lms/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	database.Database = database.DbInstance{Db: db}

	app := fiber.New()
	app.Post("/webhooks/processor", HandleProcessorEvent)
	return app, db
}

func postEvent(t *testing.T, app *fiber.App, body string) int {
	t.Helper()
	req := httptest.NewRequest("POST", "/webhooks/processor", bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp.StatusCode
}

func TestProcessorEventRecordsPaymentOnce(t *testing.T) {
	app, db := setupApp(t)

	tenant := models.Tenant{Name: "Acme", Subdomain: "acme-wh"}
	require.NoError(t, db.Create(&tenant).Error)
	product := models.Product{TenantID: tenant.ID, Title: "Course", Price: 500, PaymentModel: models.PaymentModelDepositPlan}
	require.NoError(t, db.Create(&product).Error)
	enrollment := models.Enrollment{
		TenantID:       tenant.ID,
		ProductID:      product.ID,
		Status:         models.EnrollmentPending,
		TotalAmount:    500,
		Token:          "tok-wh",
		TokenExpiresAt: time.Now().Add(time.Hour),
	}
	require.NoError(t, db.Create(&enrollment).Error)
	schedule := models.PaymentSchedule{
		EnrollmentID:    enrollment.ID,
		Type:            models.ScheduleTypeDeposit,
		Amount:          100,
		DueDate:         time.Now(),
		Status:          models.ScheduleStatusPending,
		PaymentIntentID: "pi_wh_1",
	}
	require.NoError(t, db.Create(&schedule).Error)

	event := `{"id":"evt_1","type":"payment_intent.succeeded","data":{"object":{"id":"pi_wh_1","status":"succeeded","amount":10000,"currency":"usd"}}}`

	// Delivered twice: the retry must be a no-op
	assert.Equal(t, 200, postEvent(t, app, event))
	assert.Equal(t, 200, postEvent(t, app, event))

	var paymentCount int64
	db.Model(&models.Payment{}).Where("processor_transaction_id = ?", "pi_wh_1").Count(&paymentCount)
	assert.Equal(t, int64(1), paymentCount)

	var updated models.PaymentSchedule
	require.NoError(t, db.First(&updated, schedule.ID).Error)
	assert.Equal(t, models.ScheduleStatusPaid, updated.Status)

	var refreshed models.Enrollment
	require.NoError(t, db.First(&refreshed, enrollment.ID).Error)
	assert.Equal(t, float64(100), refreshed.PaidAmount)
	assert.Equal(t, models.PaymentStatusPartial, refreshed.PaymentStatus)
}

func TestProcessorEventIgnoresOtherTypes(t *testing.T) {
	app, db := setupApp(t)

	assert.Equal(t, 200, postEvent(t, app, `{"id":"evt_2","type":"customer.created","data":{"object":{}}}`))

	var paymentCount int64
	db.Model(&models.Payment{}).Count(&paymentCount)
	assert.Zero(t, paymentCount)
}

func TestProcessorEventUnknownIntentAcknowledged(t *testing.T) {
	app, _ := setupApp(t)

	event := `{"id":"evt_3","type":"payment_intent.succeeded","data":{"object":{"id":"pi_unknown","status":"succeeded","amount":100,"currency":"usd"}}}`
	assert.Equal(t, 200, postEvent(t, app, event))
}
