package enrollmentService

import (
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"lms/config"
	"lms/database"
	"lms/models"
	"lms/payments"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestMain(m *testing.M) {
	config.LoadConfig()
	config.AppConfig.SaltRound = bcrypt.MinCost
	os.Exit(m.Run())
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// A named shared-cache database keeps all pooled connections on the same
	// in-memory store, isolated per test
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

// fakeProcessor implements payments.Client in memory and counts every call
type fakeProcessor struct {
	setupIntents   map[string]*payments.SetupIntent
	paymentIntents map[string]*payments.PaymentIntent

	calls            int
	attached         [][2]string // payment method, customer
	defaults         [][2]string // customer, payment method
	updatedCustomers map[string]payments.CustomerParams
}

func newFakeProcessor() *fakeProcessor {
	return &fakeProcessor{
		setupIntents:     map[string]*payments.SetupIntent{},
		paymentIntents:   map[string]*payments.PaymentIntent{},
		updatedCustomers: map[string]payments.CustomerParams{},
	}
}

func (f *fakeProcessor) GetSetupIntent(id string) (*payments.SetupIntent, error) {
	f.calls++
	intent, ok := f.setupIntents[id]
	if !ok {
		return nil, fmt.Errorf("no such setup intent %s", id)
	}
	return intent, nil
}

func (f *fakeProcessor) GetPaymentIntent(id string) (*payments.PaymentIntent, error) {
	f.calls++
	intent, ok := f.paymentIntents[id]
	if !ok {
		return nil, fmt.Errorf("no such payment intent %s", id)
	}
	return intent, nil
}

func (f *fakeProcessor) AttachPaymentMethod(paymentMethodID, customerID string) error {
	f.calls++
	f.attached = append(f.attached, [2]string{paymentMethodID, customerID})
	return nil
}

func (f *fakeProcessor) SetDefaultPaymentMethod(customerID, paymentMethodID string) error {
	f.calls++
	f.defaults = append(f.defaults, [2]string{customerID, paymentMethodID})
	return nil
}

func (f *fakeProcessor) UpdateCustomer(customerID string, params payments.CustomerParams) error {
	f.calls++
	f.updatedCustomers[customerID] = params
	return nil
}

// fakeDispatcher records dispatched domain events
type fakeDispatcher struct {
	dispatched []string
}

func (f *fakeDispatcher) Dispatch(name string, payload map[string]interface{}) error {
	f.dispatched = append(f.dispatched, name)
	return nil
}

func newTestCompleter(db *gorm.DB, proc payments.Client) *Completer {
	return &Completer{
		db: db,
		processorFor: func(uint) (payments.Client, error) {
			if proc == nil {
				return nil, payments.ErrNoCredentials
			}
			return proc, nil
		},
		pollAttempts: 2,
		pollInterval: time.Millisecond,
		now:          time.Now,
	}
}

func seedTenant(t *testing.T, db *gorm.DB) models.Tenant {
	t.Helper()
	tenant := models.Tenant{Name: "Acme Academy", Subdomain: "acme-" + uuid.NewString()[:8]}
	require.NoError(t, db.Create(&tenant).Error)
	return tenant
}

func seedProduct(t *testing.T, db *gorm.DB, tenantID uint, mutate func(*models.Product)) models.Product {
	t.Helper()
	product := models.Product{
		TenantID:     tenantID,
		Title:        "Options Mastery",
		Type:         "COURSE",
		Price:        500,
		Currency:     "USD",
		PaymentModel: models.PaymentModelFull,
	}
	if mutate != nil {
		mutate(&product)
	}
	require.NoError(t, db.Create(&product).Error)
	return product
}

func seedEnrollment(t *testing.T, db *gorm.DB, tenantID uint, product models.Product, mutate func(*models.Enrollment)) models.Enrollment {
	t.Helper()
	enrollment := models.Enrollment{
		TenantID:       tenantID,
		ProductID:      product.ID,
		Status:         models.EnrollmentPending,
		PaymentStatus:  models.PaymentStatusPending,
		TotalAmount:    product.Price,
		Currency:       product.Currency,
		Token:          "tok-" + uuid.NewString(),
		TokenExpiresAt: time.Now().Add(24 * time.Hour),
	}
	if mutate != nil {
		mutate(&enrollment)
	}
	require.NoError(t, db.Create(&enrollment).Error)
	return enrollment
}

func validProfile() *Profile {
	return &Profile{
		FirstName: "Asha",
		LastName:  "Rao",
		Email:     "asha.rao@example.com",
		Phone:     "5551234567",
		Address:   "12 Hill Road",
	}
}

func newUserRequest() CompleteRequest {
	return CompleteRequest{
		Password: "s3cret-password",
		Profile:  validProfile(),
	}
}

func loadedEnrollment(t *testing.T, db *gorm.DB, id uint) models.Enrollment {
	t.Helper()
	var enrollment models.Enrollment
	require.NoError(t, db.Preload("Product").First(&enrollment, id).Error)
	return enrollment
}
