package enrollmentService

import (
	"testing"
	"time"

	"lms/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveTokenNotFound(t *testing.T) {
	db := setupTestDB(t)
	completer := newTestCompleter(db, nil)

	_, ferr := completer.resolveToken("tok-does-not-exist")
	require.NotNil(t, ferr)
	assert.Equal(t, ErrNotFound, ferr.Kind)
}

func TestResolveTokenExpired(t *testing.T) {
	db := setupTestDB(t)
	tenant := seedTenant(t, db)
	product := seedProduct(t, db, tenant.ID, nil)
	enrollment := seedEnrollment(t, db, tenant.ID, product, func(e *models.Enrollment) {
		e.TokenExpiresAt = time.Now().Add(-time.Hour)
		// Fully paid, so the failure can only come from expiry
		e.PaymentStatus = models.PaymentStatusPaid
		e.PaidAmount = e.TotalAmount
	})

	completer := newTestCompleter(db, nil)

	_, ferr := completer.resolveToken(enrollment.Token)
	require.NotNil(t, ferr)
	assert.Equal(t, ErrTokenExpired, ferr.Kind)
}

func TestResolveTokenLoadsProduct(t *testing.T) {
	db := setupTestDB(t)
	tenant := seedTenant(t, db)
	product := seedProduct(t, db, tenant.ID, nil)
	enrollment := seedEnrollment(t, db, tenant.ID, product, nil)

	completer := newTestCompleter(db, nil)

	resolved, ferr := completer.resolveToken(enrollment.Token)
	require.Nil(t, ferr)
	assert.Equal(t, enrollment.ID, resolved.ID)
	assert.Equal(t, product.Title, resolved.Product.Title)
}
