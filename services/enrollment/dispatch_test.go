package enrollmentService

import (
	"testing"

	"lms/crm"
	"lms/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCrm struct {
	contacts []crm.Contact
}

func (f *fakeCrm) UpsertContact(contact crm.Contact) error {
	f.contacts = append(f.contacts, contact)
	return nil
}

func TestRoutingParentOnlyShowsConfirmation(t *testing.T) {
	db := setupTestDB(t)
	tenant := seedTenant(t, db)
	product := seedProduct(t, db, tenant.ID, nil)

	user := models.User{Email: "parent@example.com", Password: "hash"}
	require.NoError(t, db.Create(&user).Error)

	seedEnrollment(t, db, tenant.ID, product, func(e *models.Enrollment) {
		e.UserID = &user.ID
		e.Status = models.EnrollmentActive
		e.IsParent = true
	})

	completer := newTestCompleter(db, nil)

	routing := completer.computeRouting(user.ID)
	assert.Nil(t, routing.RedirectURL)
	assert.True(t, routing.ShowConfirmation)
}

func TestRoutingRealEnrollmentGoesToDashboard(t *testing.T) {
	db := setupTestDB(t)
	tenant := seedTenant(t, db)
	product := seedProduct(t, db, tenant.ID, nil)

	user := models.User{Email: "learner@example.com", Password: "hash"}
	require.NoError(t, db.Create(&user).Error)

	seedEnrollment(t, db, tenant.ID, product, func(e *models.Enrollment) {
		e.UserID = &user.ID
		e.Status = models.EnrollmentActive
		e.IsParent = true
	})
	seedEnrollment(t, db, tenant.ID, product, func(e *models.Enrollment) {
		e.UserID = &user.ID
		e.Status = models.EnrollmentActive
	})

	completer := newTestCompleter(db, nil)

	routing := completer.computeRouting(user.ID)
	require.NotNil(t, routing.RedirectURL)
	assert.Equal(t, "/dashboard", *routing.RedirectURL)
	assert.False(t, routing.ShowConfirmation)
}

func TestRoutingIgnoresInactiveEnrollments(t *testing.T) {
	db := setupTestDB(t)
	tenant := seedTenant(t, db)
	product := seedProduct(t, db, tenant.ID, nil)

	user := models.User{Email: "pending@example.com", Password: "hash"}
	require.NoError(t, db.Create(&user).Error)

	seedEnrollment(t, db, tenant.ID, product, func(e *models.Enrollment) {
		e.UserID = &user.ID
		e.Status = models.EnrollmentCancelled
	})

	completer := newTestCompleter(db, nil)

	routing := completer.computeRouting(user.ID)
	assert.Nil(t, routing.RedirectURL)
	assert.True(t, routing.ShowConfirmation)
}

func TestDispatchSyncsTaggedProductToCrm(t *testing.T) {
	db := setupTestDB(t)
	tenant := seedTenant(t, db)
	product := seedProduct(t, db, tenant.ID, func(p *models.Product) {
		p.CrmTag = "options-mastery"
	})

	user := models.User{Name: "Asha Rao", Email: "asha@example.com", Password: "hash"}
	require.NoError(t, db.Create(&user).Error)
	require.NoError(t, db.Create(&models.UserProfile{
		UserID:    user.ID,
		FirstName: "Asha",
		LastName:  "Rao",
		Email:     user.Email,
		Phone:     "5551234567",
	}).Error)

	enrollment := seedEnrollment(t, db, tenant.ID, product, func(e *models.Enrollment) {
		e.UserID = &user.ID
		e.Status = models.EnrollmentActive
	})

	syncer := &fakeCrm{}
	dispatcher := &fakeDispatcher{}
	completer := newTestCompleter(db, nil)
	completer.events = dispatcher
	completer.crmFor = func(uint) (crm.Syncer, error) { return syncer, nil }

	loaded := loadedEnrollment(t, db, enrollment.ID)
	completer.dispatchPostActivation(&loaded, &user)

	require.Len(t, syncer.contacts, 1)
	contact := syncer.contacts[0]
	assert.Equal(t, "asha@example.com", contact.Email)
	assert.Equal(t, []string{"options-mastery"}, contact.Tags)
	assert.Contains(t, contact.Note, product.Title)

	assert.Equal(t, []string{"enrollment.completed"}, dispatcher.dispatched)

	var auditCount int64
	db.Model(&models.AuditLog{}).Where("enrollment_id = ? AND action = ?", enrollment.ID, "enrollment.completed").Count(&auditCount)
	assert.Equal(t, int64(1), auditCount)
}

func TestDispatchSkipsCrmWithoutTag(t *testing.T) {
	db := setupTestDB(t)
	tenant := seedTenant(t, db)
	product := seedProduct(t, db, tenant.ID, nil)

	user := models.User{Email: "untagged@example.com", Password: "hash"}
	require.NoError(t, db.Create(&user).Error)

	enrollment := seedEnrollment(t, db, tenant.ID, product, func(e *models.Enrollment) {
		e.UserID = &user.ID
		e.Status = models.EnrollmentActive
	})

	syncer := &fakeCrm{}
	completer := newTestCompleter(db, nil)
	completer.crmFor = func(uint) (crm.Syncer, error) { return syncer, nil }

	loaded := loadedEnrollment(t, db, enrollment.ID)
	completer.dispatchPostActivation(&loaded, &user)

	assert.Empty(t, syncer.contacts)
}
