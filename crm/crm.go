package crm

import (
	"errors"
	"fmt"

	"lms/config"
	"lms/models"

	"github.com/go-resty/resty/v2"
	"gorm.io/gorm"
)

// ErrNoCredentials is returned when a tenant has no CRM integration configured
var ErrNoCredentials = errors.New("no CRM credentials configured for tenant")

// Contact is the payload for an upsert-by-email sync
type Contact struct {
	Email     string   `json:"email"`
	FirstName string   `json:"first_name"`
	LastName  string   `json:"last_name"`
	Phone     string   `json:"phone"`
	Tags      []string `json:"tags"`
	Note      string   `json:"note,omitempty"`
}

// Syncer pushes learner contacts to the tenant's CRM
type Syncer interface {
	UpsertContact(contact Contact) error
}

// RestSyncer talks to the CRM's REST API with tenant-scoped credentials
type RestSyncer struct {
	http *resty.Client
}

func NewSyncer(baseURL, apiKey string) *RestSyncer {
	return &RestSyncer{
		http: resty.New().
			SetBaseURL(baseURL).
			SetAuthToken(apiKey),
	}
}

// NewSyncerForTenant loads the tenant's CRM credentials and builds a syncer
func NewSyncerForTenant(db *gorm.DB, tenantID uint) (*RestSyncer, error) {
	var cred models.IntegrationCredential
	if err := db.Where("tenant_id = ? AND provider = ? AND is_deleted = false", tenantID, models.ProviderCrm).
		First(&cred).Error; err != nil {
		return nil, ErrNoCredentials
	}

	baseURL := config.AppConfig.CrmApiURL
	if baseURL == "" {
		return nil, ErrNoCredentials
	}
	return NewSyncer(baseURL, cred.ApiKey), nil
}

// UpsertContact creates or updates the contact keyed by email
func (s *RestSyncer) UpsertContact(contact Contact) error {
	resp, err := s.http.R().
		SetBody(contact).
		Put("/contacts/upsert")
	if err != nil {
		return err
	}
	if resp.StatusCode() >= 300 {
		return fmt.Errorf("crm returned %d for contact %s", resp.StatusCode(), contact.Email)
	}
	return nil
}
