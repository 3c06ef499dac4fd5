package payments

import (
	"encoding/json"
	"errors"
	"fmt"

	"lms/config"
	"lms/models"

	"github.com/go-resty/resty/v2"
	"gorm.io/gorm"
)

// ErrNoCredentials is returned when a tenant has no processor credentials on file
var ErrNoCredentials = errors.New("no payment processor credentials configured for tenant")

const (
	IntentStatusSucceeded  = "succeeded"
	IntentStatusProcessing = "processing"
)

// SetupIntent is the processor object authorizing a future charge
type SetupIntent struct {
	ID            string `json:"id"`
	Status        string `json:"status"`
	CustomerID    string `json:"customer"`
	PaymentMethod string `json:"payment_method"`
}

// PaymentIntent is the processor object for a single charge attempt
type PaymentIntent struct {
	ID            string `json:"id"`
	Status        string `json:"status"`
	CustomerID    string `json:"customer"`
	PaymentMethod string `json:"payment_method"`
	Amount        int64  `json:"amount"` // smallest currency unit
	Currency      string `json:"currency"`
}

// CustomerParams carries the fields we update on a processor customer
type CustomerParams struct {
	Name  string
	Email string
}

// Client is the surface of the payment processor this service depends on
type Client interface {
	GetSetupIntent(id string) (*SetupIntent, error)
	GetPaymentIntent(id string) (*PaymentIntent, error)
	AttachPaymentMethod(paymentMethodID, customerID string) error
	SetDefaultPaymentMethod(customerID, paymentMethodID string) error
	UpdateCustomer(customerID string, params CustomerParams) error
}

// RestClient talks to the processor's REST API with a tenant-scoped secret key
type RestClient struct {
	http *resty.Client
}

// NewClient builds a processor client from an explicit secret key
func NewClient(baseURL, secretKey string) *RestClient {
	return &RestClient{
		http: resty.New().
			SetBaseURL(baseURL).
			SetAuthToken(secretKey).
			SetHeader("Content-Type", "application/x-www-form-urlencoded"),
	}
}

// NewClientForTenant loads the tenant's processor credentials and builds a client.
// Credentials are never shared across tenants.
func NewClientForTenant(db *gorm.DB, tenantID uint) (*RestClient, error) {
	var cred models.IntegrationCredential
	if err := db.Where("tenant_id = ? AND provider = ? AND is_deleted = false", tenantID, models.ProviderStripe).
		First(&cred).Error; err != nil {
		return nil, ErrNoCredentials
	}
	return NewClient(config.AppConfig.ProcessorApiURL, cred.ApiKey), nil
}

func (c *RestClient) GetSetupIntent(id string) (*SetupIntent, error) {
	resp, err := c.http.R().Get("/setup_intents/" + id)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("processor returned %d fetching setup intent %s", resp.StatusCode(), id)
	}

	var intent SetupIntent
	if err := json.Unmarshal(resp.Body(), &intent); err != nil {
		return nil, err
	}
	return &intent, nil
}

func (c *RestClient) GetPaymentIntent(id string) (*PaymentIntent, error) {
	resp, err := c.http.R().Get("/payment_intents/" + id)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("processor returned %d fetching payment intent %s", resp.StatusCode(), id)
	}

	var intent PaymentIntent
	if err := json.Unmarshal(resp.Body(), &intent); err != nil {
		return nil, err
	}
	return &intent, nil
}

func (c *RestClient) AttachPaymentMethod(paymentMethodID, customerID string) error {
	resp, err := c.http.R().
		SetFormData(map[string]string{"customer": customerID}).
		Post("/payment_methods/" + paymentMethodID + "/attach")
	if err != nil {
		return err
	}
	if resp.StatusCode() != 200 {
		return fmt.Errorf("processor returned %d attaching payment method", resp.StatusCode())
	}
	return nil
}

func (c *RestClient) SetDefaultPaymentMethod(customerID, paymentMethodID string) error {
	resp, err := c.http.R().
		SetFormData(map[string]string{"invoice_settings[default_payment_method]": paymentMethodID}).
		Post("/customers/" + customerID)
	if err != nil {
		return err
	}
	if resp.StatusCode() != 200 {
		return fmt.Errorf("processor returned %d setting default payment method", resp.StatusCode())
	}
	return nil
}

func (c *RestClient) UpdateCustomer(customerID string, params CustomerParams) error {
	form := map[string]string{}
	if params.Name != "" {
		form["name"] = params.Name
	}
	if params.Email != "" {
		form["email"] = params.Email
	}
	if len(form) == 0 {
		return nil
	}

	resp, err := c.http.R().SetFormData(form).Post("/customers/" + customerID)
	if err != nil {
		return err
	}
	if resp.StatusCode() != 200 {
		return fmt.Errorf("processor returned %d updating customer %s", resp.StatusCode(), customerID)
	}
	return nil
}
