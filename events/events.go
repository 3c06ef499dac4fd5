package events

import (
	"log"
	"time"

	"lms/config"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
)

const EnrollmentCompleted = "enrollment.completed"

// Event is a domain event delivered to the trigger/notification subsystem
type Event struct {
	ID         string                 `json:"id"`
	Name       string                 `json:"name"`
	OccurredAt time.Time              `json:"occurred_at"`
	Payload    map[string]interface{} `json:"payload"`
}

// Dispatcher delivers domain events; delivery is best-effort
type Dispatcher interface {
	Dispatch(name string, payload map[string]interface{}) error
}

// WebhookDispatcher POSTs events to the configured trigger webhook
type WebhookDispatcher struct {
	http *resty.Client
	url  string
}

func NewWebhookDispatcher() *WebhookDispatcher {
	return &WebhookDispatcher{
		http: resty.New().SetTimeout(10 * time.Second),
		url:  config.AppConfig.TriggerApiURL,
	}
}

func (d *WebhookDispatcher) Dispatch(name string, payload map[string]interface{}) error {
	if d.url == "" {
		log.Printf("[EVENTS] no trigger URL configured, dropping event %s", name)
		return nil
	}

	event := Event{
		ID:         uuid.NewString(),
		Name:       name,
		OccurredAt: time.Now(),
		Payload:    payload,
	}

	resp, err := d.http.R().SetBody(event).Post(d.url)
	if err != nil {
		return err
	}
	if resp.StatusCode() >= 300 {
		log.Printf("[EVENTS] trigger webhook returned %d for %s", resp.StatusCode(), name)
	}
	return nil
}
