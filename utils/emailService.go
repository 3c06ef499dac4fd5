package utils

import (
	"fmt"
	"log"

	"lms/config"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// SendEmail sends an HTML email through SendGrid
func SendEmail(toEmail, toName, subject, htmlBody string) error {
	apiKey := config.AppConfig.SendgridApiKey
	if apiKey == "" {
		log.Printf("[EMAIL] SENDGRID_API_KEY not set, skipping email to %s", toEmail)
		return nil
	}

	from := mail.NewEmail("Enrollments", config.AppConfig.EmailSender)
	to := mail.NewEmail(toName, toEmail)
	message := mail.NewSingleEmail(from, subject, to, "", htmlBody)

	client := sendgrid.NewSendClient(apiKey)
	response, err := client.Send(message)
	if err != nil {
		return err
	}
	if response.StatusCode >= 300 {
		return fmt.Errorf("sendgrid returned %d: %s", response.StatusCode, response.Body)
	}
	return nil
}

// SendEnrollmentConfirmation sends the post-activation confirmation email
func SendEnrollmentConfirmation(toEmail, name, productTitle string) error {
	subject := "You're enrolled in " + productTitle
	body := fmt.Sprintf(`
	<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
		<h2>Welcome, %s!</h2>
		<p>Your enrollment in <strong>%s</strong> is now active.</p>
		<p>You can sign in at any time to access your courses.</p>
		<a href="/dashboard" style="display:inline-block;padding:12px 24px;background:#00004D;color:#fff;text-decoration:none;border-radius:4px;">Go to dashboard</a>
	</div>`, name, productTitle)

	return SendEmail(toEmail, name, subject, body)
}
