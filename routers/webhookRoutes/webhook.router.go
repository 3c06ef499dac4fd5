package webhookRoutes

import (
	webhookController "lms/controllers/webhook"

	"github.com/gofiber/fiber/v2"
)

func SetupWebhookRoutes(app *fiber.App) {
	webhookGroup := app.Group("/webhooks")

	webhookGroup.Post("/processor", webhookController.HandleProcessorEvent)
}
