package authRoutes

import (
	authController "lms/controllers/auth"
	authValidator "lms/validators/auth"

	"github.com/gofiber/fiber/v2"
)

func SetupAuthRoutes(app *fiber.App) {
	authGroup := app.Group("/auth")

	authGroup.Post("/login", authValidator.Login(), authController.Login)
}
