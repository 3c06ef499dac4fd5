package enrollmentRoutes

import (
	enrollmentController "lms/controllers/enrollment"
	"lms/middleware"
	enrollmentValidator "lms/validators/enrollment"

	"github.com/gofiber/fiber/v2"
)

func SetupEnrollmentRoutes(app *fiber.App) {
	enrollmentGroup := app.Group("/enrollments")

	// Session-authenticated dashboard route; registered before the token
	// routes so "/me" is not swallowed by ":token"
	enrollmentGroup.Get("/me", middleware.JWTMiddleware, enrollmentController.GetMyEnrollments)

	// Token-authenticated wizard routes (no session yet)
	enrollmentGroup.Get("/:token", enrollmentController.GetEnrollmentSummary)
	enrollmentGroup.Post("/:token/complete", enrollmentValidator.Complete(), enrollmentController.CompleteEnrollment)
}
