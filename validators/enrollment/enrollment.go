package enrollmentValidator

import (
	"strings"

	"lms/middleware"
	enrollmentService "lms/services/enrollment"

	"github.com/gofiber/fiber/v2"
)

// Complete validator middleware: parses and shape-checks the completion
// request. Business rules (password length, profile fields, signature and
// payment state) belong to the service's completeness gate; this only rejects
// bodies the pipeline cannot work with at all.
func Complete() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(enrollmentService.CompleteRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if strings.TrimSpace(c.Params("token")) == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Enrollment token is required!", nil)
		}

		c.Locals("validatedCompletion", reqData)
		return c.Next()
	}
}
