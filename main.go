package main

import (
	"log"

	"lms/config"
	"lms/database"
	authRoutes "lms/routers/authRoutes"
	enrollmentRoutes "lms/routers/enrollmentRoutes"
	webhookRoutes "lms/routers/webhookRoutes"
	"lms/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func main() {
	config.LoadConfig()
	database.ConnectDb()

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE",
		AllowHeaders: "Content-Type,Authorization",
	}))

	// Enable the built-in logger middleware to log all requests
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	authRoutes.SetupAuthRoutes(app)
	enrollmentRoutes.SetupEnrollmentRoutes(app)
	webhookRoutes.SetupWebhookRoutes(app)

	utils.InitializeScheduleSweeper()

	log.Printf("Server is running on port %s", config.AppConfig.Port)
	log.Fatal(app.Listen(":" + config.AppConfig.Port))
}
