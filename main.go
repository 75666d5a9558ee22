package main

import (
	"log"
	"os"

	"visionforge-backend/database"
	"visionforge-backend/router"

	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"
)

// CreateServer creates a new Fiber instance
func CreateServer() *fiber.App {
	app := fiber.New()
	return app
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("[INFO] No .env file found, using environment")
	}

	// Connect to Postgres
	database.ConnectToDB()

	app := CreateServer()

	router.SetupRoutes(app)

	// 404 Handler
	app.Use(func(c *fiber.Ctx) error {
		return c.SendStatus(404) // => 404 "Not Found"
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "5002"
	}

	log.Printf("[INFO] Server started on :%s", port)
	log.Fatal(app.Listen(":" + port))
}
