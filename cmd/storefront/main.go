package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/marketloft/storefront/internal/storefront/app"
)

func main() {
	// Local development picks config up from a .env file if present.
	_ = godotenv.Load()

	cfg := app.LoadConfig()

	application, err := app.New(cfg)
	if err != nil {
		log.Fatalf("failed to initialize application: %v", err)
	}

	if err := application.Run(); err != nil {
		log.Fatalf("application error: %v", err)
	}
}
