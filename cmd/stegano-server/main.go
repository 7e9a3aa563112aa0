package main

import (
	"log"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/joemunene-by/stegano/pkg/server"
)

func main() {
	router := gin.Default()

	config := cors.DefaultConfig()
	config.AllowOrigins = []string{"http://localhost:3000"}
	config.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "X-Requested-With"}
	config.ExposeHeaders = []string{"Content-Disposition"}
	router.Use(cors.New(config))

	stegoHandler := server.NewStegoHandler()

	api := router.Group("/api/v1")
	{
		api.GET("/health", stegoHandler.HealthCheck)
		api.GET("/password", stegoHandler.GeneratePassword)

		stego := api.Group("/stego")
		{
			stego.POST("/encode", stegoHandler.EncodeMessage)
			stego.POST("/decode", stegoHandler.DecodeMessage)
			stego.POST("/analyze", stegoHandler.AnalyzeImage)
		}
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on port %s", port)
	log.Printf("API endpoints:")
	log.Printf("  POST /api/v1/stego/encode  - Embed a message into an image (returns stego PNG)")
	log.Printf("  POST /api/v1/stego/decode  - Recover a message from a stego image")
	log.Printf("  POST /api/v1/stego/analyze - Capacity, message probe and LSB statistics")
	log.Printf("  GET  /api/v1/password      - Generate a random passphrase")
	log.Printf("  GET  /api/v1/health        - Health check")

	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
