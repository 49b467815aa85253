package main

import (
	"io"
	"log"

	"campus-governance-api/config"
	"campus-governance-api/middleware"
	"campus-governance-api/monitor"
	"campus-governance-api/routes"
	"campus-governance-api/services"

	"github.com/gin-gonic/gin"
)

func main() {
	if err := config.Load(); err != nil {
		log.Fatal("❌ Invalid configuration:", err)
	}

	if logFile := config.InitLogging(config.App.LogDir); logFile != nil {
		defer logFile.Close()
	}

	// Initialize database
	config.InitDB()

	requester, err := services.NewCertificateRequesterFromConfig(config.App)
	if err != nil {
		log.Fatal("❌ Failed to configure certificate requests:", err)
	}
	services.SetDefaultCertificateRequester(requester)
	if closer, ok := requester.(io.Closer); ok {
		defer closer.Close()
	}

	// Set Gin mode
	if config.App.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	gin.DefaultWriter = config.LogWriter

	// Create Gin router
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.CORSMiddleware())

	monitor.RegisterMonitorRoutes(router)
	routes.SetupRoutes(router)

	port := config.App.ServerPort
	if port == "" {
		port = "8080"
	}

	log.Printf("🚀 Server starting on port %s", port)
	log.Printf("📜 Certificate requests go to the %q sink", config.App.CertificateSink)
	if config.App.GinMode == "release" {
		log.Printf("🏭 Running in production mode")
	} else {
		log.Printf("🔧 Running in development mode")
	}

	if err := router.Run(":" + port); err != nil {
		log.Fatal("❌ Failed to start server:", err)
	}
}
