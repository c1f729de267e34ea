package main

import (
	"context"
	"log"
	"net/http"

	"mincerdash/internal"
	"mincerdash/internal/config"
	"mincerdash/internal/container"
	"mincerdash/ui"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	internal.DefaultLogger.SetLevel(internal.ParseLogLevel(appConfig.LogLevel))
	gin.SetMode(appConfig.Server.GinMode)

	appContainer, err := container.New(appConfig)
	if err != nil {
		log.Fatalf("Failed to create application container: %v", err)
	}
	if err := appContainer.Open(context.Background()); err != nil {
		log.Fatalf("Failed to open export ledger: %v", err)
	}
	defer appContainer.Close()

	// Warm the default dataset so the first page load does not pay for generation
	if _, err := appContainer.Cache.Default(context.Background()); err != nil {
		log.Fatalf("Failed to generate dataset: %v", err)
	}

	server, err := ui.NewServer(appContainer.Dashboard)
	if err != nil {
		log.Fatalf("Failed to initialize server: %v", err)
	}

	if appConfig.Profiling.Enabled {
		go func() {
			log.Printf("Profiling server starting on :%s", appConfig.Profiling.Port)
			log.Printf("View profiles: go tool pprof -http=:8081 http://localhost:%s/debug/pprof/profile?seconds=30", appConfig.Profiling.Port)
			if err := http.ListenAndServe(":"+appConfig.Profiling.Port, ui.NewAdminRouter()); err != nil {
				log.Printf("pprof server failed: %v", err)
			}
		}()
	}

	log.Printf("Starting education return dashboard on port %s", appConfig.Server.Port)
	log.Fatal(server.Start(":" + appConfig.Server.Port))
}
