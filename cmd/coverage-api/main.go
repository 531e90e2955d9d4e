package main

import (
	"health-coverage-pipeline/internal/api"
	"health-coverage-pipeline/internal/store"
	"health-coverage-pipeline/pkg/router"
)

// @title Health Coverage Pipeline API
// @version 1.0
// @description Coverage analysis runs over UNICEF, UN WPP and mortality track-status sources
// @BasePath /api/v1
func main() {
	// Init run store
	if err := store.InitDB("coverage.db"); err != nil {
		panic(err)
	}

	// Create router and register API routes
	r := router.New()
	api.RegisterRoutes(r)

	// Start server
	r.Start(":8080")
}
