package main

import (
	"log"
	"net/http"
	"os"

	"hpi-dashboard/internal/config"
	"hpi-dashboard/internal/handlers"
	"hpi-dashboard/internal/services"
)

const (
	AppVersion = "1.0.0"
)

func main() {
	log.Printf("Starting HPI Dashboard v%s", AppVersion)

	// Get HPI config
	hpiConfig := config.GetHPIConfig()

	// Check if the CSV file exists
	dataPath := config.GetDataFilePath(hpiConfig.HPIData)
	if _, err := os.Stat(dataPath); os.IsNotExist(err) {
		log.Fatalf("HPI CSV file not found at: %s", dataPath)
	}

	log.Printf("Using HPI CSV file at: %s", dataPath)

	// Initialize services and handlers
	hpiService, err := services.NewHPIService(dataPath)
	if err != nil {
		log.Fatalf("Error loading HPI data: %v", err)
	}
	chartService := services.NewChartService()
	dashboardHandler := handlers.NewDashboardHandler(hpiService, chartService)
	apiHandler := handlers.NewAPIHandler(hpiService)

	// Set up routes
	http.HandleFunc("/", dashboardHandler.HandleDashboard)
	http.HandleFunc("/charts/price-trend.png", dashboardHandler.HandlePriceTrend)
	http.HandleFunc("/charts/property-types.png", dashboardHandler.HandlePropertyTypes)
	http.HandleFunc("/api/groups", apiHandler.HandleGroups)
	http.HandleFunc("/api/regions", apiHandler.HandleRegions)
	http.HandleFunc("/api/summary", apiHandler.HandleSummary)
	http.HandleFunc("/reload", apiHandler.HandleReload)

	// Start server
	port := hpiConfig.Port
	log.Printf("Server starting on port %s...", port)
	if err := http.ListenAndServe(":"+port, nil); err != nil {
		log.Fatalf("Error starting server: %v", err)
	}
}
