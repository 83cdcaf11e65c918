package config

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// DataDir is the base directory for all data files
var DataDir string

type HPIConfig struct {
	HPIData string `json:"hpi_data"`
	Port    string `json:"port"`
}

var hpiConfig HPIConfig

func init() {
	// Load .env if present; real env vars take precedence either way
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded configuration from .env")
	}

	// Set up data directory
	if envDataDir := os.Getenv("DATA_DIR"); envDataDir != "" {
		DataDir = envDataDir
	} else {
		DataDir = filepath.Join(".", "data")
	}

	// Default paths
	hpiConfig = HPIConfig{
		HPIData: "UK-HPI-full.csv",
		Port:    "8080",
	}

	// Try to load config from file
	if configFile, err := os.Open("config.json"); err == nil {
		defer configFile.Close()
		json.NewDecoder(configFile).Decode(&hpiConfig)
	}

	// Environment overrides
	if f := os.Getenv("HPI_DATA_FILE"); f != "" {
		hpiConfig.HPIData = f
	}
	if p := os.Getenv("PORT"); p != "" {
		hpiConfig.Port = p
	}
}

// GetDataFilePath returns the full path for a data file given its name
func GetDataFilePath(filename string) string {
	return filepath.Join(DataDir, filename)
}

// GetHPIConfig returns the HPI configuration
func GetHPIConfig() HPIConfig {
	return hpiConfig
}
