package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/expenseflow/receipt-ocr-service/api"
	"github.com/expenseflow/receipt-ocr-service/internal/auth"
	"github.com/expenseflow/receipt-ocr-service/internal/db"
	"github.com/expenseflow/receipt-ocr-service/internal/models"
	"github.com/expenseflow/receipt-ocr-service/internal/ocr"
	"github.com/expenseflow/receipt-ocr-service/internal/storage"
	"gopkg.in/yaml.v3"
)

func main() {
	// Initialize JWT
	if err := auth.Init(); err != nil {
		log.Fatalf("Failed to initialize auth: %v", err)
	}
	log.Println("JWT authentication initialized")

	// Initialize database connection pool
	if err := db.Init(); err != nil {
		log.Printf("Warning: Database not available: %v", err)
		log.Println("Running in extraction-only mode (no persistence)")
	} else {
		defer db.Close()
		log.Println("Database connection pool initialized")
	}

	// Initialize MinIO storage
	if err := storage.Init(); err != nil {
		log.Printf("Warning: MinIO storage not available: %v", err)
		log.Println("Images will not be stored")
	} else {
		log.Println("MinIO storage initialized")
	}

	// Load configuration
	config, err := loadConfig(configPath())
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Pick an OCR backend; without one the service cannot do its job
	engine, err := ocr.SelectEngine(&config.OCR)
	if err != nil {
		log.Fatalf("Failed to select OCR engine: %v", err)
	}
	log.Printf("Using OCR engine: %s", engine.Name())

	// Create API handler
	handler := api.NewHandler(config, engine)
	router := handler.SetupRoutes()

	// Wrap router with JWT middleware (skips /health and /api/login)
	protectedRouter := auth.JWTMiddleware(router)

	// Start server
	addr := fmt.Sprintf("%s:%d", config.Host, config.Port)
	log.Printf("Starting Receipt OCR Service v%s on %s", api.Version, addr)
	log.Printf("OCR Engine: %s", engine.Name())
	log.Printf("Database: %v", db.Pool != nil)
	log.Printf("Storage: %v", storage.Client != nil)
	log.Printf("Endpoints:")
	log.Printf("  POST http://%s/api/login              - Authenticate", addr)
	log.Printf("  POST http://%s/api/process-receipt    - Process receipt (requires JWT)", addr)
	log.Printf("  POST http://%s/api/validate-ocr       - Validate OCR vs user input (requires JWT)", addr)
	log.Printf("  GET  http://%s/api/receipts           - Get all receipts (requires JWT)", addr)
	log.Printf("  GET  http://%s/api/receipt/{id}       - Get single receipt (requires JWT)", addr)
	log.Printf("  PUT  http://%s/api/receipt/{id}       - Update receipt (requires JWT)", addr)
	log.Printf("  DELETE http://%s/api/receipt/{id}     - Delete receipt (requires JWT)", addr)
	log.Printf("  GET  http://%s/api/stats              - Get monthly stats (requires JWT)", addr)
	log.Printf("  GET  http://%s/health                 - Health check", addr)

	if err := http.ListenAndServe(addr, protectedRouter); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func configPath() string {
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		return path
	}
	return "config.yaml"
}

func loadConfig(path string) (*models.Config, error) {
	// Read config file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Parse YAML
	var config models.Config
	err = yaml.Unmarshal(data, &config)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// Override with environment variables if present
	if port := os.Getenv("PORT"); port != "" {
		fmt.Sscanf(port, "%d", &config.Port)
	}
	if host := os.Getenv("HOST"); host != "" {
		config.Host = host
	}
	if engines := os.Getenv("OCR_ENGINES"); engines != "" {
		config.OCR.Engines = strings.Split(engines, ",")
		for i := range config.OCR.Engines {
			config.OCR.Engines[i] = strings.TrimSpace(config.OCR.Engines[i])
		}
	}
	if language := os.Getenv("OCR_LANGUAGE"); language != "" {
		config.OCR.Language = language
	}
	if apiKey := os.Getenv("GEMINI_API_KEY"); apiKey != "" {
		config.OCR.Gemini.APIKey = apiKey
	}
	if model := os.Getenv("GEMINI_MODEL"); model != "" {
		config.OCR.Gemini.Model = model
	}
	if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
		config.OCR.OpenAI.APIKey = apiKey
	}
	if baseURL := os.Getenv("OPENAI_BASE_URL"); baseURL != "" {
		config.OCR.OpenAI.BaseURL = baseURL
	}
	if model := os.Getenv("OPENAI_MODEL"); model != "" {
		config.OCR.OpenAI.Model = model
	}

	return &config, nil
}
