package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/expenseflow/receipt-ocr-service/internal/auth"
	"github.com/expenseflow/receipt-ocr-service/internal/db"
	"github.com/expenseflow/receipt-ocr-service/internal/models"
	"github.com/expenseflow/receipt-ocr-service/internal/ocr"
	"github.com/expenseflow/receipt-ocr-service/internal/parser"
	"github.com/expenseflow/receipt-ocr-service/internal/services"
	"github.com/expenseflow/receipt-ocr-service/internal/storage"
)

const (
	MaxUploadSize = 10 * 1024 * 1024 // 10MB
	Version       = "1.3.0"
)

// Handler handles HTTP requests for receipt processing
type Handler struct {
	config *models.Config
	engine ocr.Engine
}

// NewHandler creates a new API handler
func NewHandler(config *models.Config, engine ocr.Engine) *Handler {
	return &Handler{
		config: config,
		engine: engine,
	}
}

// SetupRoutes configures the HTTP routes
func (h *Handler) SetupRoutes() *mux.Router {
	router := mux.NewRouter()

	// Auth
	router.HandleFunc("/api/login", auth.LoginHandler).Methods("POST")

	// Main endpoints
	router.HandleFunc("/api/process-receipt", h.ProcessReceipt).Methods("POST")
	router.HandleFunc("/api/validate-ocr", h.ValidateOCR).Methods("POST")
	router.HandleFunc("/api/receipts", h.GetReceipts).Methods("GET")

	// Receipt CRUD
	router.HandleFunc("/api/receipt/{id}", h.GetReceipt).Methods("GET")
	router.HandleFunc("/api/receipt/{id}", h.UpdateReceipt).Methods("PUT")
	router.HandleFunc("/api/receipt/{id}", h.DeleteReceipt).Methods("DELETE")

	// Statistics
	router.HandleFunc("/api/stats", h.GetStats).Methods("GET")

	// Health check
	router.HandleFunc("/health", h.Health).Methods("GET")

	return router
}

// HealthResponse represents the health check response structure
type HealthResponse struct {
	Status      string        `json:"status"`
	Version     string        `json:"version"`
	Timestamp   string        `json:"timestamp"`
	Uptime      string        `json:"uptime"`
	Memory      MemoryStats   `json:"memory"`
	OCREngine   string        `json:"ocrEngine"`
	Tesseract   ServiceStatus `json:"tesseract"`
	ImageMagick ServiceStatus `json:"imageMagick"`
	Database    ServiceStatus `json:"database"`
	Storage     ServiceStatus `json:"storage"`
}

// MemoryStats represents memory usage statistics
type MemoryStats struct {
	Allocated string `json:"allocated"`
	Total     string `json:"total"`
	System    string `json:"system"`
}

// ServiceStatus represents the status of a service dependency
type ServiceStatus struct {
	Available bool   `json:"available"`
	Version   string `json:"version,omitempty"`
	Error     string `json:"error,omitempty"`
}

var startTime = time.Now()

// Health endpoint - enhanced for monitoring
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	// Memory statistics
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	// Check services
	tesseractStatus := h.checkTesseract()
	imageMagickStatus := h.checkImageMagick()
	databaseStatus := h.checkDatabase()
	storageStatus := h.checkStorage()

	// Build response
	response := HealthResponse{
		Status:    "healthy",
		Version:   Version,
		Timestamp: time.Now().Format(time.RFC3339),
		Uptime:    time.Since(startTime).String(),
		Memory: MemoryStats{
			Allocated: fmt.Sprintf("%.2f MB", float64(m.Alloc)/1024/1024),
			Total:     fmt.Sprintf("%.2f MB", float64(m.TotalAlloc)/1024/1024),
			System:    fmt.Sprintf("%.2f MB", float64(m.Sys)/1024/1024),
		},
		OCREngine:   h.engine.Name(),
		Tesseract:   tesseractStatus,
		ImageMagick: imageMagickStatus,
		Database:    databaseStatus,
		Storage:     storageStatus,
	}

	// The active engine being down is the only critical dependency
	if h.engine.Name() == "tesseract" && !tesseractStatus.Available {
		response.Status = "degraded"
		w.WriteHeader(http.StatusServiceUnavailable)
	} else {
		w.WriteHeader(http.StatusOK)
	}

	json.NewEncoder(w).Encode(response)
}

// checkTesseract verifies Tesseract OCR is available
func (h *Handler) checkTesseract() ServiceStatus {
	cmd := exec.Command("tesseract", "--version")
	output, err := cmd.CombinedOutput()

	if err != nil {
		return ServiceStatus{
			Available: false,
			Error:     "tesseract not found or not executable",
		}
	}

	version := "unknown"
	lines := strings.Split(string(output), "\n")
	if len(lines) > 0 {
		version = strings.TrimSpace(lines[0])
	}

	return ServiceStatus{
		Available: true,
		Version:   version,
	}
}

// checkImageMagick verifies ImageMagick is available
func (h *Handler) checkImageMagick() ServiceStatus {
	cmd := exec.Command("convert", "-version")
	output, err := cmd.CombinedOutput()

	if err != nil {
		return ServiceStatus{
			Available: false,
			Error:     "imagemagick not found or not executable",
		}
	}

	version := "unknown"
	lines := strings.Split(string(output), "\n")
	if len(lines) > 0 {
		version = strings.TrimSpace(lines[0])
	}

	return ServiceStatus{
		Available: true,
		Version:   version,
	}
}

// checkDatabase verifies PostgreSQL connection
func (h *Handler) checkDatabase() ServiceStatus {
	if db.Pool == nil {
		return ServiceStatus{
			Available: false,
			Error:     "database pool not initialized",
		}
	}

	return ServiceStatus{
		Available: true,
		Version:   "PostgreSQL via PgBouncer",
	}
}

// checkStorage verifies MinIO connection
func (h *Handler) checkStorage() ServiceStatus {
	if storage.Client == nil {
		return ServiceStatus{
			Available: false,
			Error:     "storage client not initialized",
		}
	}

	return ServiceStatus{
		Available: true,
		Version:   "MinIO S3",
	}
}

// ProcessReceipt handles receipt upload, OCR and field extraction
func (h *Handler) ProcessReceipt(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	ctx := r.Context()
	requestStart := time.Now()

	claims, err := auth.GetClaimsFromContext(ctx)
	if err != nil {
		h.sendError(w, http.StatusUnauthorized, "unauthorized: "+err.Error())
		return
	}

	// Parse multipart form
	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadSize)
	err = r.ParseMultipartForm(MaxUploadSize)
	if err != nil {
		h.sendError(w, http.StatusBadRequest, "File too large or invalid form data")
		return
	}

	// Get file - accept both "file" and "image" field names
	file, header, err := r.FormFile("file")
	if err != nil {
		file, header, err = r.FormFile("image")
		if err != nil {
			h.sendError(w, http.StatusBadRequest, "No file provided (use 'file' or 'image' field)")
			return
		}
	}
	defer file.Close()

	// Read file bytes
	rawData, err := io.ReadAll(file)
	if err != nil {
		h.sendError(w, http.StatusInternalServerError, "Failed to read file")
		return
	}

	language := r.FormValue("language")
	if language == "" {
		language = h.config.OCR.Language
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/jpeg"
	}

	// Upload original file to MinIO (if configured)
	var imageURL string
	if storage.Client != nil {
		filename := fmt.Sprintf("%s_%s%s",
			time.Now().Format("20060102_150405"),
			uuid.New().String()[:8],
			storage.GetFileExtension(contentType),
		)
		imageReader := bytes.NewReader(rawData)
		imageURL, err = storage.UploadReceiptImage(
			ctx,
			filename,
			imageReader,
			int64(len(rawData)),
			contentType,
		)
		if err != nil {
			// Log but don't fail - image storage is optional
			fmt.Printf("Warning: failed to upload image to MinIO: %v\n", err)
		}
	}

	result, err := h.processReceipt(ctx, rawData, contentType, language)
	totalDuration := time.Since(requestStart).Seconds()

	if err != nil {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success":       false,
			"error":         err.Error(),
			"totalDuration": totalDuration,
		})
		return
	}

	// Persist receipt (if database configured)
	var saved *db.Receipt
	if db.Pool != nil && result.ParsedData != nil {
		parsed := result.ParsedData

		itemsJSON := "[]"
		if ij, err := json.Marshal(parsed.Items); err == nil {
			itemsJSON = string(ij)
		}

		userID, _ := uuid.Parse(claims.UserID)
		rec := &db.Receipt{
			MerchantName:  parsed.MerchantName,
			TotalAmount:   parsed.TotalAmount,
			Subtotal:      parsed.Subtotal,
			TaxAmount:     parsed.TaxAmount,
			ReceiptDate:   parsed.Date,
			PaymentMethod: string(parsed.PaymentMethod),
			ReceiptNumber: parsed.ReceiptNumber,
			Address:       parsed.Address,
			Phone:         parsed.Phone,
			Category:      string(result.SuggestedCategory),
			ItemsJSON:     itemsJSON,
			OCRText:       result.OCRData.ExtractedText,
			OCRConfidence: result.OCRData.Confidence,
			ImageURL:      imageURL,
			UserID:        userID,
		}

		if err := db.SaveReceipt(ctx, rec); err != nil {
			fmt.Printf("Warning: failed to save receipt to DB: %v\n", err)
		} else {
			saved = rec
		}
	}

	responseData := map[string]interface{}{
		"success":           true,
		"ocr":               result.OCRData,
		"receipt":           result.ParsedData,
		"suggestedCategory": result.SuggestedCategory,
		"imageUrl":          imageURL,
		"totalDuration":     totalDuration,
	}

	if saved != nil {
		responseData["id"] = saved.ID
		responseData["created_at"] = saved.CreatedAt
		responseData["saved_to_db"] = true
	} else {
		responseData["saved_to_db"] = false
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(responseData)
}

// processReceipt normalizes the upload, runs OCR and extracts fields
func (h *Handler) processReceipt(ctx context.Context, rawData []byte, contentType, language string) (*models.ProcessResult, error) {
	// Convert PDF/HEIC uploads to PNG
	imageData, imageSize, err := ocr.NormalizeImage(rawData, contentType)
	if err != nil {
		return nil, fmt.Errorf("image conversion failed: %w", err)
	}

	// Tesseract benefits from grayscale+contrast preprocessing.
	// Vision models read the original colors better, so skip it for them.
	if h.engine.Name() == "tesseract" {
		imageData = ocr.PreprocessImage(imageData)
	}

	ocrResult, err := h.engine.Recognize(ctx, imageData, language)
	if err != nil {
		return nil, fmt.Errorf("OCR failed: %w", err)
	}
	ocrResult.ImageSize = imageSize

	return parser.Process(ocrResult), nil
}

// ValidateRequest is the body for OCR validation
type ValidateRequest struct {
	Result *models.ProcessResult `json:"result"`
	Input  services.UserInput    `json:"input"`
}

// ValidateOCR cross-checks extraction results against user-entered data
func (h *Handler) ValidateOCR(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var req ValidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Result == nil {
		h.sendError(w, http.StatusBadRequest, "result is required")
		return
	}

	validator := services.NewOCRValidator()
	validation := validator.Validate(req.Result, &req.Input)

	json.NewEncoder(w).Encode(map[string]interface{}{
		"success":    true,
		"validation": validation,
	})
}

// GetReceipts returns recent receipts for the authenticated user
func (h *Handler) GetReceipts(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	ctx := r.Context()

	if _, err := auth.GetClaimsFromContext(ctx); err != nil {
		h.sendError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if db.Pool == nil {
		h.sendError(w, http.StatusServiceUnavailable, "database not available")
		return
	}

	receipts, err := db.GetReceipts(ctx, 100)
	if err != nil {
		h.sendError(w, http.StatusInternalServerError, fmt.Sprintf("failed to get receipts: %v", err))
		return
	}

	// Generate presigned URLs for images
	for i := range receipts {
		if receipts[i].ImageURL != "" && storage.Client != nil {
			if presignedURL, err := storage.GetPresignedURL(ctx, receipts[i].ImageURL); err == nil {
				receipts[i].ImageURL = presignedURL
			}
		}
	}

	json.NewEncoder(w).Encode(map[string]interface{}{
		"success":  true,
		"receipts": receipts,
		"count":    len(receipts),
	})
}

// GetReceipt returns a single receipt
func (h *Handler) GetReceipt(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	ctx := r.Context()
	if _, err := auth.GetClaimsFromContext(ctx); err != nil {
		h.sendError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if db.Pool == nil {
		h.sendError(w, http.StatusServiceUnavailable, "database not available")
		return
	}

	vars := mux.Vars(r)
	receiptID := vars["id"]

	receipt, err := db.GetReceiptByID(ctx, receiptID)
	if err != nil {
		h.sendError(w, http.StatusNotFound, fmt.Sprintf("receipt not found: %v", err))
		return
	}

	// Generate presigned URL for image
	if receipt.ImageURL != "" && storage.Client != nil {
		if presignedURL, err := storage.GetPresignedURL(ctx, receipt.ImageURL); err == nil {
			receipt.ImageURL = presignedURL
		}
	}

	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"receipt": receipt,
	})
}

// UpdateReceipt updates receipt data
func (h *Handler) UpdateReceipt(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	ctx := r.Context()
	if _, err := auth.GetClaimsFromContext(ctx); err != nil {
		h.sendError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if db.Pool == nil {
		h.sendError(w, http.StatusServiceUnavailable, "database not available")
		return
	}

	vars := mux.Vars(r)
	receiptID := vars["id"]

	var updates map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		h.sendError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := db.UpdateReceipt(ctx, receiptID, updates); err != nil {
		h.sendError(w, http.StatusInternalServerError, "failed to update receipt")
		return
	}

	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"message": "receipt updated",
	})
}

// DeleteReceipt removes a receipt
func (h *Handler) DeleteReceipt(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	ctx := r.Context()
	if _, err := auth.GetClaimsFromContext(ctx); err != nil {
		h.sendError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if db.Pool == nil {
		h.sendError(w, http.StatusServiceUnavailable, "database not available")
		return
	}

	vars := mux.Vars(r)
	receiptID := vars["id"]

	// Optionally: delete image from MinIO
	if storage.Client != nil {
		receipt, err := db.GetReceiptByID(ctx, receiptID)
		if err == nil && receipt.ImageURL != "" {
			// Delete image (ignore errors)
			_ = storage.DeleteImage(ctx, receipt.ImageURL)
		}
	}

	if err := db.DeleteReceipt(ctx, receiptID); err != nil {
		h.sendError(w, http.StatusInternalServerError, "failed to delete receipt")
		return
	}

	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"message": "receipt deleted",
	})
}

// GetStats returns monthly statistics
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	ctx := r.Context()
	if _, err := auth.GetClaimsFromContext(ctx); err != nil {
		h.sendError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if db.Pool == nil {
		h.sendError(w, http.StatusServiceUnavailable, "database not available")
		return
	}

	stats, err := db.GetMonthlyStats(ctx)
	if err != nil {
		h.sendError(w, http.StatusInternalServerError, "failed to get stats")
		return
	}

	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"stats":   stats,
	})
}

// sendError writes a JSON error response
func (h *Handler) sendError(w http.ResponseWriter, status int, message string) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"error":   message,
	})
}
