package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/expenseflow/receipt-ocr-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubEngine satisfies the OCR engine interface with canned text.
type stubEngine struct {
	text string
}

func (s *stubEngine) Name() string { return "stub" }
func (s *stubEngine) Probe() error { return nil }
func (s *stubEngine) Recognize(ctx context.Context, imageData []byte, language string) (*models.RawOCRResult, error) {
	return &models.RawOCRResult{ExtractedText: s.text, Confidence: 0.9, Language: language}, nil
}

func newTestHandler() *Handler {
	return NewHandler(&models.Config{OCR: models.OCRConfig{Language: "eng"}}, &stubEngine{})
}

func TestHealth(t *testing.T) {
	h := newTestHandler()
	rec := httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest("GET", "/health", nil))

	// The stub engine is always available, so the service reports
	// healthy regardless of whether tesseract is installed.
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, Version, resp.Version)
	assert.Equal(t, "stub", resp.OCREngine)
	assert.False(t, resp.Database.Available)
	assert.False(t, resp.Storage.Available)
}

func TestProcessReceiptRequiresAuth(t *testing.T) {
	h := newTestHandler()
	rec := httptest.NewRecorder()
	h.ProcessReceipt(rec, httptest.NewRequest("POST", "/api/process-receipt", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGetReceiptsRequiresAuth(t *testing.T) {
	h := newTestHandler()
	rec := httptest.NewRecorder()
	h.GetReceipts(rec, httptest.NewRequest("GET", "/api/receipts", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestValidateOCR(t *testing.T) {
	h := newTestHandler()

	body := `{
		"result": {
			"ocr_data": {"extracted_text": "", "confidence": 0.9},
			"parsed_data": {"merchant_name": "Corner Deli"},
			"suggested_category": "meals"
		},
		"input": {}
	}`
	req := httptest.NewRequest("POST", "/api/validate-ocr", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ValidateOCR(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Success    bool `json:"success"`
		Validation struct {
			Valid       bool `json:"valid"`
			Suggestions []struct {
				Field      string `json:"field"`
				Suggestion string `json:"suggestion"`
			} `json:"suggestions"`
		} `json:"validation"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.True(t, resp.Validation.Valid)
	require.Len(t, resp.Validation.Suggestions, 2)
}

func TestValidateOCRBadBody(t *testing.T) {
	h := newTestHandler()

	req := httptest.NewRequest("POST", "/api/validate-ocr", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	h.ValidateOCR(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req = httptest.NewRequest("POST", "/api/validate-ocr", strings.NewReader(`{"input":{}}`))
	rec = httptest.NewRecorder()
	h.ValidateOCR(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSetupRoutes(t *testing.T) {
	h := newTestHandler()
	router := h.SetupRoutes()

	// /health is wired and reachable without middleware.
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	// Unknown routes fall through to mux's 404.
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
