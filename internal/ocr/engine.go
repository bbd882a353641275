// Package ocr wraps the external text-recognition backends. The parsing
// pipeline treats every backend as a black box that maps an image to a
// RawOCRResult; which backend runs is decided once at startup.
package ocr

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/expenseflow/receipt-ocr-service/internal/models"
)

// Engine is a text-recognition backend.
type Engine interface {
	// Name identifies the backend in config and diagnostics.
	Name() string

	// Probe reports whether the backend can run in this environment
	// (binary installed, API key configured).
	Probe() error

	// Recognize maps image bytes to raw text. The image is expected to
	// be PNG or JPEG; callers convert PDFs and exotic formats first.
	Recognize(ctx context.Context, imageData []byte, language string) (*models.RawOCRResult, error)
}

// SelectEngine probes the configured backends in order and returns the
// first available one. Probe outcomes are logged per backend so a
// misconfigured deployment is visible at startup, and the chosen
// backend is explicit state from here on, not a per-request decision.
func SelectEngine(cfg *models.OCRConfig) (Engine, error) {
	names := cfg.Engines
	if len(names) == 0 {
		names = []string{"tesseract"}
	}

	for _, name := range names {
		engine, err := newEngine(name, cfg)
		if err == nil {
			err = engine.Probe()
		}
		if err != nil {
			log.Printf("OCR backend %q not available: %v", name, err)
			continue
		}
		log.Printf("OCR backend %q available", name)
		return engine, nil
	}

	return nil, fmt.Errorf("no OCR backend available (tried: %s)", strings.Join(names, ", "))
}

func newEngine(name string, cfg *models.OCRConfig) (Engine, error) {
	switch name {
	case "tesseract":
		return NewTesseract(), nil
	case "gemini":
		return NewGemini(cfg.Gemini.APIKey, cfg.Gemini.Model)
	case "openai":
		return NewOpenAI(cfg.OpenAI.APIKey, cfg.OpenAI.BaseURL, cfg.OpenAI.Model)
	default:
		return nil, fmt.Errorf("unknown OCR backend: %s", name)
	}
}

// buildResult packages plain recognized text the way the pipeline
// expects it: one text block per non-empty line, each carrying the
// engine-level confidence when no finer-grained score exists.
func buildResult(text string, confidence float64, language string) *models.RawOCRResult {
	var blocks []models.TextBlock
	var kept []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		kept = append(kept, line)
		blocks = append(blocks, models.TextBlock{Text: line, Confidence: confidence})
	}

	return &models.RawOCRResult{
		ExtractedText: strings.Join(kept, "\n"),
		Confidence:    confidence,
		TextBlocks:    blocks,
		Language:      language,
		ImageSize:     "unknown",
	}
}
