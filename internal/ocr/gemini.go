package ocr

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/expenseflow/receipt-ocr-service/internal/models"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// transcribePrompt asks the vision models for a plain transcription so
// the heuristic parser sees the same kind of input tesseract produces.
const transcribePrompt = `Transcribe ALL text visible in this receipt image, line by line, top to bottom, exactly as printed. Preserve numbers, currency symbols and punctuation. Return only the raw text with one receipt line per output line, no commentary and no markdown.`

// Vision models return no per-token confidence; recognized text is
// assumed reliable at this fixed level.
const visionConfidence = 0.9

// Gemini recognizes text via Google Gemini vision.
type Gemini struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

func NewGemini(apiKey string, modelName string) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	if modelName == "" {
		modelName = "gemini-1.5-flash"
	}

	client, err := genai.NewClient(context.Background(), option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &Gemini{
		client: client,
		model:  client.GenerativeModel(modelName),
	}, nil
}

func (g *Gemini) Name() string { return "gemini" }

func (g *Gemini) Probe() error {
	if g.client == nil {
		return fmt.Errorf("gemini client not initialized")
	}
	return nil
}

func (g *Gemini) Recognize(ctx context.Context, imageData []byte, language string) (*models.RawOCRResult, error) {
	start := time.Now()

	resp, err := g.model.GenerateContent(ctx,
		genai.ImageData("png", imageData),
		genai.Text(transcribePrompt),
	)
	if err != nil {
		return nil, fmt.Errorf("gemini recognition failed: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("no response from gemini")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}

	result := buildResult(sb.String(), visionConfidence, language)
	result.ProcessingTime = time.Since(start).Seconds()
	return result, nil
}
