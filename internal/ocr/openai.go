package ocr

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/expenseflow/receipt-ocr-service/internal/models"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAI recognizes text through an OpenAI-compatible vision endpoint.
type OpenAI struct {
	client *openai.Client
	model  string
}

func NewOpenAI(apiKey, baseURL, model string) (*OpenAI, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai api key is required")
	}
	if model == "" {
		model = "gpt-4o-mini"
	}

	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}

	return &OpenAI{
		client: openai.NewClientWithConfig(config),
		model:  model,
	}, nil
}

func (o *OpenAI) Name() string { return "openai" }

func (o *OpenAI) Probe() error {
	if o.client == nil {
		return fmt.Errorf("openai client not initialized")
	}
	return nil
}

func (o *OpenAI) Recognize(ctx context.Context, imageData []byte, language string) (*models.RawOCRResult, error) {
	start := time.Now()

	imageURL := "data:image/png;base64," + base64.StdEncoding.EncodeToString(imageData)

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{Type: openai.ChatMessagePartTypeText, Text: transcribePrompt},
					{
						Type:     openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{URL: imageURL},
					},
				},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("openai recognition failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from openai")
	}

	result := buildResult(resp.Choices[0].Message.Content, visionConfidence, language)
	result.ProcessingTime = time.Since(start).Seconds()
	return result, nil
}
