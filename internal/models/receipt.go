package models

import (
	"github.com/shopspring/decimal"
)

// RawOCRResult is the output of an OCR engine for a single image.
// It is created once per image and never mutated afterwards.
type RawOCRResult struct {
	ExtractedText  string      `json:"extracted_text"`
	Confidence     float64     `json:"confidence"` // 0-1
	TextBlocks     []TextBlock `json:"text_blocks"`
	Language       string      `json:"language"`
	ImageSize      string      `json:"image_size"` // "WxH", "PDF" or "unknown"
	ProcessingTime float64     `json:"processing_time,omitempty"` // seconds
}

// TextBlock is a single recognized text fragment with its confidence
// and, when the engine reports one, its bounding box [x, y, w, h].
type TextBlock struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
	BBox       []int   `json:"bbox,omitempty"`
}

// PaymentMethod is the closed set of payment methods the parser recognizes.
type PaymentMethod string

const (
	PaymentCash    PaymentMethod = "cash"
	PaymentCredit  PaymentMethod = "credit"
	PaymentDebit   PaymentMethod = "debit"
	PaymentUnknown PaymentMethod = "unknown"
)

// ReceiptRecord is the structured data extracted from receipt text.
// Every field is independently optional: a nil amount, empty string or
// empty items slice means the corresponding extractor found no match,
// which is a valid terminal state and never an error.
type ReceiptRecord struct {
	MerchantName string `json:"merchant_name"`

	TotalAmount *decimal.Decimal `json:"total_amount,omitempty"`
	Subtotal    *decimal.Decimal `json:"subtotal,omitempty"`
	TaxAmount   *decimal.Decimal `json:"tax_amount,omitempty"`

	// Date is the raw matched substring, exactly as it appeared in the
	// text. It is not parsed to a calendar type and not validated.
	Date string `json:"date"`

	Items []ReceiptItem `json:"items"`

	PaymentMethod PaymentMethod `json:"payment_method"`
	ReceiptNumber string        `json:"receipt_number"`
	Address       string        `json:"address"`
	Phone         string        `json:"phone"`
}

// ReceiptItem is a single line item in source order.
type ReceiptItem struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// Category is one label from the fixed expense taxonomy.
type Category string

const (
	CategoryMeals          Category = "meals"
	CategoryTransportation Category = "transportation"
	CategoryAccommodation  Category = "accommodation"
	CategoryOfficeSupplies Category = "office_supplies"
	CategoryEntertainment  Category = "entertainment"
	CategoryGeneral        Category = "general"
)

// ProcessResult is the output of the full pipeline for one receipt.
type ProcessResult struct {
	OCRData           *RawOCRResult  `json:"ocr_data"`
	ParsedData        *ReceiptRecord `json:"parsed_data"`
	SuggestedCategory Category       `json:"suggested_category"`
}

// Config represents the service configuration
type Config struct {
	// Server config
	Port int    `yaml:"port"`
	Host string `yaml:"host"`

	// OCR config
	OCR OCRConfig `yaml:"ocr"`
}

// OCRConfig represents OCR-specific configuration
type OCRConfig struct {
	// Engines lists OCR backends in probe order; the first one that
	// passes its availability probe at startup is used.
	Engines  []string `yaml:"engines"`
	Language string   `yaml:"language"` // OCR language (default: "eng")

	// Gemini vision backend
	Gemini GeminiConfig `yaml:"gemini"`

	// OpenAI vision backend
	OpenAI OpenAIConfig `yaml:"openai"`
}

// GeminiConfig for Google Gemini
type GeminiConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"` // Default: "gemini-1.5-flash"
}

// OpenAIConfig for OpenAI / compatible endpoints
type OpenAIConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url,omitempty"` // For custom endpoints
	Model   string `yaml:"model"`              // Default: "gpt-4o-mini"
}
