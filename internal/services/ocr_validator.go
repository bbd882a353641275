package services

import (
	"fmt"
	"math"
	"time"

	"github.com/expenseflow/receipt-ocr-service/internal/models"

	"github.com/shopspring/decimal"
)

// ValidationWarning represents a discrepancy worth reviewing
type ValidationWarning struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationSuggestion represents a value the extraction proposes
type ValidationSuggestion struct {
	Field      string `json:"field"`
	Suggestion string `json:"suggestion"`
	Message    string `json:"message"`
}

// ValidationResult is the response from validation
type ValidationResult struct {
	Valid       bool                   `json:"valid"`
	Confidence  float64                `json:"confidence"`
	Warnings    []ValidationWarning    `json:"warnings"`
	Suggestions []ValidationSuggestion `json:"suggestions"`
}

// UserInput holds the fields the user typed in before OCR ran
type UserInput struct {
	Amount      *decimal.Decimal `json:"amount,omitempty"`
	ExpenseDate string           `json:"expense_date,omitempty"`
	Category    string           `json:"category,omitempty"`
	Merchant    string           `json:"merchant,omitempty"`
}

// OCRValidator cross-checks extracted receipt data against user input
type OCRValidator struct {
	confidenceThreshold float64
	amountTolerancePct  float64
}

// NewOCRValidator creates a validator with default thresholds
func NewOCRValidator() *OCRValidator {
	return &OCRValidator{
		confidenceThreshold: 0.6,
		amountTolerancePct:  10,
	}
}

// Validate compares an extraction result against user-entered values
func (v *OCRValidator) Validate(result *models.ProcessResult, input *UserInput) *ValidationResult {
	validation := &ValidationResult{
		Valid:       true,
		Warnings:    []ValidationWarning{},
		Suggestions: []ValidationSuggestion{},
	}
	if result.OCRData != nil {
		validation.Confidence = result.OCRData.Confidence
	}

	if validation.Confidence < v.confidenceThreshold {
		validation.Warnings = append(validation.Warnings, ValidationWarning{
			Field:   "general",
			Message: fmt.Sprintf("Low OCR confidence (%.1f%%). Please verify extracted data.", validation.Confidence*100),
		})
	}

	parsed := result.ParsedData
	if parsed == nil {
		return validation
	}

	v.checkAmount(parsed, input, validation)
	v.checkDate(parsed, input, validation)
	v.checkCategory(result.SuggestedCategory, input, validation)
	v.checkMerchant(parsed, input, validation)
	v.checkItemsSum(parsed, validation)

	return validation
}

// checkAmount warns when the extracted total differs more than 10% from user input
func (v *OCRValidator) checkAmount(parsed *models.ReceiptRecord, input *UserInput, validation *ValidationResult) {
	if parsed.TotalAmount == nil || input.Amount == nil {
		return
	}

	ocrAmount := *parsed.TotalAmount
	if ocrAmount.IsZero() {
		return
	}

	diff := ocrAmount.Sub(*input.Amount).Abs()
	pctDiff := diff.Div(ocrAmount).Mul(decimal.NewFromInt(100))

	if pctDiff.GreaterThan(decimal.NewFromFloat(v.amountTolerancePct)) {
		validation.Warnings = append(validation.Warnings, ValidationWarning{
			Field: "amount",
			Message: fmt.Sprintf("OCR detected amount $%s differs significantly from entered amount $%s (%s%% difference)",
				ocrAmount.StringFixed(2), input.Amount.StringFixed(2), pctDiff.StringFixed(1)),
		})
	}
}

// checkDate warns when the extracted date is more than a day off from user input
func (v *OCRValidator) checkDate(parsed *models.ReceiptRecord, input *UserInput, validation *ValidationResult) {
	if parsed.Date == "" || input.ExpenseDate == "" {
		return
	}

	ocrDate, ok := parseReceiptDate(parsed.Date)
	if !ok {
		return
	}
	inputDate, ok := parseReceiptDate(input.ExpenseDate)
	if !ok {
		return
	}

	daysDiff := math.Abs(ocrDate.Sub(inputDate).Hours() / 24)
	if daysDiff > 1 {
		validation.Warnings = append(validation.Warnings, ValidationWarning{
			Field: "date",
			Message: fmt.Sprintf("OCR detected date %s differs from entered date %s",
				ocrDate.Format("Jan 2 2006"), inputDate.Format("Jan 2 2006")),
		})
	}
}

// checkCategory suggests the classified category when missing or different
func (v *OCRValidator) checkCategory(suggested models.Category, input *UserInput, validation *ValidationResult) {
	if suggested == "" {
		return
	}

	if input.Category == "" {
		validation.Suggestions = append(validation.Suggestions, ValidationSuggestion{
			Field:      "category",
			Suggestion: string(suggested),
			Message:    fmt.Sprintf("Based on receipt analysis, this appears to be a %s expense", suggested),
		})
	} else if input.Category != string(suggested) {
		validation.Suggestions = append(validation.Suggestions, ValidationSuggestion{
			Field:      "category",
			Suggestion: string(suggested),
			Message:    fmt.Sprintf("OCR suggests this might be a %s expense instead of %s", suggested, input.Category),
		})
	}
}

// checkMerchant suggests the detected merchant when the user left it blank
func (v *OCRValidator) checkMerchant(parsed *models.ReceiptRecord, input *UserInput, validation *ValidationResult) {
	if parsed.MerchantName == "" || input.Merchant != "" {
		return
	}

	validation.Suggestions = append(validation.Suggestions, ValidationSuggestion{
		Field:      "merchant",
		Suggestion: parsed.MerchantName,
		Message:    "Detected merchant: " + parsed.MerchantName,
	})
}

// checkItemsSum warns when line items do not add up to the extracted total
func (v *OCRValidator) checkItemsSum(parsed *models.ReceiptRecord, validation *ValidationResult) {
	if len(parsed.Items) == 0 || parsed.TotalAmount == nil {
		return
	}

	sum := decimal.Zero
	for _, item := range parsed.Items {
		sum = sum.Add(item.Price)
	}

	if sum.Sub(*parsed.TotalAmount).Abs().GreaterThan(decimal.NewFromFloat(0.01)) {
		validation.Warnings = append(validation.Warnings, ValidationWarning{
			Field: "items",
			Message: fmt.Sprintf("Sum of individual items ($%s) doesn't match total amount ($%s)",
				sum.StringFixed(2), parsed.TotalAmount.StringFixed(2)),
		})
	}
}

// receiptDateLayouts covers the formats the date extractor can produce
var receiptDateLayouts = []string{
	"01/02/2006",
	"1/2/2006",
	"01-02-2006",
	"1-2-2006",
	"2006-01-02",
	"2006/01/02",
	"January 2, 2006",
	"January 2 2006",
	"Jan 2, 2006",
	"Jan 2 2006",
	"2 January 2006",
	"2 Jan 2006",
}

func parseReceiptDate(raw string) (time.Time, bool) {
	for _, layout := range receiptDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
