// Package parser turns raw OCR text from a receipt into a structured
// record. Every extractor is a pure function of the text: no I/O, no
// state, no failure mode other than field absence. Garbage in produces
// an all-default record, never an error.
package parser

import (
	"strings"

	"github.com/expenseflow/receipt-ocr-service/internal/classify"
	"github.com/expenseflow/receipt-ocr-service/internal/models"
)

// Parse runs every field extractor against the text and assembles one
// ReceiptRecord. Fields with no match keep their type default; the
// record is best effort and is not cross-validated (subtotal + tax is
// not checked against total).
func Parse(text string) *models.ReceiptRecord {
	lines := splitLines(text)

	return &models.ReceiptRecord{
		MerchantName:  extractMerchantName(lines),
		TotalAmount:   extractTotal(text),
		Subtotal:      extractSubtotal(text),
		TaxAmount:     extractTax(text),
		Date:          extractDate(text),
		Items:         extractItems(lines),
		PaymentMethod: extractPaymentMethod(text),
		ReceiptNumber: extractReceiptNumber(text),
		Address:       extractAddress(text),
		Phone:         extractPhone(text),
	}
}

// Process is the single entry operation of the pipeline: one OCR result
// in, one structured result out. It never fails; an empty or unusable
// OCR result yields an all-default record with the general category.
func Process(ocr *models.RawOCRResult) *models.ProcessResult {
	text := ocr.ExtractedText
	if text == "" && len(ocr.TextBlocks) > 0 {
		parts := make([]string, 0, len(ocr.TextBlocks))
		for _, block := range ocr.TextBlocks {
			parts = append(parts, block.Text)
		}
		text = strings.Join(parts, "\n")
	}

	record := Parse(text)

	return &models.ProcessResult{
		OCRData:           ocr,
		ParsedData:        record,
		SuggestedCategory: classify.Categorize(record.MerchantName, record.Items),
	}
}

// splitLines returns the non-empty, whitespace-trimmed lines in order.
func splitLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
