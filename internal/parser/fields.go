package parser

import (
	"strings"

	"github.com/expenseflow/receipt-ocr-service/internal/models"
)

// extractDate returns the first date-shaped substring found by the
// pattern library, verbatim. No calendar validation is applied; a
// day/month of 13/45 passes through as matched.
func extractDate(text string) string {
	for _, re := range datePatterns {
		if m := re.FindString(text); m != "" {
			return m
		}
	}
	return ""
}

func extractPhone(text string) string {
	return firstMatch(phonePatterns, text)
}

// extractReceiptNumber looks for a label (receipt/transaction/order/
// invoice/ref) followed by an alphanumeric token.
func extractReceiptNumber(text string) string {
	return firstMatch(receiptNumberPatterns, strings.ToLower(text))
}

// extractAddress matches a house number followed by a street-type
// suffix. The match is taken from the lowercased text, so the result is
// lowercase regardless of the receipt's casing.
func extractAddress(text string) string {
	return addressPattern.FindString(strings.ToLower(text))
}

// extractPaymentMethod maps the first matching payment pattern to the
// closed method set: card brands and masked card suffixes count as
// credit, the generic terms map to themselves.
func extractPaymentMethod(text string) models.PaymentMethod {
	lower := strings.ToLower(text)

	if paymentBrandPattern.MatchString(lower) {
		return models.PaymentCredit
	}
	switch paymentGenericPattern.FindString(lower) {
	case "cash":
		return models.PaymentCash
	case "credit":
		return models.PaymentCredit
	case "debit":
		return models.PaymentDebit
	}
	if paymentCardSuffixPattern.MatchString(lower) {
		return models.PaymentCredit
	}
	return models.PaymentUnknown
}
