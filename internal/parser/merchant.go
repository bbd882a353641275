package parser

import "strings"

// merchantScanLines bounds how far down the receipt the merchant name is
// expected: store names print in the header, so only the first few
// recognized lines are candidates.
const merchantScanLines = 8

// Exact line values that are receipt boilerplate, never a store name.
var merchantStopwords = map[string]bool{
	"receipt": true,
	"invoice": true,
	"bill":    true,
	"order":   true,
	"ticket":  true,
}

// extractMerchantName returns the first of the leading lines that looks
// like a store name: within length bounds, not shaped like a phone
// number, street address or date, not boilerplate, not digits and
// punctuation only, and not an amount-label line. Empty string when no
// line qualifies.
func extractMerchantName(lines []string) string {
	limit := merchantScanLines
	if len(lines) < limit {
		limit = len(lines)
	}

	for _, line := range lines[:limit] {
		if len(line) <= 3 || len(line) >= 50 {
			continue
		}
		lower := strings.ToLower(line)
		if merchantStopwords[lower] {
			continue
		}
		if strings.Contains(lower, "total") || strings.Contains(lower, "subtotal") || strings.Contains(lower, "tax") {
			continue
		}
		if numericLinePattern.MatchString(line) {
			continue
		}
		if dateLinePattern.MatchString(line) {
			continue
		}
		if phoneLinePattern.MatchString(line) {
			continue
		}
		if addressPattern.MatchString(lower) {
			continue
		}
		return line
	}
	return ""
}
