package parser

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Plausible expense range. Numeric matches outside of it are treated as
// OCR noise (card numbers, store codes) and discarded.
var (
	minAmount = decimal.NewFromFloat(0.01)
	maxAmount = decimal.NewFromInt(10000)
)

// collectAmounts runs every pattern in the list against lowercased text
// and returns all in-range numeric matches. Candidates that fail to
// parse as a number are skipped silently; extraction never errors.
func collectAmounts(patterns []*regexp.Regexp, text string) []decimal.Decimal {
	lower := strings.ToLower(text)

	var amounts []decimal.Decimal
	for _, re := range patterns {
		for _, m := range re.FindAllStringSubmatch(lower, -1) {
			d, err := decimal.NewFromString(strings.ReplaceAll(m[1], ",", ""))
			if err != nil {
				continue
			}
			if d.LessThan(minAmount) || d.GreaterThan(maxAmount) {
				continue
			}
			amounts = append(amounts, d)
		}
	}
	return amounts
}

// largest returns the biggest collected amount, or nil when the list is
// empty. Receipts usually print the total as the largest amount, and the
// same tie-break works for the label-anchored fields.
func largest(amounts []decimal.Decimal) *decimal.Decimal {
	if len(amounts) == 0 {
		return nil
	}
	best := amounts[0]
	for _, d := range amounts[1:] {
		if d.GreaterThan(best) {
			best = d
		}
	}
	return &best
}

// extractTotal aggregates all label-anchored total candidates and keeps
// the largest. With no anchored candidate it falls back to any bare
// dollars-and-cents amount in the text, again keeping the largest.
func extractTotal(text string) *decimal.Decimal {
	if total := largest(collectAmounts(totalPatterns, text)); total != nil {
		return total
	}
	return largest(collectAmounts([]*regexp.Regexp{totalFallbackPattern}, text))
}

func extractSubtotal(text string) *decimal.Decimal {
	return largest(collectAmounts(subtotalPatterns, text))
}

func extractTax(text string) *decimal.Decimal {
	return largest(collectAmounts(taxPatterns, text))
}
