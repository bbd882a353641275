package parser

import (
	"strings"

	"github.com/expenseflow/receipt-ocr-service/internal/models"

	"github.com/shopspring/decimal"
)

// Words that mark a price-bearing line as a summary row, not an item.
var itemReservedWords = []string{"total", "tax", "change"}

// extractItems scans every line for `<name> <optional $> <price>` with
// the price at the end of the line. Source order is preserved and
// duplicate names are not merged. Lines whose price fails to parse are
// skipped, never an error.
func extractItems(lines []string) []models.ReceiptItem {
	items := []models.ReceiptItem{}
	for _, line := range lines {
		m := itemLinePattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		name := strings.TrimSpace(m[1])
		if len(name) <= 2 {
			continue
		}
		if containsReserved(name) {
			continue
		}

		price, err := decimal.NewFromString(m[2])
		if err != nil {
			continue
		}
		items = append(items, models.ReceiptItem{Name: name, Price: price})
	}
	return items
}

func containsReserved(name string) bool {
	lower := strings.ToLower(name)
	for _, word := range itemReservedWords {
		if strings.Contains(lower, word) {
			return true
		}
	}
	return false
}
