// Package classify assigns a spending category to a parsed receipt by
// keyword membership. Pure rule matching, no scoring: the first category
// in priority order with any keyword present in the merchant/items text
// wins, and general is the fallback.
package classify

import (
	"strings"

	"github.com/expenseflow/receipt-ocr-service/internal/models"
)

type categoryRule struct {
	label    models.Category
	keywords []string
}

// taxonomy is evaluated in order; when a receipt mentions both a cafe
// and an uber ride it is a meals expense, because meals comes first.
var taxonomy = []categoryRule{
	{models.CategoryMeals, []string{
		"restaurant", "cafe", "coffee", "food", "dining", "pizza", "burger",
		"grill", "kitchen", "bistro", "deli", "bakery", "pub",
		"starbucks", "mcdonalds", "subway", "tim hortons",
	}},
	{models.CategoryTransportation, []string{
		"uber", "lyft", "taxi", "gas", "fuel", "petrol", "parking",
		"metro", "bus", "train", "shell", "exxon", "chevron",
	}},
	{models.CategoryAccommodation, []string{
		"hotel", "motel", "inn", "resort", "airline", "airport", "flight",
		"booking", "travel", "marriott", "hilton",
	}},
	{models.CategoryOfficeSupplies, []string{
		"office", "supplies", "paper", "pen", "staples", "depot",
	}},
	{models.CategoryEntertainment, []string{
		"cinema", "movie", "theater", "bar", "club",
	}},
}

// Categorize maps a merchant name and item list to one category label.
// Deterministic and pure; empty input returns general.
func Categorize(merchantName string, items []models.ReceiptItem) models.Category {
	var names []string
	for _, item := range items {
		names = append(names, item.Name)
	}
	corpus := strings.ToLower(merchantName + " " + strings.Join(names, " "))

	for _, rule := range taxonomy {
		for _, keyword := range rule.keywords {
			if strings.Contains(corpus, keyword) {
				return rule.label
			}
		}
	}
	return models.CategoryGeneral
}
