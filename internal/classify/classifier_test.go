package classify

import (
	"testing"

	"github.com/expenseflow/receipt-ocr-service/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCategorize(t *testing.T) {
	tests := []struct {
		name     string
		merchant string
		items    []models.ReceiptItem
		want     models.Category
	}{
		{"empty input", "", nil, models.CategoryGeneral},
		{"no keyword", "Miscellaneous Shop", nil, models.CategoryGeneral},
		{"meals by merchant", "Starbucks Coffee", nil, models.CategoryMeals},
		{"meals case folded", "MCDONALDS #42", nil, models.CategoryMeals},
		{"transportation", "UBER TRIP", nil, models.CategoryTransportation},
		{"accommodation", "Hilton Garden", nil, models.CategoryAccommodation},
		{"office supplies", "Staples Store", nil, models.CategoryOfficeSupplies},
		{"entertainment", "AMC Cinema", nil, models.CategoryEntertainment},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Categorize(tt.merchant, tt.items))
		})
	}
}

func TestCategorizePriorityOrder(t *testing.T) {
	// The receipt mentions both a cafe and a ride; meals outranks
	// transportation.
	assert.Equal(t, models.CategoryMeals, Categorize("Cafe Uber", nil))
}

func TestCategorizeUsesItems(t *testing.T) {
	items := []models.ReceiptItem{
		{Name: "Large Coffee", Price: decimal.RequireFromString("2.50")},
	}
	assert.Equal(t, models.CategoryMeals, Categorize("Corner Shop", items))
}
