package parser

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractItems(t *testing.T) {
	lines := []string{
		"Latte 4.50",
		"Blueberry Muffin $3.25",
		"Orange Juice 2",
		"Subtotal: 9.75",
		"Tax: 0.88",
		"Total: $10.63",
	}

	items := extractItems(lines)
	require.Len(t, items, 3)

	assert.Equal(t, "Latte", items[0].Name)
	assert.True(t, items[0].Price.Equal(decimal.RequireFromString("4.50")))
	assert.Equal(t, "Blueberry Muffin", items[1].Name)
	assert.True(t, items[1].Price.Equal(decimal.RequireFromString("3.25")))
	assert.Equal(t, "Orange Juice", items[2].Name)
	assert.True(t, items[2].Price.Equal(decimal.NewFromInt(2)))
}

func TestExtractItemsSkipsSummaryRows(t *testing.T) {
	lines := []string{
		"Grand Total 15.00",
		"Sales Tax 1.20",
		"Change Due 4.00",
	}
	assert.Empty(t, extractItems(lines))
}

func TestExtractItemsSkipsShortNames(t *testing.T) {
	items := extractItems([]string{"ab 4.50", "abc 4.50"})
	require.Len(t, items, 1)
	assert.Equal(t, "abc", items[0].Name)
}

func TestExtractItemsPreservesOrderAndDuplicates(t *testing.T) {
	lines := []string{"Coffee 2.50", "Coffee 2.50", "Bagel 1.75"}
	items := extractItems(lines)
	require.Len(t, items, 3)
	assert.Equal(t, "Coffee", items[0].Name)
	assert.Equal(t, "Coffee", items[1].Name)
	assert.Equal(t, "Bagel", items[2].Name)
}

func TestExtractItemsNonItemLines(t *testing.T) {
	lines := []string{
		"STARBUCKS #1234",   // no trailing price
		"Thank you!",        // no price at all
		"$3.50",             // price with no name
	}
	assert.Empty(t, extractItems(lines))
}
