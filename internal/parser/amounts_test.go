package parser

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractTotalAnchored(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"labeled total", "Total: $45.99", "45.99"},
		{"total without dollar sign", "TOTAL 12.50", "12.5"},
		{"amount label", "Amount: 23.10", "23.1"},
		{"balance label", "Balance: $7.00", "7"},
		{"trailing total label", "$ 15.75 TOTAL", "15.75"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := extractTotal(tt.text)
			require.NotNil(t, got)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)),
				"got %s, want %s", got, tt.want)
		})
	}
}

func TestExtractTotalLargestWins(t *testing.T) {
	// Both the subtotal line and the total line anchor on "total";
	// the larger candidate is kept.
	text := "Subtotal: 7.75\nTax: 0.70\nTotal: $8.45"
	got := extractTotal(text)
	require.NotNil(t, got)
	assert.True(t, got.Equal(decimal.RequireFromString("8.45")))
}

func TestExtractTotalFallback(t *testing.T) {
	// No label anywhere: any dollars-and-cents amount qualifies and the
	// largest wins.
	text := "Coffee 3.50\nMuffin 2.25\n8.75"
	got := extractTotal(text)
	require.NotNil(t, got)
	assert.True(t, got.Equal(decimal.RequireFromString("8.75")))
}

func TestExtractTotalRange(t *testing.T) {
	t.Run("above maximum rejected", func(t *testing.T) {
		assert.Nil(t, extractTotal("Total: 99999.99"))
	})

	t.Run("maximum accepted", func(t *testing.T) {
		got := extractTotal("Total: 10000.00")
		require.NotNil(t, got)
		assert.True(t, got.Equal(decimal.NewFromInt(10000)))
	})

	t.Run("below minimum rejected", func(t *testing.T) {
		assert.Nil(t, extractTotal("Total: 0.00"))
	})

	t.Run("no amounts at all", func(t *testing.T) {
		assert.Nil(t, extractTotal("thank you for shopping"))
	})
}

func TestExtractSubtotal(t *testing.T) {
	got := extractSubtotal("Subtotal: $19.99\nTotal: $21.59")
	require.NotNil(t, got)
	assert.True(t, got.Equal(decimal.RequireFromString("19.99")))

	assert.Nil(t, extractSubtotal("Total: $21.59"))
}

func TestExtractTax(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"tax label", "Tax: 1.60", "1.6"},
		{"gst label", "GST 0.85", "0.85"},
		{"vat label", "VAT: $4.20", "4.2"},
		{"sales tax label", "Sales Tax: 2.05", "2.05"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := extractTax(tt.text)
			require.NotNil(t, got)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)))
		})
	}

	assert.Nil(t, extractTax("no levies here"))
}
