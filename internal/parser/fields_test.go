package parser

import (
	"testing"

	"github.com/expenseflow/receipt-ocr-service/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestExtractDate(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"slash date", "Date: 03/15/2024", "03/15/2024"},
		{"dash date", "3-5-24 register 2", "3-5-24"},
		{"textual month first", "March 15, 2024", "March 15, 2024"},
		{"textual day first", "15 March 2024", "15 March 2024"},
		{"no date", "no digits that look like one", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractDate(tt.text))
		})
	}
}

func TestExtractDatePrecedence(t *testing.T) {
	// The slash form outranks the textual form regardless of position
	// in the text.
	text := "Printed March 16, 2024\nSale date 03/15/2024"
	assert.Equal(t, "03/15/2024", extractDate(text))
}

func TestExtractDateNotValidated(t *testing.T) {
	// The matched substring is returned verbatim; impossible calendar
	// values pass through.
	assert.Equal(t, "13/45/2024", extractDate("13/45/2024"))
}

func TestExtractPhone(t *testing.T) {
	assert.Equal(t, "(206) 555-0123", extractPhone("Call us at (206) 555-0123"))
	assert.Equal(t, "555-123-4567", extractPhone("555-123-4567"))
	assert.Equal(t, "", extractPhone("no phone here"))
}

func TestExtractReceiptNumber(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"receipt label", "Receipt#12345", "12345"},
		{"transaction label", "Transaction: a1b2c3", "a1b2c3"},
		{"order label", "Order #778899", "778899"},
		{"invoice label", "INVOICE 4217", "4217"},
		{"ref label", "Ref:XK92", "xk92"},
		{"no label", "1234567890", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractReceiptNumber(tt.text))
		})
	}
}

func TestExtractAddress(t *testing.T) {
	// The match comes from the lowercased text.
	assert.Equal(t, "123 main st", extractAddress("123 Main St, Seattle"))
	// Alternation prefers the short suffix, so "avenue" matches as "ave".
	assert.Equal(t, "42 oak ave", extractAddress("42 Oak Avenue"))
	assert.Equal(t, "", extractAddress("Main Street only, no number"))
}

func TestExtractPaymentMethod(t *testing.T) {
	tests := []struct {
		name string
		text string
		want models.PaymentMethod
	}{
		{"visa brand", "Paid with VISA card", models.PaymentCredit},
		{"mastercard brand", "MASTERCARD ****1234", models.PaymentCredit},
		{"amex brand", "AMEX", models.PaymentCredit},
		{"cash", "Paid in CASH", models.PaymentCash},
		{"credit word", "CREDIT SALE", models.PaymentCredit},
		{"debit word", "Debit tend 20.00", models.PaymentDebit},
		{"masked card suffix", "Card ending in 5678", models.PaymentCredit},
		{"nothing recognized", "thank you", models.PaymentUnknown},
		{"empty", "", models.PaymentUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractPaymentMethod(tt.text))
		})
	}
}
